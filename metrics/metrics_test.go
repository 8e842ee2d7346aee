package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordLikeToggle(t *testing.T) {
	m := New()
	m.RecordLikeToggle(OpLike)
	m.RecordLikeToggle(OpLike)
	m.RecordLikeToggle(OpUnlike)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.LikeToggles.WithLabelValues(OpLike)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LikeToggles.WithLabelValues(OpUnlike)))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordLikeToggle(OpLike)
		m.ObserveRequest(http.MethodGet, "/cards", http.StatusOK, time.Millisecond)
	})
}

func TestHandlerExposesRequests(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/cards", http.StatusOK, 5*time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `mesto_http_requests_total{method="GET",route="/cards",status="200"} 1`)
}
