package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"invalid input", InvalidInput("bad id"), http.StatusBadRequest, "bad id"},
		{"unauthenticated", Unauthenticated("Authorization required"), http.StatusUnauthorized, "Authorization required"},
		{"forbidden", Forbidden("not yours"), http.StatusForbidden, "not yours"},
		{"not found", NotFound("card %s not found", "42"), http.StatusNotFound, "card 42 not found"},
		{"conflict", Conflict("email taken"), http.StatusConflict, "email taken"},
		{"rate limited", RateLimited("slow down"), http.StatusTooManyRequests, "slow down"},
		{"plain error", errors.New("connection refused"), http.StatusInternalServerError, InternalMessage},
		{"unknown oops code", oops.Code("SOMETHING_ELSE").Errorf("boom"), http.StatusInternalServerError, InternalMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := HTTPStatus(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	base := NotFound("card not found")

	wrapped := fmt.Errorf("delete card: %w", base)
	assert.Equal(t, KindNotFound, KindOf(wrapped))

	withContext := oops.With("card_id", "abc").Wrap(base)
	assert.Equal(t, KindNotFound, KindOf(withContext))
	assert.True(t, Is(withContext, KindNotFound))

	status, msg := HTTPStatus(withContext)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "card not found", msg)
}

func TestWrapHidesCause(t *testing.T) {
	err := Wrap(KindConflict, errors.New("Error 1062: Duplicate entry"), "User with this email already exists")

	status, msg := HTTPStatus(err)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "User with this email already exists", msg)
}

func TestKindOfNil(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.False(t, Is(nil, KindInternal))
}

func TestGRPCStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{InvalidInput("x"), codes.InvalidArgument},
		{Unauthenticated("x"), codes.Unauthenticated},
		{Forbidden("x"), codes.PermissionDenied},
		{NotFound("x"), codes.NotFound},
		{Conflict("x"), codes.AlreadyExists},
		{RateLimited("x"), codes.ResourceExhausted},
		{errors.New("x"), codes.Internal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, status.Code(GRPCStatus(tt.err)))
	}

	passthrough := status.Error(codes.Unavailable, "down")
	assert.Equal(t, codes.Unavailable, status.Code(GRPCStatus(passthrough)))
	assert.NoError(t, GRPCStatus(nil))
}

func TestEveryKindIsMapped(t *testing.T) {
	kinds := []Kind{KindInvalidInput, KindUnauthenticated, KindForbidden, KindNotFound, KindConflict, KindRateLimited, KindInternal}
	seen := map[int]Kind{}
	for _, k := range kinds {
		m, ok := mappings[k]
		assert.True(t, ok, "kind %s has no mapping", k)
		prev, dup := seen[m.status]
		assert.False(t, dup, "status %d used by %s and %s", m.status, prev, k)
		seen[m.status] = k
	}
}
