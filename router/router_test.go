package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mesto-restful/auth"
	"mesto-restful/database/dbtest"
	"mesto-restful/metrics"
	"mesto-restful/repositories"
	"mesto-restful/services"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	t         *testing.T
	container *restful.Container
	tokens    *auth.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := dbtest.New(t)
	tokens := auth.NewTokenService([]byte("router-test-secret"), auth.DefaultTokenTTL)
	userService := services.NewUserService(repositories.NewUserRepository(db), auth.NewPasswordHasher(), tokens)
	cardService := services.NewCardService(repositories.NewCardRepository(db), nil)

	container := New(Options{
		UserService:    userService,
		CardService:    cardService,
		Tokens:         tokens,
		CookieName:     "jwt",
		AllowedOrigins: []string{"http://localhost:3000"},
		Metrics:        metrics.New(),
		Logger:         zap.NewNop(),
	})
	return &testServer{t: t, container: container, tokens: tokens}
}

// do sends a JSON request, optionally carrying a session cookie.
func (s *testServer) do(method, path string, body any, session string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", restful.MIME_JSON)
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: "jwt", Value: session})
	}
	w := httptest.NewRecorder()
	s.container.ServeHTTP(w, req)
	return w
}

// signUpAndIn registers an account and returns its session cookie value and id.
func (s *testServer) signUpAndIn(email string) (string, string) {
	s.t.Helper()
	w := s.do(http.MethodPost, "/signup", map[string]string{"email": email, "password": "password"}, "")
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]any
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &created))

	w = s.do(http.MethodPost, "/signin", map[string]string{"email": email, "password": "password"}, "")
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == "jwt" {
			return c.Value, created["_id"].(string)
		}
	}
	s.t.Fatal("signin did not set the session cookie")
	return "", ""
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestSignUp(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/signup", map[string]string{"email": "a@b.co", "password": "x"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "a@b.co", body["email"])
	assert.NotEmpty(t, body["_id"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, w.Body.String(), "$2a$")

	w = s.do(http.MethodPost, "/signup", map[string]string{"email": "a@b.co", "password": "y"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/signup", map[string]string{"email": "not-an-email", "password": "y"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/signup", map[string]string{"email": "ru@example.com", "password": strings.Repeat("я", 72)}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["message"], "72 bytes")
}

func TestSignUpMalformedBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", restful.MIME_JSON)
	w := httptest.NewRecorder()
	s.container.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignIn(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/signup", map[string]string{"email": "me@example.com", "password": "password"}, "")

	w := s.do(http.MethodPost, "/signin", map[string]string{"email": "me@example.com", "password": "password"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "jwt" {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, session.SameSite)
	assert.Equal(t, int(auth.DefaultTokenTTL.Seconds()), session.MaxAge)

	_, err := s.tokens.Verify(session.Value)
	require.NoError(t, err)

	w = s.do(http.MethodPost, "/signin", map[string]string{"email": "me@example.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestAuthGate(t *testing.T) {
	s := newTestServer(t)

	card := map[string]string{"name": "Arkhyz", "link": "https://example.com/a.jpg"}
	paths := []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/users", nil},
		{http.MethodGet, "/users/me", nil},
		{http.MethodGet, "/cards", nil},
		{http.MethodPost, "/cards", card},
		{http.MethodDelete, "/cards/" + uuid.NewString(), nil},
		{http.MethodPut, "/cards/" + uuid.NewString() + "/likes", nil},
	}
	for _, p := range paths {
		for _, session := range []string{"", "garbage"} {
			w := s.do(p.method, p.path, p.body, session)
			assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", p.method, p.path)
			assert.Equal(t, auth.UnauthorizedMessage, decode[map[string]string](t, w)["message"])
		}
	}
}

func TestUsers(t *testing.T) {
	s := newTestServer(t)
	session, myID := s.signUpAndIn("me@example.com")
	_, otherID := s.signUpAndIn("other@example.com")

	w := s.do(http.MethodGet, "/users/me", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, myID, decode[map[string]any](t, w)["_id"])

	w = s.do(http.MethodGet, "/users/"+otherID, nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "other@example.com", decode[map[string]any](t, w)["email"])

	w = s.do(http.MethodGet, "/users/"+uuid.NewString(), nil, session)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/users/12345", nil, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/users", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 2)

	w = s.do(http.MethodPatch, "/users/me", map[string]string{"name": "Marie", "about": "Chemist", "email": "hijack@example.com"}, session)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[map[string]any](t, w)
	assert.Equal(t, "Marie", me["name"])
	assert.Equal(t, "me@example.com", me["email"])

	w = s.do(http.MethodPatch, "/users/me/avatar", map[string]string{"avatar": "https://example.com/a.png"}, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://example.com/a.png", decode[map[string]any](t, w)["avatar"])

	w = s.do(http.MethodPatch, "/users/me/avatar", map[string]string{"avatar": "nope"}, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCardLifecycle(t *testing.T) {
	s := newTestServer(t)
	alice, aliceID := s.signUpAndIn("alice@example.com")
	bob, bobID := s.signUpAndIn("bob@example.com")

	w := s.do(http.MethodPost, "/cards", map[string]string{"name": "Arkhyz", "link": "https://example.com/arkhyz.jpg"}, alice)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	card := decode[map[string]any](t, w)
	cardID := card["_id"].(string)
	assert.Equal(t, aliceID, card["owner"].(map[string]any)["_id"])
	assert.Empty(t, card["likes"])
	assert.Equal(t, false, card["isLiked"])

	w = s.do(http.MethodPost, "/cards", map[string]string{"name": "X", "link": "ftp:/bad"}, alice)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// bob likes twice, alice removes a like she never gave
	for range 2 {
		w = s.do(http.MethodPut, "/cards/"+cardID+"/likes", nil, bob)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	liked := decode[map[string]any](t, w)
	assert.Equal(t, true, liked["isLiked"])
	likes := liked["likes"].([]any)
	require.Len(t, likes, 1)
	assert.Equal(t, bobID, likes[0].(map[string]any)["_id"])
	assert.NotContains(t, likes[0].(map[string]any), "password")

	w = s.do(http.MethodDelete, "/cards/"+cardID+"/likes", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	unliked := decode[map[string]any](t, w)
	assert.Len(t, unliked["likes"], 1)
	assert.Equal(t, false, unliked["isLiked"])

	// isLiked follows whoever is asking
	w = s.do(http.MethodGet, "/cards", nil, bob)
	require.Equal(t, http.StatusOK, w.Code)
	bobView := decode[[]map[string]any](t, w)
	require.Len(t, bobView, 1)
	assert.Equal(t, true, bobView[0]["isLiked"])

	w = s.do(http.MethodGet, "/cards", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	aliceView := decode[[]map[string]any](t, w)
	require.Len(t, aliceView, 1)
	assert.Equal(t, false, aliceView[0]["isLiked"])

	w = s.do(http.MethodDelete, "/cards/"+cardID, nil, bob)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, "/cards/"+cardID, nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Card deleted", decode[map[string]string](t, w)["message"])

	w = s.do(http.MethodPut, "/cards/"+cardID+"/likes", nil, bob)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(http.MethodDelete, "/cards/"+cardID, nil, alice)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/cards/not-an-id", nil, alice)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPut, "/cards/not-an-id/likes", nil, alice)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignOut(t *testing.T) {
	s := newTestServer(t)
	session, _ := s.signUpAndIn("me@example.com")

	w := s.do(http.MethodPost, "/signout", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "jwt", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestOperationalEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/crash-test", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "An error occurred on the server", decode[map[string]string](t, w)["message"])

	w = s.do(http.MethodGet, "/apidocs.json", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/cards/{card-id}/likes")

	w = s.do(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mesto_http_requests_total")

	w = s.do(http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
