package auth

import (
	"testing"
	"time"

	"mesto-restful/apperr"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestIssueAndVerify(t *testing.T) {
	svc := NewTokenService(testSecret, 0)
	assert.Equal(t, DefaultTokenTTL, svc.TTL())

	subject := uuid.New()
	token, err := svc.Issue(subject)
	require.NoError(t, err)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, subject, got)
}

func TestVerifyExpired(t *testing.T) {
	svc := NewTokenService(testSecret, DefaultTokenTTL)
	svc.now = func() time.Time { return time.Now().Add(-DefaultTokenTTL - time.Minute) }

	token, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.True(t, IsInvalidToken(err))
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}

func TestVerifyRejects(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	subject := uuid.New().String()

	sign := func(method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	validClaims := func() *CustomClaims {
		return &CustomClaims{
			UserID:           subject,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		}
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"other secret", sign(jwt.SigningMethodHS256, []byte("other"), validClaims())},
		{"alg none", sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims())},
		{"hs512", sign(jwt.SigningMethodHS512, testSecret, validClaims())},
		{"no expiry", sign(jwt.SigningMethodHS256, testSecret, &CustomClaims{UserID: subject})},
		{"bad subject", sign(jwt.SigningMethodHS256, testSecret, &CustomClaims{
			UserID:           "12345",
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := svc.Verify(tt.token)
			require.Error(t, err)
			assert.True(t, IsInvalidToken(err))
			assert.Equal(t, uuid.Nil, id)

			_, msg := apperr.HTTPStatus(err)
			assert.Equal(t, UnauthorizedMessage, msg)
		})
	}
}

func TestCanMutate(t *testing.T) {
	owner := uuid.New()
	assert.True(t, CanMutate(owner, owner))
	assert.False(t, CanMutate(uuid.New(), owner))
	assert.False(t, CanMutate(uuid.Nil, uuid.Nil))
}
