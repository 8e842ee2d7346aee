package auth

import (
	"errors"
	"fmt"
	"time"

	"mesto-restful/apperr"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// DefaultTokenTTL is how long a session token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// UnauthorizedMessage is the single message every authentication failure carries.
const UnauthorizedMessage = "Authorization required"

// ErrInvalidToken covers every reason a token is rejected. Callers must not
// learn which check failed.
var ErrInvalidToken = errors.New("invalid token")

func invalidToken() error {
	return apperr.Wrap(apperr.KindUnauthenticated, ErrInvalidToken, UnauthorizedMessage)
}

// CustomClaims is the token payload.
type CustomClaims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: secret, ttl: ttl, now: time.Now}
}

// TTL is the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for subject that expires after the configured TTL.
func (s *TokenService) Issue(subject uuid.UUID) (string, error) {
	now := s.now()
	claims := &CustomClaims{
		UserID: subject.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the subject of a valid token. Every rejection wraps ErrInvalidToken
// and is classified Unauthenticated.
func (s *TokenService) Verify(tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, invalidToken()
	}

	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	claims := &CustomClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, invalidToken()
	}

	// jwt/v4 treats a missing exp as valid; a session token must always carry one.
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(s.now()) {
		return uuid.Nil, invalidToken()
	}

	subject, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, invalidToken()
	}
	return subject, nil
}

// IsInvalidToken reports whether err came from Verify rejecting a token.
func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}
