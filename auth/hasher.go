package auth

import (
	"errors"

	"mesto-restful/apperr"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used for every stored password.
const BcryptCost = 10

// PasswordHasher hashes and checks account passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

type bcryptHasher struct {
	cost int
}

var _ PasswordHasher = (*bcryptHasher)(nil)

func NewPasswordHasher() PasswordHasher {
	return &bcryptHasher{cost: BcryptCost}
}

// Hash rejects passwords longer than bcrypt's 72-byte input as InvalidInput.
func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperr.Wrap(apperr.KindInvalidInput, err, "Password must be at most 72 bytes")
	}
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify never errors: a malformed digest is simply a mismatch.
func (h *bcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
