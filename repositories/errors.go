package repositories

import (
	"errors"

	"mesto-restful/apperr"

	"gorm.io/gorm"
)

// ErrEmailTakenMessage is returned to clients when an email is already registered.
const ErrEmailTakenMessage = "User with this email already exists"

// notFound classifies a missing row and leaves every other failure untouched.
func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(apperr.KindNotFound, err, msg)
	}
	return err
}
