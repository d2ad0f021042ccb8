package service

import (
	"errors"
	"fmt"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a vendor or purchase order does not exist
var ErrNotFound = errors.New("not found")

// ValidationError reports a request the service refuses to apply
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err carries a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// storeErr translates a gorm error into the service's error kinds
func storeErr(err error, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return eris.Wrap(err, action)
}
