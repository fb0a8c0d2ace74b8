package models

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP status codes at the handler boundary.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError reports a malformed or constraint-violating input field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
