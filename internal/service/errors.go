package service

import (
	"errors"

	"github.com/eventtrail/eventtrail-go/internal/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrEventNotFound      = errors.New("event does not exist or you do not have access to it")
	ErrInvalidDateRange   = errors.New("end date cannot be before start date")
)

// ValidationError carries field-level messages for a request that failed
// input validation. Handlers surface the fields as the details array of a
// 400 response.
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
