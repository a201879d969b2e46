package domain

import (
	"errors"
	"fmt"
)

// Session and account errors
var (
	ErrInvalidCredentials = errors.New("invalid email/phone or password")
	ErrEmailInUse         = errors.New("email already in use")
	ErrNotLoggedIn        = errors.New("login required")
)

// Lookup errors
var (
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
)

// ValidationError reports a malformed draft rejected at the boundary
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
