// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Validation errors for user-supplied records.
	ErrInvalidDay      = errors.New("day of month must be between 1 and 31")
	ErrNegativeAmount  = errors.New("amount cannot be negative")
	ErrMissingDate     = errors.New("date is required")
	ErrInvalidMonthKey = errors.New("invalid month key")
	ErrInvalidMethod   = errors.New("invalid payment method")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsUserError reports whether err carries a message meant for the user.
func IsUserError(err error) bool {
	var userErr *UserError
	return errors.As(err, &userErr)
}
