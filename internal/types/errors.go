package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type
type ErrorCode string

const (
	// Caller errors
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrForbidden    ErrorCode = "FORBIDDEN"

	// Lookup errors
	ErrNotFound ErrorCode = "NOT_FOUND"
	ErrConflict ErrorCode = "CONFLICT"

	// Bet state errors
	ErrInvalidState        ErrorCode = "INVALID_STATE"
	ErrInsufficientBalance ErrorCode = "INSUFFICIENT_BALANCE"

	// Input errors
	ErrValidation ErrorCode = "VALIDATION_ERROR"

	// System errors
	ErrInternalError ErrorCode = "INTERNAL_ERROR"
)

// BetError is the error every betting operation surfaces to its caller
type BetError struct {
	Code    ErrorCode
	Message string
	Err     error // Underlying error, if any
}

// Error implements the error interface
func (e *BetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *BetError) Unwrap() error {
	return e.Err
}

// NewBetError creates a new BetError
func NewBetError(code ErrorCode, message string) *BetError {
	return &BetError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error in a BetError
func WrapError(code ErrorCode, message string, err error) *BetError {
	return &BetError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsBetError checks if an error is a BetError and has a specific code
func IsBetError(err error, code ErrorCode) bool {
	var betErr *BetError
	if !errors.As(err, &betErr) {
		return false
	}
	return betErr.Code == code
}

// CodeOf returns the code carried by err, or ErrInternalError for anything
// that is not a BetError.
func CodeOf(err error) ErrorCode {
	var betErr *BetError
	if errors.As(err, &betErr) {
		return betErr.Code
	}
	return ErrInternalError
}
