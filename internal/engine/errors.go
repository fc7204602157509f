package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while running a search.
//
// Runtime errors include:
//   - Invalid request: empty input or a level outside the supported range
//   - Internal fault: a panic recovered from inside the search
//
// Timeouts, cancellation and the state cap are not errors; they are
// reported through Result.Status.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeInvalidRequest indicates a request the engine cannot search.
	ErrCodeInvalidRequest RuntimeErrorCode = "INVALID_REQUEST"

	// ErrCodeInternalFault indicates the search panicked and was recovered.
	ErrCodeInternalFault RuntimeErrorCode = "INTERNAL_FAULT"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidRequest returns true if the error is an invalid request error.
// Uses errors.As to handle wrapped errors.
func IsInvalidRequest(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeInvalidRequest
	}
	return false
}

// IsInternalFault returns true if the error is a recovered internal fault.
// Uses errors.As to handle wrapped errors.
func IsInternalFault(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeInternalFault
	}
	return false
}

// NewInvalidRequestError creates a RuntimeError for a rejected request.
func NewInvalidRequestError(format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeInvalidRequest,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewInternalFault creates a RuntimeError from a recovered panic value.
func NewInternalFault(recovered any, stack []byte) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeInternalFault,
		Message: fmt.Sprintf("search panicked: %v", recovered),
		Details: map[string]string{
			"stack": string(stack),
		},
	}
}
