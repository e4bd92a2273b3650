package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error taxonomy. Only structurally fatal conditions surface as errors;
// per-field "not found" is modeled as data, never an error.
var (
	// ErrUnreadableImage: normalization cannot produce usable bytes.
	// Fatal, aborts before recognition.
	ErrUnreadableImage = errors.New("unreadable image")
	// ErrEmptyOrUnusableText: recognized text is empty or below the minimum
	// length. Extraction still yields an all-null, review-flagged result;
	// this sentinel classifies the condition and is never returned from the
	// pipeline.
	ErrEmptyOrUnusableText = errors.New("empty or unusable text")
	// ErrInvalidFieldPattern: a configuration error in the pattern library.
	// Fatal at startup, never per-document.
	ErrInvalidFieldPattern = errors.New("invalid field pattern")
	// ErrMalformedInput: caller supplied neither image nor text.
	ErrMalformedInput = errors.New("malformed input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
