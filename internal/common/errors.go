package common

import (
	"errors"
	"net/http"
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// NewValidationError reports a malformed or incomplete request payload. It is
// surfaced before any persistence or render attempt.
func NewValidationError(message string, details any) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: message, HTTPStatus: http.StatusBadRequest, Details: details}
}

// NewNotFoundError reports an unknown quote, coupon, or product reference.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: message, HTTPStatus: http.StatusNotFound}
}

// NewRenderError reports a document generation failure. A quote that was
// already saved is never rolled back because its export failed.
func NewRenderError(err error) *AppError {
	return &AppError{Code: "RENDER_FAILED", Message: "failed to generate document", HTTPStatus: http.StatusBadGateway, Err: err}
}

// NewTransportError reports a delivery failure for a document that generated
// correctly, so callers can tell it apart from a render failure.
func NewTransportError(err error) *AppError {
	return &AppError{Code: "EMAIL_FAILED", Message: "document generated but delivery failed", HTTPStatus: http.StatusBadGateway, Err: err}
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}
