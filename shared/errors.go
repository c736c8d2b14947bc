package shared

import (
	"errors"
	"net/http"
)

// AppError carries an HTTP status alongside a client-safe message. Handlers
// return these and let the fiber error handler shape the response; anything
// that is not an AppError is treated as an unexpected 500.
type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(statusCode int, err error, message string) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Err: err}
}

func NewBadRequestError(err error, message string) *AppError {
	return NewAppError(http.StatusBadRequest, err, message)
}

func NewValidationError(errs map[string]string) *AppError {
	return &AppError{
		StatusCode: http.StatusBadRequest,
		Message:    "Validation failed",
		Data:       errs,
	}
}

func NewUnauthorizedError(err error, message string) *AppError {
	return NewAppError(http.StatusUnauthorized, err, message)
}

// NewUpstreamError marks a failure attributable to an external collaborator
// (LLM, payment gateway), surfaced as 502 rather than 500.
func NewUpstreamError(err error, message string) *AppError {
	return NewAppError(http.StatusBadGateway, err, message)
}

func NewServiceUnavailableError(err error, message string) *AppError {
	return NewAppError(http.StatusServiceUnavailable, err, message)
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
