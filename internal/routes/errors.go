package routes

import (
	"errors"
	"net/http"

	"attendance-capture/internal/jwt"
)

// HTTPError represents an error with an associated HTTP status code and user message
type HTTPError struct {
	Err        error  // The underlying error
	StatusCode int    // HTTP status code
	Message    string // User-friendly message
	Internal   bool   // Whether this is an internal error (hide details from user)
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError creates a new HTTPError
func NewHTTPError(statusCode int, err error, message string) *HTTPError {
	return &HTTPError{
		Err:        err,
		StatusCode: statusCode,
		Message:    message,
		Internal:   statusCode >= 500,
	}
}

// Routes-specific errors (that don't conflict with other packages)
var (
	// Validation errors
	ErrInvalidRequest   = errors.New("invalid request")
	ErrMissingParameter = errors.New("missing required parameter")
	ErrInvalidParameter = errors.New("invalid parameter")

	// Submission errors
	ErrMissingPhoto          = errors.New("photo is required")
	ErrInvalidAttendanceType = errors.New("attendance type must be in or out")

	// Install offer errors
	ErrOfferNotFound = errors.New("install offer not found")

	// Internal errors
	ErrInternalServer     = errors.New("internal server error")
	ErrDatabaseError      = errors.New("database error")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// errorStatusMap maps errors to HTTP status codes
var errorStatusMap = map[error]int{
	// 400 Bad Request
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingParameter:      http.StatusBadRequest,
	ErrInvalidParameter:      http.StatusBadRequest,
	ErrMissingPhoto:          http.StatusBadRequest,
	ErrInvalidAttendanceType: http.StatusBadRequest,

	// 401 Unauthorized
	jwt.ErrNonValidToken: http.StatusUnauthorized,
	jwt.ErrInvalidNonce:  http.StatusUnauthorized,

	// 404 Not Found
	ErrOfferNotFound: http.StatusNotFound,

	// 500 Internal Server Error
	ErrInternalServer: http.StatusInternalServerError,
	ErrDatabaseError:  http.StatusInternalServerError,

	// 503 Service Unavailable
	ErrServiceUnavailable: http.StatusServiceUnavailable,
}

// GetErrorStatus returns the HTTP status for an error, walking wrapped errors.
func GetErrorStatus(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}

	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// ErrorInfo contains error metadata for user-facing errors
type ErrorInfo struct {
	Message string
}

// GetErrorInfo returns the user-facing message for an error. Internal
// errors keep their detail in the log only.
func GetErrorInfo(err error) ErrorInfo {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Internal {
			return ErrorInfo{Message: "Internal server error"}
		}
		return ErrorInfo{Message: httpErr.Message}
	}

	if GetErrorStatus(err) >= 500 {
		return ErrorInfo{Message: "Internal server error"}
	}
	return ErrorInfo{Message: err.Error()}
}
