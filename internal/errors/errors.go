package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated is returned when no identity was resolved for the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the identity's role or ownership does not allow the operation.
	ErrForbidden = errors.New("operation not allowed for this user")
	// ErrJobNotFound is returned when a job is absent or not visible to the requesting user.
	ErrJobNotFound = errors.New("job not found")
	// ErrTaskNotFound is returned when a job task does not exist.
	ErrTaskNotFound = errors.New("job task not found")
	// ErrJobAlreadyDeleted is returned when deleting a job that is already soft-deleted.
	ErrJobAlreadyDeleted = errors.New("job is already deleted")
	// ErrEmptyDescription is returned when a job description is empty after trimming.
	ErrEmptyDescription = errors.New("description should not be empty")
	// ErrInvalidCredentials is returned when login fails.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ErrorResponse represents a standardized error response. Callers branch on
// Code, not on the free-text message.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors with stable codes.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrJobNotFound), errors.Is(err, ErrTaskNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrJobAlreadyDeleted):
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_DELETED")
	case errors.Is(err, ErrEmptyDescription):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_USER_OR_EMAIL")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
