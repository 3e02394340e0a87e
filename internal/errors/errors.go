package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidUsername is returned when a username violates the 3-20
	// character bound or contains whitespace.
	ErrInvalidUsername = errors.New("username must be 3-20 characters without spaces")
	// ErrWeakPassword is returned when a password is outside the 6-50 bound.
	ErrWeakPassword = errors.New("password must be 6-50 characters")
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrMalformedHeader is returned when the Authorization header lacks the
	// Bearer prefix.
	ErrMalformedHeader = errors.New("invalid token format")
	// ErrMissingToken is returned when no token follows the Bearer prefix.
	ErrMissingToken = errors.New("no token provided")
	// ErrInvalidToken is returned on any signature, structure or expiry failure.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidTokenStructure is returned when username or role claims are absent.
	ErrInvalidTokenStructure = errors.New("invalid token structure")
	// ErrUserNotFound is returned when the token subject no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrSuperuserOnly is returned when a task operation requires the
	// superuser role.
	ErrSuperuserOnly = errors.New("operation requires superuser role")
	// ErrNotAssignee is returned when a user completes a task assigned to
	// someone else.
	ErrNotAssignee = errors.New("only the assigned user can complete this task")
	// ErrInvalidAssignee is returned when the assignee is missing or a superuser.
	ErrInvalidAssignee = errors.New("assigned user not found or is a superuser")
	// ErrInvalidDueDate is returned when the due date is in the past.
	ErrInvalidDueDate = errors.New("due date cannot be in the past")
	// ErrInvalidPriority is returned when the priority is not low/medium/high.
	ErrInvalidPriority = errors.New("priority must be low, medium or high")
	// ErrInvalidTaskID is returned when a task id is not a well-formed UUID.
	ErrInvalidTaskID = errors.New("invalid task id format")
	// ErrTaskNotFound is returned when no task exists for the given id.
	ErrTaskNotFound = errors.New("task not found")
	// ErrDeleteFailed is returned when the store reports zero rows removed
	// despite the prior existence check.
	ErrDeleteFailed = errors.New("failed to delete task")
)

// ErrorResponse represents a standardized error response.
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

// MapErrorToHTTP maps domain errors to HTTP errors. Unrecognized errors
// collapse to an opaque internal error so store details never leak.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUsernameTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "USERNAME_TAKEN")
	case errors.Is(err, ErrInvalidUsername):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_USERNAME")
	case errors.Is(err, ErrWeakPassword):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "WEAK_PASSWORD")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrMalformedHeader):
		return NewHTTPError(http.StatusForbidden, err.Error(), "MALFORMED_HEADER")
	case errors.Is(err, ErrMissingToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "MISSING_TOKEN")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrInvalidTokenStructure):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_TOKEN_STRUCTURE")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrSuperuserOnly), errors.Is(err, ErrNotAssignee):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrInvalidAssignee):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ASSIGNEE")
	case errors.Is(err, ErrInvalidDueDate):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_DUE_DATE")
	case errors.Is(err, ErrInvalidPriority):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PRIORITY")
	case errors.Is(err, ErrInvalidTaskID):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_TASK_ID")
	case errors.Is(err, ErrTaskNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TASK_NOT_FOUND")
	case errors.Is(err, ErrDeleteFailed):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "DELETE_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
