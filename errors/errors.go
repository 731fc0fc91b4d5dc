package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an *AppError with the same code.
// Details and message are ignored, so a package-level sentinel matches
// every error raised with its code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// --- Sequence error constructors ---

// NoElements reports that op needed at least one element.
func NoElements(op string) *AppError {
	return &AppError{
		Code: ErrCodeNoElements, Message: "sequence contains no elements",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    opDetails(op),
	}
}

// NoMatch reports that no element satisfied op's predicate.
func NoMatch(op string) *AppError {
	return &AppError{
		Code: ErrCodeNoMatch, Message: "sequence contains no matching element",
		HTTPStatus: http.StatusNotFound,
		Details:    opDetails(op),
	}
}

// MoreThanOne reports that op expected at most one (matching) element.
func MoreThanOne(op string) *AppError {
	return &AppError{
		Code: ErrCodeMoreThanOne, Message: "sequence contains more than one matching element",
		HTTPStatus: http.StatusConflict,
		Details:    opDetails(op),
	}
}

// OutOfRange reports that index lies outside the sequence.
func OutOfRange(op string, index int) *AppError {
	return &AppError{
		Code: ErrCodeOutOfRange, Message: fmt.Sprintf("index %d is out of range", index),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"operation": op, "index": index},
	}
}

// DuplicateKey reports that op saw key more than once.
func DuplicateKey(op string, key any) *AppError {
	return &AppError{
		Code: ErrCodeDuplicateKey, Message: fmt.Sprintf("duplicate key %v", key),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"operation": op, "key": key},
	}
}

// --- Request error constructors ---

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Details: details,
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

func opDetails(op string) map[string]any {
	if op == "" {
		return nil
	}
	return map[string]any{"operation": op}
}

// Wrap converts err into an *AppError. AppErrors anywhere in the chain are
// returned as-is; anything else becomes an internal error with err as cause.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
