package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Sequence errors raised by terminal operators.
const (
	// ErrCodeNoElements indicates a terminal operator required at least one element.
	ErrCodeNoElements ErrorCode = "NO_ELEMENTS"
	// ErrCodeNoMatch indicates no element satisfied the predicate.
	ErrCodeNoMatch ErrorCode = "NO_MATCH"
	// ErrCodeMoreThanOne indicates a single-element operator saw a second element.
	ErrCodeMoreThanOne ErrorCode = "MORE_THAN_ONE"
	// ErrCodeOutOfRange indicates an index past the end of the sequence.
	ErrCodeOutOfRange ErrorCode = "OUT_OF_RANGE"
	// ErrCodeDuplicateKey indicates a key selector produced the same key twice.
	ErrCodeDuplicateKey ErrorCode = "DUPLICATE_KEY"
)

// Request errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMethodNotAllowed indicates the route exists for other methods only.
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// IsSequenceCode reports whether code is raised by a terminal operator
// rather than by surrounding application code.
func IsSequenceCode(code ErrorCode) bool {
	switch code {
	case ErrCodeNoElements, ErrCodeNoMatch, ErrCodeMoreThanOne, ErrCodeOutOfRange, ErrCodeDuplicateKey:
		return true
	}
	return false
}
