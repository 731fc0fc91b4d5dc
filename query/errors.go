package query

import (
	"net/http"

	apperrors "github.com/kbukum/seqkit/errors"
)

// Sentinels for errors.Is. Errors returned by terminal operators carry the
// same code plus the name of the failing operation.
var (
	// ErrNoElements is returned when an operator needs at least one element.
	ErrNoElements = apperrors.New(apperrors.ErrCodeNoElements, "sequence contains no elements", http.StatusUnprocessableEntity)
	// ErrNoMatch is returned when no element satisfies the predicate.
	ErrNoMatch = apperrors.New(apperrors.ErrCodeNoMatch, "sequence contains no matching element", http.StatusNotFound)
	// ErrMoreThanOne is returned by Single when a second element is found.
	ErrMoreThanOne = apperrors.New(apperrors.ErrCodeMoreThanOne, "sequence contains more than one matching element", http.StatusConflict)
	// ErrOutOfRange is returned by ElementAt for an index outside the sequence.
	ErrOutOfRange = apperrors.New(apperrors.ErrCodeOutOfRange, "index is out of range", http.StatusUnprocessableEntity)
	// ErrDuplicateKey is returned by ToMap when two elements share a key.
	ErrDuplicateKey = apperrors.New(apperrors.ErrCodeDuplicateKey, "duplicate key", http.StatusConflict)
)

// notFound picks the error for an absent element: NO_ELEMENTS when the caller
// gave no predicate, NO_MATCH otherwise.
func notFound(op string, filtered bool) error {
	if filtered {
		return apperrors.NoMatch(op)
	}
	return apperrors.NoElements(op)
}
