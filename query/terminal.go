package query

import (
	"context"

	apperrors "github.com/kbukum/seqkit/errors"
)

// ToSlice drains one traversal of s into a new slice. On error the values
// collected so far are returned with it.
func ToSlice[T any](ctx context.Context, s *Sequence[T]) ([]T, error) {
	cur := s.traverse(ctx)
	defer cur.Close()
	result := []T{}
	for {
		val, ok, err := cur.Next(ctx)
		if err != nil {
			return result, err
		}
		if !ok {
			return result, nil
		}
		result = append(result, val)
	}
}

// ToMap drains s into a map. Two elements with the same key fail with
// ErrDuplicateKey.
func ToMap[T any, K comparable, V any](ctx context.Context, s *Sequence[T], key func(T) K, value func(T) V) (map[K]V, error) {
	m := make(map[K]V)
	err := ForEach(ctx, s, func(_ context.Context, v T) error {
		k := key(v)
		if _, dup := m[k]; dup {
			return apperrors.DuplicateKey("ToMap", k)
		}
		m[k] = value(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ForEach pulls every value and calls fn for each. The first error from the
// sequence or from fn stops the traversal and is returned.
func ForEach[T any](ctx context.Context, s *Sequence[T], fn func(context.Context, T) error) error {
	cur := s.traverse(ctx)
	defer cur.Close()
	for {
		val, ok, err := cur.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(ctx, val); err != nil {
			return err
		}
	}
}

// --- Counting and quantifiers ---

// Count drains s and returns the number of values.
func Count[T any](ctx context.Context, s *Sequence[T]) (int, error) {
	return Aggregate(ctx, s, 0, func(n int, _ T) int { return n + 1 })
}

// CountWhere returns the number of values satisfying pred.
func CountWhere[T any](ctx context.Context, s *Sequence[T], pred func(T) bool) (int, error) {
	return Count(ctx, Where(s, pred))
}

// Any reports whether s has at least one value. It pulls at most one value.
func Any[T any](ctx context.Context, s *Sequence[T]) (bool, error) {
	_, found, err := TryFirst(ctx, s)
	return found, err
}

// AnyWhere reports whether any value satisfies pred, stopping at the first match.
func AnyWhere[T any](ctx context.Context, s *Sequence[T], pred func(T) bool) (bool, error) {
	_, found, err := TryFirst(ctx, s, pred)
	return found, err
}

// All reports whether every value satisfies pred. It is true for an empty
// sequence and stops at the first failure.
func All[T any](ctx context.Context, s *Sequence[T], pred func(T) bool) (bool, error) {
	found, err := AnyWhere(ctx, s, func(v T) bool { return !pred(v) })
	return !found, err
}

// Contains reports whether s yields v.
func Contains[T comparable](ctx context.Context, s *Sequence[T], v T) (bool, error) {
	return AnyWhere(ctx, s, func(x T) bool { return x == v })
}

// SequenceEqual reports whether a and b yield equal values in the same order.
func SequenceEqual[T comparable](ctx context.Context, a, b *Sequence[T]) (bool, error) {
	left, right := a.traverse(ctx), b.traverse(ctx)
	defer left.Close()
	defer right.Close()
	for {
		x, okX, err := left.Next(ctx)
		if err != nil {
			return false, err
		}
		y, okY, err := right.Next(ctx)
		if err != nil {
			return false, err
		}
		if okX != okY {
			return false, nil
		}
		if !okX {
			return true, nil
		}
		if x != y {
			return false, nil
		}
	}
}

// --- Element access ---
//
// Each accessor takes an optional predicate. The plain form fails with
// ErrNoElements (no predicate) or ErrNoMatch; the OrDefault form returns the
// zero value instead; the Try form reports presence separately so a
// legitimate zero value is not mistaken for absence.

// TryFirst returns the first value (satisfying pred, if given) and whether
// one was found. It stops pulling as soon as it finds one.
func TryFirst[T any](ctx context.Context, s *Sequence[T], pred ...func(T) bool) (T, bool, error) {
	var zero T
	cur := s.traverse(ctx)
	defer cur.Close()
	match := predicate(pred)
	for {
		val, ok, err := cur.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		if match(val) {
			return val, true, nil
		}
	}
}

// First returns the first value, failing when there is none.
func First[T any](ctx context.Context, s *Sequence[T], pred ...func(T) bool) (T, error) {
	val, found, err := TryFirst(ctx, s, pred...)
	if err == nil && !found {
		err = notFound("First", len(pred) > 0)
	}
	return val, err
}

// FirstOrDefault returns the first value, or the zero value when there is none.
func FirstOrDefault[T any](ctx context.Context, s *Sequence[T], pred ...func(T) bool) (T, error) {
	val, _, err := TryFirst(ctx, s, pred...)
	return val, err
}

// TryLast returns the last value (satisfying pred, if given) and whether one
// was found. It always drains s.
func TryLast[T any](ctx context.Context, s *Sequence[T], pred ...func(T) bool) (T, bool, error) {
	var last T
	found := false
	match := predicate(pred)
	err := ForEach(ctx, s, func(_ context.Context, v T) error {
		if match(v) {
			last, found = v, true
		}
		return nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return last, found, nil
}

// Last returns the last value, failing when there is none.
func Last[T any](ctx context.Context, s *Sequence[T], pred ...func(T) bool) (T, error) {
	val, found, err := TryLast(ctx, s, pred...)
	if err == nil && !found {
		err = notFound("Last", len(pred) > 0)
	}
	return val, err
}

// LastOrDefault returns the last value, or the zero value when there is none.
func LastOrDefault[T any](ctx context.Context, s *Sequence[T], pred ...func(T) bool) (T, error) {
	val, _, err := TryLast(ctx, s, pred...)
	return val, err
}

// TrySingle returns the only value (satisfying pred, if given) and whether it
// was found. A second value fails with ErrMoreThanOne.
func TrySingle[T any](ctx context.Context, s *Sequence[T], pred ...func(T) bool) (T, bool, error) {
	var zero T
	cur := s.traverse(ctx)
	defer cur.Close()
	match := predicate(pred)
	var single T
	found := false
	for {
		val, ok, err := cur.Next(ctx)
		if err != nil {
			return zero, false, err
		}
		if !ok {
			return single, found, nil
		}
		if !match(val) {
			continue
		}
		if found {
			return zero, false, apperrors.MoreThanOne("Single")
		}
		single, found = val, true
	}
}

// Single returns the only value, failing when there is none or more than one.
func Single[T any](ctx context.Context, s *Sequence[T], pred ...func(T) bool) (T, error) {
	val, found, err := TrySingle(ctx, s, pred...)
	if err == nil && !found {
		err = notFound("Single", len(pred) > 0)
	}
	return val, err
}

// SingleOrDefault returns the only value, or the zero value when there is
// none. More than one value is still an error.
func SingleOrDefault[T any](ctx context.Context, s *Sequence[T], pred ...func(T) bool) (T, error) {
	val, _, err := TrySingle(ctx, s, pred...)
	return val, err
}

// ElementAt returns the value at index, failing with ErrOutOfRange.
func ElementAt[T any](ctx context.Context, s *Sequence[T], index int) (T, error) {
	val, found, err := tryElementAt(ctx, s, index)
	if err == nil && !found {
		err = apperrors.OutOfRange("ElementAt", index)
	}
	return val, err
}

// ElementAtOrDefault returns the value at index, or the zero value.
func ElementAtOrDefault[T any](ctx context.Context, s *Sequence[T], index int) (T, error) {
	val, _, err := tryElementAt(ctx, s, index)
	return val, err
}

func tryElementAt[T any](ctx context.Context, s *Sequence[T], index int) (T, bool, error) {
	if index < 0 {
		var zero T
		return zero, false, nil
	}
	return TryFirst(ctx, Skip(s, index))
}

func predicate[T any](pred []func(T) bool) func(T) bool {
	if len(pred) == 0 || pred[0] == nil {
		return func(T) bool { return true }
	}
	return pred[0]
}

// --- Folds ---

// Aggregate folds s from the left, starting at seed. An empty sequence
// returns seed.
func Aggregate[T, R any](ctx context.Context, s *Sequence[T], seed R, fn func(R, T) R) (R, error) {
	return TryAggregate(ctx, s, seed, func(_ context.Context, acc R, v T) (R, error) {
		return fn(acc, v), nil
	})
}

// TryAggregate is Aggregate with a fallible combiner. The first combiner
// error stops the fold and is returned unchanged.
func TryAggregate[T, R any](ctx context.Context, s *Sequence[T], seed R, fn func(context.Context, R, T) (R, error)) (R, error) {
	acc := seed
	err := ForEach(ctx, s, func(ctx context.Context, v T) error {
		next, err := fn(ctx, acc, v)
		if err != nil {
			return err
		}
		acc = next
		return nil
	})
	if err != nil {
		var zero R
		return zero, err
	}
	return acc, nil
}

// Reduce folds s using its first value as the seed. An empty sequence fails
// with ErrNoElements.
func Reduce[T any](ctx context.Context, s *Sequence[T], fn func(T, T) T) (T, error) {
	var acc T
	started := false
	err := ForEach(ctx, s, func(_ context.Context, v T) error {
		if !started {
			acc, started = v, true
			return nil
		}
		acc = fn(acc, v)
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if !started {
		return acc, apperrors.NoElements("Reduce")
	}
	return acc, nil
}
