package query

import (
	"cmp"
	"context"

	apperrors "github.com/kbukum/seqkit/errors"
)

// Number is the set of types Sum and Average accept.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Sum adds every value. An empty sequence sums to zero.
func Sum[N Number](ctx context.Context, s *Sequence[N]) (N, error) {
	return Aggregate(ctx, s, 0, func(acc, v N) N { return acc + v })
}

// SumBy adds the projection of every value.
func SumBy[T any, N Number](ctx context.Context, s *Sequence[T], fn func(T) N) (N, error) {
	return Sum(ctx, Select(s, fn))
}

// Average returns the arithmetic mean as a float64. An empty sequence fails
// with ErrNoElements.
func Average[N Number](ctx context.Context, s *Sequence[N]) (float64, error) {
	type acc struct {
		sum   float64
		count int
	}
	total, err := Aggregate(ctx, s, acc{}, func(a acc, v N) acc {
		return acc{sum: a.sum + float64(v), count: a.count + 1}
	})
	if err != nil {
		return 0, err
	}
	if total.count == 0 {
		return 0, apperrors.NoElements("Average")
	}
	return total.sum / float64(total.count), nil
}

// AverageBy returns the mean of the projection of every value.
func AverageBy[T any, N Number](ctx context.Context, s *Sequence[T], fn func(T) N) (float64, error) {
	return Average(ctx, Select(s, fn))
}

// Min returns the smallest value. An empty sequence fails with ErrNoElements.
func Min[T cmp.Ordered](ctx context.Context, s *Sequence[T]) (T, error) {
	return extreme(ctx, s, identity[T], -1, "Min")
}

// Max returns the largest value. An empty sequence fails with ErrNoElements.
func Max[T cmp.Ordered](ctx context.Context, s *Sequence[T]) (T, error) {
	return extreme(ctx, s, identity[T], 1, "Max")
}

// MinBy returns the value with the smallest key. On ties the first such
// value wins.
func MinBy[T any, K cmp.Ordered](ctx context.Context, s *Sequence[T], key func(T) K) (T, error) {
	return extreme(ctx, s, key, -1, "MinBy")
}

// MaxBy returns the value with the largest key. On ties the first such
// value wins.
func MaxBy[T any, K cmp.Ordered](ctx context.Context, s *Sequence[T], key func(T) K) (T, error) {
	return extreme(ctx, s, key, 1, "MaxBy")
}

// extreme keeps the value whose key compares as sign against every other.
// Only a strict improvement replaces the current best.
func extreme[T any, K cmp.Ordered](ctx context.Context, s *Sequence[T], key func(T) K, sign int, op string) (T, error) {
	var (
		best    T
		bestKey K
		found   bool
	)
	err := ForEach(ctx, s, func(_ context.Context, v T) error {
		k := key(v)
		if !found || cmp.Compare(k, bestKey) == sign {
			best, bestKey, found = v, k, true
		}
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if !found {
		return best, apperrors.NoElements(op)
	}
	return best, nil
}
