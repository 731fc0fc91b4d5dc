package query

import (
	"cmp"
	"context"
	"slices"
)

// OrderedSequence is a Sequence sorted by one or more keys. ThenBy and
// friends extend the ordering with lower-precedence keys; each call returns
// a new OrderedSequence and leaves the receiver untouched.
type OrderedSequence[T any] struct {
	*Sequence[T]
	source *Sequence[T]
	levels []sortLevel[T]
}

// sortLevel is one key of a composite ordering. prepare computes the key of
// every buffered element once; compare then works on buffer indexes.
type sortLevel[T any] interface {
	prepare(items []T) func(i, j int) int
}

type keyLevel[T any, K any] struct {
	key        func(T) K
	compare    func(a, b K) int
	descending bool
}

func (l keyLevel[T, K]) prepare(items []T) func(i, j int) int {
	keys := make([]K, len(items))
	for i, item := range items {
		keys[i] = l.key(item)
	}
	if l.descending {
		return func(i, j int) int { return l.compare(keys[j], keys[i]) }
	}
	return func(i, j int) int { return l.compare(keys[i], keys[j]) }
}

// OrderBy sorts s ascending by key. The sort is stable.
func OrderBy[T any, K cmp.Ordered](s *Sequence[T], key func(T) K) *OrderedSequence[T] {
	return newOrdered(s, keyLevel[T, K]{key: key, compare: cmp.Compare[K]})
}

// OrderByDescending sorts s descending by key. The sort is stable: values
// with equal keys keep their source order.
func OrderByDescending[T any, K cmp.Ordered](s *Sequence[T], key func(T) K) *OrderedSequence[T] {
	return newOrdered(s, keyLevel[T, K]{key: key, compare: cmp.Compare[K], descending: true})
}

// OrderByFunc sorts s with compare, which follows the cmp.Compare convention.
func OrderByFunc[T any](s *Sequence[T], compare func(a, b T) int) *OrderedSequence[T] {
	return newOrdered(s, keyLevel[T, T]{key: identity[T], compare: compare})
}

// ThenBy adds an ascending secondary key to o.
func ThenBy[T any, K cmp.Ordered](o *OrderedSequence[T], key func(T) K) *OrderedSequence[T] {
	return o.then(keyLevel[T, K]{key: key, compare: cmp.Compare[K]})
}

// ThenByDescending adds a descending secondary key to o.
func ThenByDescending[T any, K cmp.Ordered](o *OrderedSequence[T], key func(T) K) *OrderedSequence[T] {
	return o.then(keyLevel[T, K]{key: key, compare: cmp.Compare[K], descending: true})
}

// ThenByFunc adds a secondary comparison to o.
func (o *OrderedSequence[T]) ThenByFunc(compare func(a, b T) int) *OrderedSequence[T] {
	return o.then(keyLevel[T, T]{key: identity[T], compare: compare})
}

func (o *OrderedSequence[T]) then(level sortLevel[T]) *OrderedSequence[T] {
	levels := make([]sortLevel[T], len(o.levels), len(o.levels)+1)
	copy(levels, o.levels)
	return buildOrdered(o.source, append(levels, level))
}

func newOrdered[T any](s *Sequence[T], level sortLevel[T]) *OrderedSequence[T] {
	return buildOrdered(s, []sortLevel[T]{level})
}

func buildOrdered[T any](s *Sequence[T], levels []sortLevel[T]) *OrderedSequence[T] {
	o := &OrderedSequence[T]{source: s, levels: levels}
	o.Sequence = newSequence(func(ctx context.Context) Cursor[T] {
		return &orderCursor[T]{source: s.traverse(ctx), levels: levels}
	})
	return o
}

type orderCursor[T any] struct {
	source Cursor[T]
	levels []sortLevel[T]
	sorted []T
	index  int
	loaded bool
}

func (c *orderCursor[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if !c.loaded {
		items, err := drainCursor(ctx, c.source)
		if err != nil {
			return zero, false, err
		}
		c.sorted, c.loaded = sortStable(items, c.levels), true
	}
	if c.index >= len(c.sorted) {
		return zero, false, nil
	}
	val := c.sorted[c.index]
	c.index++
	return val, true, nil
}

func (c *orderCursor[T]) Close() error {
	c.sorted = nil
	return c.source.Close()
}

func sortStable[T any](items []T, levels []sortLevel[T]) []T {
	if len(items) < 2 {
		return items
	}
	compares := make([]func(i, j int) int, len(levels))
	for i, level := range levels {
		compares[i] = level.prepare(items)
	}

	perm := make([]int, len(items))
	for i := range perm {
		perm[i] = i
	}
	slices.SortStableFunc(perm, func(i, j int) int {
		for _, compare := range compares {
			if c := compare(i, j); c != 0 {
				return c
			}
		}
		return 0
	})

	sorted := make([]T, len(items))
	for i, p := range perm {
		sorted[i] = items[p]
	}
	return sorted
}
