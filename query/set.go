package query

import "context"

// Distinct yields the first occurrence of each value, in source order.
func Distinct[T comparable](s *Sequence[T]) *Sequence[T] {
	return DistinctBy(s, identity[T])
}

// DistinctBy yields the first value seen for each key, in source order.
func DistinctBy[T any, K comparable](s *Sequence[T], key func(T) K) *Sequence[T] {
	return newSequence(func(ctx context.Context) Cursor[T] {
		return &distinctCursor[T, K]{source: s.traverse(ctx), key: key, seen: make(map[K]struct{})}
	})
}

// Union yields the distinct values of a followed by the distinct values of b
// not already seen in a.
func Union[T comparable](a, b *Sequence[T]) *Sequence[T] {
	return UnionBy(a, b, identity[T])
}

// UnionBy is Union with element identity decided by key.
func UnionBy[T any, K comparable](a, b *Sequence[T], key func(T) K) *Sequence[T] {
	return DistinctBy(Concat(a, b), key)
}

// Intersect yields the distinct values of a that also appear in b.
// b is drained on the first call to Next.
func Intersect[T comparable](a, b *Sequence[T]) *Sequence[T] {
	return IntersectBy(a, b, identity[T])
}

// IntersectBy yields each value of a whose key is present in keys, at most
// once per key.
func IntersectBy[T any, K comparable](a *Sequence[T], keys *Sequence[K], key func(T) K) *Sequence[T] {
	return newSequence(func(ctx context.Context) Cursor[T] {
		return &setCursor[T, K]{ctx: ctx, source: a.traverse(ctx), other: keys, key: key, keep: true}
	})
}

// Except yields the distinct values of a that do not appear in b.
// b is drained on the first call to Next.
func Except[T comparable](a, b *Sequence[T]) *Sequence[T] {
	return ExceptBy(a, b, identity[T])
}

// ExceptBy yields each value of a whose key is absent from keys, at most once
// per key.
func ExceptBy[T any, K comparable](a *Sequence[T], keys *Sequence[K], key func(T) K) *Sequence[T] {
	return newSequence(func(ctx context.Context) Cursor[T] {
		return &setCursor[T, K]{ctx: ctx, source: a.traverse(ctx), other: keys, key: key, keep: false}
	})
}

// Reverse yields the values of s back to front. The traversal buffers all of s
// on the first call to Next.
func Reverse[T any](s *Sequence[T]) *Sequence[T] {
	return newSequence(func(ctx context.Context) Cursor[T] {
		return &reverseCursor[T]{source: s.traverse(ctx)}
	})
}

func identity[T any](v T) T { return v }

type distinctCursor[T any, K comparable] struct {
	source Cursor[T]
	key    func(T) K
	seen   map[K]struct{}
}

func (c *distinctCursor[T, K]) Next(ctx context.Context) (T, bool, error) {
	for {
		val, ok, err := c.source.Next(ctx)
		if err != nil || !ok {
			return val, false, err
		}
		k := c.key(val)
		if _, dup := c.seen[k]; dup {
			continue
		}
		c.seen[k] = struct{}{}
		return val, true, nil
	}
}

func (c *distinctCursor[T, K]) Close() error {
	c.seen = nil
	return c.source.Close()
}

// setCursor implements Intersect (keep=true) and Except (keep=false).
// The key set of the second operand is built lazily, once per traversal.
type setCursor[T any, K comparable] struct {
	ctx    context.Context
	source Cursor[T]
	other  *Sequence[K]
	key    func(T) K
	keep   bool
	set    map[K]struct{}
}

func (c *setCursor[T, K]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if c.set == nil {
		set, err := drainSet(c.ctx, c.other)
		if err != nil {
			return zero, false, err
		}
		c.set = set
	}
	for {
		val, ok, err := c.source.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		k := c.key(val)
		_, present := c.set[k]
		if c.keep && present {
			// Removing the key keeps later duplicates out.
			delete(c.set, k)
			return val, true, nil
		}
		if !c.keep && !present {
			c.set[k] = struct{}{}
			return val, true, nil
		}
	}
}

func (c *setCursor[T, K]) Close() error {
	c.set = nil
	return c.source.Close()
}

func drainSet[K comparable](ctx context.Context, s *Sequence[K]) (map[K]struct{}, error) {
	cur := s.traverse(ctx)
	defer cur.Close()
	set := make(map[K]struct{})
	for {
		k, ok, err := cur.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return set, nil
		}
		set[k] = struct{}{}
	}
}

type reverseCursor[T any] struct {
	source Cursor[T]
	buffer []T
	loaded bool
}

func (c *reverseCursor[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if !c.loaded {
		buf, err := drainCursor(ctx, c.source)
		if err != nil {
			return zero, false, err
		}
		c.buffer, c.loaded = buf, true
	}
	n := len(c.buffer)
	if n == 0 {
		return zero, false, nil
	}
	val := c.buffer[n-1]
	c.buffer = c.buffer[:n-1]
	return val, true, nil
}

func (c *reverseCursor[T]) Close() error {
	c.buffer = nil
	return c.source.Close()
}

// drainCursor pulls cur to exhaustion without closing it.
func drainCursor[T any](ctx context.Context, cur Cursor[T]) ([]T, error) {
	var items []T
	for {
		val, ok, err := cur.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return items, nil
		}
		items = append(items, val)
	}
}
