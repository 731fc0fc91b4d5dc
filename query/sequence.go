package query

import (
	"context"
	"iter"
)

// Cursor is one traversal position over a Sequence.
type Cursor[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the cursor.
	Close() error
}

// Sequence is a lazy, repeatable description of a stream of values.
// Every call to Traverse starts an independent traversal from the beginning.
type Sequence[T any] struct {
	traverse func(ctx context.Context) Cursor[T]
}

// NextFunc produces the next element of a single traversal.
// It follows the Cursor.Next convention.
type NextFunc[T any] func(ctx context.Context) (T, bool, error)

// Traverse returns a fresh cursor. The caller must Close it.
func (s *Sequence[T]) Traverse(ctx context.Context) Cursor[T] {
	return s.traverse(ctx)
}

// All returns a range-over-func view of one traversal. A non-nil error is
// yielded once, as the final pair. Breaking out of the loop closes the cursor.
func (s *Sequence[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		cur := s.traverse(ctx)
		defer cur.Close()
		for {
			val, ok, err := cur.Next(ctx)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !ok {
				return
			}
			if !yield(val, nil) {
				return
			}
		}
	}
}

// newSequence builds every sequence in the package. Each cursor it hands
// out stops at its first error or exhaustion.
func newSequence[T any](fn func(ctx context.Context) Cursor[T]) *Sequence[T] {
	return &Sequence[T]{traverse: func(ctx context.Context) Cursor[T] {
		return &finalCursor[T]{source: fn(ctx)}
	}}
}

// finalCursor repeats the end of a traversal, an error or exhaustion, on
// every later Next without pulling from its source again.
type finalCursor[T any] struct {
	source Cursor[T]
	ended  bool
	err    error
}

func (c *finalCursor[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if c.ended {
		return zero, false, c.err
	}
	val, ok, err := c.source.Next(ctx)
	if err != nil || !ok {
		c.ended, c.err = true, err
		return zero, false, err
	}
	return val, true, nil
}

func (c *finalCursor[T]) Close() error {
	c.ended = true
	return c.source.Close()
}

// --- Sources ---

// FromSlice creates a sequence over items. The slice is read, not copied,
// so later writes to it are visible to later traversals.
func FromSlice[T any](items []T) *Sequence[T] {
	return newSequence(func(_ context.Context) Cursor[T] {
		return &sliceCursor[T]{items: items}
	})
}

// Of creates a sequence over the given values.
func Of[T any](items ...T) *Sequence[T] {
	return FromSlice(items)
}

// Empty returns a sequence with no elements.
func Empty[T any]() *Sequence[T] {
	return FromSlice[T](nil)
}

// FromFunc creates a sequence from a generator. start is called once per
// traversal and returns the NextFunc that drives that traversal, so any
// state captured by start is private to one traversal.
func FromFunc[T any](start func() NextFunc[T]) *Sequence[T] {
	return newSequence(func(_ context.Context) Cursor[T] {
		return &funcCursor[T]{next: start()}
	})
}

// FromCursorFunc creates a sequence from a factory producing a new Cursor per
// traversal. The factory must not hand out the same cursor twice.
func FromCursorFunc[T any](factory func(ctx context.Context) Cursor[T]) *Sequence[T] {
	return newSequence(factory)
}

// FromSeq adapts a range-over-func sequence. seq is pulled once per
// traversal and stopped when the cursor is closed.
func FromSeq[T any](seq iter.Seq[T]) *Sequence[T] {
	return newSequence(func(_ context.Context) Cursor[T] {
		return &pullCursor[T]{seq: seq}
	})
}

// Range yields count consecutive integers starting at start.
func Range(start, count int) *Sequence[int] {
	return FromFunc(func() NextFunc[int] {
		i := 0
		return func(_ context.Context) (int, bool, error) {
			if i >= count {
				return 0, false, nil
			}
			v := start + i
			i++
			return v, true, nil
		}
	})
}

// Repeat yields v count times.
func Repeat[T any](v T, count int) *Sequence[T] {
	return FromFunc(func() NextFunc[T] {
		i := 0
		return func(_ context.Context) (T, bool, error) {
			if i >= count {
				var zero T
				return zero, false, nil
			}
			i++
			return v, true, nil
		}
	})
}

// Generate yields seed, next(seed), next(next(seed)), ... without end.
// Bound it with Take or TakeWhile before any buffering or terminal operator.
func Generate[T any](seed T, next func(T) T) *Sequence[T] {
	return FromFunc(func() NextFunc[T] {
		cur, started := seed, false
		return func(_ context.Context) (T, bool, error) {
			if started {
				cur = next(cur)
			}
			started = true
			return cur, true, nil
		}
	})
}

// --- Source cursors ---

type sliceCursor[T any] struct {
	items []T
	index int
}

func (c *sliceCursor[T]) Next(_ context.Context) (T, bool, error) {
	if c.index >= len(c.items) {
		var zero T
		return zero, false, nil
	}
	val := c.items[c.index]
	c.index++
	return val, true, nil
}

func (c *sliceCursor[T]) Close() error { return nil }

type funcCursor[T any] struct {
	next NextFunc[T]
	done bool
}

func (c *funcCursor[T]) Next(ctx context.Context) (T, bool, error) {
	if c.done {
		var zero T
		return zero, false, nil
	}
	val, ok, err := c.next(ctx)
	if err != nil || !ok {
		c.done = true
		var zero T
		return zero, false, err
	}
	return val, true, nil
}

func (c *funcCursor[T]) Close() error {
	c.done = true
	return nil
}

type pullCursor[T any] struct {
	seq  iter.Seq[T]
	next func() (T, bool)
	stop func()
}

func (c *pullCursor[T]) Next(_ context.Context) (T, bool, error) {
	if c.next == nil {
		if c.seq == nil {
			var zero T
			return zero, false, nil
		}
		c.next, c.stop = iter.Pull(c.seq)
	}
	val, ok := c.next()
	return val, ok, nil
}

func (c *pullCursor[T]) Close() error {
	if c.stop != nil {
		c.stop()
	}
	return nil
}
