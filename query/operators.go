package query

import (
	"context"
)

// Where keeps only values that satisfy pred.
func Where[T any](s *Sequence[T], pred func(T) bool) *Sequence[T] {
	return newSequence(func(ctx context.Context) Cursor[T] {
		return &whereCursor[T]{source: s.traverse(ctx), pred: pred}
	})
}

// TryWhere is Where with a fallible predicate. The first predicate error
// ends the traversal and is returned from Next unchanged.
func TryWhere[T any](s *Sequence[T], pred func(context.Context, T) (bool, error)) *Sequence[T] {
	return newSequence(func(ctx context.Context) Cursor[T] {
		return &tryWhereCursor[T]{source: s.traverse(ctx), pred: pred}
	})
}

// Select transforms each value using fn.
func Select[T, O any](s *Sequence[T], fn func(T) O) *Sequence[O] {
	return newSequence(func(ctx context.Context) Cursor[O] {
		return &selectCursor[T, O]{source: s.traverse(ctx), fn: fn}
	})
}

// TrySelect transforms each value using a fallible fn.
func TrySelect[T, O any](s *Sequence[T], fn func(context.Context, T) (O, error)) *Sequence[O] {
	return newSequence(func(ctx context.Context) Cursor[O] {
		return &trySelectCursor[T, O]{source: s.traverse(ctx), fn: fn}
	})
}

// SelectMany maps each value to a sequence and flattens the results in order.
func SelectMany[T, O any](s *Sequence[T], fn func(T) *Sequence[O]) *Sequence[O] {
	return newSequence(func(ctx context.Context) Cursor[O] {
		return &selectManyCursor[T, O]{source: s.traverse(ctx), fn: fn}
	})
}

// Take yields at most n values. For n <= 0 the upstream is never traversed.
func Take[T any](s *Sequence[T], n int) *Sequence[T] {
	if n <= 0 {
		return Empty[T]()
	}
	return newSequence(func(ctx context.Context) Cursor[T] {
		return &takeCursor[T]{source: s.traverse(ctx), remaining: n}
	})
}

// Skip discards the first n values. Skipping past the end yields nothing.
func Skip[T any](s *Sequence[T], n int) *Sequence[T] {
	if n <= 0 {
		return s
	}
	return newSequence(func(ctx context.Context) Cursor[T] {
		return &skipCursor[T]{source: s.traverse(ctx), remaining: n}
	})
}

// TakeWhile yields values until pred first fails.
func TakeWhile[T any](s *Sequence[T], pred func(T) bool) *Sequence[T] {
	return newSequence(func(ctx context.Context) Cursor[T] {
		return &takeWhileCursor[T]{source: s.traverse(ctx), pred: pred}
	})
}

// SkipWhile discards values while pred holds, then passes everything through.
func SkipWhile[T any](s *Sequence[T], pred func(T) bool) *Sequence[T] {
	return newSequence(func(ctx context.Context) Cursor[T] {
		return &skipWhileCursor[T]{source: s.traverse(ctx), pred: pred}
	})
}

// Concat joins sequences end to end. A sequence's cursor is opened only
// after the previous one is exhausted.
func Concat[T any](seqs ...*Sequence[T]) *Sequence[T] {
	return newSequence(func(ctx context.Context) Cursor[T] {
		return &concatCursor[T]{ctx: ctx, seqs: seqs}
	})
}

// Zip pairs values from a and b in lockstep and stops at the shorter input.
func Zip[A, B, R any](a *Sequence[A], b *Sequence[B], combine func(A, B) R) *Sequence[R] {
	return newSequence(func(ctx context.Context) Cursor[R] {
		return &zipCursor[A, B, R]{left: a.traverse(ctx), right: b.traverse(ctx), combine: combine}
	})
}

// Tap calls fn as a side-effect for each value, then passes the value through unchanged.
func Tap[T any](s *Sequence[T], fn func(context.Context, T) error) *Sequence[T] {
	return newSequence(func(ctx context.Context) Cursor[T] {
		return &tapCursor[T]{source: s.traverse(ctx), fn: fn}
	})
}

// Append yields s followed by v.
func Append[T any](s *Sequence[T], v T) *Sequence[T] {
	return Concat(s, Of(v))
}

// Prepend yields v followed by s.
func Prepend[T any](s *Sequence[T], v T) *Sequence[T] {
	return Concat(Of(v), s)
}

// DefaultIfEmpty yields s, or the single value def when s is empty.
func DefaultIfEmpty[T any](s *Sequence[T], def T) *Sequence[T] {
	return newSequence(func(ctx context.Context) Cursor[T] {
		return &defaultIfEmptyCursor[T]{source: s.traverse(ctx), def: def}
	})
}

// --- Chaining methods ---

// Where is the method form of Where.
func (s *Sequence[T]) Where(pred func(T) bool) *Sequence[T] { return Where(s, pred) }

// Take is the method form of Take.
func (s *Sequence[T]) Take(n int) *Sequence[T] { return Take(s, n) }

// Skip is the method form of Skip.
func (s *Sequence[T]) Skip(n int) *Sequence[T] { return Skip(s, n) }

// TakeWhile is the method form of TakeWhile.
func (s *Sequence[T]) TakeWhile(pred func(T) bool) *Sequence[T] { return TakeWhile(s, pred) }

// SkipWhile is the method form of SkipWhile.
func (s *Sequence[T]) SkipWhile(pred func(T) bool) *Sequence[T] { return SkipWhile(s, pred) }

// Concat returns s followed by others.
func (s *Sequence[T]) Concat(others ...*Sequence[T]) *Sequence[T] {
	return Concat(append([]*Sequence[T]{s}, others...)...)
}

// Append is the method form of Append.
func (s *Sequence[T]) Append(v T) *Sequence[T] { return Append(s, v) }

// Prepend is the method form of Prepend.
func (s *Sequence[T]) Prepend(v T) *Sequence[T] { return Prepend(s, v) }

// Reverse is the method form of Reverse.
func (s *Sequence[T]) Reverse() *Sequence[T] { return Reverse(s) }

// --- Cursor implementations ---

type whereCursor[T any] struct {
	source Cursor[T]
	pred   func(T) bool
}

func (c *whereCursor[T]) Next(ctx context.Context) (T, bool, error) {
	for {
		val, ok, err := c.source.Next(ctx)
		if err != nil || !ok {
			return val, false, err
		}
		if c.pred(val) {
			return val, true, nil
		}
	}
}

func (c *whereCursor[T]) Close() error { return c.source.Close() }

type tryWhereCursor[T any] struct {
	source Cursor[T]
	pred   func(context.Context, T) (bool, error)
}

func (c *tryWhereCursor[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		val, ok, err := c.source.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		keep, err := c.pred(ctx, val)
		if err != nil {
			return zero, false, err
		}
		if keep {
			return val, true, nil
		}
	}
}

func (c *tryWhereCursor[T]) Close() error { return c.source.Close() }

type selectCursor[T, O any] struct {
	source Cursor[T]
	fn     func(T) O
}

func (c *selectCursor[T, O]) Next(ctx context.Context) (O, bool, error) {
	val, ok, err := c.source.Next(ctx)
	if err != nil || !ok {
		var zero O
		return zero, false, err
	}
	return c.fn(val), true, nil
}

func (c *selectCursor[T, O]) Close() error { return c.source.Close() }

type trySelectCursor[T, O any] struct {
	source Cursor[T]
	fn     func(context.Context, T) (O, error)
}

func (c *trySelectCursor[T, O]) Next(ctx context.Context) (O, bool, error) {
	var zero O
	val, ok, err := c.source.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	out, err := c.fn(ctx, val)
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}

func (c *trySelectCursor[T, O]) Close() error { return c.source.Close() }

type selectManyCursor[T, O any] struct {
	source  Cursor[T]
	fn      func(T) *Sequence[O]
	current Cursor[O]
}

func (c *selectManyCursor[T, O]) Next(ctx context.Context) (O, bool, error) {
	var zero O
	for {
		if c.current != nil {
			val, ok, err := c.current.Next(ctx)
			if err != nil {
				return zero, false, err
			}
			if ok {
				return val, true, nil
			}
			_ = c.current.Close()
			c.current = nil
		}
		in, ok, err := c.source.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		if inner := c.fn(in); inner != nil {
			c.current = inner.traverse(ctx)
		}
	}
}

func (c *selectManyCursor[T, O]) Close() error {
	if c.current != nil {
		_ = c.current.Close()
		c.current = nil
	}
	return c.source.Close()
}

type takeCursor[T any] struct {
	source    Cursor[T]
	remaining int
}

func (c *takeCursor[T]) Next(ctx context.Context) (T, bool, error) {
	if c.remaining <= 0 {
		var zero T
		return zero, false, nil
	}
	val, ok, err := c.source.Next(ctx)
	if err != nil || !ok {
		c.remaining = 0
		return val, false, err
	}
	c.remaining--
	return val, true, nil
}

func (c *takeCursor[T]) Close() error { return c.source.Close() }

type skipCursor[T any] struct {
	source    Cursor[T]
	remaining int
}

func (c *skipCursor[T]) Next(ctx context.Context) (T, bool, error) {
	for c.remaining > 0 {
		_, ok, err := c.source.Next(ctx)
		if err != nil || !ok {
			c.remaining = 0
			var zero T
			return zero, false, err
		}
		c.remaining--
	}
	return c.source.Next(ctx)
}

func (c *skipCursor[T]) Close() error { return c.source.Close() }

type takeWhileCursor[T any] struct {
	source Cursor[T]
	pred   func(T) bool
	done   bool
}

func (c *takeWhileCursor[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if c.done {
		return zero, false, nil
	}
	val, ok, err := c.source.Next(ctx)
	if err != nil || !ok {
		c.done = true
		return zero, false, err
	}
	if !c.pred(val) {
		c.done = true
		return zero, false, nil
	}
	return val, true, nil
}

func (c *takeWhileCursor[T]) Close() error { return c.source.Close() }

type skipWhileCursor[T any] struct {
	source   Cursor[T]
	pred     func(T) bool
	yielding bool
}

func (c *skipWhileCursor[T]) Next(ctx context.Context) (T, bool, error) {
	if c.yielding {
		return c.source.Next(ctx)
	}
	for {
		val, ok, err := c.source.Next(ctx)
		if err != nil || !ok {
			return val, false, err
		}
		if !c.pred(val) {
			c.yielding = true
			return val, true, nil
		}
	}
}

func (c *skipWhileCursor[T]) Close() error { return c.source.Close() }

type concatCursor[T any] struct {
	ctx     context.Context
	seqs    []*Sequence[T]
	index   int
	current Cursor[T]
}

func (c *concatCursor[T]) Next(ctx context.Context) (T, bool, error) {
	for c.index < len(c.seqs) {
		if c.current == nil {
			c.current = c.seqs[c.index].traverse(c.ctx)
		}
		val, ok, err := c.current.Next(ctx)
		if err != nil {
			return val, false, err
		}
		if ok {
			return val, true, nil
		}
		if err := c.current.Close(); err != nil {
			var zero T
			return zero, false, err
		}
		c.current = nil
		c.index++
	}
	var zero T
	return zero, false, nil
}

func (c *concatCursor[T]) Close() error {
	if c.current == nil {
		return nil
	}
	err := c.current.Close()
	c.current = nil
	return err
}

type zipCursor[A, B, R any] struct {
	left    Cursor[A]
	right   Cursor[B]
	combine func(A, B) R
	done    bool
}

func (c *zipCursor[A, B, R]) Next(ctx context.Context) (R, bool, error) {
	var zero R
	if c.done {
		return zero, false, nil
	}
	a, ok, err := c.left.Next(ctx)
	if err != nil || !ok {
		c.done = true
		return zero, false, err
	}
	b, ok, err := c.right.Next(ctx)
	if err != nil || !ok {
		c.done = true
		return zero, false, err
	}
	return c.combine(a, b), true, nil
}

func (c *zipCursor[A, B, R]) Close() error {
	errLeft := c.left.Close()
	if err := c.right.Close(); err != nil {
		return err
	}
	return errLeft
}

type tapCursor[T any] struct {
	source Cursor[T]
	fn     func(context.Context, T) error
}

func (c *tapCursor[T]) Next(ctx context.Context) (T, bool, error) {
	val, ok, err := c.source.Next(ctx)
	if err != nil || !ok {
		return val, ok, err
	}
	if err := c.fn(ctx, val); err != nil {
		var zero T
		return zero, false, err
	}
	return val, true, nil
}

func (c *tapCursor[T]) Close() error { return c.source.Close() }

type defaultIfEmptyCursor[T any] struct {
	source Cursor[T]
	def    T
	seen   bool
	done   bool
}

func (c *defaultIfEmptyCursor[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if c.done {
		return zero, false, nil
	}
	val, ok, err := c.source.Next(ctx)
	if err != nil {
		c.done = true
		return zero, false, err
	}
	if ok {
		c.seen = true
		return val, true, nil
	}
	c.done = true
	if !c.seen {
		return c.def, true, nil
	}
	return zero, false, nil
}

func (c *defaultIfEmptyCursor[T]) Close() error { return c.source.Close() }
