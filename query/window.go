package query

import "context"

// Chunk groups values into consecutive non-overlapping slices of up to size
// values. The final chunk may be shorter. size <= 0 is treated as 1.
func Chunk[T any](s *Sequence[T], size int) *Sequence[[]T] {
	if size <= 0 {
		size = 1
	}
	return newSequence(func(ctx context.Context) Cursor[[]T] {
		return &chunkCursor[T]{source: s.traverse(ctx), size: size}
	})
}

// Window emits overlapping windows of exactly size values, advancing by step
// values between windows. Trailing values that cannot fill a window are
// dropped. size <= 0 yields nothing; step <= 0 is treated as 1.
//
// Every emitted slice is freshly allocated, so callers may keep it.
func Window[T any](s *Sequence[T], size, step int) *Sequence[[]T] {
	if size <= 0 {
		return Empty[[]T]()
	}
	if step <= 0 {
		step = 1
	}
	return newSequence(func(ctx context.Context) Cursor[[]T] {
		return &windowCursor[T]{source: s.traverse(ctx), size: size, step: step}
	})
}

type chunkCursor[T any] struct {
	source Cursor[T]
	size   int
	done   bool
}

func (c *chunkCursor[T]) Next(ctx context.Context) ([]T, bool, error) {
	if c.done {
		return nil, false, nil
	}

	chunk := make([]T, 0, c.size)
	for len(chunk) < c.size {
		val, ok, err := c.source.Next(ctx)
		if err != nil {
			c.done = true
			return nil, false, err
		}
		if !ok {
			c.done = true
			break
		}
		chunk = append(chunk, val)
	}
	if len(chunk) == 0 {
		return nil, false, nil
	}
	return chunk, true, nil
}

func (c *chunkCursor[T]) Close() error { return c.source.Close() }

type windowCursor[T any] struct {
	source Cursor[T]
	size   int
	step   int
	buffer []T
	// pending counts values still to discard before the next window starts
	// when step exceeds size.
	pending int
	done    bool
}

func (c *windowCursor[T]) Next(ctx context.Context) ([]T, bool, error) {
	if c.done {
		return nil, false, nil
	}

	for c.pending > 0 {
		_, ok, err := c.source.Next(ctx)
		if err != nil || !ok {
			c.done = true
			return nil, false, err
		}
		c.pending--
	}

	for len(c.buffer) < c.size {
		val, ok, err := c.source.Next(ctx)
		if err != nil || !ok {
			c.done = true
			return nil, false, err
		}
		c.buffer = append(c.buffer, val)
	}

	window := make([]T, c.size)
	copy(window, c.buffer)

	// Advance
	if c.step >= c.size {
		c.pending = c.step - c.size
		c.buffer = c.buffer[:0]
	} else {
		c.buffer = append(c.buffer[:0], c.buffer[c.step:]...)
	}
	return window, true, nil
}

func (c *windowCursor[T]) Close() error { return c.source.Close() }
