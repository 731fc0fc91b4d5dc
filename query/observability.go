package query

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/observability"
)

// The stages in this file pass values through unchanged and report on each
// traversal when it ends: on exhaustion, on error, or on Close, whichever
// comes first.

// LogOption tunes WithLogging.
type LogOption func(*logSettings)

type logSettings struct {
	slowAfter time.Duration
}

// SlowAfter logs traversals that take longer than d at warn level.
func SlowAfter(d time.Duration) LogOption {
	return func(s *logSettings) { s.slowAfter = d }
}

// WithLogging logs one line per traversal of s with its traversal id, the
// number of values yielded and the elapsed time. Traversals that fail are
// logged at error level. Under WithTracing the id is the one on the span.
func WithLogging[T any](s *Sequence[T], log *logger.Logger, name string, opts ...LogOption) *Sequence[T] {
	if log == nil {
		return s
	}
	var settings logSettings
	for _, opt := range opts {
		opt(&settings)
	}
	return newSequence(func(ctx context.Context) Cursor[T] {
		id := traversalID(ctx)
		l := log.WithContext(ctx)
		l.Debug("traversal started", logger.Fields(logger.FieldQuery, name, logger.FieldTraversalID, id))
		return newObservedCursor(s.traverse(ctx), ctx, func(n int, d time.Duration, err error) {
			fields := logger.TraversalFields(name, id, n, d)
			switch {
			case err != nil:
				fields[logger.FieldErrorCode] = observability.ErrorCode(err)
				l.WithError(err).Error("traversal failed", fields)
			case settings.slowAfter > 0 && d > settings.slowAfter:
				l.Warn("slow traversal", fields)
			default:
				l.Debug("traversal finished", fields)
			}
		})
	})
}

// WithTracing wraps every traversal of s in a span named after the query
// and tagged with a fresh traversal id. Upstream stages are opened under the
// span, so nested traced stages become child spans.
func WithTracing[T any](s *Sequence[T], name string) *Sequence[T] {
	return newSequence(func(ctx context.Context) Cursor[T] {
		ctx, span := observability.StartSpan(ctx, observability.SpanTraversal,
			trace.WithAttributes(attribute.String(observability.AttrQueryName, name)))
		ctx = context.WithValue(ctx, traversalIDKey{}, uuid.NewString())
		observability.SetSpanAttribute(ctx, observability.AttrTraversalID, traversalID(ctx))
		return newObservedCursor(s.traverse(ctx), ctx, func(n int, _ time.Duration, err error) {
			observability.SetSpanAttribute(ctx, observability.AttrElementCount, n)
			if err != nil {
				observability.SetSpanError(ctx, err)
			}
			span.End()
		})
	})
}

type traversalIDKey struct{}

// traversalID returns the id WithTracing put on ctx, or a new one.
func traversalID(ctx context.Context) string {
	if id, ok := ctx.Value(traversalIDKey{}).(string); ok {
		return id
	}
	return uuid.NewString()
}

// WithMetrics records every traversal of s on m. A nil m leaves s unchanged.
func WithMetrics[T any](s *Sequence[T], m *observability.QueryMetrics, name string) *Sequence[T] {
	if m == nil {
		return s
	}
	return newSequence(func(ctx context.Context) Cursor[T] {
		return newObservedCursor(s.traverse(ctx), ctx, func(n int, d time.Duration, err error) {
			m.RecordTraversal(ctx, name, n, d, err)
		})
	})
}

// Instrumentation bundles the optional reporting stages.
type Instrumentation struct {
	Logger    *logger.Logger
	Metrics   *observability.QueryMetrics
	Tracing   bool
	SlowAfter time.Duration
}

// Instrument applies the stages enabled in inst. Tracing is outermost so
// the log line and metrics of a traversal carry its span.
func Instrument[T any](s *Sequence[T], name string, inst Instrumentation) *Sequence[T] {
	out := WithMetrics(s, inst.Metrics, name)
	out = WithLogging(out, inst.Logger, name, SlowAfter(inst.SlowAfter))
	if inst.Tracing {
		out = WithTracing(out, name)
	}
	return out
}

type observedCursor[T any] struct {
	source Cursor[T]
	ctx    context.Context
	start  time.Time
	count  int
	done   func(n int, d time.Duration, err error)
	ended  bool
}

func newObservedCursor[T any](source Cursor[T], ctx context.Context, done func(int, time.Duration, error)) *observedCursor[T] {
	return &observedCursor[T]{source: source, ctx: ctx, start: time.Now(), done: done}
}

func (c *observedCursor[T]) Next(ctx context.Context) (T, bool, error) {
	if c.ended {
		var zero T
		return zero, false, nil
	}
	val, ok, err := c.source.Next(c.nextCtx(ctx))
	switch {
	case err != nil:
		c.end(err)
	case !ok:
		c.end(nil)
	default:
		c.count++
	}
	return val, ok, err
}

// nextCtx keeps the traversal's span active for upstream callbacks while
// still honoring cancellation of the caller's context.
func (c *observedCursor[T]) nextCtx(ctx context.Context) context.Context {
	if sc := trace.SpanContextFromContext(c.ctx); sc.IsValid() && !trace.SpanContextFromContext(ctx).Equal(sc) {
		return trace.ContextWithSpan(ctx, trace.SpanFromContext(c.ctx))
	}
	return ctx
}

func (c *observedCursor[T]) Close() error {
	err := c.source.Close()
	c.end(nil)
	return err
}

func (c *observedCursor[T]) end(err error) {
	if c.ended {
		return
	}
	c.ended = true
	c.done(c.count, time.Since(c.start), err)
}
