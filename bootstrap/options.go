package bootstrap

import (
	"time"

	"github.com/kbukum/seqkit/logger"
)

// Option configures the App during creation.
// Options are non-generic so they can be used with any config type.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	components      []string
	gracefulTimeout *time.Duration
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the application logger. Without it the logger is built
// from the config's Logging section. Either way it becomes the global logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithComponentLoggers registers a logger per name, derived from the
// application logger, for retrieval with logger.Get.
func WithComponentLoggers(names ...string) Option {
	return func(o *appOptions) {
		o.components = append(o.components, names...)
	}
}

// WithGracefulTimeout bounds the stop hooks and the telemetry flush.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}
