package ringsim

import (
	"io"
	"log/slog"
	"time"
)

// options configures the Cluster behavior (internal only).
type options struct {
	probeTimeout time.Duration
	logger       *slog.Logger
}

// defaultOptions returns sensible defaults.
func defaultOptions() options {
	return options{
		probeTimeout: 100 * time.Millisecond,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option is a functional option for configuring a Cluster.
type Option func(*options)

// WithProbeTimeout sets how long a member waits for a Pong before treating
// the probed candidate as unresponsive and advancing to the next one.
func WithProbeTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.probeTimeout = timeout
		}
	}
}

// WithLogger sets the logger for the cluster.
// If the logger is nil, the cluster will use a no-op logger.
// DEFAULT: A no-op logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
			return
		}

		o.logger = logger
	}
}
