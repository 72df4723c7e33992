package corpus

import (
	"time"

	"github.com/okian/mmolbparse/internal/domain/roundtrip"
	"github.com/okian/mmolbparse/pkg/logger"
)

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithChecker sets the checker used for in-process runs.
func WithChecker(c *roundtrip.Checker) Option {
	return func(r *Runner) {
		if c != nil {
			r.checker = c
		}
	}
}

// WithPollInterval sets how often remote results are polled.
func WithPollInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.pollInterval = d
		}
	}
}
