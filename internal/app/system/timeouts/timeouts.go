// Package timeouts provides centralized timeout values for I/O bounded by a
// context.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks and connectivity verification
//   - Callable: one callable invocation, including every store and identity call it makes
//   - Job: one run of a scheduled maintenance job
//
// Timeouts can be overridden at startup with Configure. Until then the
// defaults apply.
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing     = 2 * time.Second
	DefaultCallable = 30 * time.Second
	DefaultJob      = 10 * time.Minute
)

var mu sync.RWMutex

var (
	ping     = DefaultPing
	callable = DefaultCallable
	job      = DefaultJob
)

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Callable returns the timeout for a single callable invocation.
func Callable() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return callable
}

// Job returns the timeout for one run of a scheduled job.
func Job() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return job
}

// Config holds timeout overrides. Zero values keep the current value.
type Config struct {
	Ping     time.Duration
	Callable time.Duration
	Job      time.Duration
}

// Configure applies cfg. Call it during startup before handlers are built.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Callable > 0 {
		callable = cfg.Callable
	}
	if cfg.Job > 0 {
		job = cfg.Job
	}
}

// Reset restores the defaults. Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	callable = DefaultCallable
	job = DefaultJob
}

// Current returns the timeouts in effect.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Callable: callable, Job: job}
}

// WithTimeout creates a context with timeout and returns a cancel function that
// logs a warning if the context ended because the deadline passed.
//
// Example:
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Callable(), log, "createSchool")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
