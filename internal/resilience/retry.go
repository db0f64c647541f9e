// Package resilience provides retry with exponential backoff for provider
// calls that opt in. Discovery and export calls do not retry; the assistant
// search does, since a transient model-API hiccup would otherwise push every
// request onto the fallback catalog.
package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Config controls retry behavior.
type Config struct {
	// Attempts is the total number of tries including the first. 1 disables
	// retries.
	Attempts int

	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration

	// MaxBackoff caps the delay between tries.
	MaxBackoff time.Duration

	// Multiplier scales the delay after each try.
	Multiplier float64

	// Jitter randomizes each delay by up to this fraction in either
	// direction.
	Jitter float64

	// ShouldRetry decides whether an error is worth another try. Nil means
	// IsTransient.
	ShouldRetry func(err error) bool
}

// DefaultConfig suits a single interactive API call.
func DefaultConfig() Config {
	return Config{
		Attempts:       3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		Multiplier:     2.0,
		Jitter:         0.25,
	}
}

// Do runs fn until it succeeds, its error is not retryable, the attempt
// budget runs out, or the context is done. The last error is returned.
func Do[T any](ctx context.Context, cfg Config, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	cfg = withDefaults(cfg)
	shouldRetry := cfg.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = IsTransient
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt < cfg.Attempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil || !shouldRetry(err) || attempt >= cfg.Attempts-1 {
			break
		}

		delay := backoff(attempt, cfg)
		zap.L().Warn("retrying operation",
			zap.String("operation", op),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}
	return zero, lastErr
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Attempts <= 0 {
		cfg.Attempts = def.Attempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = def.Multiplier
	}
	if cfg.Jitter < 0 {
		cfg.Jitter = 0
	}
	return cfg
}

func backoff(attempt int, cfg Config) time.Duration {
	delay := float64(cfg.InitialBackoff) * math.Pow(cfg.Multiplier, float64(attempt))
	if delay > float64(cfg.MaxBackoff) {
		delay = float64(cfg.MaxBackoff)
	}
	if cfg.Jitter > 0 {
		delay += (rand.Float64()*2 - 1) * delay * cfg.Jitter
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}
