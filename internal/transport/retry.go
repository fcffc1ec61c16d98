package transport

import (
	"context"
	"errors"
	"os"
	"syscall"
	"time"

	"imf-reader/internal/logging"
)

// RetryConfig configures retry behavior for local file operations.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns sensible defaults for NFS retry behavior
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

// isNFSStaleError checks if an error is an NFS stale file handle error
func isNFSStaleError(err error) bool {
	if err == nil {
		return false
	}

	// Check for ESTALE (stale file handle) - errno 116 on Linux
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.ESTALE
	}

	return false
}

// withRetry runs fn until it succeeds, fails with a non-ESTALE error, the
// retries are exhausted or ctx is done.
func withRetry[T any](ctx context.Context, op, path string, config RetryConfig, log *logging.Logger, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	backoff := config.InitialBackoff
	obs := observe()

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		v, err := fn()
		if err == nil {
			if attempt > 0 {
				log.Info("NFS %s succeeded on retry %d for %s", op, attempt, path)
				obs.ObserveRetrySuccess(op)
			}
			return v, nil
		}

		lastErr = err

		// Only retry on NFS stale file handle errors
		if !isNFSStaleError(err) {
			return zero, err
		}

		obs.ObserveStaleError(op)

		// Don't sleep after the last attempt
		if attempt < config.MaxRetries {
			obs.ObserveRetryAttempt(op)
			log.Debug("NFS %s stale file handle for %s, retrying in %v (attempt %d/%d)",
				op, path, backoff, attempt+1, config.MaxRetries)

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
			}

			// Exponential backoff with cap
			backoff *= 2
			if backoff > config.MaxBackoff {
				backoff = config.MaxBackoff
			}
		}
	}

	log.Warn("NFS %s failed after %d retries for %s: %v", op, config.MaxRetries, path, lastErr)
	obs.ObserveRetryFailure(op)
	return zero, lastErr
}

// StatWithRetry performs os.Stat with retry logic for NFS stale file handle errors
func StatWithRetry(ctx context.Context, path string, config RetryConfig, log *logging.Logger) (os.FileInfo, error) {
	return withRetry(ctx, "stat", path, config, log, func() (os.FileInfo, error) {
		return os.Stat(path)
	})
}

// OpenWithRetry performs os.Open with retry logic for NFS stale file handle errors
func OpenWithRetry(ctx context.Context, path string, config RetryConfig, log *logging.Logger) (*os.File, error) {
	return withRetry(ctx, "open", path, config, log, func() (*os.File, error) {
		return os.Open(path)
	})
}
