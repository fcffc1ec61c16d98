package transport

// Observer records transport metrics. Implementations are provided by the
// metrics package to break the import cycle between transport and metrics.
type Observer interface {
	// ObserveRead records a finished stream: scheme label, bytes delivered,
	// wall time from open to close, and the first read error if any.
	ObserveRead(scheme string, bytes int64, durationSeconds float64, err error)

	// ObserveRetry* record retry-specific metrics for NFS resilience.
	// retryOp is "open" or "stat".
	ObserveRetryAttempt(retryOp string)
	ObserveRetrySuccess(retryOp string)
	ObserveRetryFailure(retryOp string)
	ObserveStaleError(retryOp string)
}

// defaultObserver is the package-level observer set at startup.
// If nil, metric recording is silently skipped (safe for tests).
var defaultObserver Observer

// SetObserver sets the package-level metrics observer.
// Call this once at startup after creating the observer implementation.
func SetObserver(o Observer) {
	defaultObserver = o
}

// observe is a nil-safe helper for the package-level observer.
func observe() Observer {
	if defaultObserver == nil {
		return nopObserver{}
	}
	return defaultObserver
}

type nopObserver struct{}

func (nopObserver) ObserveRead(string, int64, float64, error) {}
func (nopObserver) ObserveRetryAttempt(string)                {}
func (nopObserver) ObserveRetrySuccess(string)                {}
func (nopObserver) ObserveRetryFailure(string)                {}
func (nopObserver) ObserveStaleError(string)                  {}
