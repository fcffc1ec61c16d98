package metrics

import "imf-reader/internal/transport"

// transportObserver implements transport.Observer using the Prometheus
// metrics declared in this package.
type transportObserver struct{}

// NewTransportObserver creates an observer that records transport metrics
// into the Prometheus counters and histograms declared in metrics.go.
func NewTransportObserver() transport.Observer {
	return &transportObserver{}
}

func (o *transportObserver) ObserveRead(scheme string, bytes int64, durationSeconds float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	TransportReadsTotal.WithLabelValues(scheme, status).Inc()
	TransportBytesRead.WithLabelValues(scheme).Add(float64(bytes))
	TransportReadDuration.WithLabelValues(scheme).Observe(durationSeconds)
}

func (o *transportObserver) ObserveRetryAttempt(retryOp string) {
	TransportRetryAttempts.WithLabelValues(retryOp).Inc()
}

func (o *transportObserver) ObserveRetrySuccess(retryOp string) {
	TransportRetrySuccess.WithLabelValues(retryOp).Inc()
}

func (o *transportObserver) ObserveRetryFailure(retryOp string) {
	TransportRetryFailures.WithLabelValues(retryOp).Inc()
}

func (o *transportObserver) ObserveStaleError(retryOp string) {
	TransportStaleErrors.WithLabelValues(retryOp).Inc()
}
