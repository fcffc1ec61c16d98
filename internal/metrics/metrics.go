package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imf_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "imf_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "imf_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Package lifecycle metrics
var (
	PackageOpensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imf_package_opens_total",
			Help: "Total number of package opens by result",
		},
		[]string{"status"}, // "success", "invalid_data", "io", "allocation", "other"
	)

	PackageOpenDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "imf_package_open_duration_seconds",
			Help:    "Time to read and parse the CPL and asset map",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	PackagesOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "imf_packages_open",
			Help: "Number of packages currently open",
		},
	)

	DocumentParseErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imf_document_parse_errors_total",
			Help: "Documents rejected during package open",
		},
		[]string{"document", "reason"}, // document: "cpl", "assetmap"; reason: "read", "xml", "structure"
	)

	AssetsPerMap = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "imf_assetmap_assets",
			Help:    "Number of assets listed per parsed asset map",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		},
	)

	AssetMapDuplicates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "imf_assetmap_duplicate_ids_total",
			Help: "Asset entries shadowed by an earlier entry with the same UUID",
		},
	)

	ResolveLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imf_resolve_lookups_total",
			Help: "UUID to URI lookups by result",
		},
		[]string{"result"}, // "hit", "miss"
	)
)

// Verification metrics
var (
	VerifyRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "imf_verify_runs_total",
			Help: "Total number of package verification runs",
		},
	)

	VerifyAssetsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imf_verify_assets_total",
			Help: "Verified assets by outcome",
		},
		[]string{"status"}, // "ok", "missing", "unreachable", "size_mismatch"
	)

	VerifyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "imf_verify_duration_seconds",
			Help:    "Wall time of a verification run",
			Buckets: prometheus.DefBuckets,
		},
	)

	VerifyWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "imf_verify_workers",
			Help: "Number of workers used by the last verification run",
		},
	)
)

// Transport metrics
var (
	TransportReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imf_transport_reads_total",
			Help: "Streams opened through the transport by scheme and result",
		},
		[]string{"scheme", "status"},
	)

	TransportBytesRead = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imf_transport_bytes_read_total",
			Help: "Bytes delivered by the transport",
		},
		[]string{"scheme"},
	)

	TransportReadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "imf_transport_read_duration_seconds",
			Help:    "Time from open to close of a transport stream",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"scheme"},
	)

	TransportRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imf_transport_retry_attempts_total",
			Help: "Total number of retry attempts for local file operations",
		},
		[]string{"operation"},
	)

	TransportRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imf_transport_retry_success_total",
			Help: "Total number of operations that succeeded after retry",
		},
		[]string{"operation"},
	)

	TransportRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imf_transport_retry_failures_total",
			Help: "Total number of operations that failed after all retries",
		},
		[]string{"operation"},
	)

	TransportStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imf_transport_stale_errors_total",
			Help: "Total number of NFS stale file handle errors encountered",
		},
		[]string{"operation"},
	)
)

// Catalog metrics
var (
	CatalogQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imf_catalog_queries_total",
			Help: "Total number of catalog queries",
		},
		[]string{"operation", "status"},
	)

	CatalogQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "imf_catalog_query_duration_seconds",
			Help:    "Catalog query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	CatalogPackagesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "imf_catalog_packages",
			Help: "Number of packages recorded in the catalog",
		},
	)

	CatalogAssetsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "imf_catalog_assets",
			Help: "Number of asset locations recorded in the catalog",
		},
	)
)

// Application info
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "imf_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)
