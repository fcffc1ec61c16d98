// Package metrics provides Prometheus instrumentation for the IMF package
// reader.
//
// All metrics are registered with promauto on the default registry and are
// prefixed with "imf_" to avoid naming collisions with other applications.
//
// # Metric Categories
//
// ## Package Metrics
//
// Track package opens and lookups:
//   - PackageOpensTotal: Counter of opens by result (success or error kind)
//   - PackageOpenDuration: Histogram of CPL plus asset map load time
//   - PackagesOpen: Gauge of packages currently held open
//   - DocumentParseErrors: Counter by document (cpl/assetmap) and reason
//   - AssetsPerMap: Histogram of asset counts per asset map
//   - AssetMapDuplicates: Counter of shadowed duplicate asset ids
//   - ResolveLookupsTotal: Counter of UUID lookups by hit/miss
//
// ## Verification Metrics
//
//   - VerifyRunsTotal, VerifyDuration, VerifyWorkers
//   - VerifyAssetsTotal: Counter by outcome (ok/missing/unreachable/size_mismatch)
//
// ## Transport Metrics
//
// Recorded through the transport.Observer returned by NewTransportObserver:
//   - TransportReadsTotal: Counter of streams by scheme and status
//   - TransportBytesRead: Counter of bytes delivered by scheme
//   - TransportReadDuration: Histogram of open-to-close time by scheme
//   - TransportRetryAttempts, TransportRetrySuccess, TransportRetryFailures,
//     TransportStaleErrors: NFS ESTALE retry behaviour by operation
//
// ## Catalog Metrics
//
//   - CatalogQueryTotal, CatalogQueryDuration: per catalog operation
//   - CatalogPackagesTotal, CatalogAssetsTotal: refreshed by Collector
//
// ## HTTP Metrics
//
//   - HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight
//
// # Usage
//
// At startup:
//
//	metrics.InitializeMetrics()
//	transport.SetObserver(metrics.NewTransportObserver())
//
//	collector := metrics.NewCollector(catalog, time.Minute, log)
//	collector.Start()
//	defer collector.Stop()
//
// Expose the registry with promhttp.Handler() on /metrics.
package metrics
