package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, status := range []string{"success", "invalid_data", "io", "allocation", "other"} {
		PackageOpensTotal.WithLabelValues(status)
	}

	for _, doc := range []string{"cpl", "assetmap"} {
		for _, reason := range []string{"read", "xml", "structure"} {
			DocumentParseErrors.WithLabelValues(doc, reason)
		}
	}

	for _, result := range []string{"hit", "miss"} {
		ResolveLookupsTotal.WithLabelValues(result)
	}

	for _, status := range []string{"ok", "missing", "unreachable", "size_mismatch"} {
		VerifyAssetsTotal.WithLabelValues(status)
	}

	for _, scheme := range []string{"file", "http", "https", "s3"} {
		TransportReadsTotal.WithLabelValues(scheme, "success")
		TransportReadsTotal.WithLabelValues(scheme, "error")
		TransportBytesRead.WithLabelValues(scheme)
		TransportReadDuration.WithLabelValues(scheme)
	}

	for _, op := range []string{"open", "stat"} {
		TransportRetryAttempts.WithLabelValues(op)
		TransportRetrySuccess.WithLabelValues(op)
		TransportRetryFailures.WithLabelValues(op)
		TransportStaleErrors.WithLabelValues(op)
	}

	for _, op := range []string{"initialize_schema", "record_package", "find_asset", "list_packages", "stats"} {
		CatalogQueryTotal.WithLabelValues(op, "success")
		CatalogQueryTotal.WithLabelValues(op, "error")
		CatalogQueryDuration.WithLabelValues(op)
	}
}
