// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// Configuration is read from environment variables via [LoadConfig]. A .env
// file in the working directory is loaded first with godotenv; variables
// already present in the environment win. The following variables are
// supported:
//
//   - IMF_CPL: Path or URI of the Composition Playlist to serve (required)
//   - IMF_ASSETMAP: Asset Map override (default: ASSETMAP.xml next to the CPL)
//   - IMF_MAX_READ_SIZE: Upper bound in bytes for a single document read
//   - IMF_MAX_ASSETS: Upper bound on asset map entries (default: 1048576)
//   - IMF_STRICT_PATHS: Reject chunk paths that leave the package directory (default: false)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_ENABLED: Expose /metrics (default: true)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//   - CATALOG_PATH: SQLite catalog file; empty disables the catalog
//   - VERIFY_WORKERS: Worker count for asset verification (default: 2 per CPU)
//   - S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY, S3_REGION, S3_USE_SSL: s3:// access
//   - HTTP_USER_AGENT, HTTP_TIMEOUT: http:// and https:// access
//   - LOG_LEVEL, LOG_FILE: see package logging
//
// [FromEnv] reads the same variables without any logging or validation, for
// command-line tools. [Config.TransportOptions] turns the transport settings
// into the option dictionary passed to every open.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//
//	go build -ldflags "-X imf-reader/internal/startup.Version=1.2.0 \
//	    -X imf-reader/internal/startup.Commit=$(git rev-parse --short HEAD)"
//
// # Lifecycle Logging
//
// The package provides banner-style logging functions for consistent output:
//   - [LogCatalogInit]: Catalog initialization timing
//   - [LogPackageLoaded]: The package being served
//   - [LogHTTPRoutes]: Registered HTTP routes (debug level)
//   - [LogServerStarted]: Server ready with endpoint URLs
//   - [LogShutdownInitiated], [LogShutdownStep], [LogShutdownStepComplete],
//     [LogShutdownComplete]: Graceful shutdown progress
package startup
