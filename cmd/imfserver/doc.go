// Package main provides the entry point for the IMF package service.
//
// The service opens one IMF package at startup and serves its composition,
// Asset Map and asset resolution over HTTP.
//
// # Application Lifecycle
//
//  1. Configuration Loading: reads environment variables (and .env)
//  2. Package Open: the CPL named by IMF_CPL is opened through the demuxer
//     registry, reading its Asset Map from IMF_ASSETMAP or the sibling
//     ASSETMAP.xml
//  3. Catalog (optional): when CATALOG_PATH is set the package is recorded
//     in a SQLite catalog and catalog metrics are collected every minute
//  4. HTTP Server Setup: routes, logging, metrics and gzip middleware
//  5. Graceful Shutdown: SIGINT/SIGTERM stop the server, then the catalog
//     and the package are closed
//
// # HTTP Routes
//
//   - /health, /healthz, /livez, /readyz: health probes
//   - /version: build information
//   - /metrics: Prometheus metrics (METRICS_ENABLED)
//   - /api/composition: CPL summary, ?detail=full for the parsed CPL
//   - /api/assets: Asset Map entries
//   - /api/resolve/{uuid}: absolute URI of one asset
//   - /api/verify: reachability report for every referenced asset
//   - /api/catalog/packages, /api/catalog/assets/{uuid}: catalog lookups
//
// # Environment Variables
//
//   - IMF_CPL: CPL location, a path or file://, http(s):// or s3:// URI (required)
//   - IMF_ASSETMAP: Asset Map location override
//   - IMF_MAX_READ_SIZE, IMF_MAX_ASSETS, IMF_STRICT_PATHS: parser limits
//   - PORT: HTTP port (default: 8080)
//   - CATALOG_PATH: SQLite catalog file (default: disabled)
//   - S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY, S3_REGION, S3_USE_SSL
//   - HTTP_USER_AGENT, HTTP_TIMEOUT
//   - VERIFY_WORKERS: verification concurrency
//   - LOG_LEVEL, LOG_FILE: logging
//
// For the command line equivalent see cmd/imfpkg.
package main
