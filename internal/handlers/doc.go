// Package handlers provides HTTP request handlers for the IMF package API.
//
// It includes handlers for:
//   - Composition and Asset Map inspection
//   - Asset UUID resolution and package verification
//   - Catalog lookups across recorded packages
//   - Health checks and version information
//
// Errors are reported as JSON. Unknown assets map to 404, malformed
// package data to 422 and everything else to 500.
package handlers
