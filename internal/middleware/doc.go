// Package middleware provides HTTP middleware for the package service.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics labelled by route template
//   - Gzip response compression for JSON and XML documents
package middleware
