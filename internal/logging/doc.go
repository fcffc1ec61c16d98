// Package logging provides a leveled logging interface for the IMF reader.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information (per-asset parse detail)
//   - INFO: General operational messages (package opened, CPL identified)
//   - WARN: Warning conditions (duplicate asset UUIDs, NFS retries)
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// Components receive a *Logger explicitly; the package context and the
// transport layer never read a process-wide logger. A nil *Logger is valid
// and discards everything, so optional logger fields need no guarding.
//
// Output goes to stderr through zap. When LOG_FILE is set, JSON records are
// also written to that file with lumberjack rotation.
//
// The log level is configured via the LOG_LEVEL environment variable, or
// forced to debug with DEBUG=1.
package logging
