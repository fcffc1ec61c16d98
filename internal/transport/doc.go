/*
Package transport opens IMF documents and essence files by URI for streamed
reading.

# Purpose

The package context never touches files or sockets directly. It asks an
Opener for a Stream, reads it to end-of-stream under a size bound, and hands
the bytes to the XML layer. The Mux opener dispatches on URI scheme:

  - file:// URIs and bare paths: local files, opened through OpenWithRetry
  - http:// and https://: a GET request via net/http
  - s3://bucket/key: an object read through the MinIO client

# Options

Transport options travel as a string dictionary, the same way for every
scheme. Keys a scheme does not understand are ignored:

	opts := transport.Options{
	    Values: map[string]string{
	        transport.OptUserAgent: "imf-reader/1.0",
	        transport.OptTimeout:   "30s",
	        transport.OptS3Endpoint: "minio.local:9000",
	    },
	    Interrupt: func() bool { return shuttingDown.Load() },
	}

Interrupt is polled before the open and before every read. When it reports
true the read fails with ErrInterrupted. Context cancellation is honoured the
same way. Nothing in this package retries a read; only the local-file open
and stat retry, and only on NFS stale file handle errors (ESTALE).

# Retry Behavior

The retry logic implements exponential backoff with the following defaults:
  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms
  - MaxBackoff: 500ms

All other errors fail immediately without retry attempts.

# Paths

Dirname and JoinPath operate on plain strings so they work the same for
local paths and URIs. JoinPath places exactly one separator between its
parts and does not normalise "..".
*/
package transport
