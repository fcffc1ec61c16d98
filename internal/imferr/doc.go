// Package imferr defines the error kinds shared by the IMF parsers, the
// transport layer and the package context.
//
// Every error produced by the reader wraps exactly one of the sentinel kinds:
//   - ErrInvalidData: malformed or structurally incomplete XML
//   - ErrIO: transport open/read failure, short read, missing end-of-stream
//   - ErrNotFound: a UUID has no entry in the resolved asset map
//   - ErrAllocation: a table refused to grow past its configured limit
//
// Callers classify errors with errors.Is:
//
//	if errors.Is(err, imferr.ErrNotFound) {
//	    // asset missing from the asset map
//	}
package imferr
