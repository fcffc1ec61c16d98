// Package demux defines the contract between a hosting media pipeline and
// the format readers it can open, plus a registry to look them up.
//
// A Demuxer is registered once at startup under a unique name and the file
// extensions it claims. Opening a URL yields a Session, which hands out
// packets until io.EOF and must always be closed, even after an error.
package demux
