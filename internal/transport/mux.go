package transport

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"imf-reader/internal/imferr"
)

// Mux dispatches to an Opener by URI scheme.
type Mux struct {
	mu      sync.RWMutex
	openers map[string]Opener
}

// NewMux returns a Mux with the file, http, https and s3 openers installed.
func NewMux() *Mux {
	m := &Mux{openers: make(map[string]Opener)}
	m.Handle("file", FileOpener{})
	httpOpener := HTTPOpener{}
	m.Handle("http", httpOpener)
	m.Handle("https", httpOpener)
	m.Handle("s3", &S3Opener{})
	return m
}

// Handle registers o for scheme, replacing any existing opener.
func (m *Mux) Handle(scheme string, o Opener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.openers == nil {
		m.openers = make(map[string]Opener)
	}
	m.openers[strings.ToLower(scheme)] = o
}

func (m *Mux) lookup(uri string) (string, Opener, error) {
	scheme := Scheme(uri)
	m.mu.RLock()
	o, ok := m.openers[scheme]
	m.mu.RUnlock()
	if !ok {
		return scheme, nil, imferr.IO("open "+uri, fmt.Errorf("unsupported scheme %q", scheme))
	}
	return scheme, o, nil
}

// Open implements Opener. The returned stream polls opts.Interrupt and ctx
// before every read. Failures wrap imferr.ErrIO.
func (m *Mux) Open(ctx context.Context, uri string, opts Options) (Stream, error) {
	if err := opts.interrupted(ctx); err != nil {
		return nil, imferr.IO("open "+uri, err)
	}
	scheme, o, err := m.lookup(uri)
	if err != nil {
		return nil, err
	}
	s, err := o.Open(ctx, uri, opts)
	if err != nil {
		observe().ObserveRead(scheme, 0, 0, err)
		return nil, imferr.IO("open "+uri, err)
	}
	return newGuardedStream(ctx, s, scheme, opts), nil
}

// Stat implements Opener.
func (m *Mux) Stat(ctx context.Context, uri string, opts Options) (Info, error) {
	if err := opts.interrupted(ctx); err != nil {
		return Info{}, imferr.IO("stat "+uri, err)
	}
	_, o, err := m.lookup(uri)
	if err != nil {
		return Info{}, err
	}
	info, err := o.Stat(ctx, uri, opts)
	if err != nil {
		return Info{}, imferr.IO("stat "+uri, err)
	}
	return info, nil
}
