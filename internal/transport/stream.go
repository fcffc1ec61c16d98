package transport

import (
	"context"
	"errors"
	"io"
	"strconv"
	"sync"
	"time"

	"imf-reader/internal/imferr"
	"imf-reader/internal/logging"
)

// Option keys understood by the built-in openers.
const (
	OptUserAgent   = "user_agent"
	OptHeaders     = "headers" // "Name: value" lines separated by \r\n or \n
	OptTimeout     = "timeout" // Go duration, e.g. "30s"
	OptS3Endpoint  = "s3_endpoint"
	OptS3AccessKey = "s3_access_key"
	OptS3SecretKey = "s3_secret_key"
	OptS3Region    = "s3_region"
	OptS3UseSSL    = "s3_use_ssl"
)

// ErrInterrupted is returned when the interrupt callback asks to abort.
var ErrInterrupted = errors.New("interrupted")

// Options carries the transport option dictionary and the cooperative
// cancellation callback for one open.
type Options struct {
	Values    map[string]string
	Interrupt func() bool
	Retry     RetryConfig
	Logger    *logging.Logger
}

// Get returns the option value for key, or "".
func (o Options) Get(key string) string {
	if o.Values == nil {
		return ""
	}
	return o.Values[key]
}

// Duration parses a duration option, returning fallback when unset or invalid.
func (o Options) Duration(key string, fallback time.Duration) time.Duration {
	v := o.Get(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Bool parses a boolean option, returning fallback when unset or invalid.
func (o Options) Bool(key string, fallback bool) bool {
	v := o.Get(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// Clone returns a copy whose Values map can be modified independently.
func (o Options) Clone() Options {
	c := o
	if o.Values != nil {
		c.Values = make(map[string]string, len(o.Values))
		for k, v := range o.Values {
			c.Values[k] = v
		}
	}
	return c
}

func (o Options) interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if o.Interrupt != nil && o.Interrupt() {
		return ErrInterrupted
	}
	return nil
}

// Stream is an open resource positioned at its start.
type Stream interface {
	io.ReadCloser
	// Size reports the total size in bytes, or -1 when unknown.
	Size() int64
}

// Info describes a resource without opening it.
type Info struct {
	Size    int64
	ModTime time.Time
}

// Opener opens resources for one or more URI schemes.
type Opener interface {
	Open(ctx context.Context, uri string, opts Options) (Stream, error)
	Stat(ctx context.Context, uri string, opts Options) (Info, error)
}

// guardedStream polls the interrupt callback and context before each read
// and reports the finished stream to the observer on Close.
type guardedStream struct {
	Stream
	ctx     context.Context
	opts    Options
	scheme  string
	start   time.Time
	n       int64
	readErr error
	once    sync.Once
}

func newGuardedStream(ctx context.Context, s Stream, scheme string, opts Options) *guardedStream {
	return &guardedStream{Stream: s, ctx: ctx, opts: opts, scheme: scheme, start: time.Now()}
}

func (g *guardedStream) Read(p []byte) (int, error) {
	if err := g.opts.interrupted(g.ctx); err != nil {
		err = imferr.IO("read", err)
		if g.readErr == nil {
			g.readErr = err
		}
		return 0, err
	}
	n, err := g.Stream.Read(p)
	g.n += int64(n)
	if err != nil && err != io.EOF && g.readErr == nil {
		g.readErr = err
	}
	return n, err
}

func (g *guardedStream) Close() error {
	err := g.Stream.Close()
	g.once.Do(func() {
		observe().ObserveRead(g.scheme, g.n, time.Since(g.start).Seconds(), g.readErr)
	})
	return err
}
