package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imf-reader/internal/imferr"
)

// fakeStream reports size but delivers data.
type fakeStream struct {
	io.Reader
	size   int64
	closed bool
}

func (f *fakeStream) Close() error { f.closed = true; return nil }
func (f *fakeStream) Size() int64  { return f.size }

type fakeOpener struct {
	streams map[string]*fakeStream
}

func (f *fakeOpener) Open(_ context.Context, uri string, _ Options) (Stream, error) {
	s, ok := f.streams[uri]
	if !ok {
		return nil, os.ErrNotExist
	}
	return s, nil
}

func (f *fakeOpener) Stat(_ context.Context, uri string, _ Options) (Info, error) {
	s, ok := f.streams[uri]
	if !ok {
		return Info{}, os.ErrNotExist
	}
	return Info{Size: s.size}, nil
}

func TestDirname(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/pkg/CPL.xml", "/pkg"},
		{"/CPL.xml", "/"},
		{"CPL.xml", "."},
		{"pkg/sub/CPL.xml", "pkg/sub"},
		{"file:///pkg/CPL.xml", "file:///pkg"},
		{"file:///CPL.xml", "file:///"},
		{"http://host/pkg/CPL.xml", "http://host/pkg"},
		{"http://host/CPL.xml", "http://host/"},
		{"http://host", "http://host"},
		{"s3://bucket/CPL.xml", "s3://bucket/"},
		{"s3://bucket/a/b/CPL.xml", "s3://bucket/a/b"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Dirname(tt.in))
		})
	}
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		base, comp, want string
	}{
		{"/pkg", "a.mxf", "/pkg/a.mxf"},
		{"/pkg/", "a.mxf", "/pkg/a.mxf"},
		{"/pkg", "/a.mxf", "/pkg/a.mxf"},
		{"/pkg/", "/a.mxf", "/pkg/a.mxf"},
		{"", "a.mxf", "a.mxf"},
		{"/pkg", "", "/pkg"},
		{"file:///", "a.mxf", "file:///a.mxf"},
		{"/pkg", "../x/a.mxf", "/pkg/../x/a.mxf"},
	}
	for _, tt := range tests {
		t.Run(tt.base+"+"+tt.comp, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinPath(tt.base, tt.comp))
		})
	}
}

func TestScheme(t *testing.T) {
	assert.Equal(t, "file", Scheme("/pkg/CPL.xml"))
	assert.Equal(t, "file", Scheme("file:///pkg/CPL.xml"))
	assert.Equal(t, "http", Scheme("HTTP://host/CPL.xml"))
	assert.Equal(t, "s3", Scheme("s3://bucket/CPL.xml"))
	assert.Equal(t, "file", Scheme(`C://pkg/CPL.xml`))
}

func TestReadAll(t *testing.T) {
	payload := []byte("<AssetMap/>")

	t.Run("known size", func(t *testing.T) {
		s := &fakeStream{Reader: bytes.NewReader(payload), size: int64(len(payload))}
		o := &fakeOpener{streams: map[string]*fakeStream{"a": s}}

		got, err := ReadAll(context.Background(), o, "a", Options{}, 0)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
		assert.True(t, s.closed)
	})

	t.Run("unknown size", func(t *testing.T) {
		s := &fakeStream{Reader: bytes.NewReader(payload), size: -1}
		o := &fakeOpener{streams: map[string]*fakeStream{"a": s}}

		got, err := ReadAll(context.Background(), o, "a", Options{}, 0)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("short read", func(t *testing.T) {
		s := &fakeStream{Reader: bytes.NewReader(make([]byte, 40)), size: 100}
		o := &fakeOpener{streams: map[string]*fakeStream{"a": s}}

		_, err := ReadAll(context.Background(), o, "a", Options{}, 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, imferr.ErrIO)
		assert.True(t, s.closed)
	})

	t.Run("empty", func(t *testing.T) {
		s := &fakeStream{Reader: bytes.NewReader(nil), size: -1}
		o := &fakeOpener{streams: map[string]*fakeStream{"a": s}}

		_, err := ReadAll(context.Background(), o, "a", Options{}, 0)
		assert.ErrorIs(t, err, imferr.ErrIO)
	})

	t.Run("over limit", func(t *testing.T) {
		s := &fakeStream{Reader: bytes.NewReader(payload), size: -1}
		o := &fakeOpener{streams: map[string]*fakeStream{"a": s}}

		_, err := ReadAll(context.Background(), o, "a", Options{}, 4)
		assert.ErrorIs(t, err, imferr.ErrIO)
	})

	t.Run("exactly at limit", func(t *testing.T) {
		s := &fakeStream{Reader: bytes.NewReader(payload), size: -1}
		o := &fakeOpener{streams: map[string]*fakeStream{"a": s}}

		got, err := ReadAll(context.Background(), o, "a", Options{}, int64(len(payload)))
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("read error", func(t *testing.T) {
		s := &fakeStream{Reader: io.MultiReader(bytes.NewReader(payload), errReader{}), size: -1}
		o := &fakeOpener{streams: map[string]*fakeStream{"a": s}}

		_, err := ReadAll(context.Background(), o, "a", Options{}, 0)
		assert.ErrorIs(t, err, imferr.ErrIO)
	})
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestMux_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CPL.xml")
	require.NoError(t, os.WriteFile(path, []byte("<x/>"), 0o644))

	m := NewMux()

	got, err := ReadAll(context.Background(), m, path, Options{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "<x/>", string(got))

	got, err = ReadAll(context.Background(), m, "file://"+path, Options{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "<x/>", string(got))

	info, err := m.Stat(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), info.Size)

	_, err = m.Open(context.Background(), filepath.Join(dir, "missing.xml"), Options{})
	assert.ErrorIs(t, err, imferr.ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMux_UnsupportedScheme(t *testing.T) {
	_, err := NewMux().Open(context.Background(), "gopher://host/CPL.xml", Options{})
	assert.ErrorIs(t, err, imferr.ErrIO)
}

func TestMux_Interrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CPL.xml")
	require.NoError(t, os.WriteFile(path, []byte("<x/>"), 0o644))

	m := NewMux()

	_, err := m.Open(context.Background(), path, Options{Interrupt: func() bool { return true }})
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.ErrorIs(t, err, imferr.ErrIO)

	// Interrupt raised after the open fails the first read.
	stop := false
	s, err := m.Open(context.Background(), path, Options{Interrupt: func() bool { return stop }})
	require.NoError(t, err)
	defer s.Close()
	stop = true
	_, err = s.Read(make([]byte, 4))
	assert.ErrorIs(t, err, ErrInterrupted)
}

func TestMux_ObservesReads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CPL.xml")
	require.NoError(t, os.WriteFile(path, []byte("<x/>"), 0o644))

	obs := &readObserver{}
	withObserver(t, obs)

	_, err := ReadAll(context.Background(), NewMux(), path, Options{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "file", obs.scheme)
	assert.Equal(t, int64(4), obs.bytes)
	assert.NoError(t, obs.err)
}

type readObserver struct {
	nopObserver
	scheme string
	bytes  int64
	err    error
}

func (r *readObserver) ObserveRead(scheme string, n int64, _ float64, err error) {
	r.scheme, r.bytes, r.err = scheme, n, err
}

func TestHTTPOpener(t *testing.T) {
	var (
		mu                sync.Mutex
		gotUA, gotHeader string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotUA = r.UserAgent()
		gotHeader = r.Header.Get("X-Token")
		mu.Unlock()
		switch r.URL.Path {
		case "/pkg/ASSETMAP.xml":
			w.Write([]byte("<AssetMap/>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	opts := Options{Values: map[string]string{
		OptUserAgent: "imf-test/1.0",
		OptHeaders:   "X-Token: abc\r\n",
		OptTimeout:   "5s",
	}}
	m := NewMux()

	got, err := ReadAll(context.Background(), m, srv.URL+"/pkg/ASSETMAP.xml", opts, 0)
	require.NoError(t, err)
	assert.Equal(t, "<AssetMap/>", string(got))
	mu.Lock()
	assert.Equal(t, "imf-test/1.0", gotUA)
	assert.Equal(t, "abc", gotHeader)
	mu.Unlock()

	_, err = ReadAll(context.Background(), m, srv.URL+"/pkg/missing.xml", opts, 0)
	assert.ErrorIs(t, err, imferr.ErrIO)
}

func TestSplitS3URI(t *testing.T) {
	bucket, key, err := splitS3URI("s3://media/pkg/CPL.xml")
	require.NoError(t, err)
	assert.Equal(t, "media", bucket)
	assert.Equal(t, "pkg/CPL.xml", key)

	_, _, err = splitS3URI("s3://media")
	assert.Error(t, err)

	_, _, err = splitS3URI("http://media/x")
	assert.Error(t, err)
}

func TestS3Opener_ClientCachePerSecret(t *testing.T) {
	o := &S3Opener{}
	opts := func(secret string) Options {
		return Options{Values: map[string]string{
			OptS3Endpoint:  "localhost:9000",
			OptS3AccessKey: "reader",
			OptS3SecretKey: secret,
			OptS3UseSSL:    "false",
		}}
	}

	first, err := o.client(opts("old-secret"))
	require.NoError(t, err)
	again, err := o.client(opts("old-secret"))
	require.NoError(t, err)
	assert.Same(t, first, again)

	rotated, err := o.client(opts("new-secret"))
	require.NoError(t, err)
	assert.NotSame(t, first, rotated)
	assert.Len(t, o.clients, 2)
	for key := range o.clients {
		assert.NotContains(t, key, "secret")
	}
}

func TestS3Opener_RequiresEndpoint(t *testing.T) {
	_, err := (&S3Opener{}).Open(context.Background(), "s3://media/CPL.xml", Options{})
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	o := Options{Values: map[string]string{OptTimeout: "2s", OptS3UseSSL: "false", "bad": "x"}}
	assert.Equal(t, "2s", o.Get(OptTimeout))
	assert.Equal(t, false, o.Bool(OptS3UseSSL, true))
	assert.Equal(t, true, o.Bool("bad", true))

	c := o.Clone()
	c.Values[OptTimeout] = "9s"
	assert.Equal(t, "2s", o.Get(OptTimeout))

	assert.Equal(t, "", Options{}.Get(OptTimeout))
}
