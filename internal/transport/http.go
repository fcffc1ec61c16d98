package transport

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultHTTPTimeout = 30 * time.Second

// HTTPOpener opens http:// and https:// URIs with GET requests.
type HTTPOpener struct {
	// Client overrides the client built from the timeout option.
	Client *http.Client
}

type httpStream struct {
	resp *http.Response
}

func (h *httpStream) Read(p []byte) (int, error) { return h.resp.Body.Read(p) }
func (h *httpStream) Close() error               { return h.resp.Body.Close() }
func (h *httpStream) Size() int64                { return h.resp.ContentLength }

// Open implements Opener.
func (o HTTPOpener) Open(ctx context.Context, uri string, opts Options) (Stream, error) {
	resp, err := o.do(ctx, http.MethodGet, uri, opts)
	if err != nil {
		return nil, err
	}
	return &httpStream{resp: resp}, nil
}

// Stat implements Opener with a HEAD request.
func (o HTTPOpener) Stat(ctx context.Context, uri string, opts Options) (Info, error) {
	resp, err := o.do(ctx, http.MethodHead, uri, opts)
	if err != nil {
		return Info{}, err
	}
	defer resp.Body.Close()

	info := Info{Size: resp.ContentLength}
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			info.ModTime = t
		}
	}
	return info, nil
}

func (o HTTPOpener) do(ctx context.Context, method, uri string, opts Options) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, uri, http.NoBody)
	if err != nil {
		return nil, err
	}
	if ua := opts.Get(OptUserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	for _, line := range strings.FieldsFunc(opts.Get(OptHeaders), func(r rune) bool { return r == '\n' || r == '\r' }) {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		req.Header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	client := o.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Duration(OptTimeout, defaultHTTPTimeout)}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected HTTP status %s", resp.Status)
	}
	return resp, nil
}
