package imf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"imf-reader/internal/assetmap"
	"imf-reader/internal/cpl"
	"imf-reader/internal/demux"
	"imf-reader/internal/imferr"
	"imf-reader/internal/logging"
	"imf-reader/internal/metrics"
	"imf-reader/internal/transport"
	"imf-reader/internal/xmltree"
)

// DefaultAssetMapName is the Asset Map file looked up next to the CPL.
const DefaultAssetMapName = "ASSETMAP.xml"

// ErrClosed is returned by operations on a closed package.
var ErrClosed = errors.New("package closed")

// Options configures Open.
type Options struct {
	// AssetMapPath overrides the sibling ASSETMAP.xml.
	AssetMapPath string
	// MaxReadSize bounds each document read; zero selects
	// transport.DefaultMaxReadSize.
	MaxReadSize int64
	// MaxAssets bounds the Asset Map table; zero selects
	// assetmap.DefaultMaxAssets.
	MaxAssets int
	// StrictPaths rejects chunk paths that leave the package directory.
	StrictPaths bool

	Transport transport.Options
	// Opener defaults to transport.NewMux().
	Opener transport.Opener
	Logger *logging.Logger
}

// Package is an open IMF package.
type Package struct {
	url          string
	baseURL      string
	assetMapPath string
	maxReadSize  int64

	cpl    *cpl.CompositionPlaylist
	assets *assetmap.Table

	transport transport.Options
	opener    transport.Opener
	log       *logging.Logger

	counted bool
	closed  bool
}

// Open reads the CPL at url and its Asset Map. On failure every partially
// built part is released and the returned package is nil.
func Open(ctx context.Context, url string, opts Options) (*Package, error) {
	start := time.Now()
	p, err := open(ctx, url, opts)
	metrics.PackageOpenDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.PackageOpensTotal.WithLabelValues(imferr.Kind(err)).Inc()
		opts.Logger.Debug("imf: open %s failed in %v: %v", url, time.Since(start), err)
		return nil, err
	}

	metrics.PackageOpensTotal.WithLabelValues("success").Inc()
	metrics.PackagesOpen.Inc()
	p.counted = true
	p.log.Info("imf: opened CPL urn:uuid:%s (%d assets) in %v", p.cpl.ID, p.assets.Len(), time.Since(start))
	return p, nil
}

func open(ctx context.Context, url string, opts Options) (*Package, error) {
	opener := opts.Opener
	if opener == nil {
		opener = transport.NewMux()
	}
	topts := opts.Transport.Clone()
	if topts.Logger == nil {
		topts.Logger = opts.Logger
	}

	p := &Package{
		url:         url,
		maxReadSize: opts.MaxReadSize,
		transport:   topts,
		opener:      opener,
		log:         opts.Logger,
	}

	if err := p.loadCPL(ctx); err != nil {
		p.Close()
		return nil, err
	}

	p.assetMapPath = opts.AssetMapPath
	if p.assetMapPath == "" {
		p.assetMapPath = transport.JoinPath(transport.Dirname(url), DefaultAssetMapName)
	}

	if err := p.loadAssetMap(ctx, opts); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func (p *Package) loadCPL(ctx context.Context) error {
	p.log.Debug("imf: reading CPL %s", p.url)

	data, err := transport.ReadAll(ctx, p.opener, p.url, p.transport, p.maxReadSize)
	if err != nil {
		metrics.DocumentParseErrors.WithLabelValues("cpl", "read").Inc()
		return fmt.Errorf("unable to read CPL %q: %w", p.url, err)
	}

	doc, err := xmltree.Parse(data)
	if err != nil {
		metrics.DocumentParseErrors.WithLabelValues("cpl", "xml").Inc()
		return fmt.Errorf("CPL %q: %w", p.url, err)
	}

	c, err := cpl.Parse(doc)
	if err != nil {
		metrics.DocumentParseErrors.WithLabelValues("cpl", "structure").Inc()
		return fmt.Errorf("CPL %q: %w", p.url, err)
	}

	p.cpl = c
	p.log.Debug("imf: parsed CPL urn:uuid:%s %q", c.ID, c.ContentTitle)
	return nil
}

func (p *Package) loadAssetMap(ctx context.Context, opts Options) error {
	p.log.Debug("imf: reading asset map %s", p.assetMapPath)

	data, err := transport.ReadAll(ctx, p.opener, p.assetMapPath, p.transport, p.maxReadSize)
	if err != nil {
		metrics.DocumentParseErrors.WithLabelValues("assetmap", "read").Inc()
		return fmt.Errorf("unable to read asset map %q: %w: %w", p.assetMapPath, imferr.ErrInvalidData, err)
	}

	doc, err := xmltree.Parse(data)
	if err != nil {
		metrics.DocumentParseErrors.WithLabelValues("assetmap", "xml").Inc()
		return fmt.Errorf("asset map %q: %w", p.assetMapPath, err)
	}

	base := transport.Dirname(p.assetMapPath)
	table, err := assetmap.Parse(doc, base,
		assetmap.WithLimit(opts.MaxAssets),
		assetmap.WithStrictPaths(opts.StrictPaths),
		assetmap.WithLogger(p.log),
	)
	if err != nil {
		metrics.DocumentParseErrors.WithLabelValues("assetmap", "structure").Inc()
		return fmt.Errorf("asset map %q: %w", p.assetMapPath, err)
	}

	metrics.AssetsPerMap.Observe(float64(table.Len()))
	if dups := table.Duplicates(); len(dups) > 0 {
		metrics.AssetMapDuplicates.Add(float64(len(dups)))
	}

	p.assets = table
	p.baseURL = base
	p.log.Debug("imf: asset map lists %d assets under %s", table.Len(), base)
	return nil
}

// Close releases the package. It is safe to call more than once and on a
// nil package.
func (p *Package) Close() error {
	if p == nil || p.closed {
		return nil
	}
	p.closed = true
	if p.counted {
		metrics.PackagesOpen.Dec()
		p.counted = false
	}
	if p.cpl != nil {
		p.log.Debug("imf: closing CPL urn:uuid:%s", p.cpl.ID)
	}

	p.cpl = nil
	p.assets = nil
	p.transport = transport.Options{}
	p.baseURL = ""
	p.opener = nil
	return nil
}

// ResolveURI returns the absolute URI of the asset id. Unknown ids yield an
// error wrapping imferr.ErrNotFound.
func (p *Package) ResolveURI(id uuid.UUID) (string, error) {
	if p == nil || p.closed {
		return "", ErrClosed
	}
	uri, err := p.assets.Lookup(id)
	if err != nil {
		metrics.ResolveLookupsTotal.WithLabelValues("miss").Inc()
		return "", err
	}
	metrics.ResolveLookupsTotal.WithLabelValues("hit").Inc()
	return uri, nil
}

// ReadPacket always reports io.EOF: essence is delivered by the container
// reader that opens the resolved URIs, not by the package itself.
func (p *Package) ReadPacket(context.Context) (*demux.Packet, error) {
	if p == nil || p.closed {
		return nil, ErrClosed
	}
	return nil, io.EOF
}

// URL returns the CPL location the package was opened from.
func (p *Package) URL() string { return p.url }

// BaseURL returns the directory chunk paths are resolved against.
func (p *Package) BaseURL() string { return p.baseURL }

// AssetMapPath returns the Asset Map location that was read.
func (p *Package) AssetMapPath() string { return p.assetMapPath }

// CPL returns the parsed composition, or nil after Close.
func (p *Package) CPL() *cpl.CompositionPlaylist { return p.cpl }

// Assets returns a copy of the Asset Map entries in document order.
func (p *Package) Assets() []assetmap.AssetLocator { return p.assets.Entries() }

// DuplicateAssets returns the asset ids listed more than once in the Asset
// Map.
func (p *Package) DuplicateAssets() []uuid.UUID { return p.assets.Duplicates() }
