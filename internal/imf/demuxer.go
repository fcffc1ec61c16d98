package imf

import (
	"context"

	"imf-reader/internal/demux"
)

// OptAssetMap is the demuxer format option overriding the Asset Map path.
const OptAssetMap = "assetmap"

// Demuxer exposes IMF packages to a demux.Registry.
type Demuxer struct {
	defaults Options
}

// NewDemuxer returns a demuxer that opens packages with defaults, overlaid
// by the per-open demux options.
func NewDemuxer(defaults Options) *Demuxer {
	return &Demuxer{defaults: defaults}
}

// Register adds the IMF demuxer to reg.
func Register(reg *demux.Registry, defaults Options) error {
	return reg.Register(NewDemuxer(defaults))
}

// Name implements demux.Demuxer.
func (d *Demuxer) Name() string { return "imf" }

// Extensions implements demux.Demuxer.
func (d *Demuxer) Extensions() []string { return []string{"xml"} }

// Open implements demux.Demuxer.
func (d *Demuxer) Open(ctx context.Context, url string, opts demux.Options) (demux.Session, error) {
	o := d.defaults
	if v := opts.Get(OptAssetMap); v != "" {
		o.AssetMapPath = v
	}
	if opts.Transport.Values != nil {
		o.Transport.Values = opts.Transport.Values
	}
	if opts.Transport.Interrupt != nil {
		o.Transport.Interrupt = opts.Transport.Interrupt
	}
	if opts.Logger != nil {
		o.Logger = opts.Logger
	}

	p, err := Open(ctx, url, o)
	if err != nil {
		return nil, err
	}
	return p, nil
}
