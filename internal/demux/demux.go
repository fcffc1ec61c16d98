package demux

import (
	"context"

	"imf-reader/internal/logging"
	"imf-reader/internal/transport"
)

// Packet is one unit of essence handed downstream.
type Packet struct {
	StreamIndex int
	PTS         int64
	Duration    int64
	Data        []byte
}

// Options carries format options (such as "assetmap" for IMF) alongside the
// transport configuration and logger for one open.
type Options struct {
	Format    map[string]string
	Transport transport.Options
	Logger    *logging.Logger
}

// Get returns the format option for key, or "".
func (o Options) Get(key string) string {
	if o.Format == nil {
		return ""
	}
	return o.Format[key]
}

// Session is an open input.
type Session interface {
	// ReadPacket returns the next packet, or io.EOF when no more remain.
	ReadPacket(ctx context.Context) (*Packet, error)
	// Close releases the session. It is safe to call more than once.
	Close() error
}

// Demuxer opens inputs of one format.
type Demuxer interface {
	Name() string
	Extensions() []string
	Open(ctx context.Context, url string, opts Options) (Session, error)
}
