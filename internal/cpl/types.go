package cpl

import (
	"fmt"
	"math"
	"math/big"

	"github.com/google/uuid"
)

// Rational is a positive fraction such as an edit rate of 24000/1001.
type Rational struct {
	Num int64 `json:"num"`
	Den int64 `json:"den"`
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Float64 returns r as a floating-point number, or 0 when Den is zero.
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

func (r Rational) rat() *big.Rat {
	if r.Den == 0 {
		return new(big.Rat)
	}
	return big.NewRat(r.Num, r.Den)
}

// SequenceKind classifies a sequence by its element name.
type SequenceKind int

const (
	KindOther SequenceKind = iota
	KindMainImage
	KindMainAudio
	KindSubtitles
	KindMarker
)

var kindNames = map[SequenceKind]string{
	KindOther:     "other",
	KindMainImage: "main_image",
	KindMainAudio: "main_audio",
	KindSubtitles: "subtitles",
	KindMarker:    "marker",
}

func (k SequenceKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k SequenceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SequenceKind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown sequence kind %q", text)
}

// Marker is a labelled point inside a marker resource.
type Marker struct {
	Label  string `json:"label"`
	Offset uint64 `json:"offset"`
}

// Resource is one entry of a sequence's ResourceList. All durations are in
// units of EditRate.
type Resource struct {
	ID                uuid.UUID `json:"id"`
	TrackFileID       uuid.UUID `json:"track_file_id,omitempty"`
	EditRate          Rational  `json:"edit_rate"`
	EntryPoint        uint64    `json:"entry_point"`
	IntrinsicDuration uint64    `json:"intrinsic_duration"`
	SourceDuration    uint64    `json:"source_duration"`
	RepeatCount       uint64    `json:"repeat_count"`
	Markers           []Marker  `json:"markers,omitempty"`
}

// HasTrackFile reports whether the resource references essence.
func (r Resource) HasTrackFile() bool {
	return r.TrackFileID != uuid.Nil
}

// Duration returns the played duration in seconds, repeats included.
func (r Resource) Duration() *big.Rat {
	d := new(big.Rat).SetFrac64(0, 1)
	if r.EditRate.Num == 0 {
		return d
	}
	frames := new(big.Int).SetUint64(r.SourceDuration)
	frames.Mul(frames, new(big.Int).SetUint64(r.RepeatCount))
	d.SetInt(frames)
	return d.Quo(d, r.EditRate.rat())
}

// Sequence is one track's contribution to a segment.
type Sequence struct {
	ID        uuid.UUID    `json:"id"`
	TrackID   uuid.UUID    `json:"track_id"`
	Kind      SequenceKind `json:"kind"`
	Name      string       `json:"name"`
	Resources []Resource   `json:"resources"`
}

// Segment is one entry of the SegmentList.
type Segment struct {
	ID        uuid.UUID  `json:"id"`
	Sequences []Sequence `json:"sequences"`
}

// VirtualTrack is the concatenation of every sequence sharing a TrackId, in
// document order.
type VirtualTrack struct {
	TrackID   uuid.UUID    `json:"track_id"`
	Kind      SequenceKind `json:"kind"`
	Resources []Resource   `json:"resources"`
}

// Duration returns the total duration of the track in seconds. Tracks from
// Parse always fit; a hand-built track that does not saturates at
// math.MaxInt64 seconds.
func (t *VirtualTrack) Duration() Rational {
	total := t.total()
	if !fitsInt64(total) {
		return Rational{Num: math.MaxInt64, Den: 1}
	}
	return Rational{Num: total.Num().Int64(), Den: total.Denom().Int64()}
}

func (t *VirtualTrack) total() *big.Rat {
	total := new(big.Rat)
	if t == nil {
		return total
	}
	for _, r := range t.Resources {
		total.Add(total, r.Duration())
	}
	return total
}

func fitsInt64(r *big.Rat) bool {
	return r.Num().IsInt64() && r.Denom().IsInt64()
}

// CompositionPlaylist is a parsed CPL.
type CompositionPlaylist struct {
	ID           uuid.UUID       `json:"id"`
	Annotation   string          `json:"annotation,omitempty"`
	ContentTitle string          `json:"content_title"`
	IssueDate    string          `json:"issue_date,omitempty"`
	EditRate     Rational        `json:"edit_rate"`
	Segments     []Segment       `json:"segments"`
	MainImage    *VirtualTrack   `json:"main_image,omitempty"`
	MainAudio    []*VirtualTrack `json:"main_audio,omitempty"`
	Subtitles    []*VirtualTrack `json:"subtitles,omitempty"`
	Markers      *VirtualTrack   `json:"markers,omitempty"`
}

// Tracks returns every assembled virtual track: image first, then audio,
// subtitles and markers.
func (c *CompositionPlaylist) Tracks() []*VirtualTrack {
	if c == nil {
		return nil
	}
	var out []*VirtualTrack
	if c.MainImage != nil {
		out = append(out, c.MainImage)
	}
	out = append(out, c.MainAudio...)
	out = append(out, c.Subtitles...)
	if c.Markers != nil {
		out = append(out, c.Markers)
	}
	return out
}

// ReferencedAssets returns the unique track file UUIDs referenced by any
// sequence, in order of first reference.
func (c *CompositionPlaylist) ReferencedAssets() []uuid.UUID {
	if c == nil {
		return nil
	}
	seen := make(map[uuid.UUID]struct{})
	var out []uuid.UUID
	for _, seg := range c.Segments {
		for _, seq := range seg.Sequences {
			for _, r := range seq.Resources {
				if !r.HasTrackFile() {
					continue
				}
				if _, ok := seen[r.TrackFileID]; ok {
					continue
				}
				seen[r.TrackFileID] = struct{}{}
				out = append(out, r.TrackFileID)
			}
		}
	}
	return out
}
