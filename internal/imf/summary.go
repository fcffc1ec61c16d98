package imf

import (
	"github.com/google/uuid"

	"imf-reader/internal/cpl"
)

// TrackSummary describes one virtual track.
type TrackSummary struct {
	TrackID   uuid.UUID        `json:"track_id"`
	Kind      cpl.SequenceKind `json:"kind"`
	Resources int              `json:"resources"`
	Duration  cpl.Rational     `json:"duration"`
	Seconds   float64          `json:"seconds"`
}

// Summary is a compact description of an open package.
type Summary struct {
	CPLID        uuid.UUID      `json:"cpl_id"`
	Title        string         `json:"title"`
	Annotation   string         `json:"annotation,omitempty"`
	IssueDate    string         `json:"issue_date,omitempty"`
	EditRate     cpl.Rational   `json:"edit_rate"`
	Segments     int            `json:"segments"`
	Tracks       []TrackSummary `json:"tracks"`
	Assets       int            `json:"assets"`
	Referenced   int            `json:"referenced_assets"`
	Duplicates   int            `json:"duplicate_assets"`
	CPLURL       string         `json:"cpl_url"`
	AssetMapPath string         `json:"asset_map_path"`
	BaseURL      string         `json:"base_url"`
}

// Summary describes the package. It returns ErrClosed after Close.
func (p *Package) Summary() (Summary, error) {
	if p == nil || p.closed {
		return Summary{}, ErrClosed
	}
	c := p.cpl
	s := Summary{
		CPLID:        c.ID,
		Title:        c.ContentTitle,
		Annotation:   c.Annotation,
		IssueDate:    c.IssueDate,
		EditRate:     c.EditRate,
		Segments:     len(c.Segments),
		Tracks:       []TrackSummary{},
		Assets:       p.assets.Len(),
		Referenced:   len(c.ReferencedAssets()),
		Duplicates:   len(p.assets.Duplicates()),
		CPLURL:       p.url,
		AssetMapPath: p.assetMapPath,
		BaseURL:      p.baseURL,
	}
	for _, t := range c.Tracks() {
		d := t.Duration()
		s.Tracks = append(s.Tracks, TrackSummary{
			TrackID:   t.TrackID,
			Kind:      t.Kind,
			Resources: len(t.Resources),
			Duration:  d,
			Seconds:   d.Float64(),
		})
	}
	return s, nil
}
