package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Location is one place an asset can be found.
type Location struct {
	AssetID  uuid.UUID `json:"asset_id"`
	CPLID    uuid.UUID `json:"cpl_id"`
	CPLTitle string    `json:"cpl_title"`
	URI      string    `json:"uri"`
	Length   uint64    `json:"length,omitempty"`
}

// PackageSummary describes a recorded package.
type PackageSummary struct {
	CPLID        uuid.UUID `json:"cpl_id"`
	Title        string    `json:"title"`
	CPLURL       string    `json:"cpl_url"`
	AssetMapPath string    `json:"asset_map_path"`
	EditRate     string    `json:"edit_rate"`
	Assets       int       `json:"assets"`
	Duplicates   int       `json:"duplicates"`
	RecordedAt   time.Time `json:"recorded_at"`
}
