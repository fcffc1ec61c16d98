package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"imf-reader/internal/catalog"
	"imf-reader/internal/imf"
	"imf-reader/internal/logging"
	"imf-reader/internal/metrics"
)

// Catalog is the subset of catalog.Catalog used by the handlers.
type Catalog interface {
	FindAsset(ctx context.Context, id uuid.UUID) ([]catalog.Location, error)
	ListPackages(ctx context.Context) ([]catalog.PackageSummary, error)
	GetStats() metrics.Stats
}

type Handlers struct {
	pkg           *imf.Package
	catalog       Catalog
	verifyWorkers int
	log           *logging.Logger
	startTime     time.Time
}

// New returns handlers serving pkg. cat may be nil when no catalog is
// configured; the catalog routes then answer 503.
func New(pkg *imf.Package, cat Catalog, verifyWorkers int, log *logging.Logger) *Handlers {
	h := &Handlers{
		pkg:           pkg,
		verifyWorkers: verifyWorkers,
		log:           log,
		startTime:     time.Now(),
	}
	// A typed nil would defeat the nil check in the catalog handlers.
	if c, ok := cat.(*catalog.Catalog); !ok || c != nil {
		h.catalog = cat
	}
	return h
}
