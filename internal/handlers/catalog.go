package handlers

import (
	"fmt"
	"net/http"

	"imf-reader/internal/imferr"
)

// FindCatalogAsset lists every recorded location of the {uuid} asset.
func (h *Handlers) FindCatalogAsset(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		h.writeJSONError(w, "catalog disabled", http.StatusServiceUnavailable)
		return
	}

	id, ok := uuidVar(r)
	if !ok {
		h.writeJSONError(w, "invalid asset UUID", http.StatusBadRequest)
		return
	}

	locations, err := h.catalog.FindAsset(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if len(locations) == 0 {
		h.writeError(w, fmt.Errorf("asset urn:uuid:%s: %w", id, imferr.ErrNotFound))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	h.writeJSON(w, locations)
}

// ListCatalogPackages lists every recorded package.
func (h *Handlers) ListCatalogPackages(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		h.writeJSONError(w, "catalog disabled", http.StatusServiceUnavailable)
		return
	}

	packages, err := h.catalog.ListPackages(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	h.writeJSON(w, packages)
}
