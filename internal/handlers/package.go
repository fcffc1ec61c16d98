package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"imf-reader/internal/assetmap"
	"imf-reader/internal/imf"
)

// AssetsResponse lists the Asset Map in document order.
type AssetsResponse struct {
	BaseURL    string                  `json:"base_url"`
	Assets     []assetmap.AssetLocator `json:"assets"`
	Duplicates []uuid.UUID             `json:"duplicates"`
}

// GetComposition returns the package summary, or the full CPL with
// ?detail=full.
func (h *Handlers) GetComposition(w http.ResponseWriter, r *http.Request) {
	summary, err := h.pkg.Summary()
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Query().Get("detail") == "full" {
		h.writeJSON(w, h.pkg.CPL())
		return
	}
	h.writeJSON(w, summary)
}

// GetAssets returns every Asset Map entry.
func (h *Handlers) GetAssets(w http.ResponseWriter, _ *http.Request) {
	if _, err := h.pkg.Summary(); err != nil {
		h.writeError(w, err)
		return
	}

	response := AssetsResponse{
		BaseURL:    h.pkg.BaseURL(),
		Assets:     h.pkg.Assets(),
		Duplicates: h.pkg.DuplicateAssets(),
	}
	if response.Assets == nil {
		response.Assets = []assetmap.AssetLocator{}
	}
	if response.Duplicates == nil {
		response.Duplicates = []uuid.UUID{}
	}

	w.Header().Set("Content-Type", "application/json")
	h.writeJSON(w, response)
}

// ResolveAsset maps the {uuid} route variable to its absolute URI.
func (h *Handlers) ResolveAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidVar(r)
	if !ok {
		h.writeJSONError(w, "invalid asset UUID", http.StatusBadRequest)
		return
	}

	uri, err := h.pkg.ResolveURI(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	h.writeJSON(w, imf.ResolvedAsset{UUID: id, URI: uri})
}

// VerifyPackage checks every referenced asset. ?workers=N overrides the
// configured pool size. The response is 200 even when assets fail; the
// report's counts say which.
func (h *Handlers) VerifyPackage(w http.ResponseWriter, r *http.Request) {
	n := h.verifyWorkers
	if v := r.URL.Query().Get("workers"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			h.writeJSONError(w, "workers must be a non-negative integer", http.StatusBadRequest)
			return
		}
		n = parsed
	}

	report, err := h.pkg.Verify(r.Context(), n)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	h.writeJSON(w, report)
}
