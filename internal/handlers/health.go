package handlers

import (
	"net/http"
	"runtime"
	"time"

	"imf-reader/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`

	CPLID  string `json:"cplId,omitempty"`
	Title  string `json:"title,omitempty"`
	Assets int    `json:"assets"`
	Error  string `json:"error,omitempty"`

	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`

	CatalogPackages int `json:"catalogPackages,omitempty"`
	CatalogAssets   int `json:"catalogAssets,omitempty"`
}

// HealthCheck reports the open package and, when configured, the catalog.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	response := HealthResponse{
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	summary, err := h.pkg.Summary()
	if err != nil {
		response.Status = statusDegraded
		response.Error = err.Error()
	} else {
		response.Status = statusHealthy
		response.Ready = true
		response.CPLID = "urn:uuid:" + summary.CPLID.String()
		response.Title = summary.Title
		response.Assets = summary.Assets
	}

	if h.catalog != nil {
		stats := h.catalog.GetStats()
		response.CatalogPackages = stats.TotalPackages
		response.CatalogAssets = stats.TotalAssets
	}

	w.Header().Set("Content-Type", "application/json")
	if !response.Ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	h.writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		h.writeJSON(w, map[string]string{"status": "alive"})
	}
}

// ReadinessCheck returns 200 only while the package is open.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := h.pkg.Summary(); err == nil {
		w.WriteHeader(http.StatusOK)
		h.writeJSON(w, map[string]string{"status": "ready"})
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	h.writeJSON(w, map[string]string{"status": "not_ready"})
}
