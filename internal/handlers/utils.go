package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"imf-reader/internal/imf"
	"imf-reader/internal/imferr"
)

// writeJSON encodes v as the response body.
func (h *Handlers) writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func (h *Handlers) writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	h.writeJSON(w, map[string]string{"error": message})
}

// writeError maps err onto an HTTP status.
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed: %v", err)
	}
	h.writeJSONError(w, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, imferr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, imferr.ErrInvalidData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, imf.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// uuidVar parses the {uuid} route variable, accepting the urn:uuid: form.
func uuidVar(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["uuid"])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
