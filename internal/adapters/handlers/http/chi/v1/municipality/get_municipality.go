package municipality

import (
	"budget-monitor/internal/core/domain"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func municipalityID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "municipalityID"))
	if err != nil {
		http.Error(w, "municipality id must be a valid uuid", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *HandlerV1) GetMunicipalityV1(w http.ResponseWriter, r *http.Request) {
	id, ok := municipalityID(w, r)
	if !ok {
		return
	}

	municipality, err := h.municipalityService.GetMunicipality(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrMunicipalityNotFound):
		http.Error(w, "municipality not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("error getting municipality", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(newV1MunicipalityResponse(municipality)); err != nil {
			h.logger.Error("error encoding response", "error", err)
		}
	}
}

// DeleteMunicipalityV1 deletes a municipality and its documents
func (h *HandlerV1) DeleteMunicipalityV1(w http.ResponseWriter, r *http.Request) {
	id, ok := municipalityID(w, r)
	if !ok {
		return
	}

	err := h.municipalityService.DeleteMunicipality(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrMunicipalityNotFound):
		http.Error(w, "municipality not found", http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("error deleting municipality", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
