package municipality

import (
	"budget-monitor/internal/core/domain"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// V1CreateMunicipalityRequest is the body request for Create Municipality
type V1CreateMunicipalityRequest struct {
	Name  string `json:"name"`
	State string `json:"state"`
	Year  int    `json:"year"`
}

// V1MunicipalityResponse is the representation of a municipality
type V1MunicipalityResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	State     string    `json:"state"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"created_at"`
}

func newV1MunicipalityResponse(m *domain.Municipality) V1MunicipalityResponse {
	return V1MunicipalityResponse{
		ID:        m.ID,
		Name:      m.Name,
		State:     m.State,
		Year:      m.Year,
		CreatedAt: m.CreatedAt,
	}
}

// CreateMunicipalityV1 is the handler for create municipality v1
func (h *HandlerV1) CreateMunicipalityV1(w http.ResponseWriter, r *http.Request) {

	var req V1CreateMunicipalityRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.logger.Error("error decoding create municipality request", "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	municipality, err := h.municipalityService.CreateMunicipality(r.Context(), req.Name, req.State, req.Year)
	switch {
	case errors.Is(err, domain.ErrInvalidMunicipality):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, domain.ErrAlreadyExists):
		http.Error(w, "municipality already exists", http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("error creating municipality", "error", err)
		http.Error(w, "internal server error", http.StatusServiceUnavailable)
		return
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(newV1MunicipalityResponse(municipality)); err != nil {
			h.logger.Error("error encoding response", "error", err)
		}
	}
}
