package municipality

import (
	"budget-monitor/internal/adapters/handlers/http/chi/v1/document"
	"budget-monitor/internal/core/domain"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// V1DocumentsStatusResponse tells whether both budget laws of a municipality are processed
type V1DocumentsStatusResponse struct {
	MunicipalityID   uuid.UUID                    `json:"municipality_id"`
	MunicipalityName string                       `json:"municipality_name"`
	LOA              *document.V1DocumentResponse `json:"loa"`
	LDO              *document.V1DocumentResponse `json:"ldo"`
	LOAProcessed     bool                         `json:"loa_processed"`
	LDOProcessed     bool                         `json:"ldo_processed"`
	Ready            bool                         `json:"ready"`
}

func (h *HandlerV1) GetDocumentsStatusV1(w http.ResponseWriter, r *http.Request) {
	id, ok := municipalityID(w, r)
	if !ok {
		return
	}

	status, err := h.municipalityService.GetDocumentsStatus(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrMunicipalityNotFound):
		http.Error(w, "municipality not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("error getting documents status", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := V1DocumentsStatusResponse{
		MunicipalityID:   status.Municipality.ID,
		MunicipalityName: status.Municipality.Name,
		LOAProcessed:     status.LOAProcessed(),
		LDOProcessed:     status.LDOProcessed(),
		Ready:            status.Ready(),
	}
	if status.LOA != nil {
		loa := document.NewV1DocumentResponse(status.LOA)
		resp.LOA = &loa
	}
	if status.LDO != nil {
		ldo := document.NewV1DocumentResponse(status.LDO)
		resp.LDO = &ldo
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
