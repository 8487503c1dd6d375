package document

import (
	"budget-monitor/internal/core/domain"
	"errors"
	"net/http"
)

// GetDocumentV1 returns a single document with its current status
func (h *HandlerV1) GetDocumentV1(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	doc, err := h.documentService.GetDocument(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		http.Error(w, "document not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("error getting document", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	default:
		h.writeJSON(w, http.StatusOK, NewV1DocumentResponse(doc))
		return
	}
}
