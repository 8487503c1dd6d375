package document

import (
	"budget-monitor/internal/core/domain"
	"errors"
	"net/http"
)

func (h *HandlerV1) DeleteDocumentV1(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	err := h.documentService.Delete(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		http.Error(w, "document not found", http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrInvalidTransition):
		http.Error(w, "document is processing", http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("error deleting document", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	default:
		w.WriteHeader(http.StatusNoContent)
		return
	}
}
