package document

import (
	"budget-monitor/internal/core/domain"
	"errors"
	"net/http"
)

// ProcessDocumentV1 triggers processing and returns at once, the work continues server side
func (h *HandlerV1) ProcessDocumentV1(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	doc, err := h.documentService.StartProcessing(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		http.Error(w, "document not found", http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, domain.ErrProcessingFailed):
		h.logger.Error("processing could not be queued", "document_id", id, "error", err)
		http.Error(w, "processing could not be queued", http.StatusServiceUnavailable)
		return
	case err != nil:
		h.logger.Error("error starting processing", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	default:
		h.writeJSON(w, http.StatusAccepted, NewV1DocumentResponse(doc))
		return
	}
}

// ReprocessDocumentV1 puts a completed or failed document back to pending
func (h *HandlerV1) ReprocessDocumentV1(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	doc, err := h.documentService.Reprocess(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		http.Error(w, "document not found", http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("error resetting document", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	default:
		h.writeJSON(w, http.StatusOK, NewV1DocumentResponse(doc))
		return
	}
}
