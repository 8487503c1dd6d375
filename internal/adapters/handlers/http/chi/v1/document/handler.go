package document

import (
	"budget-monitor/internal/core/port"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HandlerV1 is the handler for v1 documents routes
type HandlerV1 struct {
	documentService port.DocumentService
	logger          *slog.Logger
}

// NewDocumentHandlerV1 creates HandlerV1
func NewDocumentHandlerV1(service port.DocumentService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		documentService: service,
		logger:          logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/upload", h.UploadDocumentV1)
	router.Get("/", h.ListDocumentsV1)
	router.Get("/{documentID}", h.GetDocumentV1)
	router.Delete("/{documentID}", h.DeleteDocumentV1)
	router.Post("/{documentID}/process", h.ProcessDocumentV1)
	router.Post("/{documentID}/reprocess", h.ReprocessDocumentV1)
	router.Get("/{documentID}/progress", h.GetProgressV1)
	router.Get("/{documentID}/stats", h.GetStatsV1)

	return router
}

func documentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "documentID")
	if raw == "" {
		http.Error(w, "document id is required", http.StatusBadRequest)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *HandlerV1) writeJSON(w http.ResponseWriter, status int, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
