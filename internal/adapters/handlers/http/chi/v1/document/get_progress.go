package document

import (
	"budget-monitor/internal/core/domain"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// V1StatsResponse is the processing summary of a document
type V1StatsResponse struct {
	DocumentID            uuid.UUID             `json:"document_id"`
	Status                domain.DocumentStatus `json:"status"`
	TotalChunks           int                   `json:"total_chunks"`
	UploadDate            time.Time             `json:"upload_date"`
	ProcessedDate         *time.Time            `json:"processed_date"`
	ProcessingTimeSeconds *float64              `json:"processing_time_seconds"`
	Progress              V1ProgressResponse    `json:"progress"`
}

// GetProgressV1 returns the last known batch progress, whatever the status
func (h *HandlerV1) GetProgressV1(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	progress, err := h.documentService.GetProgress(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		http.Error(w, "document not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("error getting progress", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	default:
		h.writeJSON(w, http.StatusOK, newV1ProgressResponse(*progress))
		return
	}
}

func (h *HandlerV1) GetStatsV1(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	stats, err := h.documentService.GetStats(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		http.Error(w, "document not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("error getting stats", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	default:
		resp := V1StatsResponse{
			DocumentID:    stats.DocumentID,
			Status:        stats.Status,
			TotalChunks:   stats.TotalChunks,
			UploadDate:    stats.UploadDate,
			ProcessedDate: stats.ProcessedDate,
			Progress:      newV1ProgressResponse(stats.Progress),
		}
		if stats.Duration != nil {
			seconds := stats.Duration.Seconds()
			resp.ProcessingTimeSeconds = &seconds
		}
		h.writeJSON(w, http.StatusOK, resp)
		return
	}
}
