package document

import (
	"budget-monitor/internal/core/domain"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// V1ListDocumentsResponse is the response to list documents
type V1ListDocumentsResponse struct {
	Documents []V1DocumentResponse `json:"documents"`
}

// ListDocumentsV1 lists documents, newest upload first
func (h *HandlerV1) ListDocumentsV1(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var filter domain.DocumentFilter

	if raw := query.Get("municipality_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "municipality_id must be a valid uuid", http.StatusBadRequest)
			return
		}
		filter.MunicipalityID = &id
	}
	if raw := query.Get("doc_type"); raw != "" {
		docType, err := domain.ParseDocumentType(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		filter.Type = &docType
	}
	if raw := query.Get("status"); raw != "" {
		status, err := domain.ParseDocumentStatus(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		filter.Status = &status
	}
	for param, dst := range map[string]*int{"skip": &filter.Offset, "limit": &filter.Limit} {
		raw := query.Get(param)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, param+" must be a non negative number", http.StatusBadRequest)
			return
		}
		*dst = n
	}

	docs, err := h.documentService.ListDocuments(r.Context(), filter)
	if err != nil {
		h.logger.Error("error listing documents", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := V1ListDocumentsResponse{Documents: make([]V1DocumentResponse, 0, len(docs))}
	for i := range docs {
		resp.Documents = append(resp.Documents, NewV1DocumentResponse(&docs[i]))
	}
	h.writeJSON(w, http.StatusOK, resp)
}
