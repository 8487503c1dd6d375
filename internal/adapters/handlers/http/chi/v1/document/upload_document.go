package document

import (
	"budget-monitor/internal/core/domain"
	"budget-monitor/internal/core/port"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// maxMultipartMemory is kept in memory, the rest of the form spills to disk
const maxMultipartMemory = 8 << 20

// V1UploadDocumentResponse is the response to a document upload
type V1UploadDocumentResponse struct {
	DocumentID                     uuid.UUID             `json:"document_id"`
	Filename                       string                `json:"filename"`
	FileSizeBytes                  int64                 `json:"file_size_bytes"`
	Status                         domain.DocumentStatus `json:"status"`
	Version                        int                   `json:"version"`
	EstimatedProcessingTimeMinutes int                   `json:"estimated_processing_time_minutes"`
}

// UploadDocumentV1 handles a multipart upload with the fields file, municipality_id, doc_type and year
func (h *HandlerV1) UploadDocumentV1(w http.ResponseWriter, r *http.Request) {

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	municipalityID, err := uuid.Parse(r.FormValue("municipality_id"))
	if err != nil {
		http.Error(w, "municipality_id must be a valid uuid", http.StatusBadRequest)
		return
	}

	docType := r.FormValue("doc_type")
	if docType == "" {
		http.Error(w, "doc_type is required", http.StatusBadRequest)
		return
	}

	var year int
	if raw := r.FormValue("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "year must be a number", http.StatusBadRequest)
			return
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, uploadErr := h.documentService.Upload(r.Context(), port.UploadRequest{
		MunicipalityID: municipalityID,
		Type:           docType,
		Filename:       header.Filename,
		Year:           year,
		Size:           header.Size,
		Content:        file,
	})
	switch {
	case errors.Is(uploadErr, domain.ErrInvalidDocumentType),
		errors.Is(uploadErr, domain.ErrInvalidFileType),
		errors.Is(uploadErr, domain.ErrFileSizeTooBig),
		errors.Is(uploadErr, domain.ErrEmptyFile),
		errors.Is(uploadErr, domain.ErrInvalidYear),
		errors.Is(uploadErr, domain.ErrInvalidFilename):
		h.logger.Warn("invalid upload", "error", uploadErr)
		http.Error(w, uploadErr.Error(), http.StatusBadRequest)
		return
	case errors.Is(uploadErr, domain.ErrMunicipalityNotFound):
		http.Error(w, "municipality not found", http.StatusNotFound)
		return
	case errors.Is(uploadErr, domain.ErrUploadInProgress):
		http.Error(w, uploadErr.Error(), http.StatusConflict)
		return
	case uploadErr != nil:
		h.logger.Error("error uploading document", "error", uploadErr)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	default:
		h.writeJSON(w, http.StatusCreated, V1UploadDocumentResponse{
			DocumentID:                     res.Document.ID,
			Filename:                       res.Document.Filename,
			FileSizeBytes:                  res.Document.SizeBytes,
			Status:                         res.Document.Status,
			Version:                        res.Document.Version,
			EstimatedProcessingTimeMinutes: res.EstimatedProcessingTimeMinutes,
		})
		return
	}
}
