package document_test

import (
	"budget-monitor/internal/adapters/handlers/http/chi"
	document2 "budget-monitor/internal/adapters/handlers/http/chi/v1/document"
	"budget-monitor/internal/core/domain"
	"budget-monitor/internal/core/port"
	"budget-monitor/internal/core/service/document"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	httpgo "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newRouter(service *document.MockDocumentService, maxUpload int64) httpgo.Handler {
	handler := document2.NewDocumentHandlerV1(service, discardLogger)
	return chi.NewRouter(discardLogger, nil, handler, nil, maxUpload)
}

func uploadBody(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadDocumentV1_Success(t *testing.T) {
	//Arrange
	munID := uuid.New()
	content := []byte("%PDF-1.7 budget")
	doc := domain.NewDocument(munID, domain.DocumentTypeLOA, "loa.pdf", "key", int64(len(content)), 2025, 1, time.Now())

	mockService := document.NewMockDocumentService()
	mockService.On("Upload", mock.Anything, mock.MatchedBy(func(req port.UploadRequest) bool {
		return req.MunicipalityID == munID &&
			req.Type == "loa" &&
			req.Filename == "loa.pdf" &&
			req.Year == 2025 &&
			req.Size == int64(len(content))
	})).Return(&port.UploadResult{Document: doc, EstimatedProcessingTimeMinutes: 2}, nil)

	h := newRouter(mockService, 50<<20)
	body, contentType := uploadBody(t, map[string]string{
		"municipality_id": munID.String(),
		"doc_type":        "loa",
		"year":            "2025",
	}, "loa.pdf", content)
	req := httptest.NewRequest(httpgo.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	//Act
	h.ServeHTTP(w, req)

	//Assert
	require.Equal(t, httpgo.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
	var resp document2.V1UploadDocumentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, doc.ID, resp.DocumentID)
	assert.Equal(t, domain.DocumentStatusPending, resp.Status)
	assert.Equal(t, 2, resp.EstimatedProcessingTimeMinutes)
}

func TestUploadDocumentV1_BadRequest(t *testing.T) {
	munID := uuid.New().String()
	tests := []struct {
		name     string
		fields   map[string]string
		filename string
	}{
		{"missing file", map[string]string{"municipality_id": munID, "doc_type": "LOA"}, ""},
		{"invalid municipality id", map[string]string{"municipality_id": "nope", "doc_type": "LOA"}, "loa.pdf"},
		{"missing doc type", map[string]string{"municipality_id": munID}, "loa.pdf"},
		{"year not a number", map[string]string{"municipality_id": munID, "doc_type": "LOA", "year": "twenty"}, "loa.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			//Arrange
			mockService := document.NewMockDocumentService()
			h := newRouter(mockService, 50<<20)
			body, contentType := uploadBody(t, tt.fields, tt.filename, []byte("%PDF"))
			req := httptest.NewRequest(httpgo.MethodPost, "/api/v1/documents/upload", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			//Act
			h.ServeHTTP(w, req)

			//Assert
			assert.Equal(t, httpgo.StatusBadRequest, w.Code)
			mockService.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
		})
	}
}

func TestUploadDocumentV1_ServiceErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"not a pdf", domain.ErrInvalidFileType, httpgo.StatusBadRequest},
		{"too big", domain.ErrFileSizeTooBig, httpgo.StatusBadRequest},
		{"empty", domain.ErrEmptyFile, httpgo.StatusBadRequest},
		{"bad type", domain.ErrInvalidDocumentType, httpgo.StatusBadRequest},
		{"filename too long", domain.ErrInvalidFilename, httpgo.StatusBadRequest},
		{"unknown municipality", domain.ErrMunicipalityNotFound, httpgo.StatusNotFound},
		{"already in progress", domain.ErrUploadInProgress, httpgo.StatusConflict},
		{"storage down", assert.AnError, httpgo.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			//Arrange
			mockService := document.NewMockDocumentService()
			mockService.On("Upload", mock.Anything, mock.Anything).Return((*port.UploadResult)(nil), tt.err)
			h := newRouter(mockService, 50<<20)
			body, contentType := uploadBody(t, map[string]string{
				"municipality_id": uuid.New().String(),
				"doc_type":        "LOA",
			}, "loa.pdf", []byte("%PDF"))
			req := httptest.NewRequest(httpgo.MethodPost, "/api/v1/documents/upload", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			//Act
			h.ServeHTTP(w, req)

			//Assert
			assert.Equal(t, tt.wantCode, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestUploadDocumentV1_BodyTooLarge(t *testing.T) {
	//Arrange
	mockService := document.NewMockDocumentService()
	h := newRouter(mockService, 1024)
	body, contentType := uploadBody(t, map[string]string{
		"municipality_id": uuid.New().String(),
		"doc_type":        "LOA",
	}, "loa.pdf", bytes.Repeat([]byte("a"), 2<<20))
	req := httptest.NewRequest(httpgo.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	//Act
	h.ServeHTTP(w, req)

	//Assert
	assert.Equal(t, httpgo.StatusRequestEntityTooLarge, w.Code)
	mockService.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}
