package client_test

import (
	"budget-monitor/internal/client"
	"budget-monitor/internal/core/domain"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *client.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return client.New(srv.URL+"/api/v1/", srv.Client())
}

func TestGetDocument(t *testing.T) {
	//Arrange
	id := uuid.New()
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/documents/"+id.String(), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"`+id.String()+`","type":"LOA","status":"processing","processed_batches":2,"total_batches":5,"error_message":null}`)
	})

	//Act
	doc, err := c.GetDocument(context.Background(), id)

	//Assert
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)
	assert.Equal(t, domain.DocumentTypeLOA, doc.Type)
	assert.Equal(t, domain.DocumentStatusProcessing, doc.Status)
	require.NotNil(t, doc.TotalBatches)
	assert.Equal(t, 5, *doc.TotalBatches)
	assert.Nil(t, doc.ErrorMessage)
}

func TestGetDocument_APIErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		target error
	}{
		{name: "not found", status: http.StatusNotFound, target: domain.ErrDocumentNotFound},
		{name: "conflict", status: http.StatusConflict, target: domain.ErrInvalidTransition},
		{name: "too large", status: http.StatusRequestEntityTooLarge, target: domain.ErrFileSizeTooBig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			//Arrange
			c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			})

			//Act
			doc, err := c.GetDocument(context.Background(), uuid.New())

			//Assert
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, tt.target)
			var apiErr *client.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, "nope", apiErr.Message)
			assert.False(t, client.IsTransient(err))
		})
	}
}

func TestIsTransient(t *testing.T) {
	assert.True(t, client.IsTransient(&client.APIError{StatusCode: http.StatusServiceUnavailable}))
	assert.True(t, client.IsTransient(&client.APIError{StatusCode: http.StatusTooManyRequests}))
	assert.True(t, client.IsTransient(context.DeadlineExceeded))
	assert.False(t, client.IsTransient(&client.APIError{StatusCode: http.StatusBadRequest}))
	assert.False(t, client.IsTransient(nil))
}

func TestGetProgress(t *testing.T) {
	//Arrange
	id := uuid.New()
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/documents/"+id.String()+"/progress", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"document_id":   id,
			"status":        "processing",
			"current_batch": 3,
			"total_batches": 4,
			"percentage":    75.0,
		})
	})

	//Act
	progress, err := c.GetProgress(context.Background(), id)

	//Assert
	require.NoError(t, err)
	assert.Equal(t, 3, progress.CurrentBatch)
	assert.Equal(t, 4, progress.TotalBatches)
	assert.Equal(t, 75.0, progress.Percentage)
}

func TestListDocuments(t *testing.T) {
	//Arrange
	munID := uuid.New()
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/documents", r.URL.Path)
		assert.Equal(t, munID.String(), r.URL.Query().Get("municipality_id"))
		assert.Equal(t, "pending", r.URL.Query().Get("status"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `{"documents":[{"id":"`+uuid.NewString()+`","status":"pending"},{"id":"`+uuid.NewString()+`","status":"pending"}]}`)
	})

	//Act
	docs, err := c.ListDocuments(context.Background(), client.ListOptions{
		MunicipalityID: &munID,
		Status:         domain.DocumentStatusPending,
		Limit:          10,
	})

	//Assert
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestStartProcessing(t *testing.T) {
	//Arrange
	id := uuid.New()
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/documents/"+id.String()+"/process", r.URL.Path)
		w.WriteHeader(http.StatusAccepted)
		_, _ = io.WriteString(w, `{"id":"`+id.String()+`","status":"processing"}`)
	})

	//Act
	doc, err := c.StartProcessing(context.Background(), id)

	//Assert
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentStatusProcessing, doc.Status)
}

func TestUpload(t *testing.T) {
	//Arrange
	munID := uuid.New()
	docID := uuid.New()
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/documents/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, munID.String(), r.FormValue("municipality_id"))
		assert.Equal(t, "LDO", r.FormValue("doc_type"))
		assert.Equal(t, "2025", r.FormValue("year"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "ldo.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.7 body", string(content))

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"document_id":"`+docID.String()+`","status":"pending","version":1,"estimated_processing_time_minutes":2}`)
	})

	//Act
	res, err := c.Upload(context.Background(), client.UploadInput{
		MunicipalityID: munID,
		DocType:        "LDO",
		Year:           2025,
		Filename:       "ldo.pdf",
		Content:        strings.NewReader("%PDF-1.7 body"),
	})

	//Assert
	require.NoError(t, err)
	assert.Equal(t, docID, res.DocumentID)
	assert.Equal(t, domain.DocumentStatusPending, res.Status)
	assert.Equal(t, 2, res.EstimatedProcessingTimeMinutes)
}

func TestUpload_Rejected(t *testing.T) {
	//Arrange
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		http.Error(w, "document upload already in progress", http.StatusConflict)
	})

	//Act
	res, err := c.Upload(context.Background(), client.UploadInput{
		MunicipalityID: uuid.New(),
		DocType:        "LOA",
		Filename:       "loa.pdf",
		Content:        strings.NewReader("%PDF-1.7"),
	})

	//Assert
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
