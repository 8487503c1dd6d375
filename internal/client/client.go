// Package client is a typed REST client for the budget monitor API.
package client

import (
	"budget-monitor/internal/core/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document is a document as returned by the API
type Document struct {
	ID               uuid.UUID             `json:"id"`
	MunicipalityID   uuid.UUID             `json:"municipality_id"`
	Type             domain.DocumentType   `json:"type"`
	Filename         string                `json:"filename"`
	FileSizeBytes    int64                 `json:"file_size_bytes"`
	Year             int                   `json:"year"`
	Version          int                   `json:"version"`
	Status           domain.DocumentStatus `json:"status"`
	UploadDate       time.Time             `json:"upload_date"`
	ProcessedDate    *time.Time            `json:"processed_date"`
	TotalChunks      int                   `json:"total_chunks"`
	ProcessedBatches *int                  `json:"processed_batches"`
	TotalBatches     *int                  `json:"total_batches"`
	ErrorMessage     *string               `json:"error_message"`
}

// Progress is the batch progress of a document
type Progress struct {
	DocumentID   uuid.UUID             `json:"document_id"`
	Status       domain.DocumentStatus `json:"status"`
	CurrentBatch int                   `json:"current_batch"`
	TotalBatches int                   `json:"total_batches"`
	Percentage   float64               `json:"percentage"`
}

// UploadResult is the API answer to an upload
type UploadResult struct {
	DocumentID                     uuid.UUID             `json:"document_id"`
	Filename                       string                `json:"filename"`
	FileSizeBytes                  int64                 `json:"file_size_bytes"`
	Status                         domain.DocumentStatus `json:"status"`
	Version                        int                   `json:"version"`
	EstimatedProcessingTimeMinutes int                   `json:"estimated_processing_time_minutes"`
}

// APIError is a non 2xx answer of the API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Is lets callers match API errors against the domain errors
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusNotFound:
		return target == domain.ErrDocumentNotFound
	case http.StatusConflict:
		return target == domain.ErrInvalidTransition
	case http.StatusRequestEntityTooLarge:
		return target == domain.ErrFileSizeTooBig
	}
	return false
}

// Client talks to the /api/v1 routes
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client, baseURL points at the /api/v1 prefix
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ListOptions filters ListDocuments
type ListOptions struct {
	MunicipalityID *uuid.UUID
	Status         domain.DocumentStatus
	Limit          int
}

func (c *Client) ListDocuments(ctx context.Context, opts ListOptions) ([]Document, error) {
	query := url.Values{}
	if opts.MunicipalityID != nil {
		query.Set("municipality_id", opts.MunicipalityID.String())
	}
	if opts.Status != "" {
		query.Set("status", string(opts.Status))
	}
	if opts.Limit > 0 {
		query.Set("limit", fmt.Sprint(opts.Limit))
	}

	path := "/documents"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var resp struct {
		Documents []Document `json:"documents"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

func (c *Client) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	var doc Document
	if err := c.do(ctx, http.MethodGet, "/documents/"+id.String(), nil, "", &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) GetProgress(ctx context.Context, id uuid.UUID) (*Progress, error) {
	var progress Progress
	if err := c.do(ctx, http.MethodGet, "/documents/"+id.String()+"/progress", nil, "", &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

// StartProcessing triggers processing, the returned document is processing, not done
func (c *Client) StartProcessing(ctx context.Context, id uuid.UUID) (*Document, error) {
	var doc Document
	if err := c.do(ctx, http.MethodPost, "/documents/"+id.String()+"/process", nil, "", &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode %s %s response: %w", method, path, err)
	}
	return nil
}

// IsTransient reports whether a failed call is worth retrying on the next poll
func IsTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError || apiErr.StatusCode == http.StatusTooManyRequests
	}
	return err != nil
}
