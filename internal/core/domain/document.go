package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DocumentStatus represents the processing status of a document
type DocumentStatus string

const (
	DocumentStatusPending    DocumentStatus = "pending"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusCompleted  DocumentStatus = "completed"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// IsTerminal reports whether no further transition can leave the status
func (s DocumentStatus) IsTerminal() bool {
	return s == DocumentStatusCompleted || s == DocumentStatusFailed
}

// IsInFlight reports whether a client should keep watching a document in this status
func (s DocumentStatus) IsInFlight() bool {
	return s == DocumentStatusPending || s == DocumentStatusProcessing
}

// ParseDocumentStatus parses a status filter
func ParseDocumentStatus(raw string) (DocumentStatus, error) {
	status := DocumentStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case DocumentStatusPending, DocumentStatusProcessing, DocumentStatusCompleted, DocumentStatusFailed:
		return status, nil
	default:
		return "", fmt.Errorf("unknown document status: %s", raw)
	}
}

// DocumentType represents a budget law type
type DocumentType string

const (
	DocumentTypeLOA DocumentType = "LOA"
	DocumentTypeLDO DocumentType = "LDO"
)

// ParseDocumentType parses LOA/LDO case-insensitively
func ParseDocumentType(raw string) (DocumentType, error) {
	docType := DocumentType(strings.ToUpper(strings.TrimSpace(raw)))
	switch docType {
	case DocumentTypeLOA, DocumentTypeLDO:
		return docType, nil
	default:
		return "", fmt.Errorf("%w: use 'LOA' or 'LDO', got %q", ErrInvalidDocumentType, raw)
	}
}

// BatchProgress is the granular progress of a document being processed.
// A document either has both counters or none of them.
type BatchProgress struct {
	Processed int
	Total     int
}

// Document represents an uploaded LOA/LDO file and its processing status
type Document struct {
	ID             uuid.UUID
	MunicipalityID uuid.UUID
	Type           DocumentType
	Filename       string
	StorageKey     string
	SizeBytes      int64
	Year           int
	Version        int
	Status         DocumentStatus
	UploadDate     time.Time
	ProcessedDate  *time.Time
	TotalChunks    int
	Progress       *BatchProgress
	ErrorMessage   *string
	UpdatedAt      time.Time
}

// NewDocument creates a pending document
func NewDocument(municipalityID uuid.UUID, docType DocumentType, filename, storageKey string, size int64, year, version int, now time.Time) *Document {
	return &Document{
		ID:             uuid.New(),
		MunicipalityID: municipalityID,
		Type:           docType,
		Filename:       filename,
		StorageKey:     storageKey,
		SizeBytes:      size,
		Year:           year,
		Version:        version,
		Status:         DocumentStatusPending,
		UploadDate:     now,
		UpdatedAt:      now,
	}
}

func (d *Document) transitionErr(to DocumentStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.Status, to)
}

// CanStartProcessing reports whether processing may be triggered
func (d *Document) CanStartProcessing() bool {
	return d.Status == DocumentStatusPending
}

// StartProcessing moves a pending document to processing
func (d *Document) StartProcessing(now time.Time) error {
	if !d.CanStartProcessing() {
		return d.transitionErr(DocumentStatusProcessing)
	}
	d.Status = DocumentStatusProcessing
	d.UpdatedAt = now
	return nil
}

// SetTotalBatches fixes the number of batches once chunking is known
func (d *Document) SetTotalBatches(total int) error {
	if d.Status != DocumentStatusProcessing {
		return d.transitionErr(DocumentStatusProcessing)
	}
	if total < 0 {
		return fmt.Errorf("%w: negative total %d", ErrInvalidProgress, total)
	}
	if d.Progress != nil && d.Progress.Total > 0 && d.Progress.Total != total {
		return fmt.Errorf("%w: total already fixed at %d", ErrInvalidProgress, d.Progress.Total)
	}
	processed := 0
	if d.Progress != nil {
		processed = d.Progress.Processed
	}
	d.Progress = &BatchProgress{Processed: processed, Total: total}
	return nil
}

// RecordProgress advances processed batches and never past the total.
// A count behind the stored one leaves it unchanged, a resumed run recounts from zero.
func (d *Document) RecordProgress(processed int) error {
	if d.Status != DocumentStatusProcessing {
		return d.transitionErr(DocumentStatusProcessing)
	}
	if d.Progress == nil {
		return fmt.Errorf("%w: total batches unknown", ErrInvalidProgress)
	}
	if processed < 0 {
		return fmt.Errorf("%w: negative processed %d", ErrInvalidProgress, processed)
	}
	if processed < d.Progress.Processed {
		return nil
	}
	if processed > d.Progress.Total {
		return fmt.Errorf("%w: %d exceeds total %d", ErrInvalidProgress, processed, d.Progress.Total)
	}
	d.Progress.Processed = processed
	return nil
}

// Complete finalizes a successful processing
func (d *Document) Complete(now time.Time, totalChunks int) error {
	if d.Status != DocumentStatusProcessing {
		return d.transitionErr(DocumentStatusCompleted)
	}
	d.Status = DocumentStatusCompleted
	d.ProcessedDate = &now
	d.TotalChunks = totalChunks
	d.ErrorMessage = nil
	d.UpdatedAt = now
	return nil
}

// Fail records an unrecoverable processing error
func (d *Document) Fail(now time.Time, message string) error {
	if d.Status != DocumentStatusProcessing {
		return d.transitionErr(DocumentStatusFailed)
	}
	message = FailureMessage(message)
	d.Status = DocumentStatusFailed
	d.ProcessedDate = &now
	d.ErrorMessage = &message
	d.UpdatedAt = now
	return nil
}

// ResetForReprocess puts a terminal document back to pending
func (d *Document) ResetForReprocess(now time.Time) error {
	if !d.Status.IsTerminal() {
		return d.transitionErr(DocumentStatusPending)
	}
	d.Status = DocumentStatusPending
	d.ProcessedDate = nil
	d.ErrorMessage = nil
	d.TotalChunks = 0
	d.Progress = nil
	d.Version++
	d.UpdatedAt = now
	return nil
}

// Validate checks the record invariants
func (d *Document) Validate() error {
	if (d.ProcessedDate != nil) != d.Status.IsTerminal() {
		return fmt.Errorf("processed date must be set iff status is terminal (status %s)", d.Status)
	}
	if (d.ErrorMessage != nil) != (d.Status == DocumentStatusFailed) {
		return fmt.Errorf("error message must be set iff status is failed (status %s)", d.Status)
	}
	if d.Progress != nil && d.Progress.Processed > d.Progress.Total {
		return fmt.Errorf("processed batches %d exceed total %d", d.Progress.Processed, d.Progress.Total)
	}
	return nil
}

// maxErrorMessageLen keeps worker errors readable in the UI
const maxErrorMessageLen = 1000

// FailureMessage normalizes a failure reason, it is never empty
func FailureMessage(message string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return "unknown processing error"
	}
	if len(message) <= maxErrorMessageLen {
		return message
	}
	cut := maxErrorMessageLen
	for cut > 0 && !utf8.RuneStart(message[cut]) {
		cut--
	}
	return message[:cut]
}

// Progress is the read view of a document progress
type Progress struct {
	DocumentID   uuid.UUID
	Status       DocumentStatus
	CurrentBatch int
	TotalBatches int
	Percentage   float64
}

// ProgressView returns the last known progress whatever the status is
func (d *Document) ProgressView() Progress {
	p := Progress{DocumentID: d.ID, Status: d.Status}
	if d.Progress != nil {
		p.CurrentBatch = d.Progress.Processed
		p.TotalBatches = d.Progress.Total
	}
	switch {
	case d.Status == DocumentStatusCompleted:
		p.Percentage = 100
	case p.TotalBatches > 0:
		p.Percentage = math.Round(float64(p.CurrentBatch)/float64(p.TotalBatches)*10000) / 100
	}
	return p
}

// DocumentFilter filters document listing
type DocumentFilter struct {
	MunicipalityID *uuid.UUID
	Type           *DocumentType
	Status         *DocumentStatus
	Offset         int
	Limit          int
}

// DocumentStats summarizes a processing run
type DocumentStats struct {
	DocumentID    uuid.UUID
	Status        DocumentStatus
	TotalChunks   int
	UploadDate    time.Time
	ProcessedDate *time.Time
	Duration      *time.Duration
	Progress      Progress
}
