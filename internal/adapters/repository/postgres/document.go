package postgres

import (
	"budget-monitor/internal/core/domain"
	"budget-monitor/internal/core/port"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const documentColumns = `id, municipality_id, type, filename, storage_key, file_size_bytes, year, version,
       status, upload_date, processed_date, total_chunks, processed_batches, total_batches,
       error_message, updated_at`

type sqlDocumentRepository struct {
	db SQLQuerier
}

// NewSqlDocumentRepository creates sqlDocumentRepository that implements port.DocumentRepository
func NewSqlDocumentRepository(db SQLQuerier) port.DocumentRepository {
	return &sqlDocumentRepository{
		db: db,
	}
}

// Create creates new document entry
func (s *sqlDocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	query := `INSERT INTO documents (id, municipality_id, type, filename, storage_key, file_size_bytes, year, version, status, upload_date, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`

	_, err := s.db.ExecContext(ctx, query,
		doc.ID,
		doc.MunicipalityID,
		doc.Type,
		doc.Filename,
		doc.StorageKey,
		doc.SizeBytes,
		doc.Year,
		doc.Version,
		doc.Status,
		doc.UploadDate,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return fmt.Errorf("document %s : %w", doc.ID, domain.ErrAlreadyExists)
			case "23503":
				return domain.ErrMunicipalityNotFound
			}
		}
		return fmt.Errorf("error inserting document: %w", err)
	}
	return nil
}

// FindByID finds by id
func (s *sqlDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

// List lists documents, newest upload first
func (s *sqlDocumentRepository) List(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	var conditions []string
	var args []any

	if filter.MunicipalityID != nil {
		args = append(args, *filter.MunicipalityID)
		conditions = append(conditions, fmt.Sprintf("municipality_id = $%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + documentColumns + ` FROM documents`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY upload_date DESC, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return s.queryDocuments(ctx, query, args...)
}

// FindLatestByMunicipalityAndType returns the most recent document of a municipality for a type
func (s *sqlDocumentRepository) FindLatestByMunicipalityAndType(ctx context.Context, municipalityID uuid.UUID, docType domain.DocumentType) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents
              WHERE municipality_id = $1 AND type = $2
              ORDER BY version DESC, upload_date DESC
              LIMIT 1`

	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, municipalityID, docType))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

// MarkProcessing moves a pending document to processing
func (s *sqlDocumentRepository) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE documents
              SET status = 'processing', updated_at = now()
              WHERE id = $1 AND status = 'pending'`

	return s.execTransition(ctx, query, id)
}

// SetTotalBatches fixes the batch total, once
func (s *sqlDocumentRepository) SetTotalBatches(ctx context.Context, id uuid.UUID, total int) error {
	if total < 0 {
		return fmt.Errorf("%w: negative total %d", domain.ErrInvalidProgress, total)
	}

	query := `UPDATE documents
              SET total_batches = $2,
                  processed_batches = LEAST(COALESCE(processed_batches, 0), $2),
                  updated_at = now()
              WHERE id = $1 AND status = 'processing'
                AND (total_batches IS NULL OR total_batches = $2)`

	result, err := s.db.ExecContext(ctx, query, id, total)
	if err != nil {
		return fmt.Errorf("error setting total batches: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		doc, err := s.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if doc.Status != domain.DocumentStatusProcessing {
			return fmt.Errorf("%w: document is %s", domain.ErrInvalidTransition, doc.Status)
		}
		return fmt.Errorf("%w: total already fixed", domain.ErrInvalidProgress)
	}
	return nil
}

// UpdateProgress raises processed batches, it never goes backwards nor past the total
func (s *sqlDocumentRepository) UpdateProgress(ctx context.Context, id uuid.UUID, processed int) error {
	if processed < 0 {
		return fmt.Errorf("%w: negative processed %d", domain.ErrInvalidProgress, processed)
	}

	query := `UPDATE documents
              SET processed_batches = LEAST(GREATEST(processed_batches, $2), total_batches),
                  updated_at = now()
              WHERE id = $1 AND status = 'processing' AND total_batches IS NOT NULL`

	result, err := s.db.ExecContext(ctx, query, id, processed)
	if err != nil {
		return fmt.Errorf("error updating progress: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		doc, err := s.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if doc.Status != domain.DocumentStatusProcessing {
			return fmt.Errorf("%w: document is %s", domain.ErrInvalidTransition, doc.Status)
		}
		return fmt.Errorf("%w: total batches unknown", domain.ErrInvalidProgress)
	}
	return nil
}

// MarkCompleted finalizes a processing document
func (s *sqlDocumentRepository) MarkCompleted(ctx context.Context, id uuid.UUID, totalChunks int, processedAt time.Time) error {
	query := `UPDATE documents
              SET status = 'completed',
                  total_chunks = $2,
                  processed_date = $3,
                  processed_batches = total_batches,
                  error_message = NULL,
                  updated_at = now()
              WHERE id = $1 AND status = 'processing'`

	return s.execTransition(ctx, query, id, totalChunks, processedAt)
}

// MarkFailed records the failure of a processing document
func (s *sqlDocumentRepository) MarkFailed(ctx context.Context, id uuid.UUID, message string, processedAt time.Time) error {
	query := `UPDATE documents
              SET status = 'failed',
                  error_message = $2,
                  processed_date = $3,
                  updated_at = now()
              WHERE id = $1 AND status = 'processing'`

	return s.execTransition(ctx, query, id, domain.FailureMessage(message), processedAt)
}

// ResetToPending puts a terminal document back to pending and bumps its version
func (s *sqlDocumentRepository) ResetToPending(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	query := `UPDATE documents
              SET status = 'pending',
                  processed_date = NULL,
                  error_message = NULL,
                  total_chunks = 0,
                  processed_batches = NULL,
                  total_batches = NULL,
                  version = version + 1,
                  updated_at = now()
              WHERE id = $1 AND status IN ('completed', 'failed')
              RETURNING ` + documentColumns

	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.transitionError(ctx, id)
		}
		return nil, fmt.Errorf("error resetting document: %w", err)
	}
	return doc, nil
}

// Delete deletes a document that is not being processed
func (s *sqlDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM documents WHERE id = $1 AND status <> 'processing'`

	return s.execTransition(ctx, query, id)
}

// FindStaleProcessing finds documents stuck in processing
func (s *sqlDocumentRepository) FindStaleProcessing(ctx context.Context, olderThan time.Time) ([]domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents
              WHERE status = 'processing' AND updated_at < $1
              ORDER BY updated_at`

	return s.queryDocuments(ctx, query, olderThan)
}

func (s *sqlDocumentRepository) execTransition(ctx context.Context, query string, id uuid.UUID, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("error updating document: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return s.transitionError(ctx, id)
	}
	return nil
}

// transitionError tells a missing document apart from a guarded status
func (s *sqlDocumentRepository) transitionError(ctx context.Context, id uuid.UUID) error {
	var status string
	err := s.db.QueryRowContext(ctx, `SELECT status FROM documents WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrDocumentNotFound
		}
		return err
	}
	return fmt.Errorf("%w: document is %s", domain.ErrInvalidTransition, status)
}

func (s *sqlDocumentRepository) queryDocuments(ctx context.Context, query string, args ...any) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying documents: %w", err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning document: %w", err)
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}
	return docs, nil
}

// dbDocument represents a document in DB
type dbDocument struct {
	ID               uuid.UUID      `db:"id"`
	MunicipalityID   uuid.UUID      `db:"municipality_id"`
	Type             string         `db:"type"`
	Filename         string         `db:"filename"`
	StorageKey       string         `db:"storage_key"`
	Size             int64          `db:"file_size_bytes"`
	Year             int            `db:"year"`
	Version          int            `db:"version"`
	Status           string         `db:"status"`
	UploadDate       time.Time      `db:"upload_date"`
	ProcessedDate    sql.NullTime   `db:"processed_date"`
	TotalChunks      int            `db:"total_chunks"`
	ProcessedBatches sql.NullInt64  `db:"processed_batches"`
	TotalBatches     sql.NullInt64  `db:"total_batches"`
	ErrorMessage     sql.NullString `db:"error_message"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var d dbDocument
	err := row.Scan(
		&d.ID,
		&d.MunicipalityID,
		&d.Type,
		&d.Filename,
		&d.StorageKey,
		&d.Size,
		&d.Year,
		&d.Version,
		&d.Status,
		&d.UploadDate,
		&d.ProcessedDate,
		&d.TotalChunks,
		&d.ProcessedBatches,
		&d.TotalBatches,
		&d.ErrorMessage,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d.ToDomain(), nil
}

// ToDomain converts to domain.Document
func (d *dbDocument) ToDomain() *domain.Document {
	doc := &domain.Document{
		ID:             d.ID,
		MunicipalityID: d.MunicipalityID,
		Type:           domain.DocumentType(d.Type),
		Filename:       d.Filename,
		StorageKey:     d.StorageKey,
		SizeBytes:      d.Size,
		Year:           d.Year,
		Version:        d.Version,
		Status:         domain.DocumentStatus(d.Status),
		UploadDate:     d.UploadDate,
		TotalChunks:    d.TotalChunks,
		UpdatedAt:      d.UpdatedAt,
	}
	if d.ProcessedDate.Valid {
		t := d.ProcessedDate.Time
		doc.ProcessedDate = &t
	}
	if d.ProcessedBatches.Valid && d.TotalBatches.Valid {
		doc.Progress = &domain.BatchProgress{
			Processed: int(d.ProcessedBatches.Int64),
			Total:     int(d.TotalBatches.Int64),
		}
	}
	if d.ErrorMessage.Valid {
		msg := d.ErrorMessage.String
		doc.ErrorMessage = &msg
	}
	return doc
}
