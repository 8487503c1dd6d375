package port

import (
	"context"
	"time"

	"budget-monitor/internal/core/domain"

	"github.com/google/uuid"
)

// PDFSplitter splits a local PDF into page batches
type PDFSplitter interface {
	PageCount(path string) (int, error)
	Split(path string, pagesPerBatch int, outDir string) ([]string, error)
}

// Extractor extracts budget chunks out of a PDF batch
type Extractor interface {
	Extract(ctx context.Context, docType domain.DocumentType, batch []byte) (*domain.ExtractionResult, error)
}

// ProgressCache mirrors live progress for fast reads
type ProgressCache interface {
	Set(ctx context.Context, progress domain.Progress) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Progress, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Lock is a named lease held by a single worker
type Lock interface {
	Extend(ctx context.Context, ttl time.Duration) error
	Release(ctx context.Context) error
}

// Locker hands out per document leases
type Locker interface {
	Acquire(ctx context.Context, id uuid.UUID, ttl time.Duration) (Lock, error)
}
