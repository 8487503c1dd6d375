package processing

import (
	"budget-monitor/internal/core/domain"
	"budget-monitor/internal/core/port"
	"context"
	"log/slog"
	"time"
)

// Config tunes how a document is cut and extracted
type Config struct {
	PagesPerBatch int
	Concurrency   int
	BatchTimeout  time.Duration
	LockTTL       time.Duration
}

type processingService struct {
	uow       port.UnitOfWork
	storage   port.DocumentStorage
	splitter  port.PDFSplitter
	extractor port.Extractor
	progress  port.ProgressCache
	locker    port.Locker
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time
}

// NewProcessingService creates the worker handling processing requests
func NewProcessingService(
	uow port.UnitOfWork,
	storage port.DocumentStorage,
	splitter port.PDFSplitter,
	extractor port.Extractor,
	progress port.ProgressCache,
	locker port.Locker,
	cfg Config,
	logger *slog.Logger,
) port.MessageService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.PagesPerBatch <= 0 {
		cfg.PagesPerBatch = 20
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Minute
	}
	return &processingService{
		uow:       uow,
		storage:   storage,
		splitter:  splitter,
		extractor: extractor,
		progress:  progress,
		locker:    locker,
		cfg:       cfg,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (p *processingService) mirrorProgress(ctx context.Context, doc *domain.Document) {
	if p.progress == nil {
		return
	}
	if err := p.progress.Set(ctx, doc.ProgressView()); err != nil {
		p.logger.Warn("failed to mirror progress", "document_id", doc.ID, "error", err)
	}
}
