package cleanup

import (
	"budget-monitor/internal/core/port"
	"log/slog"
	"time"
)

type cleanupService struct {
	uow        port.UnitOfWork
	progress   port.ProgressCache
	staleAfter time.Duration
	logger     *slog.Logger
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(uow port.UnitOfWork, progress port.ProgressCache, staleAfter time.Duration, logger *slog.Logger) port.CleanupService {
	return &cleanupService{
		uow:        uow,
		progress:   progress,
		staleAfter: staleAfter,
		logger:     logger,
	}
}
