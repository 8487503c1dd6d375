package municipality

import (
	"budget-monitor/internal/core/port"
	"log/slog"
)

type municipalityService struct {
	uow    port.UnitOfWork
	logger *slog.Logger
}

// NewMunicipalityService creates a new municipality service
func NewMunicipalityService(uow port.UnitOfWork, logger *slog.Logger) port.MunicipalityService {
	return &municipalityService{uow: uow, logger: logger}
}
