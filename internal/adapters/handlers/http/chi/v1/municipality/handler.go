package municipality

import (
	"budget-monitor/internal/core/port"
	"log/slog"

	"github.com/go-chi/chi/v5"
)

// HandlerV1 is the handler for v1 municipalities routes
type HandlerV1 struct {
	municipalityService port.MunicipalityService
	logger              *slog.Logger
}

// NewMunicipalityHandlerV1 creates HandlerV1
func NewMunicipalityHandlerV1(service port.MunicipalityService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		municipalityService: service,
		logger:              logger,
	}
}

// Routes exposes routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", h.CreateMunicipalityV1)
	router.Get("/", h.ListMunicipalitiesV1)
	router.Get("/{municipalityID}", h.GetMunicipalityV1)
	router.Delete("/{municipalityID}", h.DeleteMunicipalityV1)
	router.Get("/{municipalityID}/documents/status", h.GetDocumentsStatusV1)

	return router
}
