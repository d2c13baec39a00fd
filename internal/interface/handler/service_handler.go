package handler

import (
	"net/http"

	"paratour-service/internal/domain/repository"
	"paratour-service/pkg/logger"

	"github.com/gorilla/mux"
)

// ServiceHandler exposes the bookable tour catalog.
type ServiceHandler struct {
	services repository.FlightServiceRepository
	logger   logger.Logger
}

// NewServiceHandler creates a new catalog handler
func NewServiceHandler(services repository.FlightServiceRepository, logger logger.Logger) *ServiceHandler {
	return &ServiceHandler{
		services: services,
		logger:   logger,
	}
}

// Register mounts the catalog routes on the given router
func (h *ServiceHandler) Register(r *mux.Router) {
	r.HandleFunc("/services", h.List).Methods(http.MethodGet)
}

// List handles GET /services
func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.services.ListActive(r.Context())
	if err != nil {
		h.logger.Error("Failed to list services", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list services")
		return
	}

	writeSuccess(w, services)
}
