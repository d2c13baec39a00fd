package repository

import (
	"context"

	"paratour-service/internal/domain/entity"
)

// FlightServiceRepository defines the interface for the tour service catalog.
type FlightServiceRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.FlightService, error)
	ListActive(ctx context.Context) ([]*entity.FlightService, error)
}
