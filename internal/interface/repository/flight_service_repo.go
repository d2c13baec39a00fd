package repository

import (
	"context"
	"time"

	"paratour-service/internal/domain/entity"
	"paratour-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormFlightServiceRepository implements the FlightServiceRepository interface
type GormFlightServiceRepository struct {
	db *gorm.DB
}

// NewGormFlightServiceRepository creates a new GORM service catalog repository
func NewGormFlightServiceRepository(db *gorm.DB) repository.FlightServiceRepository {
	return &GormFlightServiceRepository{
		db: db,
	}
}

// FlightServices GORM model for database mapping
type FlightServices struct {
	ID              uint           `gorm:"primaryKey"`
	Code            string         `gorm:"column:code;unique"`
	Name            string         `gorm:"column:name"`
	Description     string         `gorm:"column:description"`
	BasePrice       float64        `gorm:"column:base_price"`
	DurationMinutes int            `gorm:"column:duration_minutes"`
	MaxPassengers   int            `gorm:"column:max_passengers"`
	IsActive        bool           `gorm:"column:is_active"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName overrides the default table name
func (FlightServices) TableName() string {
	return "m_services"
}

// GetByCode finds a tour service by catalog code
func (r *GormFlightServiceRepository) GetByCode(ctx context.Context, code string) (*entity.FlightService, error) {
	var svc FlightServices
	result := r.db.WithContext(ctx).Where("code = ?", code).First(&svc)

	if result.Error != nil {
		return nil, result.Error
	}

	return toEntity(&svc), nil
}

// ListActive returns the bookable services
func (r *GormFlightServiceRepository) ListActive(ctx context.Context) ([]*entity.FlightService, error) {
	var rows []FlightServices
	result := r.db.WithContext(ctx).Where("is_active = ?", true).Order("base_price").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	services := make([]*entity.FlightService, 0, len(rows))
	for i := range rows {
		services = append(services, toEntity(&rows[i]))
	}
	return services, nil
}

// Convert GORM model to domain entity
func toEntity(svc *FlightServices) *entity.FlightService {
	return &entity.FlightService{
		ID:              svc.ID,
		Code:            svc.Code,
		Name:            svc.Name,
		Description:     svc.Description,
		BasePrice:       svc.BasePrice,
		DurationMinutes: svc.DurationMinutes,
		MaxPassengers:   svc.MaxPassengers,
		IsActive:        svc.IsActive,
		CreatedAt:       svc.CreatedAt,
		UpdatedAt:       svc.UpdatedAt,
		DeletedAt:       svc.DeletedAt,
	}
}
