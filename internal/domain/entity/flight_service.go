package entity

import (
	"time"

	"gorm.io/gorm"
)

// FlightService is a bookable tour product from the relational catalog
// (tandem flight, acro flight, cross-country, ...). Bookings denormalize
// its name and price at creation time.
type FlightService struct {
	ID              uint
	Code            string
	Name            string
	Description     string
	BasePrice       float64
	DurationMinutes int
	MaxPassengers   int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt
}
