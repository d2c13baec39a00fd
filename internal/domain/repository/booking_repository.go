package repository

import (
	"context"
	"time"

	"paratour-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/mongo"
)

// ListBookingsFilter narrows and pages the booking listing.
type ListBookingsFilter struct {
	Status        string
	ContactStatus string
	Source        string
	From          *time.Time
	To            *time.Time
	Search        string
	Page          int64
	Limit         int64
	SortBy        string
	SortDesc      bool
}

// BookingAggregator executes a declarative aggregation pipeline and
// decodes all rows into results (a pointer to a slice). The analytics
// reporters depend on this narrow surface only, so they can be exercised
// against a stub without a running store.
type BookingAggregator interface {
	Aggregate(ctx context.Context, pipeline mongo.Pipeline, results interface{}) error
}

// BookingRepository defines the interface for booking storage operations.
type BookingRepository interface {
	BookingAggregator

	Save(ctx context.Context, booking *entity.Booking) error
	FindByBookingID(ctx context.Context, bookingID string) (*entity.Booking, error)
	List(ctx context.Context, filter ListBookingsFilter) ([]*entity.Booking, int64, error)
	UpdateStatus(ctx context.Context, bookingID, status, notes string) (*entity.Booking, error)
	UpdateContactStatus(ctx context.Context, bookingID, contactStatus string) (*entity.Booking, error)
	FindToday(ctx context.Context) ([]*entity.Booking, error)
	FindUpcoming(ctx context.Context, days int) ([]*entity.Booking, error)
}
