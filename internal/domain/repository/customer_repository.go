package repository

import (
	"context"

	"paratour-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomerRepository defines the interface for customer storage operations.
type CustomerRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Customer, error)
	FindByEmailOrPhone(ctx context.Context, email, phone string) (*entity.Customer, error)
	// FindOrCreate returns the existing customer matching email or phone,
	// creating one when none exists. The second return reports whether a
	// new profile was created.
	FindOrCreate(ctx context.Context, email, phone, fullName, nationality string) (*entity.Customer, bool, error)
	// IncrementBookingStats bumps totalBookings/totalSpent and flips
	// isReturningCustomer once the customer has more than one booking.
	IncrementBookingStats(ctx context.Context, id primitive.ObjectID, amount float64) error
	// DecrementBookingStats reverses one booking's contribution, flooring
	// the totals at zero.
	DecrementBookingStats(ctx context.Context, id primitive.ObjectID, amount float64) error
}
