package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer is the profile a booking is recorded against. Running totals
// are maintained by the booking workflow; analytics reads them only.
type Customer struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email               string             `bson:"email" json:"email"`
	Phone               string             `bson:"phone" json:"phone"`
	FullName            string             `bson:"fullName" json:"fullName"`
	Nationality         string             `bson:"nationality,omitempty" json:"nationality,omitempty"`
	TotalBookings       int                `bson:"totalBookings" json:"totalBookings"`
	TotalSpent          float64            `bson:"totalSpent" json:"totalSpent"`
	IsReturningCustomer bool               `bson:"isReturningCustomer" json:"isReturningCustomer"`
	FirstBookingAt      *time.Time         `bson:"firstBookingAt,omitempty" json:"firstBookingAt,omitempty"`
	LastBookingAt       *time.Time         `bson:"lastBookingAt,omitempty" json:"lastBookingAt,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}
