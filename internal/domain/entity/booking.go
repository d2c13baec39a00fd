package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking lifecycle status
const (
	BookingStatusPending   = "PENDING"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCompleted = "COMPLETED"
	BookingStatusCancelled = "CANCELLED"
	BookingStatusRefunded  = "REFUNDED"
)

// Contact workflow status
const (
	ContactStatusNotContacted = "NOT_CONTACTED"
	ContactStatusContacted    = "CONTACTED"
	ContactStatusConfirmed    = "CONFIRMED"
	ContactStatusNoResponse   = "NO_RESPONSE"
)

// Booking acquisition channel
const (
	SourceWebsite  = "website"
	SourceTelegram = "telegram"
	SourcePhone    = "phone"
	SourceWalkIn   = "walk-in"
	SourcePartner  = "partner"
)

// BookingStatuses lists every valid lifecycle status.
var BookingStatuses = []string{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCompleted,
	BookingStatusCancelled,
	BookingStatusRefunded,
}

// ContactStatuses lists every valid contact status.
var ContactStatuses = []string{
	ContactStatusNotContacted,
	ContactStatusContacted,
	ContactStatusConfirmed,
	ContactStatusNoResponse,
}

// BookingSources lists every valid acquisition channel.
var BookingSources = []string{
	SourceWebsite,
	SourceTelegram,
	SourcePhone,
	SourceWalkIn,
	SourcePartner,
}

// Booking represents a reserved paragliding flight slot. Records are
// immutable once created except for status/contact transitions.
type Booking struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookingID             string             `bson:"bookingId" json:"bookingId"`
	CustomerID            primitive.ObjectID `bson:"customerId" json:"customerId"`
	ServiceID             string             `bson:"serviceId" json:"serviceId"`
	ServiceName           string             `bson:"serviceName" json:"serviceName"`
	ServicePrice          float64            `bson:"servicePrice" json:"servicePrice"`
	NumberOfPassengers    int                `bson:"numberOfPassengers" json:"numberOfPassengers"`
	Passengers            []Passenger        `bson:"passengers" json:"passengers"`
	TotalPrice            float64            `bson:"totalPrice" json:"totalPrice"`
	DiscountAmount        float64            `bson:"discountAmount" json:"discountAmount"`
	OptionalServicesTotal float64            `bson:"optionalServicesTotal" json:"optionalServicesTotal"`
	FlightDate            time.Time          `bson:"flightDate" json:"flightDate"`
	FlightTime            string             `bson:"flightTime" json:"flightTime"` // HH:MM
	PickupLocation        string             `bson:"pickupLocation,omitempty" json:"pickupLocation,omitempty"`
	Status                string             `bson:"status" json:"status"`
	ContactStatus         string             `bson:"contactStatus" json:"contactStatus"`
	SpecialRequests       string             `bson:"specialRequests,omitempty" json:"specialRequests,omitempty"`
	InternalNotes         string             `bson:"internalNotes,omitempty" json:"internalNotes,omitempty"`
	Source                string             `bson:"source" json:"source"`
	TelegramChatID        string             `bson:"telegramChatId,omitempty" json:"telegramChatId,omitempty"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Passenger holds per-passenger details collected at booking time.
// Weight matters for tandem flight assignment.
type Passenger struct {
	Name        string  `bson:"name" json:"name"`
	Weight      float64 `bson:"weight,omitempty" json:"weight,omitempty"`
	Age         int     `bson:"age,omitempty" json:"age,omitempty"`
	Nationality string  `bson:"nationality,omitempty" json:"nationality,omitempty"`
}

// NetRevenue returns the booking's contribution to revenue sums.
// Cancelled and refunded bookings contribute nothing.
func (b *Booking) NetRevenue() float64 {
	if b.Status == BookingStatusCancelled || b.Status == BookingStatusRefunded {
		return 0
	}
	return b.TotalPrice
}

// IsUpcoming reports whether the flight is still ahead and not cancelled.
func (b *Booking) IsUpcoming() bool {
	return b.FlightDate.After(time.Now()) && b.Status != BookingStatusCancelled
}

// ValidBookingStatus reports whether s is a known lifecycle status.
func ValidBookingStatus(s string) bool {
	for _, v := range BookingStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ValidContactStatus reports whether s is a known contact status.
func ValidContactStatus(s string) bool {
	for _, v := range ContactStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ValidSource reports whether s is a known acquisition channel.
func ValidSource(s string) bool {
	for _, v := range BookingSources {
		if v == s {
			return true
		}
	}
	return false
}
