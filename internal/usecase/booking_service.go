package usecase

import (
	"context"
	"fmt"
	"time"

	"paratour-service/internal/domain/entity"
	"paratour-service/internal/domain/repository"
	"paratour-service/pkg/logger"
	"paratour-service/pkg/metrics"
	"paratour-service/pkg/utils"
)

// BookingService handles the booking workflow: creation with customer
// profile upkeep, listing, and status transitions.
type BookingService struct {
	bookings  repository.BookingRepository
	customers repository.CustomerRepository
	services  repository.FlightServiceRepository
	logger    logger.Logger
	metrics   *metrics.Metrics
}

// NewBookingService creates a new booking service. metrics may be nil.
func NewBookingService(
	bookings repository.BookingRepository,
	customers repository.CustomerRepository,
	services repository.FlightServiceRepository,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		customers: customers,
		services:  services,
		logger:    logger,
		metrics:   metrics,
	}
}

// CreateBookingInput carries the validated booking form.
type CreateBookingInput struct {
	ServiceCode           string
	NumberOfPassengers    int
	Passengers            []entity.Passenger
	ContactName           string
	Email                 string
	Phone                 string
	Nationality           string
	PreferredDate         time.Time
	PreferredTime         string
	PickupLocation        string
	SpecialRequests       string
	DiscountAmount        float64
	OptionalServicesTotal float64
	Source                string
	TelegramChatID        string
}

// CreateBookingResult reports the created booking and whether the
// customer profile is new.
type CreateBookingResult struct {
	Booking       *entity.Booking
	CustomerID    string
	IsNewCustomer bool
}

// BookingPage is one page of a filtered booking listing.
type BookingPage struct {
	Data       []*entity.Booking `json:"data"`
	Page       int64             `json:"page"`
	Limit      int64             `json:"limit"`
	Total      int64             `json:"total"`
	TotalPages int64             `json:"totalPages"`
	HasNext    bool              `json:"hasNext"`
	HasPrev    bool              `json:"hasPrev"`
}

// CreateBooking resolves the service from the catalog, finds or creates
// the customer profile, computes the price, and records the booking with
// the customer's running totals bumped.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*CreateBookingResult, error) {
	svc, err := s.services.GetByCode(ctx, input.ServiceCode)
	if err != nil {
		return nil, fmt.Errorf("unknown service %q: %w", input.ServiceCode, err)
	}

	customer, isNew, err := s.customers.FindOrCreate(ctx, input.Email, input.Phone, input.ContactName, input.Nationality)
	if err != nil {
		return nil, err
	}

	totalPrice := calculateTotalPrice(svc.BasePrice, input.NumberOfPassengers, input.OptionalServicesTotal, input.DiscountAmount)

	source := input.Source
	if source == "" {
		source = entity.SourceWebsite
	}

	booking := &entity.Booking{
		BookingID:             utils.GenerateBookingID(input.Phone, time.Now()),
		CustomerID:            customer.ID,
		ServiceID:             svc.Code,
		ServiceName:           svc.Name,
		ServicePrice:          svc.BasePrice,
		NumberOfPassengers:    input.NumberOfPassengers,
		Passengers:            input.Passengers,
		TotalPrice:            totalPrice,
		DiscountAmount:        input.DiscountAmount,
		OptionalServicesTotal: input.OptionalServicesTotal,
		FlightDate:            input.PreferredDate,
		FlightTime:            input.PreferredTime,
		PickupLocation:        input.PickupLocation,
		Status:                entity.BookingStatusPending,
		ContactStatus:         entity.ContactStatusNotContacted,
		SpecialRequests:       input.SpecialRequests,
		Source:                source,
		TelegramChatID:        input.TelegramChatID,
	}

	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, err
	}

	if err := s.customers.IncrementBookingStats(ctx, customer.ID, totalPrice); err != nil {
		// The booking exists; profile totals catch up on the next one.
		s.logger.Error("Failed to update customer stats", "customerId", customer.ID.Hex(), "error", err)
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}
	s.logger.Info("Booking created",
		"bookingId", booking.BookingID,
		"service", svc.Code,
		"passengers", input.NumberOfPassengers,
		"totalPrice", totalPrice,
	)

	return &CreateBookingResult{
		Booking:       booking,
		CustomerID:    customer.ID.Hex(),
		IsNewCustomer: isNew,
	}, nil
}

// GetByBookingID returns one booking, or nil when unknown.
func (s *BookingService) GetByBookingID(ctx context.Context, bookingID string) (*entity.Booking, error) {
	return s.bookings.FindByBookingID(ctx, bookingID)
}

// List returns a filtered, paginated booking page.
func (s *BookingService) List(ctx context.Context, filter repository.ListBookingsFilter) (*BookingPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	bookings, total, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit

	return &BookingPage{
		Data:       bookings,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    filter.Page < totalPages,
		HasPrev:    filter.Page > 1,
	}, nil
}

// UpdateStatus transitions a booking's lifecycle status. Cancelling
// reverses the booking's contribution to the customer's running totals.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID, status, notes string) (*entity.Booking, error) {
	booking, err := s.bookings.UpdateStatus(ctx, bookingID, status, notes)
	if err != nil {
		return nil, err
	}

	if status == entity.BookingStatusCancelled {
		if err := s.customers.DecrementBookingStats(ctx, booking.CustomerID, booking.TotalPrice); err != nil {
			s.logger.Error("Failed to reverse customer stats", "customerId", booking.CustomerID.Hex(), "error", err)
		}
	}

	return booking, nil
}

// UpdateContactStatus records the contact workflow progress.
func (s *BookingService) UpdateContactStatus(ctx context.Context, bookingID, contactStatus string) (*entity.Booking, error) {
	return s.bookings.UpdateContactStatus(ctx, bookingID, contactStatus)
}

// CancelBooking cancels with an optional reason kept in internal notes.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, reason string) (*entity.Booking, error) {
	return s.UpdateStatus(ctx, bookingID, entity.BookingStatusCancelled, reason)
}

// TodayBookings returns the operational list for today, earliest slot first.
func (s *BookingService) TodayBookings(ctx context.Context) ([]*entity.Booking, error) {
	return s.bookings.FindToday(ctx)
}

// UpcomingBookings returns pending/confirmed flights within the window.
func (s *BookingService) UpcomingBookings(ctx context.Context, days int) ([]*entity.Booking, error) {
	if days <= 0 {
		days = 7
	}
	return s.bookings.FindUpcoming(ctx, days)
}

// calculateTotalPrice prices the booking: per-passenger base and
// discount, plus add-ons, floored at zero.
func calculateTotalPrice(basePrice float64, passengers int, optionalServices, discount float64) float64 {
	total := basePrice*float64(passengers) + optionalServices - discount*float64(passengers)
	if total < 0 {
		return 0
	}
	return total
}
