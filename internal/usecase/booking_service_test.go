package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"paratour-service/internal/domain/entity"
	"paratour-service/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeBookingRepo struct {
	saved       *entity.Booking
	byBookingID map[string]*entity.Booking
	listResult  []*entity.Booking
	listTotal   int64
}

func (f *fakeBookingRepo) Aggregate(ctx context.Context, pipeline mongo.Pipeline, results interface{}) error {
	return nil
}

func (f *fakeBookingRepo) Save(ctx context.Context, booking *entity.Booking) error {
	f.saved = booking
	return nil
}

func (f *fakeBookingRepo) FindByBookingID(ctx context.Context, bookingID string) (*entity.Booking, error) {
	return f.byBookingID[bookingID], nil
}

func (f *fakeBookingRepo) List(ctx context.Context, filter repository.ListBookingsFilter) ([]*entity.Booking, int64, error) {
	return f.listResult, f.listTotal, nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, bookingID, status, notes string) (*entity.Booking, error) {
	b, ok := f.byBookingID[bookingID]
	if !ok {
		return nil, errors.New("booking not found")
	}
	b.Status = status
	if notes != "" {
		b.InternalNotes = notes
	}
	return b, nil
}

func (f *fakeBookingRepo) UpdateContactStatus(ctx context.Context, bookingID, contactStatus string) (*entity.Booking, error) {
	b, ok := f.byBookingID[bookingID]
	if !ok {
		return nil, errors.New("booking not found")
	}
	b.ContactStatus = contactStatus
	return b, nil
}

func (f *fakeBookingRepo) FindToday(ctx context.Context) ([]*entity.Booking, error) {
	return f.listResult, nil
}

func (f *fakeBookingRepo) FindUpcoming(ctx context.Context, days int) ([]*entity.Booking, error) {
	return f.listResult, nil
}

type fakeCustomerRepo struct {
	customer    *entity.Customer
	isNew       bool
	incremented float64
	decremented float64
}

func (f *fakeCustomerRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Customer, error) {
	return f.customer, nil
}

func (f *fakeCustomerRepo) FindByEmailOrPhone(ctx context.Context, email, phone string) (*entity.Customer, error) {
	return f.customer, nil
}

func (f *fakeCustomerRepo) FindOrCreate(ctx context.Context, email, phone, fullName, nationality string) (*entity.Customer, bool, error) {
	return f.customer, f.isNew, nil
}

func (f *fakeCustomerRepo) IncrementBookingStats(ctx context.Context, id primitive.ObjectID, amount float64) error {
	f.incremented += amount
	return nil
}

func (f *fakeCustomerRepo) DecrementBookingStats(ctx context.Context, id primitive.ObjectID, amount float64) error {
	f.decremented += amount
	return nil
}

type fakeServiceRepo struct {
	services map[string]*entity.FlightService
}

func (f *fakeServiceRepo) GetByCode(ctx context.Context, code string) (*entity.FlightService, error) {
	svc, ok := f.services[code]
	if !ok {
		return nil, errors.New("record not found")
	}
	return svc, nil
}

func (f *fakeServiceRepo) ListActive(ctx context.Context) ([]*entity.FlightService, error) {
	result := make([]*entity.FlightService, 0, len(f.services))
	for _, svc := range f.services {
		result = append(result, svc)
	}
	return result, nil
}

func newTestBookingService(bookings *fakeBookingRepo, customers *fakeCustomerRepo, services *fakeServiceRepo) *BookingService {
	return NewBookingService(bookings, customers, services, nopLogger{}, nil)
}

func TestCalculateTotalPrice(t *testing.T) {
	// base 1.5M x 2 pax + 200k add-ons - 100k discount per pax
	assert.Equal(t, 3000000.0, calculateTotalPrice(1500000, 2, 200000, 100000))
	assert.Equal(t, 1500000.0, calculateTotalPrice(1500000, 1, 0, 0))
	assert.Equal(t, 0.0, calculateTotalPrice(100, 1, 0, 500))
}

func TestCreateBooking(t *testing.T) {
	bookings := &fakeBookingRepo{}
	customers := &fakeCustomerRepo{
		customer: &entity.Customer{ID: primitive.NewObjectID(), FullName: "Jane Doe"},
		isNew:    true,
	}
	services := &fakeServiceRepo{services: map[string]*entity.FlightService{
		"TANDEM": {Code: "TANDEM", Name: "Tandem Flight", BasePrice: 1500000},
	}}
	svc := newTestBookingService(bookings, customers, services)

	result, err := svc.CreateBooking(context.Background(), CreateBookingInput{
		ServiceCode:        "TANDEM",
		NumberOfPassengers: 2,
		ContactName:        "Jane Doe",
		Email:              "jane@example.com",
		Phone:              "+62 812-3456-7890",
		PreferredDate:      time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		PreferredTime:      "09:30",
	})
	require.NoError(t, err)

	require.NotNil(t, bookings.saved)
	assert.Equal(t, entity.BookingStatusPending, bookings.saved.Status)
	assert.Equal(t, entity.ContactStatusNotContacted, bookings.saved.ContactStatus)
	assert.Equal(t, entity.SourceWebsite, bookings.saved.Source)
	assert.Equal(t, 3000000.0, bookings.saved.TotalPrice)
	assert.Equal(t, "Tandem Flight", bookings.saved.ServiceName)
	assert.Contains(t, bookings.saved.BookingID, "BK")

	assert.Equal(t, 3000000.0, customers.incremented)
	assert.True(t, result.IsNewCustomer)
	assert.Equal(t, customers.customer.ID.Hex(), result.CustomerID)
}

func TestCreateBookingUnknownService(t *testing.T) {
	svc := newTestBookingService(&fakeBookingRepo{}, &fakeCustomerRepo{}, &fakeServiceRepo{})

	_, err := svc.CreateBooking(context.Background(), CreateBookingInput{ServiceCode: "NOPE"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown service")
}

func TestUpdateStatusCancelReversesCustomerStats(t *testing.T) {
	customerID := primitive.NewObjectID()
	bookings := &fakeBookingRepo{byBookingID: map[string]*entity.Booking{
		"BK2507017890X": {
			BookingID:  "BK2507017890X",
			CustomerID: customerID,
			TotalPrice: 1500000,
			Status:     entity.BookingStatusConfirmed,
		},
	}}
	customers := &fakeCustomerRepo{customer: &entity.Customer{ID: customerID}}
	svc := newTestBookingService(bookings, customers, &fakeServiceRepo{})

	booking, err := svc.UpdateStatus(context.Background(), "BK2507017890X", entity.BookingStatusCancelled, "weather")
	require.NoError(t, err)

	assert.Equal(t, entity.BookingStatusCancelled, booking.Status)
	assert.Equal(t, "weather", booking.InternalNotes)
	assert.Equal(t, 1500000.0, customers.decremented)
}

func TestUpdateStatusConfirmLeavesCustomerStats(t *testing.T) {
	bookings := &fakeBookingRepo{byBookingID: map[string]*entity.Booking{
		"BK1": {BookingID: "BK1", Status: entity.BookingStatusPending},
	}}
	customers := &fakeCustomerRepo{}
	svc := newTestBookingService(bookings, customers, &fakeServiceRepo{})

	_, err := svc.UpdateStatus(context.Background(), "BK1", entity.BookingStatusConfirmed, "")
	require.NoError(t, err)

	assert.Zero(t, customers.decremented)
}

func TestListPagination(t *testing.T) {
	bookings := &fakeBookingRepo{
		listResult: []*entity.Booking{{BookingID: "BK1"}, {BookingID: "BK2"}},
		listTotal:  45,
	}
	svc := newTestBookingService(bookings, &fakeCustomerRepo{}, &fakeServiceRepo{})

	page, err := svc.List(context.Background(), repository.ListBookingsFilter{Page: 2, Limit: 20})
	require.NoError(t, err)

	assert.Equal(t, int64(2), page.Page)
	assert.Equal(t, int64(45), page.Total)
	assert.Equal(t, int64(3), page.TotalPages)
	assert.True(t, page.HasNext)
	assert.True(t, page.HasPrev)
}

func TestListDefaults(t *testing.T) {
	bookings := &fakeBookingRepo{listTotal: 5}
	svc := newTestBookingService(bookings, &fakeCustomerRepo{}, &fakeServiceRepo{})

	page, err := svc.List(context.Background(), repository.ListBookingsFilter{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), page.Page)
	assert.Equal(t, int64(20), page.Limit)
	assert.Equal(t, int64(1), page.TotalPages)
	assert.False(t, page.HasNext)
	assert.False(t, page.HasPrev)
}
