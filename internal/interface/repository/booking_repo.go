// internal/interface/repository/booking_repo.go
package repository

import (
	"context"
	"fmt"
	"time"

	"paratour-service/internal/domain/entity"
	"paratour-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepository implements the BookingRepository interface
type MongoBookingRepository struct {
	collection *mongo.Collection
}

// NewMongoBookingRepository creates a new MongoDB booking repository
func NewMongoBookingRepository(db *mongo.Database) repository.BookingRepository {
	collection := db.Collection("bookings")

	// Create indexes for better performance
	ctx := context.Background()

	bookingIDIndex := mongo.IndexModel{
		Keys:    bson.M{"bookingId": 1},
		Options: options.Index().SetUnique(true),
	}

	// Single-field indexes driving the common filters
	flightDateIndex := mongo.IndexModel{
		Keys: bson.M{"flightDate": 1},
	}
	statusIndex := mongo.IndexModel{
		Keys: bson.M{"status": 1},
	}
	customerIndex := mongo.IndexModel{
		Keys: bson.M{"customerId": 1},
	}

	// Compound indexes backing the aggregation reports
	analyticsIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "flightDate", Value: 1},
			{Key: "status", Value: 1},
			{Key: "totalPrice", Value: 1},
		},
	}
	sourceIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "source", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	}
	serviceIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "serviceId", Value: 1},
			{Key: "flightDate", Value: -1},
		},
	}

	// Create all indexes
	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		bookingIDIndex,
		flightDateIndex,
		statusIndex,
		customerIndex,
		analyticsIndex,
		sourceIndex,
		serviceIndex,
	})

	return &MongoBookingRepository{
		collection: collection,
	}
}

// Aggregate runs a pipeline and decodes every row into results.
func (r *MongoBookingRepository) Aggregate(ctx context.Context, pipeline mongo.Pipeline, results interface{}) error {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("failed to run aggregation: %w", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, results); err != nil {
		return fmt.Errorf("failed to decode aggregation results: %w", err)
	}
	return nil
}

// Save inserts a booking
func (r *MongoBookingRepository) Save(ctx context.Context, booking *entity.Booking) error {
	if booking.Status == "" {
		booking.Status = entity.BookingStatusPending
	}
	if booking.ContactStatus == "" {
		booking.ContactStatus = entity.ContactStatusNotContacted
	}
	now := time.Now()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid
	}
	return nil
}

// FindByBookingID finds a booking by its business identifier
func (r *MongoBookingRepository) FindByBookingID(ctx context.Context, bookingID string) (*entity.Booking, error) {
	var booking entity.Booking
	err := r.collection.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

// List returns a filtered, paginated page of bookings plus the total count
func (r *MongoBookingRepository) List(ctx context.Context, filter repository.ListBookingsFilter) ([]*entity.Booking, int64, error) {
	query := bson.M{}

	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.ContactStatus != "" {
		query["contactStatus"] = filter.ContactStatus
	}
	if filter.Source != "" {
		query["source"] = filter.Source
	}
	if filter.From != nil || filter.To != nil {
		dateRange := bson.M{}
		if filter.From != nil {
			dateRange["$gte"] = *filter.From
		}
		if filter.To != nil {
			dateRange["$lte"] = endOfDay(*filter.To)
		}
		query["flightDate"] = dateRange
	}
	if filter.Search != "" {
		query["$or"] = []bson.M{
			{"bookingId": bson.M{"$regex": filter.Search, "$options": "i"}},
			{"passengers.name": bson.M{"$regex": filter.Search, "$options": "i"}},
		}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	sortOrder := 1
	if filter.SortDesc {
		sortOrder = -1
	}
	skip := (page - 1) * limit

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: sortOrder}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*entity.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return bookings, total, nil
}

// UpdateStatus transitions the booking lifecycle status and returns the
// updated document
func (r *MongoBookingRepository) UpdateStatus(ctx context.Context, bookingID, status, notes string) (*entity.Booking, error) {
	set := bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}
	if notes != "" {
		set["internalNotes"] = notes
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking entity.Booking
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"bookingId": bookingID},
		bson.M{"$set": set},
		opts,
	).Decode(&booking)

	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("no booking found with bookingId: %s", bookingID)
		}
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return &booking, nil
}

// UpdateContactStatus updates the contact workflow status
func (r *MongoBookingRepository) UpdateContactStatus(ctx context.Context, bookingID, contactStatus string) (*entity.Booking, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking entity.Booking
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"bookingId": bookingID},
		bson.M{"$set": bson.M{
			"contactStatus": contactStatus,
			"updatedAt":     time.Now(),
		}},
		opts,
	).Decode(&booking)

	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("no booking found with bookingId: %s", bookingID)
		}
		return nil, fmt.Errorf("failed to update contact status: %w", err)
	}

	return &booking, nil
}

// FindToday returns actionable bookings flying today, earliest slot first
func (r *MongoBookingRepository) FindToday(ctx context.Context) ([]*entity.Booking, error) {
	today := startOfDay(time.Now())
	tomorrow := today.AddDate(0, 0, 1)

	filter := bson.M{
		"flightDate": bson.M{"$gte": today, "$lt": tomorrow},
		"status":     bson.M{"$in": []string{entity.BookingStatusPending, entity.BookingStatusConfirmed}},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "flightTime", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find today's bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*entity.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindUpcoming returns pending/confirmed bookings flying within the next
// given number of days, soonest first
func (r *MongoBookingRepository) FindUpcoming(ctx context.Context, days int) ([]*entity.Booking, error) {
	now := time.Now()
	future := now.AddDate(0, 0, days)

	filter := bson.M{
		"flightDate": bson.M{"$gte": now, "$lte": future},
		"status":     bson.M{"$in": []string{entity.BookingStatusPending, entity.BookingStatusConfirmed}},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "flightDate", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find upcoming bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*entity.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, t.Location())
}
