// internal/interface/repository/customer_repo.go
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"paratour-service/internal/domain/entity"
	"paratour-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCustomerRepository implements the CustomerRepository interface
type MongoCustomerRepository struct {
	collection *mongo.Collection
}

// NewMongoCustomerRepository creates a new MongoDB customer repository
func NewMongoCustomerRepository(db *mongo.Database) repository.CustomerRepository {
	collection := db.Collection("customers")

	ctx := context.Background()

	identityIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "email", Value: 1},
			{Key: "phone", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}

	returningIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "isReturningCustomer", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	}

	spentIndex := mongo.IndexModel{
		Keys: bson.M{"totalSpent": -1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		identityIndex,
		returningIndex,
		spentIndex,
	})

	return &MongoCustomerRepository{
		collection: collection,
	}
}

// FindByID finds a customer by object ID
func (r *MongoCustomerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&customer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// FindByEmailOrPhone finds a customer by either identity field
func (r *MongoCustomerRepository) FindByEmailOrPhone(ctx context.Context, email, phone string) (*entity.Customer, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"email": normalizeEmail(email)},
			{"phone": normalizePhone(phone)},
		},
	}

	var customer entity.Customer
	err := r.collection.FindOne(ctx, filter).Decode(&customer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// FindOrCreate returns the matching customer, creating a fresh profile
// when neither email nor phone is known yet
func (r *MongoCustomerRepository) FindOrCreate(ctx context.Context, email, phone, fullName, nationality string) (*entity.Customer, bool, error) {
	existing, err := r.FindByEmailOrPhone(ctx, email, phone)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up customer: %w", err)
	}

	if existing != nil {
		// Keep the profile name current with the latest booking form
		if fullName != "" && fullName != existing.FullName {
			_, err := r.collection.UpdateOne(
				ctx,
				bson.M{"_id": existing.ID},
				bson.M{"$set": bson.M{"fullName": fullName, "updatedAt": time.Now()}},
			)
			if err != nil {
				return nil, false, fmt.Errorf("failed to update customer name: %w", err)
			}
			existing.FullName = fullName
		}
		return existing, false, nil
	}

	now := time.Now()
	customer := &entity.Customer{
		Email:               normalizeEmail(email),
		Phone:               normalizePhone(phone),
		FullName:            fullName,
		Nationality:         nationality,
		TotalBookings:       0,
		TotalSpent:          0,
		IsReturningCustomer: false,
		FirstBookingAt:      &now,
		LastBookingAt:       &now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	result, err := r.collection.InsertOne(ctx, customer)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create customer: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		customer.ID = oid
	}

	return customer, true, nil
}

// IncrementBookingStats bumps the running totals after a new booking.
// A customer becomes returning once a second booking lands.
func (r *MongoCustomerRepository) IncrementBookingStats(ctx context.Context, id primitive.ObjectID, amount float64) error {
	now := time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated entity.Customer
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"totalBookings": 1, "totalSpent": amount},
			"$set": bson.M{"lastBookingAt": now, "updatedAt": now},
		},
		opts,
	).Decode(&updated)
	if err != nil {
		return fmt.Errorf("failed to increment booking stats: %w", err)
	}

	if updated.TotalBookings > 1 && !updated.IsReturningCustomer {
		_, err = r.collection.UpdateOne(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"isReturningCustomer": true}},
		)
		if err != nil {
			return fmt.Errorf("failed to flag returning customer: %w", err)
		}
	}

	return nil
}

// DecrementBookingStats reverses one booking's contribution, flooring at zero
func (r *MongoCustomerRepository) DecrementBookingStats(ctx context.Context, id primitive.ObjectID, amount float64) error {
	customer, err := r.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load customer: %w", err)
	}
	if customer == nil {
		return fmt.Errorf("no customer found with id: %s", id.Hex())
	}

	totalBookings := customer.TotalBookings - 1
	if totalBookings < 0 {
		totalBookings = 0
	}
	totalSpent := customer.TotalSpent - amount
	if totalSpent < 0 {
		totalSpent = 0
	}

	set := bson.M{
		"totalBookings": totalBookings,
		"totalSpent":    totalSpent,
		"updatedAt":     time.Now(),
	}
	if totalBookings <= 1 {
		set["isReturningCustomer"] = false
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to decrement booking stats: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizePhone(phone string) string {
	return strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
}
