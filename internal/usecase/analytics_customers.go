package usecase

import (
	"context"
	"time"

	"paratour-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type topCustomerRow struct {
	CustomerID    primitive.ObjectID `bson:"customerId"`
	Name          string             `bson:"name"`
	TotalBookings int64              `bson:"totalBookings"`
	TotalSpent    float64            `bson:"totalSpent"`
}

type customerAnalyticsRow struct {
	TotalCustomers             int64            `bson:"totalCustomers"`
	NewCustomers               int64            `bson:"newCustomers"`
	ReturningCustomers         int64            `bson:"returningCustomers"`
	NewCustomerRate            float64          `bson:"newCustomerRate"`
	ReturningCustomerRate      float64          `bson:"returningCustomerRate"`
	AverageBookingsPerCustomer float64          `bson:"averageBookingsPerCustomer"`
	TopCustomers               []topCustomerRow `bson:"topCustomers"`
}

// buildCustomerAnalyticsPipeline joins each booking to its customer,
// collapses to unique-customer granularity, then derives segmentation
// rates and the top-spender ranking in a final projection.
func buildCustomerAnalyticsPipeline(filter entity.AnalyticsFilter) mongo.Pipeline {
	pipeline := matchStages(filter)

	pipeline = append(pipeline, bson.D{{Key: "$lookup", Value: bson.M{
		"from":         "customers",
		"localField":   "customerId",
		"foreignField": "_id",
		"as":           "customer",
	}}})

	// Older bookings may reference a deleted profile; keep them.
	pipeline = append(pipeline, bson.D{{Key: "$unwind", Value: bson.M{
		"path":                       "$customer",
		"preserveNullAndEmptyArrays": true,
	}}})

	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.M{
		"_id":              "$customerId",
		"customerName":     bson.M{"$first": "$customer.fullName"},
		"isReturning":      bson.M{"$first": "$customer.isReturningCustomer"},
		"bookingsInPeriod": bson.M{"$sum": 1},
		"spentInPeriod":    bson.M{"$sum": netRevenueExpr()},
	}}})

	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.M{
		"_id":            nil,
		"totalCustomers": bson.M{"$sum": 1},

		"newCustomers": bson.M{"$sum": bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{"$isReturning", false}}, 1, 0,
		}}},
		"returningCustomers": bson.M{"$sum": bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{"$isReturning", true}}, 1, 0,
		}}},

		"totalBookings": bson.M{"$sum": "$bookingsInPeriod"},

		"allCustomers": bson.M{"$push": bson.M{
			"customerId":    "$_id",
			"name":          "$customerName",
			"totalBookings": "$bookingsInPeriod",
			"totalSpent":    "$spentInPeriod",
		}},
	}}})

	pipeline = append(pipeline, bson.D{{Key: "$project", Value: bson.M{
		"_id":                0,
		"totalCustomers":     1,
		"newCustomers":       1,
		"returningCustomers": 1,

		"newCustomerRate": bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{"$totalCustomers", 0}},
			0,
			bson.M{"$multiply": bson.A{
				bson.M{"$divide": bson.A{"$newCustomers", "$totalCustomers"}},
				100,
			}},
		}},

		"returningCustomerRate": bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{"$totalCustomers", 0}},
			0,
			bson.M{"$multiply": bson.A{
				bson.M{"$divide": bson.A{"$returningCustomers", "$totalCustomers"}},
				100,
			}},
		}},

		"averageBookingsPerCustomer": bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{"$totalCustomers", 0}},
			0,
			bson.M{"$divide": bson.A{"$totalBookings", "$totalCustomers"}},
		}},

		"topCustomers": bson.M{"$slice": bson.A{
			bson.M{"$sortArray": bson.M{
				"input":  "$allCustomers",
				"sortBy": bson.M{"totalSpent": -1},
			}},
			10,
		}},
	}}})

	return pipeline
}

func assembleCustomerAnalytics(rows []customerAnalyticsRow) entity.CustomerAnalytics {
	var data customerAnalyticsRow
	if len(rows) > 0 {
		data = rows[0]
	}

	top := make([]entity.TopCustomer, 0, len(data.TopCustomers))
	for _, c := range data.TopCustomers {
		top = append(top, entity.TopCustomer{
			CustomerID:    c.CustomerID.Hex(),
			Name:          c.Name,
			TotalBookings: c.TotalBookings,
			TotalSpent:    c.TotalSpent,
		})
	}

	returningRate := round2(data.ReturningCustomerRate)

	return entity.CustomerAnalytics{
		TotalCustomers:        data.TotalCustomers,
		NewCustomers:          data.NewCustomers,
		ReturningCustomers:    data.ReturningCustomers,
		NewCustomerRate:       round2(data.NewCustomerRate),
		ReturningCustomerRate: returningRate,
		// Retention is currently defined as the returning-customer share
		// of the window; both fields are emitted for API compatibility.
		CustomerRetentionRate:      returningRate,
		AverageBookingsPerCustomer: round2(data.AverageBookingsPerCustomer),
		TopCustomers:               top,
	}
}

// CustomerAnalytics segments the distinct customers of the filtered
// window into new vs returning and ranks the top ten spenders.
func (s *AnalyticsService) CustomerAnalytics(ctx context.Context, filter entity.AnalyticsFilter) (*entity.CustomerAnalytics, error) {
	defer s.observe("customers", time.Now())

	var rows []customerAnalyticsRow
	if err := s.bookings.Aggregate(ctx, buildCustomerAnalyticsPipeline(filter), &rows); err != nil {
		s.countError("customers")
		return nil, err
	}

	analytics := assembleCustomerAnalytics(rows)
	return &analytics, nil
}
