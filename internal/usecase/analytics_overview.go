package usecase

import (
	"context"
	"time"

	"paratour-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

type overviewRow struct {
	TotalBookings       int64   `bson:"totalBookings"`
	TotalRevenue        float64 `bson:"totalRevenue"`
	PendingBookings     int64   `bson:"pendingBookings"`
	ConfirmedBookings   int64   `bson:"confirmedBookings"`
	CompletedBookings   int64   `bson:"completedBookings"`
	CancelledBookings   int64   `bson:"cancelledBookings"`
	TotalCustomers      int64   `bson:"totalCustomers"`
	TotalPassengers     int64   `bson:"totalPassengers"`
	AverageBookingValue float64 `bson:"averageBookingValue"`
}

type periodTotalsRow struct {
	TotalBookings  int64   `bson:"totalBookings"`
	TotalRevenue   float64 `bson:"totalRevenue"`
	TotalCustomers int64   `bson:"totalCustomers"`
}

// buildOverviewPipeline aggregates every headline metric of the current
// period in a single pass.
func buildOverviewPipeline(filter entity.AnalyticsFilter) mongo.Pipeline {
	pipeline := matchStages(filter)

	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.M{
		"_id": nil,

		"totalBookings": bson.M{"$sum": 1},
		"totalRevenue":  bson.M{"$sum": netRevenueExpr()},

		"pendingBookings":   statusCountExpr(entity.BookingStatusPending),
		"confirmedBookings": statusCountExpr(entity.BookingStatusConfirmed),
		"completedBookings": statusCountExpr(entity.BookingStatusCompleted),
		"cancelledBookings": statusCountExpr(entity.BookingStatusCancelled),

		"uniqueCustomers": bson.M{"$addToSet": "$customerId"},
		"totalPassengers": bson.M{"$sum": "$numberOfPassengers"},
	}}})

	pipeline = append(pipeline, bson.D{{Key: "$project", Value: bson.M{
		"_id":               0,
		"totalBookings":     1,
		"totalRevenue":      1,
		"pendingBookings":   1,
		"confirmedBookings": 1,
		"completedBookings": 1,
		"cancelledBookings": 1,
		"totalCustomers":    bson.M{"$size": "$uniqueCustomers"},
		"totalPassengers":   1,
		// Averaged over all bookings in the window, cancelled included.
		"averageBookingValue": bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{"$totalBookings", 0}},
			0,
			bson.M{"$divide": bson.A{"$totalRevenue", "$totalBookings"}},
		}},
	}}})

	return pipeline
}

// buildPeriodTotalsPipeline aggregates the subset of metrics compared
// against the previous period.
func buildPeriodTotalsPipeline(filter entity.AnalyticsFilter) mongo.Pipeline {
	pipeline := matchStages(filter)

	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.M{
		"_id":             nil,
		"totalBookings":   bson.M{"$sum": 1},
		"totalRevenue":    bson.M{"$sum": netRevenueExpr()},
		"uniqueCustomers": bson.M{"$addToSet": "$customerId"},
	}}})

	pipeline = append(pipeline, bson.D{{Key: "$project", Value: bson.M{
		"_id":            0,
		"totalBookings":  1,
		"totalRevenue":   1,
		"totalCustomers": bson.M{"$size": "$uniqueCustomers"},
	}}})

	return pipeline
}

func assembleOverview(current overviewRow, previous periodTotalsRow) entity.Overview {
	return entity.Overview{
		TotalBookings:       current.TotalBookings,
		TotalRevenue:        current.TotalRevenue,
		PendingBookings:     current.PendingBookings,
		ConfirmedBookings:   current.ConfirmedBookings,
		CompletedBookings:   current.CompletedBookings,
		CancelledBookings:   current.CancelledBookings,
		TotalCustomers:      current.TotalCustomers,
		TotalPassengers:     current.TotalPassengers,
		AverageBookingValue: current.AverageBookingValue,
		BookingsGrowth:      growthRate(float64(current.TotalBookings), float64(previous.TotalBookings)),
		RevenueGrowth:       growthRate(current.TotalRevenue, previous.TotalRevenue),
		CustomersGrowth:     growthRate(float64(current.TotalCustomers), float64(previous.TotalCustomers)),
	}
}

// Overview reports current-period totals plus growth against the
// immediately preceding period of equal duration. The two period queries
// run in parallel; a booking landing between them may be visible to one
// and not the other, which is accepted.
func (s *AnalyticsService) Overview(ctx context.Context, filter entity.AnalyticsFilter) (*entity.Overview, error) {
	defer s.observe("overview", time.Now())

	prevFrom, prevTo := previousPeriodRange(filter)
	// The comparison window carries only date bounds; status and service
	// narrowing apply to the current period alone.
	prevFilter := entity.AnalyticsFilter{From: &prevFrom, To: &prevTo}

	var currentRows []overviewRow
	var previousRows []periodTotalsRow

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.bookings.Aggregate(gctx, buildOverviewPipeline(filter), &currentRows)
	})
	g.Go(func() error {
		return s.bookings.Aggregate(gctx, buildPeriodTotalsPipeline(prevFilter), &previousRows)
	})
	if err := g.Wait(); err != nil {
		s.countError("overview")
		return nil, err
	}

	var current overviewRow
	if len(currentRows) > 0 {
		current = currentRows[0]
	}
	var previous periodTotalsRow
	if len(previousRows) > 0 {
		previous = previousRows[0]
	}

	overview := assembleOverview(current, previous)
	return &overview, nil
}
