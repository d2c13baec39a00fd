package usecase

import (
	"context"
	"time"

	"paratour-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type todayTotalsRow struct {
	Count   int64   `bson:"count"`
	Revenue float64 `bson:"revenue"`
}

type realTimeRow struct {
	Today           []todayTotalsRow `bson:"today"`
	Upcoming        []facetCount     `bson:"upcoming"`
	PendingContacts []facetCount     `bson:"pendingContacts"`
}

// buildRealTimePipeline computes the dashboard snapshot in one faceted
// pass: bookings created since local midnight with their revenue, flights
// departing within the upcoming window, and unresolved contacts.
func buildRealTimePipeline(now time.Time, upcomingDays int) mongo.Pipeline {
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	windowEnd := today.AddDate(0, 0, upcomingDays)

	return mongo.Pipeline{
		{{Key: "$facet", Value: bson.M{
			"today": bson.A{
				bson.M{"$match": bson.M{
					"createdAt": bson.M{"$gte": today, "$lt": tomorrow},
				}},
				bson.M{"$group": bson.M{
					"_id":     nil,
					"count":   bson.M{"$sum": 1},
					"revenue": bson.M{"$sum": "$totalPrice"},
				}},
			},

			"upcoming": bson.A{
				bson.M{"$match": bson.M{
					"flightDate": bson.M{"$gte": today, "$lte": windowEnd},
					"status": bson.M{"$in": bson.A{
						entity.BookingStatusPending,
						entity.BookingStatusConfirmed,
					}},
				}},
				bson.M{"$count": "count"},
			},

			"pendingContacts": bson.A{
				bson.M{"$match": bson.M{
					"status":        entity.BookingStatusPending,
					"contactStatus": entity.ContactStatusNotContacted,
				}},
				bson.M{"$count": "count"},
			},
		}}},
	}
}

// RealTimeMetrics reports the always-current dashboard snapshot. It takes
// no filter and recomputes from scratch on every call.
func (s *AnalyticsService) RealTimeMetrics(ctx context.Context) (*entity.RealTimeMetrics, error) {
	defer s.observe("realtime", time.Now())

	var rows []realTimeRow
	if err := s.bookings.Aggregate(ctx, buildRealTimePipeline(time.Now(), s.upcomingDays), &rows); err != nil {
		s.countError("realtime")
		return nil, err
	}

	var data realTimeRow
	if len(rows) > 0 {
		data = rows[0]
	}

	metrics := entity.RealTimeMetrics{
		UpcomingFlights: facetCountValue(data.Upcoming),
		PendingContacts: facetCountValue(data.PendingContacts),
	}
	if len(data.Today) > 0 {
		metrics.TodayBookings = data.Today[0].Count
		metrics.TodayRevenue = data.Today[0].Revenue
	}

	return &metrics, nil
}
