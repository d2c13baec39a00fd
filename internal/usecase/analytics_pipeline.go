package usecase

import (
	"math"
	"time"

	"paratour-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Pipeline building blocks shared by every reporter. Each function is
// pure so the emitted stages can be asserted on without a store.

// buildMatchFilter produces the filter predicate for the analytics
// window: flightDate within [from, to] (to extended to end of day),
// optionally narrowed by status and service. An empty filter yields an
// empty predicate.
func buildMatchFilter(filter entity.AnalyticsFilter) bson.M {
	match := bson.M{}

	if filter.From != nil || filter.To != nil {
		dateRange := bson.M{}
		if filter.From != nil {
			dateRange["$gte"] = *filter.From
		}
		if filter.To != nil {
			dateRange["$lte"] = endOfDay(*filter.To)
		}
		match["flightDate"] = dateRange
	}

	if filter.Status != "" {
		match["status"] = filter.Status
	}

	if filter.ServiceID != "" {
		match["serviceId"] = filter.ServiceID
	}

	return match
}

// matchStages returns the leading $match stage, or no stage at all when
// the filter matches everything.
func matchStages(filter entity.AnalyticsFilter) mongo.Pipeline {
	match := buildMatchFilter(filter)
	if len(match) == 0 {
		return mongo.Pipeline{}
	}
	return mongo.Pipeline{{{Key: "$match", Value: match}}}
}

// bucketDateFormat maps a granularity to the store's date format string.
// Quarter has no format string and is handled by bucketKeyExpr.
func bucketDateFormat(granularity string) string {
	switch granularity {
	case entity.GranularityWeek:
		return "%Y-W%V" // ISO week
	case entity.GranularityMonth:
		return "%Y-%m"
	case entity.GranularityYear:
		return "%Y"
	default:
		return "%Y-%m-%d"
	}
}

// bucketKeyExpr derives the canonical time-bucket key for a booking.
// Bookings without a flight date fall back to their creation time.
func bucketKeyExpr(granularity string) bson.M {
	date := bucketDateExpr()

	if granularity == entity.GranularityQuarter {
		return bson.M{"$concat": bson.A{
			bson.M{"$toString": bson.M{"$year": date}},
			"-Q",
			bson.M{"$toString": bson.M{
				"$ceil": bson.M{"$divide": bson.A{bson.M{"$month": date}, 3}},
			}},
		}}
	}

	return bson.M{"$dateToString": bson.M{
		"format": bucketDateFormat(granularity),
		"date":   date,
	}}
}

func bucketDateExpr() bson.M {
	return bson.M{"$ifNull": bson.A{"$flightDate", "$createdAt"}}
}

// netRevenueExpr counts a booking's totalPrice only while its status
// still contributes to revenue.
func netRevenueExpr() bson.M {
	return bson.M{"$cond": bson.A{
		bson.M{"$in": bson.A{"$status", bson.A{entity.BookingStatusCancelled, entity.BookingStatusRefunded}}},
		0,
		"$totalPrice",
	}}
}

// excludeNonRevenueStage drops cancelled/refunded bookings entirely.
func excludeNonRevenueStage() bson.D {
	return bson.D{{Key: "$match", Value: bson.M{
		"status": bson.M{"$nin": bson.A{entity.BookingStatusCancelled, entity.BookingStatusRefunded}},
	}}}
}

// statusCountExpr counts bookings in one lifecycle status.
func statusCountExpr(status string) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{
		bson.M{"$eq": bson.A{"$status", status}},
		1,
		0,
	}}}
}

// previousPeriodRange derives the comparison window for growth metrics:
// the same duration as the current window, ending one millisecond before
// it starts. Missing bounds default to now, collapsing the window.
func previousPeriodRange(filter entity.AnalyticsFilter) (time.Time, time.Time) {
	now := time.Now()

	from := now
	if filter.From != nil {
		from = *filter.From
	}
	to := now
	if filter.To != nil {
		to = *filter.To
	}

	duration := to.Sub(from)

	return from.Add(-duration), from.Add(-time.Millisecond)
}

// growthRate compares a metric across periods. A metric appearing out of
// nowhere reports 100; a metric absent in both periods reports 0.
func growthRate(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return round2((current - previous) / previous * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, t.Location())
}
