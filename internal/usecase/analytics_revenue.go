package usecase

import (
	"context"
	"fmt"
	"time"

	"paratour-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type revenueTrendPeriod struct {
	Period          string  `bson:"period"`
	Revenue         float64 `bson:"revenue"`
	BookingCount    int64   `bson:"bookingCount"`
	AvgBookingValue float64 `bson:"avgBookingValue"`
}

type revenueTrendRow struct {
	Periods []revenueTrendPeriod `bson:"periods"`
	Total   float64              `bson:"total"`
	Average float64              `bson:"average"`
}

type monthlyRevenueRow struct {
	Month   int32   `bson:"_id"`
	Revenue float64 `bson:"revenue"`
}

type quarterlyYearRevenue struct {
	Year    int32   `bson:"year"`
	Revenue float64 `bson:"revenue"`
}

type quarterlyRevenueRow struct {
	Quarter int32                  `bson:"_id"`
	Data    []quarterlyYearRevenue `bson:"data"`
}

// buildRevenueTrendsPipeline buckets net revenue by the filter's
// granularity, in ascending bucket order.
func buildRevenueTrendsPipeline(filter entity.AnalyticsFilter) mongo.Pipeline {
	granularity := filter.Granularity
	if granularity == "" {
		granularity = entity.GranularityDay
	}

	pipeline := matchStages(filter)
	pipeline = append(pipeline, excludeNonRevenueStage())

	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.M{
		"_id":             bucketKeyExpr(granularity),
		"revenue":         bson.M{"$sum": "$totalPrice"},
		"bookingCount":    bson.M{"$sum": 1},
		"avgBookingValue": bson.M{"$avg": "$totalPrice"},
	}}})

	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.M{"_id": 1}}})

	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.M{
		"_id": nil,
		"periods": bson.M{"$push": bson.M{
			"period":          "$_id",
			"revenue":         "$revenue",
			"bookingCount":    "$bookingCount",
			"avgBookingValue": "$avgBookingValue",
		}},
		"total":   bson.M{"$sum": "$revenue"},
		"average": bson.M{"$avg": "$revenue"},
	}}})

	return pipeline
}

func assembleRevenueTrends(rows []revenueTrendRow) entity.RevenueTrends {
	if len(rows) == 0 || len(rows[0].Periods) == 0 {
		return entity.RevenueTrends{
			Labels: []string{},
			Values: []float64{},
		}
	}

	data := rows[0]
	periods := data.Periods

	// First-encountered bucket wins ties, scanning in sorted order.
	highest := periods[0]
	lowest := periods[0]
	for _, p := range periods[1:] {
		if p.Revenue > highest.Revenue {
			highest = p
		}
		if p.Revenue < lowest.Revenue {
			lowest = p
		}
	}

	labels := make([]string, 0, len(periods))
	values := make([]float64, 0, len(periods))
	for _, p := range periods {
		labels = append(labels, p.Period)
		values = append(values, p.Revenue)
	}

	return entity.RevenueTrends{
		Labels:  labels,
		Values:  values,
		Total:   data.Total,
		Average: round2(data.Average),
		Highest: entity.RevenuePoint{Period: highest.Period, Value: highest.Revenue},
		Lowest:  entity.RevenuePoint{Period: lowest.Period, Value: lowest.Revenue},
	}
}

// RevenueTrends reports the time-bucketed net revenue series for the
// filtered window.
func (s *AnalyticsService) RevenueTrends(ctx context.Context, filter entity.AnalyticsFilter) (*entity.RevenueTrends, error) {
	defer s.observe("revenue_trends", time.Now())

	var rows []revenueTrendRow
	if err := s.bookings.Aggregate(ctx, buildRevenueTrendsPipeline(filter), &rows); err != nil {
		s.countError("revenue_trends")
		return nil, err
	}

	trends := assembleRevenueTrends(rows)
	return &trends, nil
}

func buildMonthlyRevenuePipeline(year int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"flightDate": bson.M{
				"$gte": time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
				"$lte": time.Date(year, 12, 31, 23, 59, 59, 999000000, time.UTC),
			},
			"status": bson.M{"$nin": bson.A{entity.BookingStatusCancelled, entity.BookingStatusRefunded}},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":     bson.M{"$month": "$flightDate"},
			"revenue": bson.M{"$sum": "$totalPrice"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
}

// fillMonths expands sparse month rows into exactly 12 entries, months
// absent from the data carrying zero revenue.
func fillMonths(year int, rows []monthlyRevenueRow) []entity.MonthlyRevenue {
	byMonth := make(map[int32]float64, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r.Revenue
	}

	months := make([]entity.MonthlyRevenue, 0, 12)
	for m := 1; m <= 12; m++ {
		months = append(months, entity.MonthlyRevenue{
			Month:   fmt.Sprintf("%d-%02d", year, m),
			Revenue: byMonth[int32(m)],
		})
	}
	return months
}

// MonthlyRevenue reports net revenue per calendar month of the target
// year. A year of 0 means the current year. The result always holds
// exactly 12 entries.
func (s *AnalyticsService) MonthlyRevenue(ctx context.Context, year int) ([]entity.MonthlyRevenue, error) {
	defer s.observe("revenue_monthly", time.Now())

	if year == 0 {
		year = time.Now().Year()
	}

	var rows []monthlyRevenueRow
	if err := s.bookings.Aggregate(ctx, buildMonthlyRevenuePipeline(year), &rows); err != nil {
		s.countError("revenue_monthly")
		return nil, err
	}

	return fillMonths(year, rows), nil
}

func buildQuarterlyRevenuePipeline(targetYear int) mongo.Pipeline {
	previousYear := targetYear - 1

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"flightDate": bson.M{
				"$gte": time.Date(previousYear, 1, 1, 0, 0, 0, 0, time.UTC),
				"$lte": time.Date(targetYear, 12, 31, 23, 59, 59, 999000000, time.UTC),
			},
			"status": bson.M{"$nin": bson.A{entity.BookingStatusCancelled, entity.BookingStatusRefunded}},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":    bson.M{"$year": "$flightDate"},
				"quarter": bson.M{"$ceil": bson.M{"$divide": bson.A{bson.M{"$month": "$flightDate"}, 3}}},
			},
			"revenue": bson.M{"$sum": "$totalPrice"},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": "$_id.quarter",
			"data": bson.M{"$push": bson.M{
				"year":    "$_id.year",
				"revenue": "$revenue",
			}},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
}

func assembleQuarterlyRevenue(targetYear int, rows []quarterlyRevenueRow) []entity.QuarterlyRevenue {
	previousYear := targetYear - 1

	quarters := make([]entity.QuarterlyRevenue, 0, len(rows))
	for _, r := range rows {
		var current, previous float64
		for _, d := range r.Data {
			switch int(d.Year) {
			case targetYear:
				current = d.Revenue
			case previousYear:
				previous = d.Revenue
			}
		}

		growth := 0.0
		if previous > 0 {
			growth = round2((current - previous) / previous * 100)
		}

		quarters = append(quarters, entity.QuarterlyRevenue{
			Quarter:             fmt.Sprintf("Q%d", r.Quarter),
			Revenue:             current,
			PreviousYearRevenue: previous,
			Growth:              growth,
		})
	}
	return quarters
}

// QuarterlyRevenue reports per-quarter net revenue for the target year
// against the preceding year. A year of 0 means the current year.
// Quarters with no data in either year are not emitted.
func (s *AnalyticsService) QuarterlyRevenue(ctx context.Context, year int) ([]entity.QuarterlyRevenue, error) {
	defer s.observe("revenue_quarterly", time.Now())

	if year == 0 {
		year = time.Now().Year()
	}

	var rows []quarterlyRevenueRow
	if err := s.bookings.Aggregate(ctx, buildQuarterlyRevenuePipeline(year), &rows); err != nil {
		s.countError("revenue_quarterly")
		return nil, err
	}

	return assembleQuarterlyRevenue(year, rows), nil
}
