package usecase

import (
	"context"
	"time"

	"paratour-service/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

const fallbackHour = 9

var dayNames = [8]string{"", "Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

type statusBreakdownRow struct {
	Status     string  `bson:"status"`
	Count      int64   `bson:"count"`
	Revenue    float64 `bson:"revenue"`
	Percentage float64 `bson:"percentage"`
}

type sourceBreakdownRow struct {
	Source     string  `bson:"source"`
	Count      int64   `bson:"count"`
	Percentage float64 `bson:"percentage"`
}

type serviceBreakdownRow struct {
	ServiceID   string  `bson:"serviceId"`
	ServiceName string  `bson:"serviceName"`
	Count       int64   `bson:"count"`
	Revenue     float64 `bson:"revenue"`
}

type peakDayRow struct {
	DayOfWeek       int32   `bson:"dayOfWeek"`
	TotalBookings   int64   `bson:"totalBookings"`
	DaysCount       int64   `bson:"daysCount"`
	AverageBookings float64 `bson:"averageBookings"`
}

type peakHourRow struct {
	Hour            int32   `bson:"hour"`
	AverageBookings float64 `bson:"averageBookings"`
}

type facetCount struct {
	Count int64 `bson:"count"`
}

type funnelRow struct {
	Total     []facetCount `bson:"total"`
	Pending   []facetCount `bson:"pending"`
	Confirmed []facetCount `bson:"confirmed"`
	Completed []facetCount `bson:"completed"`
}

// buildStatusBreakdownPipeline counts and sums revenue per lifecycle
// status, with each status' percentage of the window total.
func buildStatusBreakdownPipeline(filter entity.AnalyticsFilter) mongo.Pipeline {
	pipeline := matchStages(filter)

	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":     "$status",
			"count":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$totalPrice"},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$count"},
			"statuses": bson.M{"$push": bson.M{
				"status": "$_id", "count": "$count", "revenue": "$revenue",
			}},
		}}},
		bson.D{{Key: "$unwind", Value: "$statuses"}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":     0,
			"status":  "$statuses.status",
			"count":   "$statuses.count",
			"revenue": "$statuses.revenue",
			"percentage": bson.M{"$multiply": bson.A{
				bson.M{"$divide": bson.A{"$statuses.count", "$total"}},
				100,
			}},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"count": -1}}},
	)
	return pipeline
}

// buildSourceBreakdownPipeline counts bookings per acquisition channel.
func buildSourceBreakdownPipeline(filter entity.AnalyticsFilter) mongo.Pipeline {
	pipeline := matchStages(filter)

	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$source",
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"total":   bson.M{"$sum": "$count"},
			"sources": bson.M{"$push": bson.M{"source": "$_id", "count": "$count"}},
		}}},
		bson.D{{Key: "$unwind", Value: "$sources"}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":    0,
			"source": "$sources.source",
			"count":  "$sources.count",
			"percentage": bson.M{"$multiply": bson.A{
				bson.M{"$divide": bson.A{"$sources.count", "$total"}},
				100,
			}},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"count": -1}}},
	)
	return pipeline
}

// buildServiceBreakdownPipeline ranks the ten most-booked services with
// their net revenue.
func buildServiceBreakdownPipeline(filter entity.AnalyticsFilter) mongo.Pipeline {
	pipeline := matchStages(filter)

	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":         "$serviceId",
			"serviceName": bson.M{"$first": "$serviceName"},
			"count":       bson.M{"$sum": 1},
			"revenue":     bson.M{"$sum": netRevenueExpr()},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"count": -1}}},
		bson.D{{Key: "$limit", Value: 10}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":         0,
			"serviceId":   "$_id",
			"serviceName": 1,
			"count":       1,
			"revenue":     1,
		}}},
	)
	return pipeline
}

// buildPeakDaysPipeline averages bookings per distinct calendar date for
// each weekday, so a window holding more Mondays than Saturdays does not
// skew the comparison. Day numbering is 1=Sunday .. 7=Saturday.
func buildPeakDaysPipeline(filter entity.AnalyticsFilter) mongo.Pipeline {
	pipeline := matchStages(filter)

	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":           bson.M{"$dayOfWeek": "$flightDate"},
			"totalBookings": bson.M{"$sum": 1},
			"uniqueDates": bson.M{"$addToSet": bson.M{
				"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$flightDate"},
			}},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"dayOfWeek":     "$_id",
			"totalBookings": 1,
			"daysCount":     bson.M{"$size": "$uniqueDates"},
			"averageBookings": bson.M{"$divide": bson.A{
				"$totalBookings",
				bson.M{"$size": "$uniqueDates"},
			}},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"averageBookings": -1}}},
	)
	return pipeline
}

// buildPeakHoursPipeline derives the hour from the HH:MM flight time,
// defaulting to 9 AM when the slot is unparseable, then applies the same
// per-distinct-date averaging as peak days.
func buildPeakHoursPipeline(filter entity.AnalyticsFilter) mongo.Pipeline {
	pipeline := matchStages(filter)

	pipeline = append(pipeline,
		bson.D{{Key: "$addFields", Value: bson.M{
			"hour": bson.M{"$cond": bson.A{
				bson.M{"$regexMatch": bson.M{
					"input": "$flightTime",
					"regex": primitive.Regex{Pattern: `^\d{1,2}:\d{2}$`},
				}},
				bson.M{"$toInt": bson.M{"$arrayElemAt": bson.A{
					bson.M{"$split": bson.A{"$flightTime", ":"}},
					0,
				}}},
				fallbackHour,
			}},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":           "$hour",
			"totalBookings": bson.M{"$sum": 1},
			"uniqueDates": bson.M{"$addToSet": bson.M{
				"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$flightDate"},
			}},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"hour": "$_id",
			"averageBookings": bson.M{"$divide": bson.A{
				"$totalBookings",
				bson.M{"$size": "$uniqueDates"},
			}},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"hour": 1}}},
	)
	return pipeline
}

func assembleStatusAnalytics(
	statusRows []statusBreakdownRow,
	sourceRows []sourceBreakdownRow,
	serviceRows []serviceBreakdownRow,
	peakDayRows []peakDayRow,
	peakHourRows []peakHourRow,
) entity.StatusAnalytics {
	byStatus := make([]entity.StatusBreakdown, 0, len(statusRows))
	for _, r := range statusRows {
		byStatus = append(byStatus, entity.StatusBreakdown{
			Status:     r.Status,
			Count:      r.Count,
			Percentage: round2(r.Percentage),
			Revenue:    r.Revenue,
		})
	}

	bySource := make([]entity.SourceBreakdown, 0, len(sourceRows))
	for _, r := range sourceRows {
		bySource = append(bySource, entity.SourceBreakdown{
			Source:     r.Source,
			Count:      r.Count,
			Percentage: round2(r.Percentage),
		})
	}

	byService := make([]entity.ServiceBreakdown, 0, len(serviceRows))
	for _, r := range serviceRows {
		byService = append(byService, entity.ServiceBreakdown{
			ServiceID:   r.ServiceID,
			ServiceName: r.ServiceName,
			Count:       r.Count,
			Revenue:     r.Revenue,
		})
	}

	peakDays := make([]entity.PeakDay, 0, len(peakDayRows))
	for _, r := range peakDayRows {
		name := "Unknown"
		if r.DayOfWeek >= 1 && r.DayOfWeek <= 7 {
			name = dayNames[r.DayOfWeek]
		}
		peakDays = append(peakDays, entity.PeakDay{
			DayOfWeek:       int(r.DayOfWeek),
			DayName:         name,
			AverageBookings: round2(r.AverageBookings),
		})
	}

	peakHours := make([]entity.PeakHour, 0, len(peakHourRows))
	for _, r := range peakHourRows {
		peakHours = append(peakHours, entity.PeakHour{
			Hour:            int(r.Hour),
			AverageBookings: round2(r.AverageBookings),
		})
	}

	return entity.StatusAnalytics{
		ByStatus:  byStatus,
		BySource:  bySource,
		ByService: byService,
		PeakDays:  peakDays,
		PeakHours: peakHours,
	}
}

// StatusAnalytics computes the five independent breakdowns of the
// filtered window. The five pipelines run in parallel.
func (s *AnalyticsService) StatusAnalytics(ctx context.Context, filter entity.AnalyticsFilter) (*entity.StatusAnalytics, error) {
	defer s.observe("status", time.Now())

	var (
		statusRows   []statusBreakdownRow
		sourceRows   []sourceBreakdownRow
		serviceRows  []serviceBreakdownRow
		peakDayRows  []peakDayRow
		peakHourRows []peakHourRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.bookings.Aggregate(gctx, buildStatusBreakdownPipeline(filter), &statusRows)
	})
	g.Go(func() error {
		return s.bookings.Aggregate(gctx, buildSourceBreakdownPipeline(filter), &sourceRows)
	})
	g.Go(func() error {
		return s.bookings.Aggregate(gctx, buildServiceBreakdownPipeline(filter), &serviceRows)
	})
	g.Go(func() error {
		return s.bookings.Aggregate(gctx, buildPeakDaysPipeline(filter), &peakDayRows)
	})
	g.Go(func() error {
		return s.bookings.Aggregate(gctx, buildPeakHoursPipeline(filter), &peakHourRows)
	})
	if err := g.Wait(); err != nil {
		s.countError("status")
		return nil, err
	}

	analytics := assembleStatusAnalytics(statusRows, sourceRows, serviceRows, peakDayRows, peakHourRows)
	return &analytics, nil
}

// buildConversionFunnelPipeline counts each funnel checkpoint in one
// faceted pass over the window.
func buildConversionFunnelPipeline(filter entity.AnalyticsFilter) mongo.Pipeline {
	pipeline := matchStages(filter)

	pipeline = append(pipeline, bson.D{{Key: "$facet", Value: bson.M{
		"total": bson.A{bson.M{"$count": "count"}},
		"pending": bson.A{
			bson.M{"$match": bson.M{"status": entity.BookingStatusPending}},
			bson.M{"$count": "count"},
		},
		"confirmed": bson.A{
			bson.M{"$match": bson.M{"status": entity.BookingStatusConfirmed}},
			bson.M{"$count": "count"},
		},
		"completed": bson.A{
			bson.M{"$match": bson.M{"status": entity.BookingStatusCompleted}},
			bson.M{"$count": "count"},
		},
	}}})

	return pipeline
}

func facetCountValue(counts []facetCount) int64 {
	if len(counts) == 0 {
		return 0
	}
	return counts[0].Count
}

// assembleFunnel turns raw stage counts into the ordered funnel. Stages
// are independent status counts, not strictly decreasing; dropoff is
// measured against the previous stage, and the first stage always
// reports zero dropoff.
func assembleFunnel(total, pending, confirmed, completed int64) []entity.FunnelStage {
	type stage struct {
		name  string
		count int64
	}
	stages := []stage{
		{"Total Bookings", total},
		{"Pending", pending},
		{"Confirmed", confirmed},
		{"Completed", completed},
	}

	result := make([]entity.FunnelStage, 0, len(stages))
	for i, st := range stages {
		percentage := 0.0
		if total > 0 {
			percentage = round2(float64(st.count) / float64(total) * 100)
		}

		previous := total
		if i > 0 {
			previous = stages[i-1].count
		}
		dropoff := 0.0
		if previous > 0 {
			dropoff = round2(float64(previous-st.count) / float64(previous) * 100)
		}

		result = append(result, entity.FunnelStage{
			Stage:       st.name,
			Count:       st.count,
			Percentage:  percentage,
			DropoffRate: dropoff,
		})
	}
	return result
}

// ConversionFunnel reports the lifecycle funnel with per-stage dropoff.
func (s *AnalyticsService) ConversionFunnel(ctx context.Context, filter entity.AnalyticsFilter) ([]entity.FunnelStage, error) {
	defer s.observe("funnel", time.Now())

	var rows []funnelRow
	if err := s.bookings.Aggregate(ctx, buildConversionFunnelPipeline(filter), &rows); err != nil {
		s.countError("funnel")
		return nil, err
	}

	var data funnelRow
	if len(rows) > 0 {
		data = rows[0]
	}

	return assembleFunnel(
		facetCountValue(data.Total),
		facetCountValue(data.Pending),
		facetCountValue(data.Confirmed),
		facetCountValue(data.Completed),
	), nil
}
