package usecase

import (
	"context"
	"testing"

	"paratour-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestAssembleStatusAnalytics(t *testing.T) {
	statusRows := []statusBreakdownRow{
		{Status: entity.BookingStatusConfirmed, Count: 6, Revenue: 9000000, Percentage: 60},
		{Status: entity.BookingStatusPending, Count: 4, Revenue: 6000000, Percentage: 40},
	}
	sourceRows := []sourceBreakdownRow{
		{Source: entity.SourceWebsite, Count: 7, Percentage: 70},
		{Source: entity.SourceTelegram, Count: 3, Percentage: 30},
	}
	serviceRows := []serviceBreakdownRow{
		{ServiceID: "TANDEM", ServiceName: "Tandem Flight", Count: 8, Revenue: 12000000},
	}
	peakDayRows := []peakDayRow{
		{DayOfWeek: 7, TotalBookings: 10, DaysCount: 4, AverageBookings: 2.5},
		{DayOfWeek: 1, TotalBookings: 6, DaysCount: 4, AverageBookings: 1.5},
	}
	peakHourRows := []peakHourRow{
		{Hour: 9, AverageBookings: 1.666666},
		{Hour: 15, AverageBookings: 0.75},
	}

	analytics := assembleStatusAnalytics(statusRows, sourceRows, serviceRows, peakDayRows, peakHourRows)

	require.Len(t, analytics.ByStatus, 2)
	assert.Equal(t, 60.0, analytics.ByStatus[0].Percentage)

	require.Len(t, analytics.BySource, 2)
	assert.Equal(t, entity.SourceWebsite, analytics.BySource[0].Source)

	require.Len(t, analytics.ByService, 1)
	assert.Equal(t, "Tandem Flight", analytics.ByService[0].ServiceName)

	require.Len(t, analytics.PeakDays, 2)
	assert.Equal(t, "Saturday", analytics.PeakDays[0].DayName)
	assert.Equal(t, "Sunday", analytics.PeakDays[1].DayName)
	assert.Equal(t, 2.5, analytics.PeakDays[0].AverageBookings)

	require.Len(t, analytics.PeakHours, 2)
	assert.Equal(t, 9, analytics.PeakHours[0].Hour)
	assert.Equal(t, 1.67, analytics.PeakHours[0].AverageBookings)
}

func TestAssembleStatusAnalyticsUnknownDay(t *testing.T) {
	analytics := assembleStatusAnalytics(nil, nil, nil, []peakDayRow{{DayOfWeek: 9}}, nil)

	require.Len(t, analytics.PeakDays, 1)
	assert.Equal(t, "Unknown", analytics.PeakDays[0].DayName)
}

func TestStatusAnalytics(t *testing.T) {
	stub := &stubAggregator{respond: func(pipeline mongo.Pipeline) (interface{}, error) {
		switch {
		case pipelineMentions(pipeline, "statuses"):
			return []statusBreakdownRow{{Status: entity.BookingStatusPending, Count: 4, Percentage: 100}}, nil
		case pipelineMentions(pipeline, "sources"):
			return []sourceBreakdownRow{{Source: entity.SourceWebsite, Count: 4, Percentage: 100}}, nil
		case pipelineMentions(pipeline, "serviceName"):
			return []serviceBreakdownRow{{ServiceID: "ACRO", ServiceName: "Acro Flight", Count: 4}}, nil
		case pipelineMentions(pipeline, "$dayOfWeek"):
			return []peakDayRow{{DayOfWeek: 2, AverageBookings: 2}}, nil
		case pipelineMentions(pipeline, "flightTime"):
			return []peakHourRow{{Hour: 10, AverageBookings: 1.5}}, nil
		}
		return nil, nil
	}}
	svc := NewAnalyticsService(stub, nopLogger{}, nil, 7)

	analytics, err := svc.StatusAnalytics(context.Background(), entity.AnalyticsFilter{})
	require.NoError(t, err)

	require.Len(t, analytics.ByStatus, 1)
	require.Len(t, analytics.BySource, 1)
	require.Len(t, analytics.ByService, 1)
	require.Len(t, analytics.PeakDays, 1)
	require.Len(t, analytics.PeakHours, 1)
	assert.Equal(t, "Monday", analytics.PeakDays[0].DayName)
}

func TestAssembleFunnel(t *testing.T) {
	stages := assembleFunnel(100, 30, 45, 20)

	require.Len(t, stages, 4)

	assert.Equal(t, "Total Bookings", stages[0].Stage)
	assert.Equal(t, int64(100), stages[0].Count)
	assert.Equal(t, 100.0, stages[0].Percentage)
	assert.Equal(t, 0.0, stages[0].DropoffRate)

	assert.Equal(t, "Pending", stages[1].Stage)
	assert.Equal(t, 30.0, stages[1].Percentage)
	assert.Equal(t, 70.0, stages[1].DropoffRate)

	// Stages are independent counts; a later stage may exceed the
	// previous one, yielding a negative dropoff.
	assert.Equal(t, "Confirmed", stages[2].Stage)
	assert.Equal(t, 45.0, stages[2].Percentage)
	assert.Equal(t, -50.0, stages[2].DropoffRate)

	assert.Equal(t, "Completed", stages[3].Stage)
	assert.Equal(t, 20.0, stages[3].Percentage)
	assert.Equal(t, 55.56, stages[3].DropoffRate)
}

func TestAssembleFunnelEmpty(t *testing.T) {
	stages := assembleFunnel(0, 0, 0, 0)

	require.Len(t, stages, 4)
	for _, st := range stages {
		assert.Zero(t, st.Count)
		assert.Zero(t, st.Percentage)
		assert.Zero(t, st.DropoffRate)
	}
}

func TestConversionFunnel(t *testing.T) {
	stub := &stubAggregator{respond: func(pipeline mongo.Pipeline) (interface{}, error) {
		return []funnelRow{{
			Total:     []facetCount{{Count: 10}},
			Pending:   []facetCount{{Count: 4}},
			Confirmed: []facetCount{{Count: 3}},
			Completed: []facetCount{{Count: 2}},
		}}, nil
	}}
	svc := NewAnalyticsService(stub, nopLogger{}, nil, 7)

	stages, err := svc.ConversionFunnel(context.Background(), entity.AnalyticsFilter{})
	require.NoError(t, err)

	require.Len(t, stages, 4)
	assert.Equal(t, int64(10), stages[0].Count)
	assert.Equal(t, 40.0, stages[1].Percentage)
	assert.Equal(t, 60.0, stages[1].DropoffRate)
}

func TestFacetCountValue(t *testing.T) {
	assert.Equal(t, int64(0), facetCountValue(nil))
	assert.Equal(t, int64(5), facetCountValue([]facetCount{{Count: 5}}))
}
