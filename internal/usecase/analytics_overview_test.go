package usecase

import (
	"context"
	"testing"
	"time"

	"paratour-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestAssembleOverview(t *testing.T) {
	// One cancelled booking of three keeps its count but not its revenue.
	current := overviewRow{
		TotalBookings:       3,
		TotalRevenue:        5000000,
		PendingBookings:     1,
		ConfirmedBookings:   1,
		CancelledBookings:   1,
		TotalCustomers:      3,
		TotalPassengers:     5,
		AverageBookingValue: 1666666.67,
	}
	previous := periodTotalsRow{
		TotalBookings:  2,
		TotalRevenue:   4000000,
		TotalCustomers: 0,
	}

	overview := assembleOverview(current, previous)

	assert.Equal(t, int64(3), overview.TotalBookings)
	assert.Equal(t, 5000000.0, overview.TotalRevenue)
	assert.Equal(t, 1666666.67, overview.AverageBookingValue)
	assert.Equal(t, 50.0, overview.BookingsGrowth)
	assert.Equal(t, 25.0, overview.RevenueGrowth)
	assert.Equal(t, 100.0, overview.CustomersGrowth)
}

func TestAssembleOverviewEmptyPeriods(t *testing.T) {
	overview := assembleOverview(overviewRow{}, periodTotalsRow{})

	assert.Zero(t, overview.TotalBookings)
	assert.Zero(t, overview.BookingsGrowth)
	assert.Zero(t, overview.RevenueGrowth)
	assert.Zero(t, overview.CustomersGrowth)
}

func TestOverview(t *testing.T) {
	stub := &stubAggregator{respond: func(pipeline mongo.Pipeline) (interface{}, error) {
		if pipelineMentions(pipeline, "averageBookingValue") {
			return []overviewRow{{
				TotalBookings:       3,
				TotalRevenue:        5000000,
				TotalCustomers:      2,
				TotalPassengers:     5,
				AverageBookingValue: 1666666.67,
			}}, nil
		}
		return []periodTotalsRow{{
			TotalBookings:  2,
			TotalRevenue:   4000000,
			TotalCustomers: 2,
		}}, nil
	}}

	svc := NewAnalyticsService(stub, nopLogger{}, nil, 7)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	overview, err := svc.Overview(context.Background(), entity.AnalyticsFilter{From: &from, To: &to})
	require.NoError(t, err)

	assert.Equal(t, int64(3), overview.TotalBookings)
	assert.Equal(t, 5000000.0, overview.TotalRevenue)
	assert.Equal(t, 1666666.67, overview.AverageBookingValue)
	assert.Equal(t, 50.0, overview.BookingsGrowth)
	assert.Equal(t, 25.0, overview.RevenueGrowth)
	assert.Equal(t, 0.0, overview.CustomersGrowth)
}

func TestOverviewNoData(t *testing.T) {
	stub := &stubAggregator{respond: func(pipeline mongo.Pipeline) (interface{}, error) {
		return nil, nil
	}}

	svc := NewAnalyticsService(stub, nopLogger{}, nil, 7)

	overview, err := svc.Overview(context.Background(), entity.AnalyticsFilter{})
	require.NoError(t, err)

	assert.Zero(t, overview.TotalBookings)
	assert.Zero(t, overview.TotalRevenue)
	assert.Zero(t, overview.BookingsGrowth)
}
