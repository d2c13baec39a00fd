package usecase

import (
	"testing"
	"time"

	"paratour-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildMatchFilterEmpty(t *testing.T) {
	match := buildMatchFilter(entity.AnalyticsFilter{})
	assert.Empty(t, match)

	pipeline := matchStages(entity.AnalyticsFilter{})
	assert.Len(t, pipeline, 0)
}

func TestBuildMatchFilterFull(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	match := buildMatchFilter(entity.AnalyticsFilter{
		From:      &from,
		To:        &to,
		Status:    entity.BookingStatusConfirmed,
		ServiceID: "TANDEM",
	})

	dateRange, ok := match["flightDate"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, from, dateRange["$gte"])
	assert.Equal(t, time.Date(2025, 1, 31, 23, 59, 59, 999000000, time.UTC), dateRange["$lte"])

	assert.Equal(t, entity.BookingStatusConfirmed, match["status"])
	assert.Equal(t, "TANDEM", match["serviceId"])
}

func TestBuildMatchFilterDateOnlyLowerBound(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	match := buildMatchFilter(entity.AnalyticsFilter{From: &from})

	dateRange, ok := match["flightDate"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, from, dateRange["$gte"])
	assert.NotContains(t, dateRange, "$lte")
}

func TestBucketDateFormat(t *testing.T) {
	assert.Equal(t, "%Y-%m-%d", bucketDateFormat(entity.GranularityDay))
	assert.Equal(t, "%Y-W%V", bucketDateFormat(entity.GranularityWeek))
	assert.Equal(t, "%Y-%m", bucketDateFormat(entity.GranularityMonth))
	assert.Equal(t, "%Y", bucketDateFormat(entity.GranularityYear))
	assert.Equal(t, "%Y-%m-%d", bucketDateFormat(""))
}

func TestBucketKeyExprQuarter(t *testing.T) {
	expr := bucketKeyExpr(entity.GranularityQuarter)
	assert.Contains(t, expr, "$concat")

	expr = bucketKeyExpr(entity.GranularityMonth)
	assert.Contains(t, expr, "$dateToString")
}

func TestPreviousPeriodRange(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	prevFrom, prevTo := previousPeriodRange(entity.AnalyticsFilter{From: &from, To: &to})

	assert.Equal(t, from.AddDate(0, 0, -30), prevFrom)
	assert.Equal(t, from.Add(-time.Millisecond), prevTo)
	assert.True(t, prevTo.Before(from))
}

func TestGrowthRate(t *testing.T) {
	assert.Equal(t, 0.0, growthRate(0, 0))
	assert.Equal(t, 100.0, growthRate(5, 0))
	assert.Equal(t, 50.0, growthRate(150, 100))
	assert.Equal(t, -50.0, growthRate(50, 100))
	assert.Equal(t, -33.33, growthRate(100, 150))
	assert.Equal(t, 25.0, growthRate(5000000, 4000000))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1666666.67, round2(5000000.0/3))
	assert.Equal(t, 33.33, round2(100.0/3))
	assert.Equal(t, 0.0, round2(0))
}
