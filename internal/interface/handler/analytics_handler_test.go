package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"paratour-service/internal/usecase"
	"paratour-service/pkg/logger"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

type emptyAggregator struct{}

func (emptyAggregator) Aggregate(ctx context.Context, pipeline mongo.Pipeline, results interface{}) error {
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Fatal(msg string, keysAndValues ...interface{}) {}
func (nopLogger) With(keysAndValues ...interface{}) logger.Logger {
	return nopLogger{}
}

func newAnalyticsRouter() *mux.Router {
	analytics := usecase.NewAnalyticsService(emptyAggregator{}, nopLogger{}, nil, 7)
	r := mux.NewRouter()
	NewAnalyticsHandler(analytics, nopLogger{}).Register(r)
	return r
}

func TestOverviewEndpoint(t *testing.T) {
	router := newAnalyticsRouter()

	req := httptest.NewRequest(http.MethodGet, "/analytics/overview?from=2025-01-01&to=2025-01-31", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
}

func TestOverviewEndpointBadDate(t *testing.T) {
	router := newAnalyticsRouter()

	req := httptest.NewRequest(http.MethodGet, "/analytics/overview?from=not-a-date", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRevenueEndpointBadGranularity(t *testing.T) {
	router := newAnalyticsRouter()

	req := httptest.NewRequest(http.MethodGet, "/analytics/revenue?granularity=hourly", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingsEndpointBadStatus(t *testing.T) {
	router := newAnalyticsRouter()

	req := httptest.NewRequest(http.MethodGet, "/analytics/bookings?status=LOST", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRevenueMonthlyEndpointBadYear(t *testing.T) {
	router := newAnalyticsRouter()

	req := httptest.NewRequest(http.MethodGet, "/analytics/revenue-monthly?year=99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRealtimeEndpoint(t *testing.T) {
	router := newAnalyticsRouter()

	req := httptest.NewRequest(http.MethodGet, "/analytics/realtime", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestParseYear(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/analytics/revenue-monthly", nil)
	year, err := parseYear(req)
	require.NoError(t, err)
	assert.Zero(t, year)

	req = httptest.NewRequest(http.MethodGet, "/analytics/revenue-monthly?year=2024", nil)
	year, err = parseYear(req)
	require.NoError(t, err)
	assert.Equal(t, 2024, year)

	req = httptest.NewRequest(http.MethodGet, "/analytics/revenue-monthly?year=junk", nil)
	_, err = parseYear(req)
	assert.Error(t, err)
}

func TestParseAnalyticsFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/analytics/overview?from=2025-01-01&to=2025-01-31&status=CONFIRMED&serviceId=TANDEM&granularity=week", nil)

	filter, err := parseAnalyticsFilter(req)
	require.NoError(t, err)

	require.NotNil(t, filter.From)
	require.NotNil(t, filter.To)
	assert.Equal(t, "CONFIRMED", filter.Status)
	assert.Equal(t, "TANDEM", filter.ServiceID)
	assert.Equal(t, "week", filter.Granularity)
}
