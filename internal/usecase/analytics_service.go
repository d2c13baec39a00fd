package usecase

import (
	"time"

	"paratour-service/internal/domain/repository"
	"paratour-service/pkg/logger"
	"paratour-service/pkg/metrics"
)

// AnalyticsService computes derived statistics over the booking
// collection. It holds no state beyond its dependencies; every report is
// a pure function of the caller-supplied filter and the store contents,
// so calls may run concurrently.
type AnalyticsService struct {
	bookings     repository.BookingAggregator
	logger       logger.Logger
	metrics      *metrics.Metrics
	upcomingDays int
}

// NewAnalyticsService creates a new analytics service. upcomingDays sets
// the look-ahead window of the real-time snapshot. metrics may be nil.
func NewAnalyticsService(
	bookings repository.BookingAggregator,
	logger logger.Logger,
	metrics *metrics.Metrics,
	upcomingDays int,
) *AnalyticsService {
	if upcomingDays <= 0 {
		upcomingDays = 7
	}
	return &AnalyticsService{
		bookings:     bookings,
		logger:       logger,
		metrics:      metrics,
		upcomingDays: upcomingDays,
	}
}

func (s *AnalyticsService) observe(report string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ReportQueries.WithLabelValues(report).Inc()
	s.metrics.QueryDuration.Observe(time.Since(start).Seconds())
}

func (s *AnalyticsService) countError(report string) {
	if s.metrics == nil {
		return
	}
	s.metrics.ErrorsCount.WithLabelValues(report).Inc()
}
