package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"paratour-service/internal/domain/entity"
	"paratour-service/internal/usecase"
	"paratour-service/pkg/logger"

	"github.com/gorilla/mux"
)

// AnalyticsHandler exposes the analytics reports over HTTP. All filter
// validation happens here; the reporters trust the parsed filter.
type AnalyticsHandler struct {
	analytics *usecase.AnalyticsService
	logger    logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analytics *usecase.AnalyticsService, logger logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		logger:    logger,
	}
}

// Register mounts the analytics routes on the given router
func (h *AnalyticsHandler) Register(r *mux.Router) {
	r.HandleFunc("/analytics/overview", h.Overview).Methods(http.MethodGet)
	r.HandleFunc("/analytics/revenue", h.Revenue).Methods(http.MethodGet)
	r.HandleFunc("/analytics/revenue-monthly", h.RevenueMonthly).Methods(http.MethodGet)
	r.HandleFunc("/analytics/revenue-quarterly", h.RevenueQuarterly).Methods(http.MethodGet)
	r.HandleFunc("/analytics/customers", h.Customers).Methods(http.MethodGet)
	r.HandleFunc("/analytics/bookings", h.Bookings).Methods(http.MethodGet)
	r.HandleFunc("/analytics/funnel", h.Funnel).Methods(http.MethodGet)
	r.HandleFunc("/analytics/realtime", h.Realtime).Methods(http.MethodGet)
}

// Overview handles GET /analytics/overview
func (h *AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	filter, err := parseAnalyticsFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	overview, err := h.analytics.Overview(r.Context(), filter)
	if err != nil {
		h.logger.Error("Overview report failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute overview")
		return
	}

	writeSuccess(w, overview)
}

// Revenue handles GET /analytics/revenue
func (h *AnalyticsHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	filter, err := parseAnalyticsFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	trends, err := h.analytics.RevenueTrends(r.Context(), filter)
	if err != nil {
		h.logger.Error("Revenue trends report failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute revenue trends")
		return
	}

	writeSuccess(w, trends)
}

// RevenueMonthly handles GET /analytics/revenue-monthly
func (h *AnalyticsHandler) RevenueMonthly(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	months, err := h.analytics.MonthlyRevenue(r.Context(), year)
	if err != nil {
		h.logger.Error("Monthly revenue report failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute monthly revenue")
		return
	}

	writeSuccess(w, months)
}

// RevenueQuarterly handles GET /analytics/revenue-quarterly
func (h *AnalyticsHandler) RevenueQuarterly(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	quarters, err := h.analytics.QuarterlyRevenue(r.Context(), year)
	if err != nil {
		h.logger.Error("Quarterly revenue report failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute quarterly revenue")
		return
	}

	writeSuccess(w, quarters)
}

// Customers handles GET /analytics/customers
func (h *AnalyticsHandler) Customers(w http.ResponseWriter, r *http.Request) {
	filter, err := parseAnalyticsFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	analytics, err := h.analytics.CustomerAnalytics(r.Context(), filter)
	if err != nil {
		h.logger.Error("Customer analytics report failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute customer analytics")
		return
	}

	writeSuccess(w, analytics)
}

// Bookings handles GET /analytics/bookings
func (h *AnalyticsHandler) Bookings(w http.ResponseWriter, r *http.Request) {
	filter, err := parseAnalyticsFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	analytics, err := h.analytics.StatusAnalytics(r.Context(), filter)
	if err != nil {
		h.logger.Error("Status analytics report failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute booking analytics")
		return
	}

	writeSuccess(w, analytics)
}

// Funnel handles GET /analytics/funnel
func (h *AnalyticsHandler) Funnel(w http.ResponseWriter, r *http.Request) {
	filter, err := parseAnalyticsFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	funnel, err := h.analytics.ConversionFunnel(r.Context(), filter)
	if err != nil {
		h.logger.Error("Conversion funnel report failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute conversion funnel")
		return
	}

	writeSuccess(w, funnel)
}

// Realtime handles GET /analytics/realtime
func (h *AnalyticsHandler) Realtime(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.analytics.RealTimeMetrics(r.Context())
	if err != nil {
		h.logger.Error("Real-time metrics failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute real-time metrics")
		return
	}

	writeSuccess(w, metrics)
}

func parseAnalyticsFilter(r *http.Request) (entity.AnalyticsFilter, error) {
	q := r.URL.Query()
	filter := entity.AnalyticsFilter{}

	if from := q.Get("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return filter, fmt.Errorf("invalid from date: %s", from)
		}
		filter.From = &t
	}

	if to := q.Get("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return filter, fmt.Errorf("invalid to date: %s", to)
		}
		filter.To = &t
	}

	if status := q.Get("status"); status != "" {
		if !entity.ValidBookingStatus(status) {
			return filter, fmt.Errorf("invalid status: %s", status)
		}
		filter.Status = status
	}

	filter.ServiceID = q.Get("serviceId")

	if granularity := q.Get("granularity"); granularity != "" {
		if !entity.ValidGranularity(granularity) {
			return filter, fmt.Errorf("invalid granularity: %s", granularity)
		}
		filter.Granularity = granularity
	}

	return filter, nil
}

func parseYear(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 2000 || year > 2100 {
		return 0, fmt.Errorf("invalid year: %s", raw)
	}
	return year, nil
}
