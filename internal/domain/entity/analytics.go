package entity

import "time"

// Time-bucket granularities for revenue trends.
const (
	GranularityDay     = "day"
	GranularityWeek    = "week"
	GranularityMonth   = "month"
	GranularityQuarter = "quarter"
	GranularityYear    = "year"
)

// Granularities lists every valid trend bucket width.
var Granularities = []string{
	GranularityDay,
	GranularityWeek,
	GranularityMonth,
	GranularityQuarter,
	GranularityYear,
}

// ValidGranularity reports whether g is a known bucket width.
func ValidGranularity(g string) bool {
	for _, v := range Granularities {
		if v == g {
			return true
		}
	}
	return false
}

// AnalyticsFilter narrows a report to a flight-date window, optionally to
// one status and one service. Bounds are inclusive; the upper bound is
// extended to end of day by the pipeline builder. A zero filter matches
// every booking. Callers validate fields before handing the filter over;
// the reporters trust it.
type AnalyticsFilter struct {
	From        *time.Time
	To          *time.Time
	Status      string
	ServiceID   string
	Granularity string
}

// Overview is the dashboard headline report: current-period totals plus
// growth against the immediately preceding period of equal duration.
type Overview struct {
	TotalBookings       int64   `json:"totalBookings"`
	TotalRevenue        float64 `json:"totalRevenue"`
	PendingBookings     int64   `json:"pendingBookings"`
	ConfirmedBookings   int64   `json:"confirmedBookings"`
	CompletedBookings   int64   `json:"completedBookings"`
	CancelledBookings   int64   `json:"cancelledBookings"`
	TotalCustomers      int64   `json:"totalCustomers"`
	TotalPassengers     int64   `json:"totalPassengers"`
	AverageBookingValue float64 `json:"averageBookingValue"`
	BookingsGrowth      float64 `json:"bookingsGrowth"`
	RevenueGrowth       float64 `json:"revenueGrowth"`
	CustomersGrowth     float64 `json:"customersGrowth"`
}

// RevenuePoint is a single labelled value in a revenue series.
type RevenuePoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// RevenueTrends is a time-bucketed revenue series with grand totals and
// the single best and worst buckets.
type RevenueTrends struct {
	Labels  []string     `json:"labels"`
	Values  []float64    `json:"values"`
	Total   float64      `json:"total"`
	Average float64      `json:"average"`
	Highest RevenuePoint `json:"highest"`
	Lowest  RevenuePoint `json:"lowest"`
}

// MonthlyRevenue is one calendar month's net revenue. A yearly report
// always carries exactly 12 of these, zero-filled.
type MonthlyRevenue struct {
	Month   string  `json:"month"` // YYYY-MM
	Revenue float64 `json:"revenue"`
}

// QuarterlyRevenue compares one quarter's net revenue against the same
// quarter a year earlier.
type QuarterlyRevenue struct {
	Quarter             string  `json:"quarter"` // Q1..Q4
	Revenue             float64 `json:"revenue"`
	PreviousYearRevenue float64 `json:"previousYearRevenue"`
	Growth              float64 `json:"growth"`
}

// TopCustomer ranks a customer by spend inside the filtered window.
type TopCustomer struct {
	CustomerID    string  `json:"customerId"`
	Name          string  `json:"name"`
	TotalBookings int64   `json:"totalBookings"`
	TotalSpent    float64 `json:"totalSpent"`
}

// CustomerAnalytics segments the distinct customers seen in the window
// into new vs returning and ranks the top spenders.
type CustomerAnalytics struct {
	TotalCustomers             int64         `json:"totalCustomers"`
	NewCustomers               int64         `json:"newCustomers"`
	ReturningCustomers         int64         `json:"returningCustomers"`
	NewCustomerRate            float64       `json:"newCustomerRate"`
	ReturningCustomerRate      float64       `json:"returningCustomerRate"`
	CustomerRetentionRate      float64       `json:"customerRetentionRate"`
	AverageBookingsPerCustomer float64       `json:"averageBookingsPerCustomer"`
	TopCustomers               []TopCustomer `json:"topCustomers"`
}

// StatusBreakdown is one status' share of the filtered window.
type StatusBreakdown struct {
	Status     string  `json:"status"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
	Revenue    float64 `json:"revenue"`
}

// SourceBreakdown is one acquisition channel's share.
type SourceBreakdown struct {
	Source     string  `json:"source"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ServiceBreakdown is one service's booking count and net revenue.
type ServiceBreakdown struct {
	ServiceID   string  `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	Count       int64   `json:"count"`
	Revenue     float64 `json:"revenue"`
}

// PeakDay is the average bookings per calendar date for one weekday.
// DayOfWeek follows the store's convention: 1 = Sunday .. 7 = Saturday.
type PeakDay struct {
	DayOfWeek       int     `json:"dayOfWeek"`
	DayName         string  `json:"dayName"`
	AverageBookings float64 `json:"averageBookings"`
}

// PeakHour is the average bookings per calendar date for one hour of day.
type PeakHour struct {
	Hour            int     `json:"hour"`
	AverageBookings float64 `json:"averageBookings"`
}

// StatusAnalytics bundles the five independent breakdowns computed over
// the same filtered window.
type StatusAnalytics struct {
	ByStatus  []StatusBreakdown  `json:"byStatus"`
	BySource  []SourceBreakdown  `json:"bySource"`
	ByService []ServiceBreakdown `json:"byService"`
	PeakDays  []PeakDay          `json:"peakDays"`
	PeakHours []PeakHour         `json:"peakHours"`
}

// FunnelStage is one checkpoint of the booking lifecycle funnel.
// DropoffRate is measured against the previous stage's count, not the
// grand total; the first stage always reports zero dropoff.
type FunnelStage struct {
	Stage       string  `json:"stage"`
	Count       int64   `json:"count"`
	Percentage  float64 `json:"percentage"`
	DropoffRate float64 `json:"dropoffRate"`
}

// RealTimeMetrics is the always-"now" dashboard snapshot. It takes no
// filter and must stay cheap to recompute on every poll.
type RealTimeMetrics struct {
	TodayBookings   int64   `json:"todayBookings"`
	TodayRevenue    float64 `json:"todayRevenue"`
	UpcomingFlights int64   `json:"upcomingFlights"`
	PendingContacts int64   `json:"pendingContacts"`
}
