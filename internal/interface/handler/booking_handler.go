package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"paratour-service/internal/domain/entity"
	"paratour-service/internal/domain/repository"
	"paratour-service/internal/usecase"
	"paratour-service/pkg/logger"
	"paratour-service/pkg/utils"

	"github.com/gorilla/mux"
)

// BookingHandler exposes the booking workflow over HTTP.
type BookingHandler struct {
	bookings *usecase.BookingService
	logger   logger.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings *usecase.BookingService, logger logger.Logger) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		logger:   logger,
	}
}

// Register mounts the booking routes on the given router
func (h *BookingHandler) Register(r *mux.Router) {
	r.HandleFunc("/bookings", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/bookings", h.List).Methods(http.MethodGet)
	r.HandleFunc("/bookings/today", h.Today).Methods(http.MethodGet)
	r.HandleFunc("/bookings/{bookingId}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/bookings/{bookingId}/status", h.UpdateStatus).Methods(http.MethodPatch)
	r.HandleFunc("/bookings/{bookingId}/contact", h.UpdateContact).Methods(http.MethodPatch)
	r.HandleFunc("/bookings/{bookingId}/cancel", h.Cancel).Methods(http.MethodPost)
}

type createBookingRequest struct {
	ServiceCode           string             `json:"serviceCode"`
	NumberOfPassengers    int                `json:"numberOfPassengers"`
	Passengers            []entity.Passenger `json:"passengers"`
	ContactName           string             `json:"contactName"`
	Email                 string             `json:"email"`
	Phone                 string             `json:"phone"`
	Nationality           string             `json:"nationality"`
	PreferredDate         string             `json:"preferredDate"` // YYYY-MM-DD
	PreferredTime         string             `json:"preferredTime"` // HH:MM
	PickupLocation        string             `json:"pickupLocation"`
	SpecialRequests       string             `json:"specialRequests"`
	DiscountAmount        float64            `json:"discountAmount"`
	OptionalServicesTotal float64            `json:"optionalServicesTotal"`
	Source                string             `json:"source"`
	TelegramChatID        string             `json:"telegramChatId"`
}

func (req *createBookingRequest) validate() error {
	if req.ServiceCode == "" {
		return fmt.Errorf("serviceCode is required")
	}
	if req.NumberOfPassengers < 1 {
		return fmt.Errorf("numberOfPassengers must be at least 1")
	}
	if req.ContactName == "" || req.Email == "" || req.Phone == "" {
		return fmt.Errorf("contactName, email and phone are required")
	}
	if _, err := time.Parse("2006-01-02", req.PreferredDate); err != nil {
		return fmt.Errorf("invalid preferredDate: %s", req.PreferredDate)
	}
	if !utils.ValidFlightTime(req.PreferredTime) {
		return fmt.Errorf("invalid preferredTime: %s", req.PreferredTime)
	}
	if req.Source != "" && !entity.ValidSource(req.Source) {
		return fmt.Errorf("invalid source: %s", req.Source)
	}
	return nil
}

// Create handles POST /bookings
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	flightDate, _ := time.Parse("2006-01-02", req.PreferredDate)

	result, err := h.bookings.CreateBooking(r.Context(), usecase.CreateBookingInput{
		ServiceCode:           req.ServiceCode,
		NumberOfPassengers:    req.NumberOfPassengers,
		Passengers:            req.Passengers,
		ContactName:           req.ContactName,
		Email:                 req.Email,
		Phone:                 req.Phone,
		Nationality:           req.Nationality,
		PreferredDate:         flightDate,
		PreferredTime:         req.PreferredTime,
		PickupLocation:        req.PickupLocation,
		SpecialRequests:       req.SpecialRequests,
		DiscountAmount:        req.DiscountAmount,
		OptionalServicesTotal: req.OptionalServicesTotal,
		Source:                req.Source,
		TelegramChatID:        req.TelegramChatID,
	})
	if err != nil {
		h.logger.Error("Failed to create booking", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create booking")
		return
	}

	writeCreated(w, map[string]interface{}{
		"booking":       result.Booking,
		"bookingId":     result.Booking.BookingID,
		"customerId":    result.CustomerID,
		"isNewCustomer": result.IsNewCustomer,
	})
}

// List handles GET /bookings
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.bookings.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list bookings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}

	writeSuccess(w, page)
}

// Today handles GET /bookings/today
func (h *BookingHandler) Today(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.TodayBookings(r.Context())
	if err != nil {
		h.logger.Error("Failed to load today's bookings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load today's bookings")
		return
	}

	writeSuccess(w, map[string]interface{}{
		"date":     time.Now().Format("2006-01-02"),
		"count":    len(bookings),
		"bookings": bookings,
	})
}

// Get handles GET /bookings/{bookingId}
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]

	booking, err := h.bookings.GetByBookingID(r.Context(), bookingID)
	if err != nil {
		h.logger.Error("Failed to load booking", "bookingId", bookingID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load booking")
		return
	}
	if booking == nil {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}

	writeSuccess(w, booking)
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// UpdateStatus handles PATCH /bookings/{bookingId}/status
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !entity.ValidBookingStatus(req.Status) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid status: %s", req.Status))
		return
	}

	booking, err := h.bookings.UpdateStatus(r.Context(), bookingID, req.Status, req.Notes)
	if err != nil {
		h.logger.Error("Failed to update booking status", "bookingId", bookingID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update booking status")
		return
	}

	writeSuccess(w, booking)
}

type updateContactRequest struct {
	ContactStatus string `json:"contactStatus"`
}

// UpdateContact handles PATCH /bookings/{bookingId}/contact
func (h *BookingHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]

	var req updateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !entity.ValidContactStatus(req.ContactStatus) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid contactStatus: %s", req.ContactStatus))
		return
	}

	booking, err := h.bookings.UpdateContactStatus(r.Context(), bookingID, req.ContactStatus)
	if err != nil {
		h.logger.Error("Failed to update contact status", "bookingId", bookingID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update contact status")
		return
	}

	writeSuccess(w, booking)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// Cancel handles POST /bookings/{bookingId}/cancel
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]

	var req cancelRequest
	// Body is optional for cancellation
	json.NewDecoder(r.Body).Decode(&req)

	booking, err := h.bookings.CancelBooking(r.Context(), bookingID, req.Reason)
	if err != nil {
		h.logger.Error("Failed to cancel booking", "bookingId", bookingID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to cancel booking")
		return
	}

	writeSuccess(w, booking)
}

func parseListFilter(r *http.Request) (repository.ListBookingsFilter, error) {
	q := r.URL.Query()
	filter := repository.ListBookingsFilter{
		Page:     1,
		Limit:    20,
		SortBy:   "createdAt",
		SortDesc: true,
	}

	if status := q.Get("status"); status != "" {
		if !entity.ValidBookingStatus(status) {
			return filter, fmt.Errorf("invalid status: %s", status)
		}
		filter.Status = status
	}
	if contactStatus := q.Get("contactStatus"); contactStatus != "" {
		if !entity.ValidContactStatus(contactStatus) {
			return filter, fmt.Errorf("invalid contactStatus: %s", contactStatus)
		}
		filter.ContactStatus = contactStatus
	}
	if source := q.Get("source"); source != "" {
		if !entity.ValidSource(source) {
			return filter, fmt.Errorf("invalid source: %s", source)
		}
		filter.Source = source
	}

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

	filter.Search = q.Get("search")

	if page := q.Get("page"); page != "" {
		n, err := strconv.ParseInt(page, 10, 64)
		if err != nil || n < 1 {
			return filter, fmt.Errorf("invalid page: %s", page)
		}
		filter.Page = n
	}
	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.ParseInt(limit, 10, 64)
		if err != nil || n < 1 || n > 100 {
			return filter, fmt.Errorf("invalid limit: %s", limit)
		}
		filter.Limit = n
	}

	if sortBy := q.Get("sortBy"); sortBy != "" {
		filter.SortBy = sortBy
	}
	if order := q.Get("sortOrder"); order != "" {
		filter.SortDesc = order != "asc"
	}

	return filter, nil
}
