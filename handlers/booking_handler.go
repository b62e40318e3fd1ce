package handlers

import (
	"net/http"
	"strings"
	"time"

	"event-manager/models"
	"event-manager/services"

	"github.com/google/uuid"
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

type BookingHandler struct {
	app      *pocketbase.PocketBase
	payments *services.PaymentNotifyService
}

func NewBookingHandler(app *pocketbase.PocketBase, payments *services.PaymentNotifyService) *BookingHandler {
	return &BookingHandler{
		app:      app,
		payments: payments,
	}
}

// CreateBooking - record a new booking for an event
func (h *BookingHandler) CreateBooking(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		EventID     string  `json:"event_id"`
		Customer    string  `json:"customer"`
		TotalAmount float64 `json:"total_amount"`
		Status      string  `json:"status"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if req.TotalAmount < 0 {
		return apis.NewBadRequestError("Total amount cannot be negative", nil)
	}

	if _, err := h.app.FindRecordById("events", req.EventID); err != nil {
		return apis.NewNotFoundError("Event not found", err)
	}

	collection, err := h.app.FindCollectionByNameOrId("bookings")
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Collection not found", err)
	}

	booking := core.NewRecord(collection)
	booking.Set("event", req.EventID)
	booking.Set("customer", req.Customer)
	booking.Set("total_amount", req.TotalAmount)
	booking.Set("amount_paid", 0)
	booking.Set("status", string(models.NormalizeBookingStatus(req.Status)))
	booking.Set("receipt", uuid.NewString())
	booking.Set("payment_details", []models.PaymentEntry{})

	if err := h.app.Save(booking); err != nil {
		return apis.NewBadRequestError("Failed to create booking", err)
	}

	return e.JSON(http.StatusOK, bookingFromRecord(booking))
}

// RecordPayment - manually record a payment against a booking
func (h *BookingHandler) RecordPayment(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	bookingID := e.Request.PathValue("bookingId")

	var req struct {
		Method        string  `json:"payment_method"`
		Amount        float64 `json:"amount"`
		Currency      string  `json:"currency"`
		TransactionID string  `json:"transaction_id"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if req.Amount <= 0 {
		return apis.NewBadRequestError("Payment amount must be positive", nil)
	}

	entry := models.PaymentEntry{
		Method:        req.Method,
		Amount:        decimal.NewFromFloat(req.Amount),
		Currency:      strings.ToUpper(req.Currency),
		TransactionID: req.TransactionID,
		Timestamp:     time.Now(),
	}

	if err := h.payments.ApplyPayment(e.Request.Context(), bookingID, entry); err != nil {
		return apis.NewBadRequestError("Failed to record payment", err)
	}

	booking, err := h.app.FindRecordById("bookings", bookingID)
	if err != nil {
		return apis.NewNotFoundError("Booking not found", err)
	}

	return e.JSON(http.StatusOK, bookingFromRecord(booking))
}

// ListBookings - list bookings, optionally filtered by event or status
func (h *BookingHandler) ListBookings(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	query := e.Request.URL.Query()

	filters := []string{`id != ""`}
	params := dbx.Params{}
	if eventID := query.Get("event_id"); eventID != "" {
		filters = append(filters, "event = {:event}")
		params["event"] = eventID
	}
	if bookingStatus := query.Get("status"); bookingStatus != "" {
		filters = append(filters, "status = {:status}")
		params["status"] = string(models.NormalizeBookingStatus(bookingStatus))
	}

	records, err := h.app.FindRecordsByFilter(
		"bookings",
		strings.Join(filters, " && "),
		"-created",
		200,
		0,
		params,
	)
	if err != nil {
		return apis.NewBadRequestError("Failed to list bookings", err)
	}

	bookings := make([]models.BookingRecord, 0, len(records))
	for _, record := range records {
		bookings = append(bookings, bookingFromRecord(record))
	}

	return e.JSON(http.StatusOK, bookings)
}
