package handlers

import (
	"net/http"
	"time"

	"event-manager/internal/status"
	"event-manager/models"
	"event-manager/utils"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type VenueHandler struct {
	app *pocketbase.PocketBase
}

func NewVenueHandler(app *pocketbase.PocketBase) *VenueHandler {
	return &VenueHandler{app: app}
}

// CreateRequest - file a venue booking request
func (h *VenueHandler) CreateRequest(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		EventName     string  `json:"event_name"`
		Venue         string  `json:"venue"`
		EventDate     string  `json:"event_date"`
		DepositAmount float64 `json:"deposit_amount"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if req.EventName == "" || req.Venue == "" {
		return apis.NewBadRequestError("Event name and venue are required", nil)
	}
	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		return apis.NewBadRequestError("Invalid event date", err)
	}

	// The code is shown to the organizer exactly once; only its hash is
	// stored.
	accessCode, err := utils.GenerateAccessCode(6)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to generate access code", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(accessCode), bcrypt.DefaultCost)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to hash access code", err)
	}

	collection, err := h.app.FindCollectionByNameOrId("venue_requests")
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Collection not found", err)
	}

	record := core.NewRecord(collection)
	record.Set("event_name", req.EventName)
	record.Set("venue", req.Venue)
	record.Set("event_date", eventDate)
	record.Set("organizer", e.Auth.Id)
	record.Set("status", "pending")
	record.Set("deposit_amount", req.DepositAmount)
	record.Set("deposit_paid", false)
	record.Set("access_hash", string(hash))

	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to create venue request", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"request":     venueRequestFromRecord(record),
		"access_code": accessCode,
	})
}

// ListRequests - admins see all requests, organizers see their own
func (h *VenueHandler) ListRequests(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	filter := `id != ""`
	params := dbx.Params{}
	if !e.HasSuperuserAuth() {
		filter = "organizer = {:organizer}"
		params["organizer"] = e.Auth.Id
	}

	records, err := h.app.FindRecordsByFilter(
		"venue_requests",
		filter,
		"-created",
		100,
		0,
		params,
	)
	if err != nil {
		return apis.NewBadRequestError("Failed to list venue requests", err)
	}

	requests := make([]models.VenueRequest, 0, len(records))
	for _, record := range records {
		requests = append(requests, venueRequestFromRecord(record))
	}

	return e.JSON(http.StatusOK, requests)
}

// Approve - admin decision on a pending request
func (h *VenueHandler) Approve(e *core.RequestEvent) error {
	if !e.HasSuperuserAuth() {
		return apis.NewUnauthorizedError("Admin access required", nil)
	}

	record, err := h.app.FindRecordById("venue_requests", e.Request.PathValue("requestId"))
	if err != nil {
		return apis.NewNotFoundError("Venue request not found", err)
	}

	var req struct {
		Approved bool `json:"approved"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if req.Approved {
		record.Set("status", "approved")
	} else {
		record.Set("status", "rejected")
	}

	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to update venue request", err)
	}

	return e.JSON(http.StatusOK, venueRequestFromRecord(record))
}

// ConfirmDeposit - organizer confirms the deposit with their access code
func (h *VenueHandler) ConfirmDeposit(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	record, err := h.app.FindRecordById("venue_requests", e.Request.PathValue("requestId"))
	if err != nil {
		return apis.NewNotFoundError("Venue request not found", err)
	}

	var req struct {
		AccessCode string `json:"access_code"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(record.GetString("access_hash")),
		[]byte(req.AccessCode),
	); err != nil {
		return apis.NewForbiddenError("Access code mismatch", status.ErrAccessDenied)
	}

	record.Set("deposit_paid", true)

	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to confirm deposit", err)
	}

	return e.JSON(http.StatusOK, venueRequestFromRecord(record))
}

func venueRequestFromRecord(r *core.Record) models.VenueRequest {
	return models.VenueRequest{
		ID:            r.Id,
		EventName:     r.GetString("event_name"),
		Venue:         r.GetString("venue"),
		EventDate:     r.GetDateTime("event_date").Time(),
		Organizer:     r.GetString("organizer"),
		Status:        r.GetString("status"),
		DepositAmount: decimal.NewFromFloat(r.GetFloat("deposit_amount")),
		DepositPaid:   r.GetBool("deposit_paid"),
		CreatedAt:     r.GetDateTime("created").Time(),
	}
}
