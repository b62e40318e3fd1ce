package handlers

import (
	"math"
	"net/http"
	"strconv"

	"event-manager/services"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type AdminHandler struct {
	app   *pocketbase.PocketBase
	rates *services.RateService
}

func NewAdminHandler(app *pocketbase.PocketBase, rates *services.RateService) *AdminHandler {
	return &AdminHandler{
		app:   app,
		rates: rates,
	}
}

// ReportDashboard - per-event revenue and utilization rows
func (h *AdminHandler) ReportDashboard(e *core.RequestEvent) error {
	if !e.HasSuperuserAuth() {
		return apis.NewUnauthorizedError("Admin access required", nil)
	}

	rows := []dbx.NullStringMap{}
	err := h.app.DB().NewQuery(`
		SELECT
			e.id AS event_id,
			e.name AS event_name,
			e.venue_capacity AS venue_capacity,
			COALESCE(tb.total_tickets, 0) AS total_tickets,
			COALESCE(SUM(b.total_amount), 0) AS billed,
			COALESCE(SUM(b.amount_paid), 0) AS paid
		FROM events e
		LEFT JOIN ticket_blocks tb ON tb.event = e.id
		LEFT JOIN bookings b ON b.event = e.id
		GROUP BY e.id
		ORDER BY e.created DESC
	`).All(&rows)
	if err != nil {
		return apis.NewBadRequestError("Failed to load dashboard data", err)
	}

	dashboard := []map[string]any{}
	for _, row := range rows {
		capacity, _ := strconv.Atoi(row["venue_capacity"].String)
		totalTickets, _ := strconv.Atoi(row["total_tickets"].String)
		billed, _ := strconv.ParseFloat(row["billed"].String, 64)
		paid, _ := strconv.ParseFloat(row["paid"].String, 64)

		utilization := 0
		if capacity > 0 {
			utilization = int(math.Round(float64(totalTickets) / float64(capacity) * 100))
		}

		dashboard = append(dashboard, map[string]any{
			"event_id":            row["event_id"].String,
			"event_name":          row["event_name"].String,
			"venue_capacity":      capacity,
			"total_tickets":       totalTickets,
			"utilization_percent": utilization,
			"billed":              billed,
			"paid":                paid,
			"outstanding":         billed - paid,
		})
	}

	return e.JSON(http.StatusOK, dashboard)
}

// RefreshRate - force an exchange rate refresh
func (h *AdminHandler) RefreshRate(e *core.RequestEvent) error {
	if !e.HasSuperuserAuth() {
		return apis.NewUnauthorizedError("Admin access required", nil)
	}

	rate, err := h.rates.Refresh(e.Request.Context())
	if err != nil {
		return apis.NewApiError(http.StatusBadGateway, "Exchange rate source unavailable", err)
	}

	return e.JSON(http.StatusOK, map[string]any{"rate": rate})
}
