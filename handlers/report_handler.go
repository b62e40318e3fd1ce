package handlers

import (
	"net/http"
	"time"

	"event-manager/models"
	"event-manager/monitoring"
	"event-manager/security"
	"event-manager/services"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type ReportHandler struct {
	app       *pocketbase.PocketBase
	reports   *services.ReportService
	inventory *services.InventoryService
	rates     *services.RateService
	limiter   *security.RateLimiter
	monitor   *monitoring.Monitor
}

func NewReportHandler(app *pocketbase.PocketBase, reports *services.ReportService, inventory *services.InventoryService, rates *services.RateService, limiter *security.RateLimiter, monitor *monitoring.Monitor) *ReportHandler {
	return &ReportHandler{
		app:       app,
		reports:   reports,
		inventory: inventory,
		rates:     rates,
		limiter:   limiter,
		monitor:   monitor,
	}
}

// PaymentReport - summary, monthly series and tallies for a period
func (h *ReportHandler) PaymentReport(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	ctx := e.Request.Context()
	if !h.limiter.AllowReport(ctx, e.Auth.Id) {
		return apis.NewApiError(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
	}

	from, err := parsePeriodBound(e.Request.URL.Query().Get("from"), false)
	if err != nil {
		return apis.NewBadRequestError("Invalid or missing 'from' date", err)
	}
	to, err := parsePeriodBound(e.Request.URL.Query().Get("to"), true)
	if err != nil {
		return apis.NewBadRequestError("Invalid or missing 'to' date", err)
	}

	start := time.Now()

	records := []*core.Record{}
	if err := h.app.RecordQuery("bookings").All(&records); err != nil {
		return apis.NewBadRequestError("Failed to load bookings", err)
	}

	bookings := make([]models.BookingRecord, 0, len(records))
	for _, record := range records {
		bookings = append(bookings, bookingFromRecord(record))
	}

	filtered := h.reports.FilterByPeriod(bookings, from, to)
	rate := h.rates.CurrentRate(ctx)

	summary, err := h.reports.Summarize(filtered, rate)
	if err != nil {
		return apis.NewBadRequestError("Failed to summarize bookings", err)
	}

	monthly, err := h.reports.MonthlySeries(filtered, rate)
	if err != nil {
		return apis.NewBadRequestError("Failed to build monthly series", err)
	}

	h.monitor.TrackReport("payments", time.Since(start))

	return e.JSON(http.StatusOK, map[string]any{
		"period": map[string]any{
			"from": from,
			"to":   to,
		},
		"exchange_rate":  rate,
		"summary":        summary,
		"monthly_series": monthly,
		"by_status":      h.reports.ByStatus(filtered),
		"by_method":      h.reports.ByPaymentMethod(filtered),
	})
}

// InventoryReport - ticket totals across all blocks
func (h *ReportHandler) InventoryReport(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	ctx := e.Request.Context()
	if !h.limiter.AllowReport(ctx, e.Auth.Id) {
		return apis.NewApiError(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
	}

	start := time.Now()

	records := []*core.Record{}
	if err := h.app.RecordQuery("ticket_blocks").All(&records); err != nil {
		return apis.NewBadRequestError("Failed to load ticket blocks", err)
	}

	blocks := make([]models.TicketBlock, 0, len(records))
	for _, record := range records {
		blocks = append(blocks, blockFromRecord(record))
	}

	report := models.InventoryReport{
		TotalTickets:   h.inventory.TotalAcrossBlocks(blocks),
		CategoryTotals: h.inventory.CategoryTotals(blocks),
		PerEvent:       h.inventory.PerEventTotals(blocks),
	}

	h.monitor.TrackReport("inventory", time.Since(start))

	return e.JSON(http.StatusOK, report)
}

// parsePeriodBound accepts RFC3339 or a bare date. Bare end dates extend to
// the last instant of that day so the period stays inclusive.
func parsePeriodBound(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
