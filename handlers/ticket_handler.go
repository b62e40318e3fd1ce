package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"event-manager/internal/status"
	"event-manager/models"
	"event-manager/monitoring"
	"event-manager/services"
	"event-manager/utils"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

type TicketHandler struct {
	app       *pocketbase.PocketBase
	allocator *services.AllocatorService
	inventory *services.InventoryService
	monitor   *monitoring.Monitor
}

func NewTicketHandler(app *pocketbase.PocketBase, allocator *services.AllocatorService, inventory *services.InventoryService, monitor *monitoring.Monitor) *TicketHandler {
	return &TicketHandler{
		app:       app,
		allocator: allocator,
		inventory: inventory,
		monitor:   monitor,
	}
}

// AllocatePreview - suggest a category breakdown for a capacity
func (h *TicketHandler) AllocatePreview(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		EventID  string `json:"event_id"`
		Capacity *int   `json:"capacity"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	capacity := 0
	switch {
	case req.EventID != "":
		event, err := h.app.FindRecordById("events", req.EventID)
		if err != nil {
			return apis.NewNotFoundError("Event not found", err)
		}
		capacity = event.GetInt("venue_capacity")
	case req.Capacity != nil:
		capacity = *req.Capacity
	default:
		return apis.NewBadRequestError("Either event_id or capacity is required", nil)
	}

	categories, err := h.allocator.AutoDistribute(capacity)
	if err != nil {
		return apis.NewBadRequestError("Capacity must be a non-negative integer", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"categories":    categories,
		"total_tickets": capacity,
	})
}

// ClampCount - bound one category's count while the form is being edited
func (h *TicketHandler) ClampCount(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		Requested   int `json:"requested"`
		OthersTotal int `json:"others_total"`
		Capacity    int `json:"capacity"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Counts must be integers", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"count": h.allocator.ClampCount(req.Requested, req.OthersTotal, req.Capacity),
	})
}

// CreateBlock - issue an event's ticket inventory
func (h *TicketHandler) CreateBlock(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		EventID    string `json:"event_id"`
		Categories map[string]struct {
			Count int     `json:"count"`
			Price float64 `json:"price"`
		} `json:"categories"`
		Extra map[string]any `json:"extra"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	event, err := h.app.FindRecordById("events", req.EventID)
	if err != nil {
		return apis.NewNotFoundError("Event not found", err)
	}
	capacity := event.GetInt("venue_capacity")

	// A block is issued once per event and read-only afterwards.
	if existing, _ := h.app.FindFirstRecordByFilter(
		"ticket_blocks",
		"event = {:event}",
		dbx.Params{"event": req.EventID},
	); existing != nil {
		return apis.NewBadRequestError("Tickets already issued for this event", nil)
	}

	categories := make(map[models.CategoryName]models.TicketCategory, len(req.Categories))
	for rawName, c := range req.Categories {
		name := models.CategoryName(rawName)
		categories[name] = models.TicketCategory{
			Name:  name,
			Count: c.Count,
			Price: decimal.NewFromFloat(c.Price),
		}
	}

	if err := h.allocator.Validate(categories, capacity); err != nil {
		h.monitor.TrackAllocation("rejected")

		var mismatch *status.CapacityMismatchError
		if errors.As(err, &mismatch) {
			return apis.NewBadRequestError(
				fmt.Sprintf("Total tickets must equal venue capacity (%d)", mismatch.Expected), err)
		}
		return apis.NewBadRequestError("Invalid category counts", err)
	}
	h.monitor.TrackAllocation("accepted")

	serial, err := utils.GenerateCode(4)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to generate serial", err)
	}

	collection, err := h.app.FindCollectionByNameOrId("ticket_blocks")
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Collection not found", err)
	}

	block := core.NewRecord(collection)
	block.Set("event", req.EventID)
	for name, category := range categories {
		switch name {
		case models.CategoryVVIP:
			block.Set("vvip_count", category.Count)
			block.Set("vvip_price", category.Price.InexactFloat64())
		case models.CategoryVIP:
			block.Set("vip_count", category.Count)
			block.Set("vip_price", category.Price.InexactFloat64())
		case models.CategoryRegular:
			block.Set("regular_count", category.Count)
			block.Set("regular_price", category.Price.InexactFloat64())
		}
	}
	block.Set("total_tickets", capacity)
	block.Set("serial", serial)
	if len(req.Extra) > 0 {
		block.Set("extra", req.Extra)
	}

	if err := h.app.Save(block); err != nil {
		return apis.NewBadRequestError("Failed to save ticket block", err)
	}

	return e.JSON(http.StatusOK, blockFromRecord(block))
}

// ListBlocks - list all issued ticket blocks
func (h *TicketHandler) ListBlocks(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	records := []*core.Record{}
	if err := h.app.RecordQuery("ticket_blocks").All(&records); err != nil {
		return apis.NewBadRequestError("Failed to list ticket blocks", err)
	}

	blocks := make([]models.TicketBlock, 0, len(records))
	for _, record := range records {
		blocks = append(blocks, blockFromRecord(record))
	}

	return e.JSON(http.StatusOK, blocks)
}

// ListForEvent - list one event's ticket blocks
func (h *TicketHandler) ListForEvent(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	eventID := e.Request.PathValue("eventId")

	records, err := h.app.FindRecordsByFilter(
		"ticket_blocks",
		"event = {:event}",
		"-created",
		0,
		0,
		dbx.Params{"event": eventID},
	)
	if err != nil {
		return apis.NewBadRequestError("Failed to list ticket blocks", err)
	}

	blocks := make([]models.TicketBlock, 0, len(records))
	for _, record := range records {
		blocks = append(blocks, blockFromRecord(record))
	}

	return e.JSON(http.StatusOK, blocks)
}

// Utilization - ticket fill against venue capacity
func (h *TicketHandler) Utilization(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	eventID := e.Request.PathValue("eventId")

	event, err := h.app.FindRecordById("events", eventID)
	if err != nil {
		return apis.NewNotFoundError("Event not found", err)
	}
	capacity := event.GetInt("venue_capacity")

	// No block yet reads as an empty inventory, not an error.
	block := models.TicketBlock{EventID: eventID}
	if record, _ := h.app.FindFirstRecordByFilter(
		"ticket_blocks",
		"event = {:event}",
		dbx.Params{"event": eventID},
	); record != nil {
		block = blockFromRecord(record)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"event_id":            eventID,
		"venue_capacity":      capacity,
		"total_tickets":       h.inventory.TotalForBlock(block),
		"utilization_percent": h.inventory.UtilizationPercent(block, capacity),
	})
}
