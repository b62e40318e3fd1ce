package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryName is a ticket tier. The set is closed: unknown names are
// rejected at validation time instead of being carried as free-form strings.
type CategoryName string

const (
	CategoryVVIP    CategoryName = "VVIP"
	CategoryVIP     CategoryName = "VIP"
	CategoryRegular CategoryName = "Regular"
)

// Categories returns every known tier in display order.
func Categories() []CategoryName {
	return []CategoryName{CategoryVVIP, CategoryVIP, CategoryRegular}
}

func (c CategoryName) Valid() bool {
	switch c {
	case CategoryVVIP, CategoryVIP, CategoryRegular:
		return true
	}
	return false
}

type TicketCategory struct {
	Name  CategoryName    `json:"name"`
	Count int             `json:"count"`
	Price decimal.Decimal `json:"price"`
}

// TicketBlock is one event's ticket inventory. TotalTickets is derived from
// the category counts and must equal the venue capacity at creation time;
// the block is read-only afterwards.
type TicketBlock struct {
	ID           string                          `json:"id"`
	EventID      string                          `json:"event_id"`
	Categories   map[CategoryName]TicketCategory `json:"categories"`
	TotalTickets int                             `json:"total_tickets"`
	Serial       string                          `json:"serial"`
	// Extra carries caller-joined ticket details (gate info, sponsor notes).
	// It is passed in explicitly at creation, never read from shared state.
	Extra     map[string]any `json:"extra,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
