package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type VenueRequest struct {
	ID            string          `json:"id"`
	EventName     string          `json:"event_name"`
	Venue         string          `json:"venue"`
	EventDate     time.Time       `json:"event_date"`
	Organizer     string          `json:"organizer"`
	Status        string          `json:"status"` // pending, approved, rejected
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	DepositPaid   bool            `json:"deposit_paid"`
	CreatedAt     time.Time       `json:"created_at"`
}
