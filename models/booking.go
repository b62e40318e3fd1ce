package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "Confirmed"
	StatusTentative BookingStatus = "Tentative"
	StatusCancelled BookingStatus = "Cancelled"
	StatusUnknown   BookingStatus = "Unknown"
)

// NormalizeBookingStatus maps a raw status string to the known set.
// Anything unrecognized (including empty) reads as Unknown so reports
// degrade instead of failing on dirty records.
func NormalizeBookingStatus(raw string) BookingStatus {
	switch BookingStatus(raw) {
	case StatusConfirmed, StatusTentative, StatusCancelled:
		return BookingStatus(raw)
	}
	return StatusUnknown
}

const (
	MethodMpesa  = "M-Pesa"
	MethodPaypal = "PayPal"

	CurrencyKES = "KES"
	CurrencyTHB = "THB"
)

type PaymentEntry struct {
	Method        string          `json:"payment_method"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency,omitempty"`
	TransactionID string          `json:"transaction_id"`
	Timestamp     time.Time       `json:"timestamp"`
}

// CurrencyCode returns the entry's explicit currency. Legacy records carry
// no currency tag, only the method convention (PayPal settled in THB,
// M-Pesa in KES), so that convention remains the fallback.
func (p PaymentEntry) CurrencyCode() string {
	if p.Currency != "" {
		return p.Currency
	}
	switch p.Method {
	case MethodPaypal:
		return CurrencyTHB
	case MethodMpesa:
		return CurrencyKES
	}
	return CurrencyKES
}

type BookingRecord struct {
	ID             string          `json:"id"`
	EventID        string          `json:"event_id"`
	Customer       string          `json:"customer"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	Status         BookingStatus   `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	PaymentDetails []PaymentEntry  `json:"payment_details"`
}
