package models

import (
	"github.com/shopspring/decimal"
)

// ReportSummary aggregates a set of bookings for the payment report.
// All amounts are KES; PayPal entries are converted before summing.
// Outstanding is reported raw: a negative value means overpayment and is
// a data-integrity signal the caller decides how to display.
type ReportSummary struct {
	TotalBookings  int             `json:"total_bookings"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	ConfirmedCount int             `json:"confirmed_count"`
	TentativeCount int             `json:"tentative_count"`
	MpesaAmount    decimal.Decimal `json:"mpesa_amount"`
	PaypalAmount   decimal.Decimal `json:"paypal_amount"`
}

// MonthlyBucket is one point of the payment time series. Buckets are
// emitted in chronological order by (year, month).
type MonthlyBucket struct {
	Month  string          `json:"month"` // e.g. "Jan 2025"
	Total  decimal.Decimal `json:"total"`
	Paid   decimal.Decimal `json:"paid"`
	Paypal decimal.Decimal `json:"paypal"`
	Mpesa  decimal.Decimal `json:"mpesa"`
}

// InventoryReport holds derived ticket totals for the inventory view.
type InventoryReport struct {
	TotalTickets   int                  `json:"total_tickets"`
	CategoryTotals map[CategoryName]int `json:"category_totals"`
	PerEvent       map[string]int       `json:"per_event"`
}
