package handlers

import (
	"event-manager/models"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// blockFromRecord maps a ticket_blocks record to the domain model. The
// collection stores one column pair per category (fixed arity, closed set).
func blockFromRecord(r *core.Record) models.TicketBlock {
	block := models.TicketBlock{
		ID:      r.Id,
		EventID: r.GetString("event"),
		Categories: map[models.CategoryName]models.TicketCategory{
			models.CategoryVVIP: {
				Name:  models.CategoryVVIP,
				Count: r.GetInt("vvip_count"),
				Price: decimal.NewFromFloat(r.GetFloat("vvip_price")),
			},
			models.CategoryVIP: {
				Name:  models.CategoryVIP,
				Count: r.GetInt("vip_count"),
				Price: decimal.NewFromFloat(r.GetFloat("vip_price")),
			},
			models.CategoryRegular: {
				Name:  models.CategoryRegular,
				Count: r.GetInt("regular_count"),
				Price: decimal.NewFromFloat(r.GetFloat("regular_price")),
			},
		},
		TotalTickets: r.GetInt("total_tickets"),
		Serial:       r.GetString("serial"),
		CreatedAt:    r.GetDateTime("created").Time(),
	}

	var extra map[string]any
	if err := r.UnmarshalJSONField("extra", &extra); err == nil && len(extra) > 0 {
		block.Extra = extra
	}

	return block
}

func bookingFromRecord(r *core.Record) models.BookingRecord {
	booking := models.BookingRecord{
		ID:          r.Id,
		EventID:     r.GetString("event"),
		Customer:    r.GetString("customer"),
		TotalAmount: decimal.NewFromFloat(r.GetFloat("total_amount")),
		AmountPaid:  decimal.NewFromFloat(r.GetFloat("amount_paid")),
		Status:      models.NormalizeBookingStatus(r.GetString("status")),
		CreatedAt:   r.GetDateTime("created").Time(),
	}

	var entries []models.PaymentEntry
	if err := r.UnmarshalJSONField("payment_details", &entries); err == nil {
		booking.PaymentDetails = entries
	}

	return booking
}
