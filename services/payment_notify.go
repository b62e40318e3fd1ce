package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"event-manager/models"

	"github.com/pocketbase/pocketbase"
	pubnub "github.com/pubnub/go"
	"github.com/shopspring/decimal"
)

// PaymentNotifyService listens for external payment confirmations (M-Pesa
// and PayPal webhooks relayed over PubNub) and applies them to the matching
// booking record.
type PaymentNotifyService struct {
	app    *pocketbase.PocketBase
	PubNub *pubnub.PubNub
	rates  *RateService
}

func NewPaymentNotifyService(app *pocketbase.PocketBase, pn *pubnub.PubNub, rates *RateService) *PaymentNotifyService {
	service := &PaymentNotifyService{
		app:    app,
		PubNub: pn,
		rates:  rates,
	}

	if pn != nil {
		go service.SubscribeToPaymentNotifications()
	}

	return service
}

func (s *PaymentNotifyService) SubscribeToPaymentNotifications() {
	listener := pubnub.NewListener()

	s.PubNub.AddListener(listener)
	s.PubNub.Subscribe().
		Channels([]string{"payment-notifications"}).
		Execute()

	for message := range listener.Message {
		go s.handlePaymentNotification(message)
	}
}

type paymentNotification struct {
	BookingID     string      `json:"booking_id"`
	Method        string      `json:"payment_method"`
	Amount        json.Number `json:"amount"`
	Currency      string      `json:"currency"`
	TransactionID string      `json:"transaction_id"`
	Status        string      `json:"status"`
}

func (s *PaymentNotifyService) handlePaymentNotification(message *pubnub.PNMessage) {
	var notification paymentNotification

	data, ok := message.Message.(map[string]any)
	if !ok {
		return
	}

	jsonData, _ := json.Marshal(data)
	if err := json.Unmarshal(jsonData, &notification); err != nil {
		slog.Error("failed to parse payment notification", "error", err)
		return
	}

	if notification.Status != "success" {
		slog.Info("ignoring non-success payment notification",
			"booking_id", notification.BookingID,
			"status", notification.Status,
		)
		return
	}

	amount, err := decimal.NewFromString(notification.Amount.String())
	if err != nil {
		slog.Error("bad payment amount in notification",
			"booking_id", notification.BookingID,
			"amount", notification.Amount,
		)
		return
	}

	entry := models.PaymentEntry{
		Method:        notification.Method,
		Amount:        amount,
		Currency:      notification.Currency,
		TransactionID: notification.TransactionID,
		Timestamp:     time.Now(),
	}

	if err := s.ApplyPayment(context.Background(), notification.BookingID, entry); err != nil {
		slog.Error("failed to apply payment notification",
			"booking_id", notification.BookingID,
			"error", err,
		)
	}
}

// ApplyPayment appends a confirmed payment to the booking's payment details
// and bumps its paid amount (converted to KES when the payment was settled
// in THB).
func (s *PaymentNotifyService) ApplyPayment(ctx context.Context, bookingID string, entry models.PaymentEntry) error {
	booking, err := s.app.FindRecordById("bookings", bookingID)
	if err != nil {
		return fmt.Errorf("booking %s not found: %w", bookingID, err)
	}

	var entries []models.PaymentEntry
	if err := booking.UnmarshalJSONField("payment_details", &entries); err != nil {
		entries = nil
	}
	entries = append(entries, entry)

	paidKes := entry.Amount
	if entry.CurrencyCode() == models.CurrencyTHB {
		converted, err := Convert(entry.Amount, s.rates.CurrentRate(ctx))
		if err != nil {
			return err
		}
		paidKes = converted
	}

	booking.Set("payment_details", entries)
	booking.Set("amount_paid", booking.GetFloat("amount_paid")+paidKes.InexactFloat64())

	if err := s.app.Save(booking); err != nil {
		return err
	}

	slog.Info("payment applied to booking",
		"booking_id", bookingID,
		"method", entry.Method,
		"amount_kes", paidKes,
	)

	if s.PubNub == nil {
		return nil
	}

	// Let the organizer dashboard refresh in realtime.
	channel := fmt.Sprintf("event-%s", booking.GetString("event"))
	s.PubNub.Publish().
		Channel(channel).
		Message(map[string]any{
			"type":           "payment_recorded",
			"booking_id":     bookingID,
			"payment_method": entry.Method,
			"transaction_id": entry.TransactionID,
		}).
		Execute()

	return nil
}
