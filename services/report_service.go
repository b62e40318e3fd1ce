package services

import (
	"sort"
	"time"

	"event-manager/internal/status"
	"event-manager/models"

	"github.com/shopspring/decimal"
)

// ReportService aggregates booking records into the payment report views.
// It is pure: each call receives its full input and returns a fresh result,
// so concurrent callers never interfere. Fetching the bookings and the
// exchange rate is the caller's job.
type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

// FilterByPeriod keeps bookings created within [start, end], both bounds
// inclusive. Computing "this week"/"this quarter" boundaries is the
// caller's concern.
func (s *ReportService) FilterByPeriod(bookings []models.BookingRecord, start, end time.Time) []models.BookingRecord {
	filtered := []models.BookingRecord{}
	for _, booking := range bookings {
		if booking.CreatedAt.Before(start) || booking.CreatedAt.After(end) {
			continue
		}
		filtered = append(filtered, booking)
	}
	return filtered
}

// Summarize computes the report summary over the given bookings. Booking
// level totals come from TotalAmount/AmountPaid regardless of payment
// method; the per-method breakdown only tallies M-Pesa and PayPal entries,
// converting THB-denominated amounts to KES with the supplied rate.
func (s *ReportService) Summarize(bookings []models.BookingRecord, thbToKes decimal.Decimal) (models.ReportSummary, error) {
	if thbToKes.Sign() <= 0 {
		return models.ReportSummary{}, status.ErrInvalidRate
	}

	summary := models.ReportSummary{
		TotalBookings: len(bookings),
		TotalAmount:   decimal.Zero,
		AmountPaid:    decimal.Zero,
		MpesaAmount:   decimal.Zero,
		PaypalAmount:  decimal.Zero,
	}

	for _, booking := range bookings {
		summary.TotalAmount = summary.TotalAmount.Add(booking.TotalAmount)
		summary.AmountPaid = summary.AmountPaid.Add(booking.AmountPaid)

		switch models.NormalizeBookingStatus(string(booking.Status)) {
		case models.StatusConfirmed:
			summary.ConfirmedCount++
		case models.StatusTentative:
			summary.TentativeCount++
		}

		for _, entry := range booking.PaymentDetails {
			amount, err := s.entryAmountKes(entry, thbToKes)
			if err != nil {
				return models.ReportSummary{}, err
			}
			switch entry.Method {
			case models.MethodMpesa:
				summary.MpesaAmount = summary.MpesaAmount.Add(amount)
			case models.MethodPaypal:
				summary.PaypalAmount = summary.PaypalAmount.Add(amount)
			}
		}
	}

	// Raw value on purpose: negative outstanding flags overpayment and must
	// reach the caller unclamped.
	summary.Outstanding = summary.TotalAmount.Sub(summary.AmountPaid)

	return summary, nil
}

type monthKey struct {
	year  int
	month time.Month
}

// MonthlySeries buckets bookings by calendar month of creation, summing the
// same fields as Summarize per bucket. Buckets come back sorted by
// (year, month) ascending; keying on numeric year/month rather than the
// display label is what keeps "Dec 2024" ahead of "Jan 2025".
func (s *ReportService) MonthlySeries(bookings []models.BookingRecord, thbToKes decimal.Decimal) ([]models.MonthlyBucket, error) {
	if thbToKes.Sign() <= 0 {
		return nil, status.ErrInvalidRate
	}

	buckets := map[monthKey]*models.MonthlyBucket{}
	for _, booking := range bookings {
		key := monthKey{year: booking.CreatedAt.Year(), month: booking.CreatedAt.Month()}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &models.MonthlyBucket{
				Total:  decimal.Zero,
				Paid:   decimal.Zero,
				Paypal: decimal.Zero,
				Mpesa:  decimal.Zero,
			}
			buckets[key] = bucket
		}

		bucket.Total = bucket.Total.Add(booking.TotalAmount)
		bucket.Paid = bucket.Paid.Add(booking.AmountPaid)

		for _, entry := range booking.PaymentDetails {
			amount, err := s.entryAmountKes(entry, thbToKes)
			if err != nil {
				return nil, err
			}
			switch entry.Method {
			case models.MethodMpesa:
				bucket.Mpesa = bucket.Mpesa.Add(amount)
			case models.MethodPaypal:
				bucket.Paypal = bucket.Paypal.Add(amount)
			}
		}
	}

	keys := make([]monthKey, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	series := make([]models.MonthlyBucket, 0, len(keys))
	for _, key := range keys {
		bucket := *buckets[key]
		bucket.Month = time.Date(key.year, key.month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
		series = append(series, bucket)
	}

	return series, nil
}

// ByStatus tallies bookings per normalized status. Unknown or missing
// statuses land in the Unknown bucket, never an error.
func (s *ReportService) ByStatus(bookings []models.BookingRecord) map[models.BookingStatus]int {
	tally := make(map[models.BookingStatus]int)
	for _, booking := range bookings {
		tally[models.NormalizeBookingStatus(string(booking.Status))]++
	}
	return tally
}

// ByPaymentMethod tallies payment entries per method across all bookings.
// Entries with an empty method count as "Unknown".
func (s *ReportService) ByPaymentMethod(bookings []models.BookingRecord) map[string]int {
	tally := make(map[string]int)
	for _, booking := range bookings {
		for _, entry := range booking.PaymentDetails {
			method := entry.Method
			if method == "" {
				method = "Unknown"
			}
			tally[method]++
		}
	}
	return tally
}

// entryAmountKes converts one payment entry to KES. Conversion keys off the
// entry's currency code, not the method name, so a PayPal payment already
// settled in KES is never converted twice.
func (s *ReportService) entryAmountKes(entry models.PaymentEntry, thbToKes decimal.Decimal) (decimal.Decimal, error) {
	if entry.CurrencyCode() == models.CurrencyTHB {
		return Convert(entry.Amount, thbToKes)
	}
	return entry.Amount, nil
}
