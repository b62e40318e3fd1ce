package services

import (
	"testing"
	"time"

	"event-manager/internal/status"
	"event-manager/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func assertDecimalEqual(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestReportService_Summarize(t *testing.T) {
	service := NewReportService()

	bookings := []models.BookingRecord{
		{
			ID:          "b1",
			TotalAmount: dec("1000"),
			AmountPaid:  dec("850"),
			Status:      models.StatusConfirmed,
			PaymentDetails: []models.PaymentEntry{
				{Method: models.MethodPaypal, Amount: dec("100")},
				{Method: models.MethodMpesa, Amount: dec("500")},
			},
		},
		{
			ID:          "b2",
			TotalAmount: dec("300"),
			AmountPaid:  dec("0"),
			Status:      models.StatusTentative,
		},
	}

	summary, err := service.Summarize(bookings, dec("3.5"))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalBookings)
	assert.Equal(t, 1, summary.ConfirmedCount)
	assert.Equal(t, 1, summary.TentativeCount)

	assertDecimalEqual(t, "1300", summary.TotalAmount)
	assertDecimalEqual(t, "850", summary.AmountPaid)
	assertDecimalEqual(t, "450", summary.Outstanding)

	// PayPal defaults to THB, so 100 THB at 3.5 lands as 350 KES;
	// M-Pesa is already KES and passes through untouched.
	assertDecimalEqual(t, "350", summary.PaypalAmount)
	assertDecimalEqual(t, "500", summary.MpesaAmount)
}

func TestReportService_Summarize_ExplicitCurrencyWins(t *testing.T) {
	service := NewReportService()

	bookings := []models.BookingRecord{
		{
			PaymentDetails: []models.PaymentEntry{
				// PayPal settled directly in KES must not be converted.
				{Method: models.MethodPaypal, Amount: dec("200"), Currency: models.CurrencyKES},
				// And an M-Pesa entry tagged THB must be.
				{Method: models.MethodMpesa, Amount: dec("10"), Currency: models.CurrencyTHB},
			},
		},
	}

	summary, err := service.Summarize(bookings, dec("2"))
	require.NoError(t, err)

	assertDecimalEqual(t, "200", summary.PaypalAmount)
	assertDecimalEqual(t, "20", summary.MpesaAmount)
}

func TestReportService_Summarize_OverpaymentStaysNegative(t *testing.T) {
	service := NewReportService()

	bookings := []models.BookingRecord{
		{TotalAmount: dec("100"), AmountPaid: dec("120")},
	}

	summary, err := service.Summarize(bookings, dec("3.5"))
	require.NoError(t, err)
	assertDecimalEqual(t, "-20", summary.Outstanding)
}

func TestReportService_Summarize_UnknownMethodCountsInTotalsOnly(t *testing.T) {
	service := NewReportService()

	bookings := []models.BookingRecord{
		{
			TotalAmount: dec("50"),
			AmountPaid:  dec("50"),
			PaymentDetails: []models.PaymentEntry{
				{Method: "Cash", Amount: dec("50")},
			},
		},
	}

	summary, err := service.Summarize(bookings, dec("3.5"))
	require.NoError(t, err)

	assertDecimalEqual(t, "50", summary.AmountPaid)
	assertDecimalEqual(t, "0", summary.MpesaAmount)
	assertDecimalEqual(t, "0", summary.PaypalAmount)
}

func TestReportService_Summarize_InvalidRate(t *testing.T) {
	service := NewReportService()

	_, err := service.Summarize(nil, decimal.Zero)
	assert.ErrorIs(t, err, status.ErrInvalidRate)

	_, err = service.Summarize(nil, dec("-1"))
	assert.ErrorIs(t, err, status.ErrInvalidRate)
}

func TestReportService_Summarize_Idempotent(t *testing.T) {
	service := NewReportService()

	bookings := []models.BookingRecord{
		{
			TotalAmount: dec("1000"),
			AmountPaid:  dec("400"),
			PaymentDetails: []models.PaymentEntry{
				{Method: models.MethodPaypal, Amount: dec("100")},
			},
		},
	}

	first, err := service.Summarize(bookings, dec("3.5"))
	require.NoError(t, err)
	second, err := service.Summarize(bookings, dec("3.5"))
	require.NoError(t, err)

	assert.True(t, first.TotalAmount.Equal(second.TotalAmount))
	assert.True(t, first.PaypalAmount.Equal(second.PaypalAmount))
	assert.True(t, first.Outstanding.Equal(second.Outstanding))
}

func TestReportService_FilterByPeriod_InclusiveBounds(t *testing.T) {
	service := NewReportService()

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)

	bookings := []models.BookingRecord{
		{ID: "before", CreatedAt: start.Add(-time.Second)},
		{ID: "on-start", CreatedAt: start},
		{ID: "inside", CreatedAt: start.AddDate(0, 0, 15)},
		{ID: "on-end", CreatedAt: end},
		{ID: "after", CreatedAt: end.Add(time.Second)},
	}

	filtered := service.FilterByPeriod(bookings, start, end)

	require.Len(t, filtered, 3)
	assert.Equal(t, "on-start", filtered[0].ID)
	assert.Equal(t, "inside", filtered[1].ID)
	assert.Equal(t, "on-end", filtered[2].ID)
}

func TestReportService_MonthlySeries_ChronologicalAcrossYears(t *testing.T) {
	service := NewReportService()

	bookings := []models.BookingRecord{
		{
			TotalAmount: dec("10"),
			AmountPaid:  dec("10"),
			CreatedAt:   time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			TotalAmount: dec("20"),
			AmountPaid:  dec("5"),
			CreatedAt:   time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			TotalAmount: dec("30"),
			AmountPaid:  dec("30"),
			CreatedAt:   time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	series, err := service.MonthlySeries(bookings, dec("3.5"))
	require.NoError(t, err)
	require.Len(t, series, 2)

	// Lexically "Dec 2024" sorts after "Jan 2025"; chronologically it
	// must come first.
	assert.Equal(t, "Dec 2024", series[0].Month)
	assert.Equal(t, "Jan 2025", series[1].Month)

	assertDecimalEqual(t, "50", series[0].Total)
	assertDecimalEqual(t, "35", series[0].Paid)
	assertDecimalEqual(t, "10", series[1].Total)
}

func TestReportService_MonthlySeries_ConvertsPerEntry(t *testing.T) {
	service := NewReportService()

	bookings := []models.BookingRecord{
		{
			TotalAmount: dec("400"),
			AmountPaid:  dec("400"),
			CreatedAt:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			PaymentDetails: []models.PaymentEntry{
				{Method: models.MethodPaypal, Amount: dec("100")},
				{Method: models.MethodMpesa, Amount: dec("50")},
			},
		},
	}

	series, err := service.MonthlySeries(bookings, dec("3.5"))
	require.NoError(t, err)
	require.Len(t, series, 1)

	assertDecimalEqual(t, "350", series[0].Paypal)
	assertDecimalEqual(t, "50", series[0].Mpesa)
}

func TestReportService_MonthlySeries_Empty(t *testing.T) {
	service := NewReportService()

	series, err := service.MonthlySeries(nil, dec("3.5"))
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestReportService_ByStatus(t *testing.T) {
	service := NewReportService()

	bookings := []models.BookingRecord{
		{Status: models.StatusConfirmed},
		{Status: models.StatusConfirmed},
		{Status: models.StatusTentative},
		{Status: models.StatusCancelled},
		{Status: "pending-review"},
		{Status: ""},
	}

	tally := service.ByStatus(bookings)

	assert.Equal(t, 2, tally[models.StatusConfirmed])
	assert.Equal(t, 1, tally[models.StatusTentative])
	assert.Equal(t, 1, tally[models.StatusCancelled])
	assert.Equal(t, 2, tally[models.StatusUnknown])
}

func TestReportService_ByPaymentMethod(t *testing.T) {
	service := NewReportService()

	bookings := []models.BookingRecord{
		{
			PaymentDetails: []models.PaymentEntry{
				{Method: models.MethodMpesa, Amount: dec("10")},
				{Method: models.MethodMpesa, Amount: dec("20")},
				{Method: models.MethodPaypal, Amount: dec("30")},
				{Method: "", Amount: dec("5")},
			},
		},
	}

	tally := service.ByPaymentMethod(bookings)

	assert.Equal(t, 2, tally[models.MethodMpesa])
	assert.Equal(t, 1, tally[models.MethodPaypal])
	assert.Equal(t, 1, tally["Unknown"])
}
