package services

import (
	"event-manager/internal/status"

	"github.com/shopspring/decimal"
)

// Convert multiplies amount by the given exchange rate. No rounding is
// applied here; formatting for display is the caller's concern.
func Convert(amount, rate decimal.Decimal) (decimal.Decimal, error) {
	if rate.Sign() <= 0 {
		return decimal.Zero, status.ErrInvalidRate
	}
	return amount.Mul(rate), nil
}
