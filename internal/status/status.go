package status

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput    = errors.New("allocation: invalid input")
	ErrInvalidRate     = errors.New("currency: exchange rate must be positive")
	ErrRateUnavailable = errors.New("currency: exchange rate unavailable")
	ErrAccessDenied    = errors.New("venue request: access code mismatch")
)

// CapacityMismatchError reports a category breakdown whose counts do not
// sum to the venue capacity.
type CapacityMismatchError struct {
	Expected int
	Actual   int
}

func (e *CapacityMismatchError) Error() string {
	return fmt.Sprintf("allocation: total tickets must equal venue capacity (expected %d, got %d)", e.Expected, e.Actual)
}
