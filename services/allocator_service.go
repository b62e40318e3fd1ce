package services

import (
	"event-manager/config"
	"event-manager/internal/status"
	"event-manager/models"

	"github.com/shopspring/decimal"
)

// AllocatorService turns a venue capacity into a category breakdown and
// validates caller-supplied breakdowns. The split percentages and default
// prices come from config; the stock defaults are 10%/30%/remainder at
// prices 3/2/1.
type AllocatorService struct {
	Config *config.Config
}

func NewAllocatorService(cfg *config.Config) *AllocatorService {
	return &AllocatorService{Config: cfg}
}

// AutoDistribute splits capacity across the category set. VVIP and VIP get
// their configured percentage, floored; Regular absorbs the remainder so
// the counts always sum to capacity exactly.
func (s *AllocatorService) AutoDistribute(capacity int) (map[models.CategoryName]models.TicketCategory, error) {
	if capacity < 0 {
		return nil, status.ErrInvalidInput
	}

	vvip := capacity * s.Config.VVIPPercent / 100
	vip := capacity * s.Config.VIPPercent / 100
	regular := capacity - vvip - vip

	return map[models.CategoryName]models.TicketCategory{
		models.CategoryVVIP: {
			Name:  models.CategoryVVIP,
			Count: vvip,
			Price: decimal.NewFromFloat(s.Config.VVIPPrice),
		},
		models.CategoryVIP: {
			Name:  models.CategoryVIP,
			Count: vip,
			Price: decimal.NewFromFloat(s.Config.VIPPrice),
		},
		models.CategoryRegular: {
			Name:  models.CategoryRegular,
			Count: regular,
			Price: decimal.NewFromFloat(s.Config.RegularPrice),
		},
	}, nil
}

// Validate checks that the category counts sum to capacity exactly.
// Equality is required, not "<=": a block that undershoots capacity is as
// invalid as one that overshoots it.
func (s *AllocatorService) Validate(categories map[models.CategoryName]models.TicketCategory, capacity int) error {
	if capacity < 0 {
		return status.ErrInvalidInput
	}

	sum := 0
	for name, category := range categories {
		if !name.Valid() {
			return status.ErrInvalidInput
		}
		if category.Count < 0 {
			return status.ErrInvalidInput
		}
		sum += category.Count
	}

	if sum != capacity {
		return &status.CapacityMismatchError{Expected: capacity, Actual: sum}
	}

	return nil
}

// ClampCount bounds an interactively edited category count so the running
// total never exceeds capacity while the user is still editing. The result
// is never negative.
func (s *AllocatorService) ClampCount(requested, othersTotal, capacity int) int {
	remaining := capacity - othersTotal
	if remaining < 0 {
		remaining = 0
	}
	if requested < 0 {
		return 0
	}
	if requested > remaining {
		return remaining
	}
	return requested
}
