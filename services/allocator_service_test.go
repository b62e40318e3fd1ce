package services

import (
	"errors"
	"testing"

	"event-manager/config"
	"event-manager/internal/status"
	"event-manager/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestAllocator() *AllocatorService {
	return NewAllocatorService(&config.Config{
		VVIPPercent:  10,
		VIPPercent:   30,
		VVIPPrice:    3,
		VIPPrice:     2,
		RegularPrice: 1,
	})
}

func TestAllocatorService_AutoDistribute(t *testing.T) {
	service := setupTestAllocator()

	categories, err := service.AutoDistribute(7000)
	require.NoError(t, err)

	assert.Equal(t, 700, categories[models.CategoryVVIP].Count)
	assert.Equal(t, 2100, categories[models.CategoryVIP].Count)
	assert.Equal(t, 4200, categories[models.CategoryRegular].Count)

	assert.True(t, categories[models.CategoryVVIP].Price.Equal(decimal.NewFromInt(3)))
	assert.True(t, categories[models.CategoryVIP].Price.Equal(decimal.NewFromInt(2)))
	assert.True(t, categories[models.CategoryRegular].Price.Equal(decimal.NewFromInt(1)))
}

func TestAllocatorService_AutoDistribute_SumInvariant(t *testing.T) {
	service := setupTestAllocator()

	// Regular absorbs the flooring remainder, so the counts must sum to
	// capacity exactly for any capacity.
	capacities := []int{0, 1, 3, 7, 13, 99, 101, 7000, 12345, 999999}

	for _, capacity := range capacities {
		categories, err := service.AutoDistribute(capacity)
		require.NoError(t, err)

		sum := 0
		for _, category := range categories {
			assert.GreaterOrEqual(t, category.Count, 0)
			sum += category.Count
		}
		assert.Equal(t, capacity, sum, "capacity %d", capacity)
	}
}

func TestAllocatorService_AutoDistribute_ZeroCapacity(t *testing.T) {
	service := setupTestAllocator()

	categories, err := service.AutoDistribute(0)
	require.NoError(t, err)

	for name, category := range categories {
		assert.Equal(t, 0, category.Count, "category %s", name)
	}
}

func TestAllocatorService_AutoDistribute_NegativeCapacity(t *testing.T) {
	service := setupTestAllocator()

	_, err := service.AutoDistribute(-1)
	assert.ErrorIs(t, err, status.ErrInvalidInput)
}

func TestAllocatorService_Validate_ExactMatch(t *testing.T) {
	service := setupTestAllocator()

	categories := map[models.CategoryName]models.TicketCategory{
		models.CategoryVVIP:    {Name: models.CategoryVVIP, Count: 700},
		models.CategoryVIP:     {Name: models.CategoryVIP, Count: 2100},
		models.CategoryRegular: {Name: models.CategoryRegular, Count: 4200},
	}

	assert.NoError(t, service.Validate(categories, 7000))
}

func TestAllocatorService_Validate_CapacityMismatch(t *testing.T) {
	service := setupTestAllocator()

	categories := map[models.CategoryName]models.TicketCategory{
		models.CategoryVVIP:    {Name: models.CategoryVVIP, Count: 1000},
		models.CategoryVIP:     {Name: models.CategoryVIP, Count: 3000},
		models.CategoryRegular: {Name: models.CategoryRegular, Count: 3999},
	}

	err := service.Validate(categories, 8000)
	require.Error(t, err)

	var mismatch *status.CapacityMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 8000, mismatch.Expected)
	assert.Equal(t, 7999, mismatch.Actual)
}

func TestAllocatorService_Validate_UndershootIsAlsoMismatch(t *testing.T) {
	service := setupTestAllocator()

	categories := map[models.CategoryName]models.TicketCategory{
		models.CategoryRegular: {Name: models.CategoryRegular, Count: 10},
	}

	// "<= capacity" is not good enough, equality is required
	err := service.Validate(categories, 100)
	var mismatch *status.CapacityMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 10, mismatch.Actual)
}

func TestAllocatorService_Validate_InvalidInput(t *testing.T) {
	service := setupTestAllocator()

	t.Run("negative count", func(t *testing.T) {
		categories := map[models.CategoryName]models.TicketCategory{
			models.CategoryVIP: {Name: models.CategoryVIP, Count: -5},
		}
		assert.ErrorIs(t, service.Validate(categories, 100), status.ErrInvalidInput)
	})

	t.Run("negative capacity", func(t *testing.T) {
		assert.ErrorIs(t, service.Validate(nil, -1), status.ErrInvalidInput)
	})

	t.Run("unknown category", func(t *testing.T) {
		categories := map[models.CategoryName]models.TicketCategory{
			models.CategoryName("Platinum"): {Name: "Platinum", Count: 100},
		}
		assert.ErrorIs(t, service.Validate(categories, 100), status.ErrInvalidInput)
	})
}

func TestAllocatorService_Validate_ZeroCapacity(t *testing.T) {
	service := setupTestAllocator()

	empty := map[models.CategoryName]models.TicketCategory{
		models.CategoryVVIP: {Name: models.CategoryVVIP, Count: 0},
	}
	assert.NoError(t, service.Validate(empty, 0))

	nonEmpty := map[models.CategoryName]models.TicketCategory{
		models.CategoryVVIP: {Name: models.CategoryVVIP, Count: 1},
	}
	assert.Error(t, service.Validate(nonEmpty, 0))
}

func TestAllocatorService_ClampCount(t *testing.T) {
	service := setupTestAllocator()

	tests := []struct {
		name        string
		requested   int
		othersTotal int
		capacity    int
		expected    int
	}{
		{"within remaining", 500, 200, 1000, 500},
		{"exceeds remaining", 900, 200, 1000, 800},
		{"exactly remaining", 800, 200, 1000, 800},
		{"others already at capacity", 10, 1000, 1000, 0},
		{"others over capacity", 10, 1200, 1000, 0},
		{"negative request", -5, 0, 1000, 0},
		{"zero capacity", 10, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, service.ClampCount(tt.requested, tt.othersTotal, tt.capacity))
		})
	}
}
