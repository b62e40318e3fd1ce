package services

import (
	"math"

	"event-manager/models"
)

// InventoryService computes derived ticket totals for display. Every method
// tolerates partial data: a missing categories map or an absent category
// contributes 0 rather than an error, since this is a read-only report path.
type InventoryService struct{}

func NewInventoryService() *InventoryService {
	return &InventoryService{}
}

// TotalForBlock sums the category counts of one block.
func (s *InventoryService) TotalForBlock(block models.TicketBlock) int {
	total := 0
	for _, category := range block.Categories {
		total += category.Count
	}
	return total
}

// TotalAcrossBlocks sums TotalForBlock over all blocks.
func (s *InventoryService) TotalAcrossBlocks(blocks []models.TicketBlock) int {
	total := 0
	for _, block := range blocks {
		total += s.TotalForBlock(block)
	}
	return total
}

// CategoryTotals sums counts per category name across all blocks.
func (s *InventoryService) CategoryTotals(blocks []models.TicketBlock) map[models.CategoryName]int {
	totals := make(map[models.CategoryName]int, len(models.Categories()))
	for _, name := range models.Categories() {
		totals[name] = 0
	}
	for _, block := range blocks {
		for name, category := range block.Categories {
			totals[name] += category.Count
		}
	}
	return totals
}

// PerEventTotals sums counts per event across all blocks.
func (s *InventoryService) PerEventTotals(blocks []models.TicketBlock) map[string]int {
	totals := make(map[string]int)
	for _, block := range blocks {
		totals[block.EventID] += s.TotalForBlock(block)
	}
	return totals
}

// UtilizationPercent reports block fill against venue capacity, rounded to
// the nearest integer. A zero capacity yields 0 instead of an error so the
// reporting views degrade gracefully.
func (s *InventoryService) UtilizationPercent(block models.TicketBlock, venueCapacity int) int {
	if venueCapacity <= 0 {
		return 0
	}
	return int(math.Round(float64(s.TotalForBlock(block)) / float64(venueCapacity) * 100))
}
