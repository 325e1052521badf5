package reclassify

import (
	"sort"
	"time"

	"tally/internal/model"
)

// DefaultWindowDays is the widest date span a single batch may cover. Small
// windows keep each classifier request comfortably inside the call timeout.
const DefaultWindowDays = 10

// splitBatches stable-sorts expenses by date and partitions them into
// contiguous windows no wider than windowDays. Each batch is anchored at its
// first expense's date; an expense more than windowDays past the anchor
// closes the batch and starts the next one. Empty input yields zero batches.
func splitBatches(expenses []model.Expense, windowDays int) [][]model.Expense {
	if len(expenses) == 0 {
		return nil
	}
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	sorted := make([]model.Expense, len(expenses))
	copy(sorted, expenses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	var batches [][]model.Expense
	var current []model.Expense
	var anchor time.Time

	for _, e := range sorted {
		day, err := time.Parse(model.DateLayout, e.Date)
		if err != nil {
			// Unparseable dates cannot participate in window arithmetic;
			// isolate them as their own anchor.
			day = time.Time{}
		}
		if len(current) == 0 || day.IsZero() || anchor.IsZero() ||
			day.Sub(anchor) > time.Duration(windowDays)*24*time.Hour {
			if len(current) > 0 {
				batches = append(batches, current)
			}
			current = []model.Expense{e}
			anchor = day
			continue
		}
		current = append(current, e)
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}
