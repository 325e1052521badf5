package reclassify

import (
	"sort"
	"strings"

	"tally/internal/model"
)

// topMerchants bounds the merchant-frequency table sent with every prompt.
const topMerchants = 20

// MerchantCount pairs a normalized merchant string with its occurrence count
// across the in-scope expense set.
type MerchantCount struct {
	Merchant string
	Count    int
}

// merchantFrequency derives the top merchants by occurrence from the full
// in-scope set. It is computed once per run, not per batch, so the grounding
// signal stays consistent across all batches.
func merchantFrequency(expenses []model.Expense) []MerchantCount {
	counts := make(map[string]int)
	for _, e := range expenses {
		key := strings.ToLower(strings.TrimSpace(e.Details))
		if key == "" {
			continue
		}
		counts[key]++
	}

	merchants := make([]MerchantCount, 0, len(counts))
	for m, n := range counts {
		merchants = append(merchants, MerchantCount{Merchant: m, Count: n})
	}
	sort.Slice(merchants, func(i, j int) bool {
		if merchants[i].Count != merchants[j].Count {
			return merchants[i].Count > merchants[j].Count
		}
		return merchants[i].Merchant < merchants[j].Merchant
	})

	if len(merchants) > topMerchants {
		merchants = merchants[:topMerchants]
	}
	return merchants
}
