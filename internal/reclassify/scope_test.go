package reclassify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/model"
)

func expenseOn(id, date string) model.Expense {
	return model.Expense{ID: id, Date: date, Category: "Other", Amount: 1}
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		input   string
		want    Scope
		wantErr bool
	}{
		{"all", ScopeAll, false},
		{"", ScopeAll, false},
		{"30", LastDays(30), false},
		{"7", LastDays(7), false},
		{"0", Scope{}, true},
		{"-3", Scope{}, true},
		{"week", Scope{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseScope(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScopedExpenses_All(t *testing.T) {
	expenses := []model.Expense{
		expenseOn("a", "2020-01-01"),
		expenseOn("b", "2025-06-15"),
		expenseOn("c", "1999-12-31"),
	}

	got := scopedExpenses(expenses, ScopeAll, "2025-06-20")
	assert.Equal(t, expenses, got, "all scope returns the set unchanged, same order")
}

func TestScopedExpenses_LastDays(t *testing.T) {
	expenses := []model.Expense{
		expenseOn("old", "2025-05-01"),
		expenseOn("boundary", "2025-05-21"), // exactly today-30d
		expenseOn("recent", "2025-06-10"),
		expenseOn("today", "2025-06-20"),
	}

	got := scopedExpenses(expenses, LastDays(30), "2025-06-20")
	require.Len(t, got, 3)
	assert.Equal(t, "boundary", got[0].ID, "cutoff date itself is in scope")
	assert.Equal(t, "recent", got[1].ID)
	assert.Equal(t, "today", got[2].ID)
}

func TestScopedExpenses_Empty(t *testing.T) {
	assert.Empty(t, scopedExpenses(nil, LastDays(30), "2025-06-20"))
}
