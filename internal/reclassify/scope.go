// Package reclassify implements the AI-assisted batch reclassification
// engine: scope selection, date-windowed batching, grounded prompt
// construction, the per-batch fallback state machine, response validation,
// and the apply/undo transaction over the persisted expense set.
package reclassify

import (
	"fmt"
	"strconv"
	"time"

	"tally/internal/model"
)

// Scope selects which expenses are candidates for a run: the whole set, or
// only those dated within the last Days days.
type Scope struct {
	Days int
	All  bool
}

// ScopeAll covers the entire expense history.
var ScopeAll = Scope{All: true}

// LastDays scopes a run to the last n days.
func LastDays(n int) Scope {
	return Scope{Days: n}
}

// ParseScope accepts "all" or a positive day count.
func ParseScope(s string) (Scope, error) {
	if s == "" || s == "all" {
		return ScopeAll, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return Scope{}, fmt.Errorf("invalid scope %q (use \"all\" or a positive number of days)", s)
	}
	return LastDays(n), nil
}

// String renders the scope for audit metadata and logs.
func (s Scope) String() string {
	if s.All {
		return "all"
	}
	return fmt.Sprintf("last-%d-days", s.Days)
}

// ScopedExpenses returns the subset of expenses the scope covers. The full
// set is returned unfiltered (same order, same cardinality) for ScopeAll.
func ScopedExpenses(expenses []model.Expense, scope Scope) []model.Expense {
	return scopedExpenses(expenses, scope, time.Now().Format(model.DateLayout))
}

// scopedExpenses is the clock-injected implementation. Dates are zero-padded
// ISO strings, so the cutoff comparison is a plain string compare.
func scopedExpenses(expenses []model.Expense, scope Scope, today string) []model.Expense {
	if scope.All {
		return expenses
	}
	day, err := time.Parse(model.DateLayout, today)
	if err != nil {
		return nil
	}
	cutoff := day.AddDate(0, 0, -scope.Days).Format(model.DateLayout)

	scoped := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Date >= cutoff {
			scoped = append(scoped, e)
		}
	}
	return scoped
}
