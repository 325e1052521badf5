// Package model defines the domain types shared across the application.
package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for expense dates. Dates are
// zero-padded ISO strings, so lexicographic comparison orders them correctly.
const DateLayout = "2006-01-02"

// DefaultOwner is the paidBy label used when none is supplied.
const DefaultOwner = "me"

// Expense is a single persisted expense record.
//
// ID, CreatedAt and OriginalPrompt are immutable after creation; no update
// path, including reclassification, may overwrite them.
type Expense struct {
	CreatedAt      time.Time `json:"createdAt"`
	ID             string    `json:"id"`
	Date           string    `json:"date"`
	Category       string    `json:"category"`
	Subcategory    string    `json:"subcategory,omitempty"`
	Details        string    `json:"details"`
	PaidBy         string    `json:"paidBy"`
	OriginalPrompt string    `json:"original_prompt,omitempty"`
	Amount         float64   `json:"amount"`
}

// Validate checks the fields a user can get wrong on entry.
func (e *Expense) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("expense id is required")
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", e.Date, err)
	}
	if e.Amount < 0 {
		return fmt.Errorf("amount must be non-negative, got %.2f", e.Amount)
	}
	if !IsAllowedCategory(e.Category) {
		return fmt.Errorf("unknown category %q", e.Category)
	}
	return nil
}
