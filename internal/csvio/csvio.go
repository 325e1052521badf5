// Package csvio reads and writes the expense set as CSV.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"tally/internal/model"
)

var header = []string{"date", "amount", "category", "subcategory", "details", "paidBy"}

// Import parses expenses from r. The first row must be the canonical header.
// Imported rows get fresh ids and creation timestamps; they never carry an
// original prompt.
func Import(r io.Reader) ([]model.Expense, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV")
	}
	if len(records[0]) != len(header) {
		return nil, fmt.Errorf("expected header %v, got %v", header, records[0])
	}
	for i, col := range header {
		if records[0][i] != col {
			return nil, fmt.Errorf("expected header %v, got %v", header, records[0])
		}
	}

	expenses := make([]model.Expense, 0, len(records)-1)
	for i, row := range records[1:] {
		amount, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid amount %q: %w", i+2, row[1], err)
		}
		paidBy := row[5]
		if paidBy == "" {
			paidBy = model.DefaultOwner
		}
		e := model.Expense{
			ID:          uuid.NewString(),
			Date:        row[0],
			Amount:      amount,
			Category:    row[2],
			Subcategory: row[3],
			Details:     row[4],
			PaidBy:      paidBy,
			CreatedAt:   time.Now().UTC(),
		}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

// Export writes expenses to w in the canonical column order.
func Export(w io.Writer, expenses []model.Expense) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, e := range expenses {
		row := []string{
			e.Date,
			strconv.FormatFloat(e.Amount, 'f', 2, 64),
			e.Category,
			e.Subcategory,
			e.Details,
			e.PaidBy,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write expense %s: %w", e.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
