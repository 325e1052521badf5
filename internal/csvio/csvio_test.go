package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/model"
)

const sampleCSV = `date,amount,category,subcategory,details,paidBy
2025-04-01,23.50,Food,Groceries,farmers market,
2025-04-03,9.00,Transport,,bus pass,alex
`

func TestImport(t *testing.T) {
	expenses, err := Import(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, expenses, 2)

	first := expenses[0]
	assert.NotEmpty(t, first.ID, "imported rows get fresh ids")
	assert.Equal(t, "2025-04-01", first.Date)
	assert.InDelta(t, 23.50, first.Amount, 1e-9)
	assert.Equal(t, "Groceries", first.Subcategory)
	assert.Equal(t, model.DefaultOwner, first.PaidBy, "empty paidBy defaults to owner")
	assert.False(t, first.CreatedAt.IsZero())
	assert.Empty(t, first.OriginalPrompt)

	assert.Equal(t, "alex", expenses[1].PaidBy)
	assert.NotEqual(t, expenses[0].ID, expenses[1].ID)
}

func TestImport_Rejections(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty file", ""},
		{"wrong header", "when,how much\n2025-01-01,5\n"},
		{"bad amount", "date,amount,category,subcategory,details,paidBy\n2025-01-01,lots,Food,,x,\n"},
		{"bad date", "date,amount,category,subcategory,details,paidBy\njanuary,5,Food,,x,\n"},
		{"unknown category", "date,amount,category,subcategory,details,paidBy\n2025-01-01,5,Crypto,,x,\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(strings.NewReader(tt.csv))
			assert.Error(t, err)
		})
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	original, err := Import(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, original))

	reimported, err := Import(&buf)
	require.NoError(t, err)
	require.Len(t, reimported, len(original))
	for i := range original {
		assert.Equal(t, original[i].Date, reimported[i].Date)
		assert.Equal(t, original[i].Amount, reimported[i].Amount)
		assert.Equal(t, original[i].Category, reimported[i].Category)
		assert.Equal(t, original[i].Subcategory, reimported[i].Subcategory)
		assert.Equal(t, original[i].Details, reimported[i].Details)
		assert.Equal(t, original[i].PaidBy, reimported[i].PaidBy)
	}
}
