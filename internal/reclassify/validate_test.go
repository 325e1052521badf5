package reclassify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBatchResponse_Valid(t *testing.T) {
	raw := `{
		"changes": [
			{
				"transaction_id": "e1",
				"new_category": "Food",
				"new_subcategory": "Groceries",
				"new_description": null,
				"confidence": 0.9
			},
			{
				"transaction_id": "e2",
				"new_category": "Transport",
				"new_subcategory": null,
				"new_description": "monthly metro pass",
				"confidence": 0.8
			}
		],
		"new_subcategories": ["Streaming"]
	}`

	resp, err := parseBatchResponse(raw)
	require.NoError(t, err)
	require.Len(t, resp.Changes, 2)

	first := resp.Changes[0]
	assert.Equal(t, "e1", first.TransactionID)
	assert.Equal(t, "Food", first.NewCategory)
	require.NotNil(t, first.NewSubcategory)
	assert.Equal(t, "Groceries", *first.NewSubcategory)
	assert.Nil(t, first.NewDescription)
	assert.InDelta(t, 0.9, first.Confidence, 1e-9)

	second := resp.Changes[1]
	assert.Nil(t, second.NewSubcategory)
	require.NotNil(t, second.NewDescription)
	assert.Equal(t, "monthly metro pass", *second.NewDescription)

	assert.Equal(t, []string{"Streaming"}, resp.NewSubcategories)
}

func TestParseBatchResponse_EmptyListsAreValid(t *testing.T) {
	resp, err := parseBatchResponse(`{"changes": [], "new_subcategories": []}`)
	require.NoError(t, err)
	assert.Empty(t, resp.Changes)
	assert.Empty(t, resp.NewSubcategories)
}

func TestParseBatchResponse_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not JSON", `here are your changes!`},
		{"truncated JSON", `{"changes": [`},
		{"missing changes", `{"new_subcategories": []}`},
		{"missing new_subcategories", `{"changes": []}`},
		{"change missing transaction_id", `{"changes":[{"new_category":"Food","confidence":0.9}],"new_subcategories":[]}`},
		{"change missing new_category", `{"changes":[{"transaction_id":"e1","confidence":0.9}],"new_subcategories":[]}`},
		{"change missing confidence", `{"changes":[{"transaction_id":"e1","new_category":"Food"}],"new_subcategories":[]}`},
		{"mistyped confidence", `{"changes":[{"transaction_id":"e1","new_category":"Food","confidence":"high"}],"new_subcategories":[]}`},
		{"mistyped transaction_id", `{"changes":[{"transaction_id":7,"new_category":"Food","confidence":0.9}],"new_subcategories":[]}`},
		{"empty transaction_id", `{"changes":[{"transaction_id":"","new_category":"Food","confidence":0.9}],"new_subcategories":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseBatchResponse(tt.raw)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestParseBatchResponse_UnknownCategoryPassesValidation(t *testing.T) {
	// Category membership is the orchestrator's filtering gate, not a
	// structural concern; the validator only checks shape.
	resp, err := parseBatchResponse(`{"changes":[{"transaction_id":"e1","new_category":"Bogus","confidence":1.0}],"new_subcategories":[]}`)
	require.NoError(t, err)
	require.Len(t, resp.Changes, 1)
	assert.Equal(t, "Bogus", resp.Changes[0].NewCategory)
}
