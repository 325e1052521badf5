package reclassify

import (
	"encoding/json"
	"errors"
	"fmt"

	"tally/internal/model"
)

// ErrMalformedResponse marks a classifier payload that failed structural
// validation. The batch is skipped; the run continues.
var ErrMalformedResponse = errors.New("malformed classifier response")

// batchResponse is a structurally validated classifier reply for one batch.
type batchResponse struct {
	Changes          []model.Change
	NewSubcategories []string
}

// rawChange mirrors the wire shape with pointer fields so that missing keys
// are distinguishable from zero values. A missing or mistyped required field
// rejects the entire batch response.
type rawChange struct {
	TransactionID  *string  `json:"transaction_id"`
	NewCategory    *string  `json:"new_category"`
	NewSubcategory *string  `json:"new_subcategory"`
	NewDescription *string  `json:"new_description"`
	Confidence     *float64 `json:"confidence"`
}

type rawResponse struct {
	Changes          *[]rawChange `json:"changes"`
	NewSubcategories *[]string    `json:"new_subcategories"`
}

// parseBatchResponse parses and validates the raw text returned by the
// classifier. The shape is untrusted: any violation fails the whole batch
// rather than salvaging individual entries.
func parseBatchResponse(raw string) (*batchResponse, error) {
	var parsed rawResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if parsed.Changes == nil {
		return nil, fmt.Errorf("%w: missing changes list", ErrMalformedResponse)
	}
	if parsed.NewSubcategories == nil {
		return nil, fmt.Errorf("%w: missing new_subcategories list", ErrMalformedResponse)
	}

	changes := make([]model.Change, 0, len(*parsed.Changes))
	for i, rc := range *parsed.Changes {
		switch {
		case rc.TransactionID == nil || *rc.TransactionID == "":
			return nil, fmt.Errorf("%w: change %d missing transaction_id", ErrMalformedResponse, i)
		case rc.NewCategory == nil || *rc.NewCategory == "":
			return nil, fmt.Errorf("%w: change %d missing new_category", ErrMalformedResponse, i)
		case rc.Confidence == nil:
			return nil, fmt.Errorf("%w: change %d missing confidence", ErrMalformedResponse, i)
		}
		ch := model.Change{
			TransactionID:  *rc.TransactionID,
			NewCategory:    *rc.NewCategory,
			NewSubcategory: rc.NewSubcategory,
			NewDescription: rc.NewDescription,
			Confidence:     *rc.Confidence,
		}
		if err := ch.Validate(); err != nil {
			return nil, fmt.Errorf("%w: change %d: %v", ErrMalformedResponse, i, err)
		}
		changes = append(changes, ch)
	}

	return &batchResponse{
		Changes:          changes,
		NewSubcategories: *parsed.NewSubcategories,
	}, nil
}
