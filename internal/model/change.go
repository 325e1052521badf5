package model

import "fmt"

// Change is a single reclassification proposal returned by the classifier.
// It is ephemeral: proposals live only between a run and the user's
// approve/reject decision.
type Change struct {
	NewSubcategory *string `json:"new_subcategory"`
	NewDescription *string `json:"new_description"`
	TransactionID  string  `json:"transaction_id"`
	NewCategory    string  `json:"new_category"`
	Confidence     float64 `json:"confidence"`
}

// Validate checks structural sanity of a proposal. Category membership and
// the confidence threshold are enforced separately by the orchestrator's
// filtering gate.
func (c *Change) Validate() error {
	if c.TransactionID == "" {
		return fmt.Errorf("transaction id is required")
	}
	if c.NewCategory == "" {
		return fmt.Errorf("new category is required")
	}
	if c.Confidence < 0.0 || c.Confidence > 1.0 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0, got %.2f", c.Confidence)
	}
	return nil
}
