package reclassify

import (
	"context"

	"tally/internal/model"
)

// Store is the persistence contract the engine depends on. The BoltStore in
// internal/storage satisfies it; tests inject in-memory fakes.
type Store interface {
	GetExpenses(ctx context.Context) ([]model.Expense, error)
	SaveExpenses(ctx context.Context, expenses []model.Expense) error
	GetSubcategories(ctx context.Context) (model.SubcategoryMap, error)
	AppendAuditEvent(ctx context.Context, event model.AuditEvent) error
}

// Generator issues a single generation request against a named model. It is
// satisfied by gemini.Client.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Progress describes where a run is in its batch loop. Retrying is set when
// the current batch is being re-attempted against the fallback model.
type Progress struct {
	Current  int
	Total    int
	Retrying bool
}

// ProgressFunc receives a progress event before each batch attempt.
type ProgressFunc func(Progress)
