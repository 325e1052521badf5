package reclassify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tally/internal/model"
)

// Snapshot errors.
var (
	ErrSnapshotConsumed = errors.New("undo snapshot already consumed")
	ErrEmptySnapshot    = errors.New("nothing to undo")
)

// Snapshot holds the pre-image of every record an apply touched. It is a
// single-use capability: Apply returns it, Undo consumes it. It is never
// persisted; the caller decides how long to keep it before discarding.
type Snapshot struct {
	records  map[string]model.Expense
	consumed bool
}

// Len returns the number of records captured.
func (s *Snapshot) Len() int {
	return len(s.records)
}

// ApplyMetadata describes the run an apply belongs to, for the audit trail.
type ApplyMetadata struct {
	Mode                Mode
	Scope               Scope
	NewSubcategoryCount int
}

// Applier commits approved proposals to the store and reverts them.
type Applier struct {
	store  Store
	logger *slog.Logger
}

// NewApplier creates an applier over the given store.
func NewApplier(store Store, logger *slog.Logger) *Applier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Applier{store: store, logger: logger}
}

// Apply merges the user-approved changes into the persisted expense set.
// For each touched record it captures a pre-image before mutation, then
// overwrites category and subcategory, replaces the description only when
// the change supplies one, and leaves id, createdAt, paidBy and the original
// prompt untouched. The full updated set is persisted in a single write and
// an audit event is appended; once the save has succeeded an audit failure
// is logged rather than returned, so the snapshot always reaches the caller.
// The returned snapshot is the caller's handle for a later undo; changes
// referencing unknown or already-touched ids are ignored.
func (a *Applier) Apply(ctx context.Context, approved []model.Change, meta ApplyMetadata) (*Snapshot, int, error) {
	expenses, err := a.store.GetExpenses(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load expenses: %w", err)
	}

	index := make(map[string]int, len(expenses))
	for i, e := range expenses {
		index[e.ID] = i
	}

	snapshot := &Snapshot{records: make(map[string]model.Expense)}
	updated := 0

	for _, ch := range approved {
		i, ok := index[ch.TransactionID]
		if !ok {
			a.logger.Warn("approved change references unknown expense",
				"transaction_id", ch.TransactionID)
			continue
		}
		if _, seen := snapshot.records[ch.TransactionID]; seen {
			// The classifier is untrusted and may emit several changes for
			// one expense; the first approved change wins.
			a.logger.Warn("duplicate change for expense ignored",
				"transaction_id", ch.TransactionID)
			continue
		}
		snapshot.records[ch.TransactionID] = expenses[i]

		expenses[i].Category = ch.NewCategory
		if ch.NewSubcategory != nil {
			expenses[i].Subcategory = *ch.NewSubcategory
		} else {
			expenses[i].Subcategory = ""
		}
		if ch.NewDescription != nil && *ch.NewDescription != "" {
			expenses[i].Details = *ch.NewDescription
		}
		updated++
	}

	if err := a.store.SaveExpenses(ctx, expenses); err != nil {
		return nil, 0, fmt.Errorf("failed to persist reclassified expenses: %w", err)
	}

	event := model.AuditEvent{
		Type:                model.EventReclassificationApplied,
		Timestamp:           time.Now().UTC(),
		Mode:                string(meta.Mode),
		Scope:               meta.Scope.String(),
		ChangedCount:        updated,
		NewSubcategoryCount: meta.NewSubcategoryCount,
	}
	if err := a.store.AppendAuditEvent(ctx, event); err != nil {
		// The save is already durable; the caller still needs the snapshot
		// to be able to undo it.
		a.logger.Warn("failed to append audit event", "error", err)
	}

	a.logger.Info("reclassification applied",
		"changed", updated,
		"mode", meta.Mode,
		"scope", meta.Scope.String())

	return snapshot, updated, nil
}

// Undo restores every record in the snapshot to its pre-image by id and
// persists the result. Records not present in the snapshot are untouched.
// The snapshot is consumed; a second Undo fails. Edits made to a touched
// record between apply and undo are overwritten. The store assumes a single
// active writer.
func (a *Applier) Undo(ctx context.Context, snapshot *Snapshot) error {
	if snapshot == nil || len(snapshot.records) == 0 {
		return ErrEmptySnapshot
	}
	if snapshot.consumed {
		return ErrSnapshotConsumed
	}

	expenses, err := a.store.GetExpenses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}

	restored := 0
	for i, e := range expenses {
		if prev, ok := snapshot.records[e.ID]; ok {
			expenses[i] = prev
			restored++
		}
	}

	if err := a.store.SaveExpenses(ctx, expenses); err != nil {
		return fmt.Errorf("failed to persist undo: %w", err)
	}
	snapshot.consumed = true

	event := model.AuditEvent{
		Type:         model.EventReclassificationUndone,
		Timestamp:    time.Now().UTC(),
		ChangedCount: restored,
	}
	if err := a.store.AppendAuditEvent(ctx, event); err != nil {
		a.logger.Warn("failed to append audit event", "error", err)
	}

	a.logger.Info("reclassification undone", "restored", restored)
	return nil
}
