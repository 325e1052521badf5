package model

import "time"

// AuditEventType tags an audit log entry.
type AuditEventType string

// Audit event types.
const (
	EventReclassificationApplied AuditEventType = "reclassification-applied"
	EventReclassificationUndone  AuditEventType = "reclassification-undone"
	EventExpensesImported        AuditEventType = "expenses-imported"
)

// MaxAuditEntries bounds the persisted audit log. The log is
// most-recent-first; entries beyond the cap are evicted from the tail.
const MaxAuditEntries = 100

// AuditEvent records a reclassification run, its reversal, or an import.
type AuditEvent struct {
	Timestamp           time.Time      `json:"timestamp"`
	Type                AuditEventType `json:"type"`
	Mode                string         `json:"mode,omitempty"`
	Scope               string         `json:"scope,omitempty"`
	ChangedCount        int            `json:"changedCount,omitempty"`
	NewSubcategoryCount int            `json:"newSubcategoryCount,omitempty"`
}

// AuditLog is the bounded, most-recent-first event log.
type AuditLog []AuditEvent

// Append prepends an event and evicts the oldest entries beyond the cap.
func (l AuditLog) Append(e AuditEvent) AuditLog {
	out := make(AuditLog, 0, len(l)+1)
	out = append(out, e)
	out = append(out, l...)
	if len(out) > MaxAuditEntries {
		out = out[:MaxAuditEntries]
	}
	return out
}
