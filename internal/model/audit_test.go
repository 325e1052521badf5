package model

import (
	"fmt"
	"testing"
	"time"
)

func TestAuditLog_Append(t *testing.T) {
	var log AuditLog

	log = log.Append(AuditEvent{Type: EventReclassificationApplied, Timestamp: time.Now(), Scope: "first"})
	log = log.Append(AuditEvent{Type: EventReclassificationUndone, Timestamp: time.Now(), Scope: "second"})

	if len(log) != 2 {
		t.Fatalf("got %d entries, want 2", len(log))
	}
	if log[0].Scope != "second" {
		t.Errorf("newest entry should be first, got %q", log[0].Scope)
	}
}

func TestAuditLog_AppendEvictsBeyondCap(t *testing.T) {
	var log AuditLog
	for i := 0; i < MaxAuditEntries+10; i++ {
		log = log.Append(AuditEvent{
			Type:  EventReclassificationApplied,
			Scope: fmt.Sprintf("run-%d", i),
		})
	}

	if len(log) != MaxAuditEntries {
		t.Fatalf("got %d entries, want cap %d", len(log), MaxAuditEntries)
	}
	if log[0].Scope != fmt.Sprintf("run-%d", MaxAuditEntries+9) {
		t.Errorf("newest entry missing, got %q", log[0].Scope)
	}
	// Oldest surviving entry is the cap-th most recent.
	if log[len(log)-1].Scope != "run-10" {
		t.Errorf("eviction kept wrong tail entry: %q", log[len(log)-1].Scope)
	}
}
