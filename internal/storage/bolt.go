// Package storage persists the expense set, the approved subcategory map and
// the audit log as three independently keyed JSON blobs in a BoltDB bucket.
// Every mutation is a full read-modify-write of one blob; there are no
// partial updates.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/boltdb/bolt"

	"tally/internal/model"
)

var bucketName = []byte("tally")

// Blob keys.
const (
	keyExpenses      = "expenses"
	keySubcategories = "subcategories"
	keyAudit         = "audit"
)

// BoltStore is the file-backed implementation of the blob store.
type BoltStore struct {
	db     *bolt.DB
	logger *slog.Logger
}

// Open opens (or creates) the store at path.
func Open(path string, logger *slog.Logger) (*BoltStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, berr := tx.CreateBucketIfNotExists(bucketName)
		return berr
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &BoltStore{db: db, logger: logger}, nil
}

// Close releases the underlying database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) load(ctx context.Context, key string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketName).Get([]byte(key))
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("corrupt %s blob: %w", key, err)
		}
		return nil
	})
}

func (s *BoltStore) persist(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s blob: %w", key, err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), raw)
	})
	if err != nil {
		return fmt.Errorf("failed to persist %s blob: %w", key, err)
	}
	s.logger.Debug("persisted blob", "key", key, "bytes", len(raw))
	return nil
}

// GetExpenses returns the full expense set, empty when nothing is stored.
func (s *BoltStore) GetExpenses(ctx context.Context) ([]model.Expense, error) {
	var expenses []model.Expense
	if err := s.load(ctx, keyExpenses, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// SaveExpenses replaces the full expense set in a single write.
func (s *BoltStore) SaveExpenses(ctx context.Context, expenses []model.Expense) error {
	return s.persist(ctx, keyExpenses, expenses)
}

// GetSubcategories returns the approved subcategory map.
func (s *BoltStore) GetSubcategories(ctx context.Context) (model.SubcategoryMap, error) {
	m := model.SubcategoryMap{}
	if err := s.load(ctx, keySubcategories, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// SaveSubcategories replaces the subcategory map.
func (s *BoltStore) SaveSubcategories(ctx context.Context, m model.SubcategoryMap) error {
	return s.persist(ctx, keySubcategories, m)
}

// GetAuditLog returns the audit log, most recent first.
func (s *BoltStore) GetAuditLog(ctx context.Context) (model.AuditLog, error) {
	var log model.AuditLog
	if err := s.load(ctx, keyAudit, &log); err != nil {
		return nil, err
	}
	return log, nil
}

// AppendAuditEvent prepends an event, applying the retention cap.
func (s *BoltStore) AppendAuditEvent(ctx context.Context, event model.AuditEvent) error {
	log, err := s.GetAuditLog(ctx)
	if err != nil {
		return err
	}
	return s.persist(ctx, keyAudit, log.Append(event))
}
