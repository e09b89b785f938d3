// Package storage provides GORM-backed implementations of the engine's
// collaborator interfaces: the reminder ledger and the habit completion log.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dkellner/cadence/pkg/core"
)

// LedgerEntry is the persisted record that a reminder fired for one
// occurrence. Entries are append-only; stale rows age out naturally because
// past occurrences are never queried again.
type LedgerEntry struct {
	Key       string    `gorm:"primaryKey;size:255"`
	Value     string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// CompletionRecord marks whether an item was completed on one calendar day.
type CompletionRecord struct {
	ID        string    `gorm:"primaryKey;size:36"`
	ItemID    string    `gorm:"uniqueIndex:idx_completions_item_day;size:255;not null"`
	Day       time.Time `gorm:"uniqueIndex:idx_completions_item_day;not null"`
	Completed bool
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// GormLedger implements core.Ledger using GORM.
type GormLedger struct {
	db *gorm.DB
}

// NewGormLedger creates a GORM-backed reminder ledger.
func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db}
}

// Migrate creates the ledger table.
func (l *GormLedger) Migrate(ctx context.Context) error {
	return l.db.WithContext(ctx).AutoMigrate(&LedgerEntry{})
}

// Has reports whether key is present in the ledger.
func (l *GormLedger) Has(ctx context.Context, key string) (bool, error) {
	var entry LedgerEntry
	err := l.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Put records key. Writing an existing key is a no-op so a crash-replayed
// fire cannot error the poll body; the first write wins and keeps its value.
func (l *GormLedger) Put(ctx context.Context, key, value string) error {
	return l.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&LedgerEntry{Key: key, Value: value}).Error
}

// GormCompletionStore persists habit completion marks and serves read-only
// snapshots to the statistics functions.
type GormCompletionStore struct {
	db *gorm.DB
}

// NewGormCompletionStore creates a GORM-backed completion store.
func NewGormCompletionStore(db *gorm.DB) *GormCompletionStore {
	return &GormCompletionStore{db: db}
}

// Migrate creates the completions table.
func (s *GormCompletionStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&CompletionRecord{})
}

// SetCompleted upserts the completion mark for (itemID, day).
func (s *GormCompletionStore) SetCompleted(ctx context.Context, itemID string, day time.Time, completed bool) error {
	day = core.DayOf(day)

	var rec CompletionRecord
	err := s.db.WithContext(ctx).
		First(&rec, "item_id = ? AND day = ?", itemID, day).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rec = CompletionRecord{
			ID:        uuid.New().String(),
			ItemID:    itemID,
			Day:       day,
			Completed: completed,
		}
		return s.db.WithContext(ctx).Create(&rec).Error
	}
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).
		Model(&rec).
		Update("completed", completed).Error
}

// Snapshot loads all completion marks in [start, end] into memory and returns
// them as a pure core.CompletionLog for the stats package.
func (s *GormCompletionStore) Snapshot(ctx context.Context, start, end time.Time) (CompletionSet, error) {
	var recs []CompletionRecord
	err := s.db.WithContext(ctx).
		Where("day >= ? AND day <= ?", core.DayOf(start), core.DayOf(end)).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	set := make(CompletionSet, len(recs))
	for _, r := range recs {
		if r.Completed {
			set.Mark(r.ItemID, r.Day)
		}
	}
	return set, nil
}

// CompletionSet is an in-memory core.CompletionLog.
type CompletionSet map[string]struct{}

// Completed implements core.CompletionLog.
func (c CompletionSet) Completed(itemID string, day time.Time) bool {
	_, ok := c[completionKey(itemID, core.DayOf(day))]
	return ok
}

// Mark adds a completed day; handy for building fixtures.
func (c CompletionSet) Mark(itemID string, day time.Time) {
	c[completionKey(itemID, core.DayOf(day))] = struct{}{}
}

func completionKey(itemID string, day time.Time) string {
	return itemID + ":" + day.Format("2006-01-02")
}
