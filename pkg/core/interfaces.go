package core

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors.
var (
	ErrAlreadyRunning = errors.New("cadence: scheduler already running")
)

// DataSource supplies the current full set of reminder-bearing items on each
// poll. The engine never fetches incrementally.
type DataSource interface {
	Schedules(ctx context.Context) ([]ScheduleItem, error)
	Cycles(ctx context.Context) ([]CycleItem, error)
}

// Ledger is the persisted de-duplication record preventing a reminder from
// firing more than once for the same occurrence. Keys are plain strings;
// entries are append-only and never deleted by the engine.
type Ledger interface {
	Has(ctx context.Context, key string) (bool, error)
	Put(ctx context.Context, key, value string) error
}

// Notifier delivers a reminder to the outside world. Delivery is best effort:
// a failed Notify does not prevent the ledger entry from being written.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// CompletionLog answers whether an item was completed on a calendar day. It is
// a read-only snapshot so the statistics functions stay pure; see
// pkg/storage for a durable implementation.
type CompletionLog interface {
	Completed(itemID string, day time.Time) bool
}

// Reminder is the payload handed to an in-process reminder callback, invoked
// from the poll body before the notification sink.
type Reminder struct {
	ItemID   string
	Start    time.Time
	Title    string
	DueLabel string
	Location string
}
