// Package scheduler runs the reminder polling loop.
//
// A Scheduler owns a single timer. On each tick it asks the data source for
// the current item set, expands near-future occurrences, and fires each due
// reminder exactly once, de-duplicated through a persisted ledger keyed by
// (item, occurrence start). Ticks never run concurrently: a tick arriving
// while the previous poll body is still running is skipped.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dkellner/cadence/pkg/core"
	"github.com/dkellner/cadence/pkg/expand"
	"github.com/dkellner/cadence/pkg/occur"
	"github.com/dkellner/cadence/pkg/validate"
)

const dayKeyFormat = "2006-01-02"

// Scheduler polls a data source and drives at-most-once reminder delivery.
type Scheduler struct {
	source   core.DataSource
	ledger   core.Ledger
	notifier core.Notifier
	cfg      Config
	logger   *slog.Logger

	mu      sync.Mutex // guards running state
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	pollMu sync.Mutex // serializes poll bodies across ticks
}

// New creates a scheduler. The data source, ledger and notifier are required
// collaborators; behavior is tuned through options.
func New(source core.DataSource, ledger core.Ledger, notifier core.Notifier, opts ...Option) *Scheduler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	return &Scheduler{
		source:   source,
		ledger:   ledger,
		notifier: notifier,
		cfg:      cfg,
		logger:   cfg.Logger,
	}
}

// Start launches the polling loop in its own goroutine. It returns
// core.ErrAlreadyRunning if the scheduler is already started.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return core.ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.run(ctx)
	return nil
}

// Stop cancels the timer and waits for an in-flight poll to finish. It is
// idempotent and safe to call on a scheduler that was never started.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	now := s.cfg.Clock()
	timer := time.NewTimer(s.nextTickIn(now))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			now = s.cfg.Clock()
			s.poll(ctx, now)
			timer.Reset(s.nextTickIn(s.cfg.Clock()))
		}
	}
}

// nextTickIn returns the wait before the next poll, honoring a cron cadence
// when one is configured.
func (s *Scheduler) nextTickIn(now time.Time) time.Duration {
	if s.cfg.Cron != nil {
		d := s.cfg.Cron.Next(now).Sub(now)
		if d <= 0 {
			d = time.Second
		}
		return d
	}
	return s.cfg.PollInterval
}

// poll runs one tick. A tick overlapping a still-running poll body is
// skipped rather than run concurrently, because the ledger read-then-write
// is not atomic across entries.
func (s *Scheduler) poll(ctx context.Context, now time.Time) {
	if !s.pollMu.TryLock() {
		s.logger.Warn("poll still running, skipping tick")
		return
	}
	defer s.pollMu.Unlock()

	s.pollSchedules(ctx, now)
	s.pollCycles(ctx, now)
}

func (s *Scheduler) pollSchedules(ctx context.Context, now time.Time) {
	items, err := s.source.Schedules(ctx)
	if err != nil {
		// Retry on the next tick; a failing source never stops the timer.
		s.logger.Error("fetching schedule items failed", "error", err)
		return
	}

	for _, item := range items {
		if item.ReminderLead == nil {
			continue
		}
		lead := *item.ReminderLead
		if lead < 0 {
			lead = 0
		}

		for _, inst := range expand.Expand(item, now, now.Add(s.cfg.Window)) {
			due := inst.Start.Add(-lead)
			if now.Before(due) {
				continue // not yet due
			}
			if !now.Before(inst.Start) {
				continue // already started, never fire late
			}

			body := fmt.Sprintf("Starts at %s", inst.Start.Format("15:04"))
			if item.Location != "" {
				body += " · " + item.Location
			}
			s.fire(ctx, inst.Key(), core.Reminder{
				ItemID:   item.ID,
				Start:    inst.Start,
				Title:    item.Title,
				DueLabel: inst.Start.Format("15:04"),
				Location: item.Location,
			}, body)
		}
	}
}

// pollCycles is the day-granularity variant for countdown items: within the
// lead window it fires at most once per calendar day, keyed by
// (item, day string) rather than an instant.
func (s *Scheduler) pollCycles(ctx context.Context, now time.Time) {
	items, err := s.source.Cycles(ctx)
	if err != nil {
		s.logger.Error("fetching cycle items failed", "error", err)
		return
	}

	today := core.DayOf(now)
	for _, item := range items {
		next := occur.NextOccurrence(item.Rule, today)
		windowStart := next.AddDate(0, 0, -item.Rule.LeadDays)
		if today.Before(windowStart) || today.After(next) {
			continue
		}

		days := occur.DaysUntil(item.Rule, today)
		var body string
		switch days {
		case 0:
			body = "Today"
		case 1:
			body = "Tomorrow"
		default:
			body = fmt.Sprintf("In %d days (%s)", days, next.Format("Jan 2"))
		}

		key := item.ID + ":" + today.Format(dayKeyFormat)
		s.fire(ctx, key, core.Reminder{
			ItemID:   item.ID,
			Start:    next,
			Title:    item.Title,
			DueLabel: next.Format(dayKeyFormat),
		}, body)
	}
}

// fire delivers one reminder at most once. The ledger entry is written even
// when notification delivery fails: at-most-once beats retry-may-duplicate.
func (s *Scheduler) fire(ctx context.Context, key string, r core.Reminder, body string) {
	has, err := s.ledger.Has(ctx, key)
	if err != nil {
		s.logger.Error("ledger lookup failed", "key", key, "error", err)
		return
	}
	if has {
		return
	}

	if s.cfg.OnReminder != nil {
		s.cfg.OnReminder(r)
	}

	title := validate.SanitizeTitle(r.Title)
	if err := s.notifier.Notify(ctx, title, validate.SanitizeBody(body)); err != nil {
		s.logger.Error("notification failed", "item_id", r.ItemID, "error", err)
	}

	if err := s.ledger.Put(ctx, key, "fired"); err != nil {
		s.logger.Error("ledger write failed", "key", key, "error", err)
		return
	}
	s.logger.Debug("reminder fired", "item_id", r.ItemID, "key", key)
}
