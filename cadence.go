// Package cadence turns declarative repeat rules on calendar items into
// concrete time instances, detects overlap conflicts between instances,
// aggregates habit streaks and completion reports, and drives idempotent
// at-most-once reminders from a polling scheduler.
//
// This is the main package users should import. It re-exports the public
// types from the pkg/ packages for a clean API surface.
//
// Basic usage:
//
//	// Durable collaborators
//	db, _ := gorm.Open(sqlite.Open("cadence.db"), &gorm.Config{TranslateError: true})
//	ledger := cadence.NewGormLedger(db)
//	ledger.Migrate(context.Background())
//
//	// Expand a window for rendering
//	instances := cadence.Expand(item, weekStart, weekEnd)
//
//	// Run reminders
//	sched := cadence.NewScheduler(source, ledger, notifier,
//	    cadence.PollEvery(time.Minute))
//	sched.Start()
//	defer sched.Stop()
package cadence

import (
	"time"

	"gorm.io/gorm"

	"github.com/dkellner/cadence/pkg/conflict"
	"github.com/dkellner/cadence/pkg/core"
	"github.com/dkellner/cadence/pkg/expand"
	"github.com/dkellner/cadence/pkg/ical"
	"github.com/dkellner/cadence/pkg/occur"
	"github.com/dkellner/cadence/pkg/scheduler"
	"github.com/dkellner/cadence/pkg/stats"
	"github.com/dkellner/cadence/pkg/storage"
)

// Type aliases for the domain model
type (
	// Kind identifies how a schedule-style item repeats.
	Kind = core.Kind

	// Unit is the step unit for cycle-style repeats.
	Unit = core.Unit

	// Frequency describes which calendar days a habit targets.
	Frequency = core.Frequency

	// Period is the time-of-day bucket a habit belongs to.
	Period = core.Period

	// Rule is the closed set of recurrence encodings.
	Rule = core.Rule

	// RepeatRule describes a free-form repeat attached to a ScheduleItem.
	RepeatRule = core.RepeatRule

	// CycleRule describes a countdown/anniversary repeat.
	CycleRule = core.CycleRule

	// HabitRule describes which days a habit is due.
	HabitRule = core.HabitRule

	// ScheduleItem is a calendar item with an optional repeat rule.
	ScheduleItem = core.ScheduleItem

	// CycleItem is a countdown/anniversary item.
	CycleItem = core.CycleItem

	// Habit is a recurring practice tracked against a completion log.
	Habit = core.Habit

	// Instance is one concrete materialization of a repeating item.
	Instance = core.Instance

	// Reminder is the payload handed to an in-process reminder callback.
	Reminder = core.Reminder

	// DataSource supplies the current full item set on each poll.
	DataSource = core.DataSource

	// Ledger is the persisted reminder de-duplication record.
	Ledger = core.Ledger

	// Notifier delivers a reminder to the outside world.
	Notifier = core.Notifier

	// CompletionLog answers whether an item was completed on a day.
	CompletionLog = core.CompletionLog

	// Scheduler polls a data source and drives at-most-once reminders.
	Scheduler = scheduler.Scheduler

	// SchedulerOption configures a Scheduler.
	SchedulerOption = scheduler.Option

	// Report summarizes habit completion over an inclusive day range.
	Report = stats.Report

	// Detail is the per-habit section of a Report.
	Detail = stats.Detail

	// DayPoint is one entry in a report's day-by-day series.
	DayPoint = stats.DayPoint

	// PeriodTotals aggregates counts for one time-of-day bucket.
	PeriodTotals = stats.PeriodTotals

	// GormLedger is the GORM-backed Ledger implementation.
	GormLedger = storage.GormLedger

	// GormCompletionStore persists habit completion marks.
	GormCompletionStore = storage.GormCompletionStore

	// CompletionSet is an in-memory CompletionLog.
	CompletionSet = storage.CompletionSet
)

// Repeat kinds
const (
	KindNone    = core.KindNone
	KindDaily   = core.KindDaily
	KindWeekly  = core.KindWeekly
	KindMonthly = core.KindMonthly
	KindYearly  = core.KindYearly
)

// Cycle units
const (
	UnitDay   = core.UnitDay
	UnitWeek  = core.UnitWeek
	UnitMonth = core.UnitMonth
	UnitYear  = core.UnitYear
)

// Habit frequencies
const (
	FreqDaily    = core.FreqDaily
	FreqWeekdays = core.FreqWeekdays
	FreqWeekends = core.FreqWeekends
	FreqWeekly   = core.FreqWeekly
)

// Time-of-day buckets
const (
	PeriodMorning   = core.PeriodMorning
	PeriodAfternoon = core.PeriodAfternoon
	PeriodEvening   = core.PeriodEvening
	PeriodAnytime   = core.PeriodAnytime
)

// Error variables
var (
	ErrAlreadyRunning = core.ErrAlreadyRunning
)

// Expand materializes item's occurrences inside the inclusive calendar-day
// window [rangeStart, rangeEnd].
func Expand(item ScheduleItem, rangeStart, rangeEnd time.Time) []Instance {
	return expand.Expand(item, rangeStart, rangeEnd)
}

// IsTargetDay reports whether day is a target occurrence under the habit rule.
func IsTargetDay(r HabitRule, day time.Time) bool {
	return occur.IsTargetDay(r, day)
}

// NextOccurrence returns the next occurrence of the cycle rule on-or-after today.
func NextOccurrence(r CycleRule, today time.Time) time.Time {
	return occur.NextOccurrence(r, today)
}

// DaysUntil returns the whole days from today to the rule's next occurrence.
func DaysUntil(r CycleRule, today time.Time) int {
	return occur.DaysUntil(r, today)
}

// FindConflicts returns the same-day instances whose interval overlaps the
// candidate's, excluding excludeID and the candidate occurrence itself.
func FindConflicts(dayInstances []Instance, candidate Instance, excludeID string) []Instance {
	return conflict.Find(dayInstances, candidate, excludeID)
}

// StreakOf counts consecutive completed target days backward from asOf.
func StreakOf(h Habit, log CompletionLog, asOf time.Time) int {
	return stats.Streak(h, log, asOf)
}

// ReportForRange summarizes habit completion over [start, end].
func ReportForRange(habits []Habit, log CompletionLog, start, end time.Time) Report {
	return stats.ReportForRange(habits, log, start, end)
}

// WeekReport reports over the ISO week containing day.
func WeekReport(habits []Habit, log CompletionLog, day time.Time) Report {
	return stats.WeekReport(habits, log, day)
}

// MonthReport reports over the calendar month containing day.
func MonthReport(habits []Habit, log CompletionLog, day time.Time) Report {
	return stats.MonthReport(habits, log, day)
}

// YearReport reports over the calendar year containing day.
func YearReport(habits []Habit, log CompletionLog, day time.Time) Report {
	return stats.YearReport(habits, log, day)
}

// NewScheduler creates a reminder scheduler.
func NewScheduler(source DataSource, ledger Ledger, notifier Notifier, opts ...SchedulerOption) *Scheduler {
	return scheduler.New(source, ledger, notifier, opts...)
}

// NewGormLedger creates a GORM-backed reminder ledger.
func NewGormLedger(db *gorm.DB) *GormLedger {
	return storage.NewGormLedger(db)
}

// NewGormCompletionStore creates a GORM-backed completion store.
func NewGormCompletionStore(db *gorm.DB) *GormCompletionStore {
	return storage.NewGormCompletionStore(db)
}

// ExportICS renders items as an iCalendar document.
func ExportICS(items []ScheduleItem, rangeStart, rangeEnd time.Time) string {
	return ical.Export(items, rangeStart, rangeEnd)
}

// Scheduler option functions

// PollEvery sets the fixed poll cadence.
func PollEvery(d time.Duration) SchedulerOption {
	return scheduler.PollEvery(d)
}

// PollCron sets the poll cadence from a five-field cron expression.
func PollCron(expr string) SchedulerOption {
	return scheduler.PollCron(expr)
}

// Window sets the forward expansion window for schedule instances.
func Window(d time.Duration) SchedulerOption {
	return scheduler.Window(d)
}

// OnReminder registers an in-process callback invoked before the
// notification sink.
func OnReminder(fn func(Reminder)) SchedulerOption {
	return scheduler.OnReminder(fn)
}
