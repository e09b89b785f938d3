package core

import (
	"fmt"
	"math"
	"time"
)

// Period is the time-of-day bucket a habit belongs to, used for report
// aggregation.
type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
	PeriodEvening   Period = "evening"
	PeriodAnytime   Period = "anytime"
)

// ScheduleItem is a calendar item with an optional repeat rule.
//
// Start carries both the anchor calendar day (the first occurrence) and the
// wall-clock time-of-day that every generated instance inherits. End, when
// set, supplies the instance end time-of-day the same way. ReminderLead, when
// set, makes the item reminder-bearing: each instance's reminder becomes due
// that long before the instance starts.
type ScheduleItem struct {
	ID           string
	Title        string
	Location     string
	Start        time.Time
	End          *time.Time
	Repeat       RepeatRule
	ReminderLead *time.Duration
}

// CycleItem is a countdown/anniversary item driven by a CycleRule.
type CycleItem struct {
	ID    string
	Title string
	Rule  CycleRule
}

// Habit is a recurring practice tracked against a completion log.
type Habit struct {
	ID     string
	Title  string
	Rule   HabitRule
	Period Period
}

// Instance is one concrete materialization of a repeating item. Instances are
// produced fresh on every expansion and never mutated; two instances are the
// same occurrence iff they agree on (ItemID, Start).
type Instance struct {
	ItemID    string
	Date      time.Time // occurrence day at local midnight
	Start     time.Time
	End       *time.Time
	Recurring bool
}

// Key returns the ledger de-duplication key for this instance. The absolute
// start instant is part of the key so each occurrence of a repeating item gets
// an independent ledger slot.
func (i Instance) Key() string {
	return fmt.Sprintf("%s:%d", i.ItemID, i.Start.UnixMilli())
}

// Same reports whether o is the same occurrence as i.
func (i Instance) Same(o Instance) bool {
	return i.ItemID == o.ItemID && i.Start.Equal(o.Start)
}

// DayOf truncates t to local midnight of its calendar day.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from a to b, after
// truncating both to midnight. Negative when b is before a. Rounding absorbs
// the 23/25-hour days around DST transitions.
func DaysBetween(a, b time.Time) int {
	a, b = DayOf(a), DayOf(b)
	return int(math.Round(b.Sub(a).Hours() / 24))
}
