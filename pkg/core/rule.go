// Package core provides the domain models and collaborator interfaces for the
// cadence engine.
package core

import "time"

// Kind identifies how a schedule-style item repeats.
type Kind string

const (
	KindNone    Kind = ""
	KindDaily   Kind = "daily"
	KindWeekly  Kind = "weekly"
	KindMonthly Kind = "monthly"
	KindYearly  Kind = "yearly"
)

// Unit is the step unit for cycle-style (countdown/anniversary) repeats.
type Unit string

const (
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
	UnitYear  Unit = "year"
)

// Frequency describes which calendar days a habit targets.
type Frequency string

const (
	FreqDaily    Frequency = "daily"
	FreqWeekdays Frequency = "weekdays"
	FreqWeekends Frequency = "weekends"
	FreqWeekly   Frequency = "weekly"
)

// Rule is the closed set of recurrence encodings understood by the engine.
// Exactly three types implement it: RepeatRule, CycleRule and HabitRule.
type Rule interface {
	isRule()
}

// RepeatRule describes a free-form repeat attached to a ScheduleItem.
//
// Interval is the step between occurrences in units of Kind; the zero value
// means 1. Until, when set, is an inclusive calendar-day upper bound on
// generated occurrences. Weekdays is honored only for KindWeekly; when empty
// the anchor day's weekday is used.
type RepeatRule struct {
	Kind     Kind
	Interval int
	Until    *time.Time
	Weekdays []time.Weekday
}

func (RepeatRule) isRule() {}

// CycleRule describes a countdown/anniversary repeat. Interval == 0 means a
// one-time event; Interval > 0 steps from Target in units of Unit. LeadDays
// is how many days before an occurrence its reminder window opens.
type CycleRule struct {
	Target   time.Time
	Interval int
	Unit     Unit
	LeadDays int
}

func (CycleRule) isRule() {}

// HabitRule describes which days a habit is due. Weekdays is honored only for
// FreqWeekly; a weekly rule with no selected weekdays never occurs.
type HabitRule struct {
	Frequency Frequency
	Weekdays  []time.Weekday
}

func (HabitRule) isRule() {}

// HasWeekday reports whether d is in the rule's weekly target set.
func (r HabitRule) HasWeekday(d time.Weekday) bool {
	for _, w := range r.Weekdays {
		if w == d {
			return true
		}
	}
	return false
}
