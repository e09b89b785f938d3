// Package occur answers "is this day a target occurrence" for habit rules
// and computes the next upcoming occurrence for cycle (countdown/anniversary)
// rules. All functions are pure.
package occur

import (
	"time"

	"github.com/dkellner/cadence/pkg/core"
)

// Guard against runaway stepping from pathological rule inputs.
const cycleStepCap = 1200

// IsTargetDay reports whether day is a target occurrence under the habit
// rule. A weekly rule with no selected weekdays never occurs, so an
// unconfigured habit cannot accidentally fire daily.
func IsTargetDay(r core.HabitRule, day time.Time) bool {
	switch r.Frequency {
	case core.FreqDaily:
		return true
	case core.FreqWeekdays:
		w := day.Weekday()
		return w >= time.Monday && w <= time.Friday
	case core.FreqWeekends:
		w := day.Weekday()
		return w == time.Saturday || w == time.Sunday
	case core.FreqWeekly:
		return r.HasWeekday(day.Weekday())
	default:
		return false
	}
}

// NextOccurrence returns the next occurrence of the cycle rule on-or-after
// today. A one-time rule (Interval == 0) returns its target date unchanged
// even when it lies in the past; callers decide how to treat past one-time
// events. Repeating rules step from the target date in Interval units of
// Unit, clamping month/year steps against the target's own day-of-month so
// repeated stepping does not drift.
func NextOccurrence(r core.CycleRule, today time.Time) time.Time {
	target := core.DayOf(r.Target)
	if r.Interval <= 0 {
		return target
	}

	day := core.DayOf(today)
	if !target.Before(day) {
		return target
	}

	// Day/week units fast-forward arithmetically; month/year units step under
	// a guard because their lengths vary.
	switch r.Unit {
	case core.UnitDay, core.UnitWeek:
		stepDays := r.Interval
		if r.Unit == core.UnitWeek {
			stepDays *= 7
		}
		days := core.DaysBetween(target, day)
		k := (days + stepDays - 1) / stepDays
		return target.AddDate(0, 0, k*stepDays)
	case core.UnitMonth, core.UnitYear:
		monthsPerStep := r.Interval
		if r.Unit == core.UnitYear {
			monthsPerStep *= 12
		}
		for k := 1; k <= cycleStepCap; k++ {
			d := addMonthsClamped(target, k*monthsPerStep)
			if !d.Before(day) {
				return d
			}
		}
	}
	return target
}

// DaysUntil returns the whole days from today to the rule's next occurrence,
// both sides truncated to midnight. Zero means the occurrence is today.
func DaysUntil(r core.CycleRule, today time.Time) int {
	return core.DaysBetween(today, NextOccurrence(r, today))
}

// addMonthsClamped always computes from the original target, so a month-end
// target stays on month-end instead of drifting.
func addMonthsClamped(base time.Time, months int) time.Time {
	first := time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, base.Location())
	first = first.AddDate(0, months, 0)

	day := base.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, base.Location())
}
