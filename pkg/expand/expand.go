// Package expand turns a repeating schedule item into concrete instances
// inside a bounded calendar-day window.
//
// Expansion is deterministic and pure: no I/O, no clock reads. Malformed
// rules and unusable dates degrade to zero instances so one bad item never
// blocks expansion of others.
package expand

import (
	"time"

	"github.com/dkellner/cadence/pkg/core"
)

// Iteration guards against rule/input anomalies. Monthly allows roughly 24
// years of stepping, yearly 20 steps; both are implementation constants, not
// part of the contract.
const (
	monthlyStepCap = 288
	yearlyStepCap  = 20
)

// Expand materializes item's occurrences whose calendar day falls inside the
// inclusive [rangeStart, rangeEnd] window. Time-of-day on every instance is
// re-anchored from the item's own Start/End clocks, so editing the item's
// hour once applies to all future instances.
func Expand(item core.ScheduleItem, rangeStart, rangeEnd time.Time) []core.Instance {
	if item.Start.IsZero() {
		return nil
	}

	rs := core.DayOf(rangeStart)
	re := core.DayOf(rangeEnd)
	if re.Before(rs) {
		return nil
	}

	rule := item.Repeat
	interval := rule.Interval
	if interval == 0 {
		interval = 1
	}
	if interval < 0 {
		return nil
	}

	// Until is an inclusive bound on occurrence days, even when it falls
	// inside the requested window.
	if rule.Until != nil {
		until := core.DayOf(*rule.Until)
		if until.Before(rs) {
			return nil
		}
		if until.Before(re) {
			re = until
		}
	}

	anchor := core.DayOf(item.Start)

	switch rule.Kind {
	case core.KindNone:
		if anchor.Before(rs) || anchor.After(re) {
			return nil
		}
		return []core.Instance{instanceOn(item, anchor, false)}
	case core.KindDaily:
		return expandDaily(item, anchor, interval, rs, re)
	case core.KindWeekly:
		return expandWeekly(item, anchor, interval, rs, re)
	case core.KindMonthly:
		return expandByMonths(item, anchor, interval, rs, re, monthlyStepCap)
	case core.KindYearly:
		return expandByMonths(item, anchor, 12*interval, rs, re, yearlyStepCap)
	default:
		return nil
	}
}

// expandDaily skips forward to the first occurrence on-or-after rs in one
// step, so cost tracks the window size rather than the time elapsed since the
// anchor.
func expandDaily(item core.ScheduleItem, anchor time.Time, interval int, rs, re time.Time) []core.Instance {
	first := anchor
	if anchor.Before(rs) {
		days := core.DaysBetween(anchor, rs)
		steps := (days + interval - 1) / interval
		first = anchor.AddDate(0, 0, steps*interval)
	}

	var out []core.Instance
	for d := first; !d.After(re); d = d.AddDate(0, 0, interval) {
		out = append(out, instanceOn(item, d, true))
	}
	return out
}

// expandWeekly walks the window day by day; the window is bounded so no
// fast-forward is needed. With interval > 1, only days whose Monday-based
// week offset from the anchor's week is a multiple of the interval qualify.
func expandWeekly(item core.ScheduleItem, anchor time.Time, interval int, rs, re time.Time) []core.Instance {
	targets := item.Repeat.Weekdays
	if len(targets) == 0 {
		targets = []time.Weekday{anchor.Weekday()}
	}

	anchorWeek := startOfWeek(anchor)

	start := rs
	if anchor.After(start) {
		start = anchor
	}

	var out []core.Instance
	for d := start; !d.After(re); d = d.AddDate(0, 0, 1) {
		if !weekdayIn(targets, d.Weekday()) {
			continue
		}
		if interval > 1 {
			weeks := core.DaysBetween(anchorWeek, startOfWeek(d)) / 7
			if weeks%interval != 0 {
				continue
			}
		}
		out = append(out, instanceOn(item, d, true))
	}
	return out
}

// expandByMonths steps from the anchor in monthStep-month increments,
// clamping the anchor's day-of-month to the target month's last day when it
// would overflow. Steps that land before rs are skipped rather than
// terminating, up to cap steps total.
func expandByMonths(item core.ScheduleItem, anchor time.Time, monthStep int, rs, re time.Time, stepCap int) []core.Instance {
	var out []core.Instance
	for k := 0; k <= stepCap; k++ {
		d := addMonthsClamped(anchor, k*monthStep)
		if d.After(re) {
			break
		}
		if d.Before(rs) {
			continue
		}
		out = append(out, instanceOn(item, d, true))
	}
	return out
}

// addMonthsClamped adds months to base, clamping base's day-of-month into the
// target month instead of letting time.AddDate roll over (Jan 31 + 1 month is
// Feb 28/29, not Mar 2/3).
func addMonthsClamped(base time.Time, months int) time.Time {
	first := time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, base.Location())
	first = first.AddDate(0, months, 0)

	day := base.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, base.Location())
}

// startOfWeek returns the Monday midnight of d's week.
func startOfWeek(d time.Time) time.Time {
	d = core.DayOf(d)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func weekdayIn(set []time.Weekday, w time.Weekday) bool {
	for _, s := range set {
		if s == w {
			return true
		}
	}
	return false
}

// instanceOn re-anchors the item's wall-clock start/end onto day.
func instanceOn(item core.ScheduleItem, day time.Time, recurring bool) core.Instance {
	inst := core.Instance{
		ItemID:    item.ID,
		Date:      day,
		Start:     atClock(day, item.Start),
		Recurring: recurring,
	}
	if item.End != nil {
		end := atClock(day, *item.End)
		inst.End = &end
	}
	return inst
}

func atClock(day, clock time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location())
}
