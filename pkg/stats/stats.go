// Package stats aggregates habit completion data into streaks and windowed
// reports. All functions are pure over an injected CompletionLog snapshot.
package stats

import (
	"time"

	"github.com/jinzhu/now"

	"github.com/dkellner/cadence/pkg/core"
	"github.com/dkellner/cadence/pkg/occur"
)

// streakScanCap bounds the backward walk to one year.
const streakScanCap = 366

// Detail is the per-habit section of a Report.
type Detail struct {
	HabitID   string
	Title     string
	Targets   int
	Completed int
	Rate      float64
	Streak    int
}

// PeriodTotals aggregates target/completed counts for one time-of-day bucket.
type PeriodTotals struct {
	Targets   int
	Completed int
}

// DayPoint is one entry in a report's day-by-day completion series.
type DayPoint struct {
	Date      time.Time
	Targets   int
	Completed int
}

// Report summarizes habit completion over an inclusive day range.
type Report struct {
	Start     time.Time
	End       time.Time
	Targets   int
	Completed int
	Rate      float64
	Habits    []Detail
	Periods   map[core.Period]PeriodTotals
	Days      []DayPoint
}

// Streak counts consecutive completed target days walking backward from
// asOf. Non-target days are skipped without breaking the streak; the first
// incomplete target day terminates the walk. When asOf itself is an
// incomplete target day the streak is 0 regardless of earlier history. The
// scan is capped at a year.
func Streak(h core.Habit, log core.CompletionLog, asOf time.Time) int {
	day := core.DayOf(asOf)
	count := 0
	for i := 0; i < streakScanCap; i++ {
		d := day.AddDate(0, 0, -i)
		if !occur.IsTargetDay(h.Rule, d) {
			continue
		}
		if !log.Completed(h.ID, d) {
			break
		}
		count++
	}
	return count
}

// ReportForRange walks every day in [start, end], counting each habit's
// target days and completions into overall, per-habit, per-period and
// per-day buckets. Streaks in the per-habit details are computed as of the
// range end.
func ReportForRange(habits []core.Habit, log core.CompletionLog, start, end time.Time) Report {
	rs := core.DayOf(start)
	re := core.DayOf(end)

	r := Report{
		Start:   rs,
		End:     re,
		Periods: make(map[core.Period]PeriodTotals),
	}
	if re.Before(rs) {
		return r
	}

	details := make([]Detail, len(habits))
	for i, h := range habits {
		details[i] = Detail{HabitID: h.ID, Title: h.Title, Streak: Streak(h, log, re)}
	}

	for d := rs; !d.After(re); d = d.AddDate(0, 0, 1) {
		point := DayPoint{Date: d}
		for i, h := range habits {
			if !occur.IsTargetDay(h.Rule, d) {
				continue
			}
			period := h.Period
			if period == "" {
				period = core.PeriodAnytime
			}
			pt := r.Periods[period]

			details[i].Targets++
			point.Targets++
			r.Targets++
			pt.Targets++

			if log.Completed(h.ID, d) {
				details[i].Completed++
				point.Completed++
				r.Completed++
				pt.Completed++
			}
			r.Periods[period] = pt
		}
		r.Days = append(r.Days, point)
	}

	for i := range details {
		details[i].Rate = rate(details[i].Completed, details[i].Targets)
	}
	r.Habits = details
	r.Rate = rate(r.Completed, r.Targets)
	return r
}

// WeekReport reports over the ISO week (Monday through Sunday) containing day.
func WeekReport(habits []core.Habit, log core.CompletionLog, day time.Time) Report {
	cfg := &now.Config{WeekStartDay: time.Monday, TimeLocation: day.Location()}
	n := cfg.With(day)
	return ReportForRange(habits, log, n.BeginningOfWeek(), n.EndOfWeek())
}

// MonthReport reports over the calendar month containing day.
func MonthReport(habits []core.Habit, log core.CompletionLog, day time.Time) Report {
	n := now.With(day)
	return ReportForRange(habits, log, n.BeginningOfMonth(), n.EndOfMonth())
}

// YearReport reports over the calendar year containing day.
func YearReport(habits []core.Habit, log core.CompletionLog, day time.Time) Report {
	n := now.With(day)
	return ReportForRange(habits, log, n.BeginningOfYear(), n.EndOfYear())
}

func rate(completed, targets int) float64 {
	if targets == 0 {
		return 0
	}
	return float64(completed) / float64(targets)
}
