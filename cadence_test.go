package cadence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The facade is thin; these tests pin the re-exported surface together the
// way a caller would use it.

func TestFacade_ExpandAndConflicts(t *testing.T) {
	standup := ScheduleItem{
		ID:     "standup",
		Title:  "Daily standup",
		Start:  time.Date(2025, time.March, 3, 9, 0, 0, 0, time.Local),
		Repeat: RepeatRule{Kind: KindDaily},
	}
	end := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.Local)
	review := ScheduleItem{
		ID:    "review",
		Title: "Code review",
		Start: time.Date(2025, time.March, 10, 8, 30, 0, 0, time.Local),
		End:   &end,
	}

	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local)
	instances := Expand(standup, day, day)
	instances = append(instances, Expand(review, day, day)...)
	require.Len(t, instances, 2)

	conflicts := FindConflicts(instances, instances[0], "standup")
	require.Len(t, conflicts, 1)
	assert.Equal(t, "review", conflicts[0].ItemID)
}

func TestFacade_HabitRoundTrip(t *testing.T) {
	habit := Habit{
		ID:     "read",
		Title:  "Read",
		Rule:   HabitRule{Frequency: FreqDaily},
		Period: PeriodEvening,
	}

	log := CompletionSet{}
	// 2025-03-12 is a Wednesday; its ISO week runs Mar 10 through Mar 16.
	asOf := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.Local)
	log.Mark("read", asOf)
	log.Mark("read", asOf.AddDate(0, 0, -1))

	assert.Equal(t, 2, StreakOf(habit, log, asOf))

	report := WeekReport([]Habit{habit}, log, asOf)
	assert.Equal(t, 7, report.Targets)
	assert.Equal(t, 2, report.Completed)
}

func TestFacade_CycleHelpers(t *testing.T) {
	rule := CycleRule{
		Target:   time.Date(2025, time.June, 1, 0, 0, 0, 0, time.Local),
		Interval: 1,
		Unit:     UnitYear,
	}

	today := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.Local)
	next := NextOccurrence(rule, today)

	assert.Equal(t, time.Date(2026, time.June, 1, 0, 0, 0, 0, time.Local), next)
	assert.Equal(t, 335, DaysUntil(rule, today))
}

func TestFacade_RuleSumType(t *testing.T) {
	rules := []Rule{
		RepeatRule{Kind: KindWeekly},
		CycleRule{Interval: 2, Unit: UnitWeek},
		HabitRule{Frequency: FreqWeekends},
	}

	assert.Len(t, rules, 3)
}
