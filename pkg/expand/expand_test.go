package expand

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkellner/cadence/pkg/core"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.Local)
}

func days(instances []core.Instance) []time.Time {
	out := make([]time.Time, len(instances))
	for i, inst := range instances {
		out[i] = inst.Date
	}
	return out
}

func TestExpand_NoRepeat_InsideWindow(t *testing.T) {
	item := core.ScheduleItem{
		ID:    "a",
		Start: at(2025, time.March, 10, 9, 30),
	}

	got := Expand(item, date(2025, time.March, 8), date(2025, time.March, 12))

	require.Len(t, got, 1)
	assert.Equal(t, at(2025, time.March, 10, 9, 30), got[0].Start)
	assert.False(t, got[0].Recurring)
}

func TestExpand_NoRepeat_OutsideWindow(t *testing.T) {
	item := core.ScheduleItem{
		ID:    "a",
		Start: at(2025, time.March, 10, 9, 30),
	}

	got := Expand(item, date(2025, time.March, 11), date(2025, time.March, 20))

	assert.Empty(t, got)
}

func TestExpand_Daily_StepsFromAnchorModulus(t *testing.T) {
	// Anchored on day 0 with interval 3; the window [day 10, day 20] must
	// yield exactly days 12, 15 and 18.
	anchor := date(2025, time.March, 1)
	item := core.ScheduleItem{
		ID:     "a",
		Start:  at(2025, time.March, 1, 8, 0),
		Repeat: core.RepeatRule{Kind: core.KindDaily, Interval: 3},
	}

	got := Expand(item, anchor.AddDate(0, 0, 10), anchor.AddDate(0, 0, 20))

	assert.Equal(t, []time.Time{
		date(2025, time.March, 13),
		date(2025, time.March, 16),
		date(2025, time.March, 19),
	}, days(got))
	for _, inst := range got {
		assert.True(t, inst.Recurring)
		assert.Equal(t, 8, inst.Start.Hour())
	}
}

func TestExpand_Daily_AnchorInsideWindow(t *testing.T) {
	item := core.ScheduleItem{
		ID:     "a",
		Start:  at(2025, time.March, 10, 7, 0),
		Repeat: core.RepeatRule{Kind: core.KindDaily},
	}

	got := Expand(item, date(2025, time.March, 8), date(2025, time.March, 12))

	assert.Equal(t, []time.Time{
		date(2025, time.March, 10),
		date(2025, time.March, 11),
		date(2025, time.March, 12),
	}, days(got))
}

func TestExpand_Weekly_IntervalTwo_DefaultsToAnchorWeekday(t *testing.T) {
	// 2025-01-06 is a Monday. Every other week, Mondays only.
	item := core.ScheduleItem{
		ID:     "a",
		Start:  at(2025, time.January, 6, 10, 0),
		Repeat: core.RepeatRule{Kind: core.KindWeekly, Interval: 2},
	}

	got := Expand(item, date(2025, time.January, 6), date(2025, time.February, 3))

	assert.Equal(t, []time.Time{
		date(2025, time.January, 6),
		date(2025, time.January, 20),
		date(2025, time.February, 3),
	}, days(got))
}

func TestExpand_Weekly_WeekdaySubset(t *testing.T) {
	// Tuesdays and Thursdays every week, anchored on a Monday.
	item := core.ScheduleItem{
		ID:    "a",
		Start: at(2025, time.January, 6, 18, 0),
		Repeat: core.RepeatRule{
			Kind:     core.KindWeekly,
			Weekdays: []time.Weekday{time.Tuesday, time.Thursday},
		},
	}

	got := Expand(item, date(2025, time.January, 6), date(2025, time.January, 17))

	assert.Equal(t, []time.Time{
		date(2025, time.January, 7),
		date(2025, time.January, 9),
		date(2025, time.January, 14),
		date(2025, time.January, 16),
	}, days(got))
}

func TestExpand_Weekly_NothingBeforeAnchor(t *testing.T) {
	// Anchor on a Wednesday with Monday in the target set: the Monday of the
	// anchor week precedes the anchor and must not be emitted.
	item := core.ScheduleItem{
		ID:    "a",
		Start: at(2025, time.January, 8, 12, 0), // Wednesday
		Repeat: core.RepeatRule{
			Kind:     core.KindWeekly,
			Weekdays: []time.Weekday{time.Monday, time.Wednesday},
		},
	}

	got := Expand(item, date(2025, time.January, 6), date(2025, time.January, 14))

	assert.Equal(t, []time.Time{
		date(2025, time.January, 8),
		date(2025, time.January, 13),
	}, days(got))
}

func TestExpand_Monthly_ClampsToFebruaryEnd(t *testing.T) {
	item := core.ScheduleItem{
		ID:     "a",
		Start:  at(2025, time.January, 31, 9, 0),
		Repeat: core.RepeatRule{Kind: core.KindMonthly},
	}

	got := Expand(item, date(2025, time.February, 1), date(2025, time.February, 28))

	require.Len(t, got, 1)
	assert.Equal(t, date(2025, time.February, 28), got[0].Date)
}

func TestExpand_Monthly_LeapFebruary(t *testing.T) {
	item := core.ScheduleItem{
		ID:     "a",
		Start:  at(2023, time.December, 31, 9, 0),
		Repeat: core.RepeatRule{Kind: core.KindMonthly, Interval: 2},
	}

	got := Expand(item, date(2024, time.February, 1), date(2024, time.February, 29))

	require.Len(t, got, 1)
	assert.Equal(t, date(2024, time.February, 29), got[0].Date)
}

func TestExpand_Monthly_SkipsStepsBeforeWindow(t *testing.T) {
	item := core.ScheduleItem{
		ID:     "a",
		Start:  at(2025, time.January, 15, 9, 0),
		Repeat: core.RepeatRule{Kind: core.KindMonthly, Interval: 3},
	}

	got := Expand(item, date(2025, time.June, 1), date(2025, time.October, 31))

	assert.Equal(t, []time.Time{
		date(2025, time.July, 15),
		date(2025, time.October, 15),
	}, days(got))
}

func TestExpand_Yearly_ClampsLeapDay(t *testing.T) {
	item := core.ScheduleItem{
		ID:     "a",
		Start:  at(2024, time.February, 29, 9, 0),
		Repeat: core.RepeatRule{Kind: core.KindYearly},
	}

	got := Expand(item, date(2025, time.January, 1), date(2025, time.December, 31))

	require.Len(t, got, 1)
	assert.Equal(t, date(2025, time.February, 28), got[0].Date)
}

func TestExpand_UntilIsInclusive(t *testing.T) {
	until := date(2025, time.March, 14)
	item := core.ScheduleItem{
		ID:     "a",
		Start:  at(2025, time.March, 10, 9, 0),
		Repeat: core.RepeatRule{Kind: core.KindDaily, Interval: 2, Until: &until},
	}

	got := Expand(item, date(2025, time.March, 10), date(2025, time.March, 20))

	// The occurrence on the end date itself is included; nothing beyond it.
	assert.Equal(t, []time.Time{
		date(2025, time.March, 10),
		date(2025, time.March, 12),
		date(2025, time.March, 14),
	}, days(got))
}

func TestExpand_UntilBeforeWindow(t *testing.T) {
	until := date(2025, time.March, 5)
	item := core.ScheduleItem{
		ID:     "a",
		Start:  at(2025, time.March, 1, 9, 0),
		Repeat: core.RepeatRule{Kind: core.KindDaily, Until: &until},
	}

	assert.Empty(t, Expand(item, date(2025, time.March, 10), date(2025, time.March, 20)))
}

func TestExpand_TimeOfDayReanchored(t *testing.T) {
	end := at(2025, time.March, 10, 11, 45)
	item := core.ScheduleItem{
		ID:     "a",
		Start:  at(2025, time.March, 10, 10, 15),
		End:    &end,
		Repeat: core.RepeatRule{Kind: core.KindDaily},
	}

	got := Expand(item, date(2025, time.March, 12), date(2025, time.March, 12))

	require.Len(t, got, 1)
	assert.Equal(t, at(2025, time.March, 12, 10, 15), got[0].Start)
	require.NotNil(t, got[0].End)
	assert.Equal(t, at(2025, time.March, 12, 11, 45), *got[0].End)
}

func TestExpand_MalformedRule_ProducesNothing(t *testing.T) {
	tests := []struct {
		name string
		item core.ScheduleItem
	}{
		{
			name: "negative interval",
			item: core.ScheduleItem{
				ID:     "a",
				Start:  at(2025, time.March, 1, 9, 0),
				Repeat: core.RepeatRule{Kind: core.KindDaily, Interval: -2},
			},
		},
		{
			name: "unknown kind",
			item: core.ScheduleItem{
				ID:     "a",
				Start:  at(2025, time.March, 1, 9, 0),
				Repeat: core.RepeatRule{Kind: core.Kind("fortnightly")},
			},
		},
		{
			name: "zero start",
			item: core.ScheduleItem{
				ID:     "a",
				Repeat: core.RepeatRule{Kind: core.KindDaily},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Expand(tt.item, date(2025, time.March, 1), date(2025, time.March, 31)))
		})
	}
}

func TestExpand_InvertedWindow(t *testing.T) {
	item := core.ScheduleItem{
		ID:     "a",
		Start:  at(2025, time.March, 1, 9, 0),
		Repeat: core.RepeatRule{Kind: core.KindDaily},
	}

	assert.Empty(t, Expand(item, date(2025, time.March, 10), date(2025, time.March, 5)))
}
