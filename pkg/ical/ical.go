// Package ical serializes schedule items to an iCalendar document for
// interchange with other calendar software.
//
// Daily and weekly repeat rules round-trip to RRULE exactly (the weekly
// interval modulus is Monday-based, matching WKST=MO), so those items export
// as a single recurring VEVENT. Monthly and yearly rules clamp a month-end
// anchor to shorter months, which RRULE cannot express; those items, and
// non-repeating ones, export as the concrete instances inside the requested
// window.
package ical

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/dkellner/cadence/pkg/core"
	"github.com/dkellner/cadence/pkg/expand"
)

const productID = "-//cadence//calendar export//EN"

// Export renders items as an iCalendar document. The window bounds instance
// emission for items that cannot be expressed as an RRULE.
func Export(items []core.ScheduleItem, rangeStart, rangeEnd time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	now := time.Now()
	for _, item := range items {
		if rule, ok := rruleFor(item); ok {
			ev := cal.AddEvent(item.ID)
			ev.SetDtStampTime(now)
			ev.SetStartAt(item.Start)
			if item.End != nil {
				ev.SetEndAt(*item.End)
			}
			ev.SetSummary(item.Title)
			if item.Location != "" {
				ev.SetLocation(item.Location)
			}
			ev.AddRrule(rule)
			continue
		}

		for _, inst := range expand.Expand(item, rangeStart, rangeEnd) {
			ev := cal.AddEvent(fmt.Sprintf("%s-%d", item.ID, inst.Start.UnixMilli()))
			ev.SetDtStampTime(now)
			ev.SetStartAt(inst.Start)
			if inst.End != nil {
				ev.SetEndAt(*inst.End)
			}
			ev.SetSummary(item.Title)
			if item.Location != "" {
				ev.SetLocation(item.Location)
			}
		}
	}

	return cal.Serialize()
}

// rruleFor builds the RRULE property value for rules whose semantics survive
// the translation.
func rruleFor(item core.ScheduleItem) (string, bool) {
	rule := item.Repeat
	if rule.Kind != core.KindDaily && rule.Kind != core.KindWeekly {
		return "", false
	}

	opt := rrule.ROption{
		Dtstart: item.Start,
		Wkst:    rrule.MO,
	}
	if rule.Interval > 1 {
		opt.Interval = rule.Interval
	}
	if rule.Until != nil {
		// Inclusive day bound: extend to the end of that day.
		opt.Until = core.DayOf(*rule.Until).AddDate(0, 0, 1).Add(-time.Second)
	}

	switch rule.Kind {
	case core.KindDaily:
		opt.Freq = rrule.DAILY
	case core.KindWeekly:
		opt.Freq = rrule.WEEKLY
		for _, w := range rule.Weekdays {
			opt.Byweekday = append(opt.Byweekday, rruleWeekday(w))
		}
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return "", false
	}
	// RRuleString renders the rule without the DTSTART line, which the VEVENT
	// already carries.
	return r.OrigOptions.RRuleString(), true
}

func rruleWeekday(w time.Weekday) rrule.Weekday {
	switch w {
	case time.Monday:
		return rrule.MO
	case time.Tuesday:
		return rrule.TU
	case time.Wednesday:
		return rrule.WE
	case time.Thursday:
		return rrule.TH
	case time.Friday:
		return rrule.FR
	case time.Saturday:
		return rrule.SA
	default:
		return rrule.SU
	}
}
