// Package conflict detects time overlaps between schedule instances on the
// same calendar day.
package conflict

import (
	"time"

	"github.com/dkellner/cadence/pkg/core"
)

// Find returns the instances in dayInstances whose time interval overlaps the
// candidate's. Intervals are half-open [start, end); an instance without an
// end time is a zero-duration point at its start, so it only conflicts with
// an interval that strictly contains that instant. Instances belonging to
// excludeID, and the candidate occurrence itself, are never reported, which
// lets an edit compare an item against everything else without
// self-conflicting. O(n); output order follows dayInstances.
func Find(dayInstances []core.Instance, candidate core.Instance, excludeID string) []core.Instance {
	out := make([]core.Instance, 0)
	for _, inst := range dayInstances {
		if excludeID != "" && inst.ItemID == excludeID {
			continue
		}
		if inst.Same(candidate) {
			continue
		}
		if overlaps(inst, candidate) {
			out = append(out, inst)
		}
	}
	return out
}

func overlaps(a, b core.Instance) bool {
	aStart, aEnd := bounds(a)
	bStart, bEnd := bounds(b)
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

func bounds(i core.Instance) (time.Time, time.Time) {
	if i.End == nil {
		return i.Start, i.Start
	}
	return i.Start, *i.End
}
