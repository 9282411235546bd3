package scheduling

import (
	"time"

	"github.com/lineflow-mfg/lineflow-backend/pkg/enums"
)

// smtOnlyPullInDays is how many calendar days an SMT-only order's working
// target moves ahead of the quoted promise. Orders with downstream
// through-hole work get that week back during final assembly.
const smtOnlyPullInDays = 7

// AdjustedPromiseDate returns the working target date for scheduling.
func AdjustedPromiseDate(promise time.Time, kit enums.KitStatus) time.Time {
	if !kit.HasDownstreamWork() {
		return promise.AddDate(0, 0, -smtOnlyPullInDays)
	}
	return promise
}

// SetupHoursForTrolleys estimates feeder setup time from the trolley count.
// The steps come from floor timing studies.
func SetupHoursForTrolleys(count int) float64 {
	switch {
	case count <= 0:
		return 1
	case count <= 2:
		return 1
	case count <= 4:
		return 2
	case count <= 6:
		return 3
	default:
		return 4
	}
}

// MinStartDate projects backward from the target date: the latest weekday
// the job can begin and still finish by target, assuming it runs alone on a
// line with the given daily hours. Work spans round up to whole business
// days inside the walk.
func MinStartDate(target time.Time, totalMinutes, hoursPerDay, multiplier float64) time.Time {
	if hoursPerDay <= 0 {
		hoursPerDay = DefaultHoursPerDay
	}
	if multiplier <= 0 {
		multiplier = 1
	}
	days := (totalMinutes * multiplier) / (hoursPerDay * 60)
	return AddBusinessDays(Midnight(target), -days)
}

// EarliestCompletionDate projects forward from a start date under the same
// single-job assumption.
func EarliestCompletionDate(start time.Time, totalMinutes, hoursPerDay, multiplier float64) time.Time {
	if hoursPerDay <= 0 {
		hoursPerDay = DefaultHoursPerDay
	}
	if multiplier <= 0 {
		multiplier = 1
	}
	days := (totalMinutes * multiplier) / (hoursPerDay * 60)
	return AddBusinessDays(Midnight(start), days)
}
