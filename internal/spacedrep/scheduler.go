package spacedrep

import (
	"math"
	"sort"
	"time"
)

// Next computes the schedule that follows a review of grade g at time now.
// It is pure: current is not modified. A grade outside [0,4] returns an error
// wrapping ErrInvalidGrade.
func Next(current ItemSchedule, g Grade, now time.Time) (ItemSchedule, error) {
	if err := g.Validate(); err != nil {
		return current, err
	}

	next := current
	if g.Passed() {
		next.Repetitions = current.Repetitions + 1
		switch next.Repetitions {
		case 1:
			next.IntervalDays = FirstIntervalDays
		case 2:
			next.IntervalDays = SecondIntervalDays
		default:
			next.IntervalDays = max(1, int(math.Round(float64(current.IntervalDays)*current.Easiness)))
		}
	} else {
		next.Repetitions = 0
		next.IntervalDays = FailureIntervalDays
	}

	next.Easiness = NextEasiness(current.Easiness, g)
	next.Due = now.Add(time.Duration(next.IntervalDays) * day)

	grade := g
	reviewedAt := now
	next.LastGrade = &grade
	next.LastReview = &reviewedAt
	return next, nil
}

// NextEasiness applies the easiness update for grade g and clamps the result
// to MinEasiness.
func NextEasiness(ef float64, g Grade) float64 {
	miss := float64(GradePerfect - g)
	ef += 0.1 - miss*(0.08+miss*0.02)
	if ef < MinEasiness {
		return MinEasiness
	}
	return ef
}

// DueItems returns the records that are due at now, sorted by most overdue
// first. Ties are broken by item ID.
func DueItems(records []ItemSchedule, now time.Time) []ItemSchedule {
	var due []ItemSchedule
	for _, rec := range records {
		if rec.IsDue(now) {
			due = append(due, rec)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		oi, oj := due[i].OverdueDays(now), due[j].OverdueDays(now)
		if oi != oj {
			return oi > oj
		}
		return due[i].ItemID < due[j].ItemID
	})
	return due
}
