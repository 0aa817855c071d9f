package spacedrep

import (
	"math"
	"time"
)

// ItemSchedule holds the spaced repetition state for a single practice item.
type ItemSchedule struct {
	ItemID       string     `json:"item_id"`
	SkillID      string     `json:"skill_id,omitempty"`
	Easiness     float64    `json:"easiness"`
	IntervalDays int        `json:"interval_days"`
	Repetitions  int        `json:"repetitions"`
	Due          time.Time  `json:"due"`
	LastGrade    *Grade     `json:"last_grade,omitempty"`  // nil before the first review.
	LastReview   *time.Time `json:"last_review,omitempty"` // nil before the first review.
}

// NewItemSchedule returns the record for an item that has never been reviewed.
// It is due immediately.
func NewItemSchedule(itemID, skillID string, now time.Time) ItemSchedule {
	return ItemSchedule{
		ItemID:   itemID,
		SkillID:  skillID,
		Easiness: DefaultEasiness,
		Due:      now,
	}
}

// IsDue returns true if the item is due for review (at or past the due date).
func (s ItemSchedule) IsDue(now time.Time) bool {
	return !now.Before(s.Due)
}

// OverdueDays returns how many days past due the item is. Returns 0 if not yet due.
func (s ItemSchedule) OverdueDays(now time.Time) float64 {
	if now.Before(s.Due) {
		return 0
	}
	return now.Sub(s.Due).Hours() / 24.0
}

// IsOverdue returns true once the item has sat past its due date for longer
// than the grace period (half of its current interval, at least half a day).
func (s ItemSchedule) IsOverdue(now time.Time) bool {
	if !s.IsDue(now) {
		return false
	}
	interval := math.Max(float64(s.IntervalDays), 1)
	grace := time.Duration(interval * OverdueGraceRatio * float64(day))
	return now.After(s.Due.Add(grace))
}

// DaysUntilReview returns the number of days until the next review.
// Returns 0 if already due.
func (s ItemSchedule) DaysUntilReview(now time.Time) int {
	if s.IsDue(now) {
		return 0
	}
	return int(s.Due.Sub(now).Hours()/24.0) + 1
}

// ReviewStatus describes an item's review status for display.
type ReviewStatus string

const (
	ReviewNew     ReviewStatus = "new"
	ReviewNotDue  ReviewStatus = "not_due"
	ReviewDue     ReviewStatus = "due"
	ReviewOverdue ReviewStatus = "overdue"
)

// Status returns the review status for UI display.
func (s ItemSchedule) Status(now time.Time) ReviewStatus {
	switch {
	case s.LastReview == nil:
		return ReviewNew
	case s.IsOverdue(now):
		return ReviewOverdue
	case s.IsDue(now):
		return ReviewDue
	default:
		return ReviewNotDue
	}
}
