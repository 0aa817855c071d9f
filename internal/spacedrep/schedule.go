package spacedrep

import "time"

// DefaultEasiness is the easiness factor assigned to an item on its first review.
const DefaultEasiness = 2.5

// MinEasiness is the floor for the easiness factor. There is no ceiling.
const MinEasiness = 1.3

// FirstIntervalDays and SecondIntervalDays are the fixed intervals for the
// first and second consecutive successful repetitions.
const (
	FirstIntervalDays  = 1
	SecondIntervalDays = 6
)

// FailureIntervalDays is the interval assigned after a failed review.
const FailureIntervalDays = 1

// OverdueGraceRatio is the share of the current interval an item may sit past
// its due date before it counts as overdue rather than merely due.
const OverdueGraceRatio = 0.5

// day is the unit intervals are expressed in.
const day = 24 * time.Hour
