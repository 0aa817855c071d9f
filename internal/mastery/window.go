package mastery

import "time"

// Outcome is a single pass/fail review of a skill.
type Outcome struct {
	OK bool      `json:"ok"`
	At time.Time `json:"at"`
}

// Summary is the aggregate view of a skill's outcome log.
type Summary struct {
	SuccessRate  float64    `json:"success_rate"`
	ReviewCount  int        `json:"review_count"`
	LastReviewAt *time.Time `json:"last_review_at,omitempty"`
}

// Window returns the most recent n outcomes of the log, or all of them when
// fewer than n exist. The result shares the backing array of outcomes and must
// be treated as read-only.
func Window(outcomes []Outcome, n int) []Outcome {
	if n <= 0 {
		n = DefaultWindow
	}
	if len(outcomes) > n {
		return outcomes[len(outcomes)-n:]
	}
	return outcomes
}

// Summarize computes the success rate over the last window outcomes, the total
// review count, and the time of the most recent outcome. The log is expected
// in chronological order. An empty log yields a zero summary.
func Summarize(outcomes []Outcome, window int) Summary {
	if len(outcomes) == 0 {
		return Summary{}
	}

	recent := Window(outcomes, window)
	ok := 0
	for _, o := range recent {
		if o.OK {
			ok++
		}
	}

	last := outcomes[len(outcomes)-1].At
	return Summary{
		SuccessRate:  float64(ok) / float64(len(recent)),
		ReviewCount:  len(outcomes),
		LastReviewAt: &last,
	}
}

// failureStreak reports whether the last k outcomes exist and are all failures.
func failureStreak(outcomes []Outcome, k int) bool {
	if k <= 0 || len(outcomes) < k {
		return false
	}
	for _, o := range outcomes[len(outcomes)-k:] {
		if o.OK {
			return false
		}
	}
	return true
}
