// Package matrix reports the stored competence of every catalog skill with
// its outcome aggregates and counts skills per level.
package matrix

import (
	"github.com/abhisek/lina/internal/catalog"
	"github.com/abhisek/lina/internal/mastery"
)

// History provides the stored state the matrix is computed from.
type History interface {
	// Outcomes returns the skill's outcome log in chronological order.
	Outcomes(skillID string) []mastery.Outcome
	// Level returns the stored mastery level, 1 when none is stored.
	Level(skillID string) mastery.Level
}

// Row is one skill of the matrix with its current competence.
type Row struct {
	Skill    catalog.Skill    `json:"skill"`
	Snapshot mastery.Snapshot `json:"snapshot"`
}

// Level is the stored level of the row.
func (r Row) Level() mastery.Level { return r.Snapshot.Level }

// Compute builds one row per skill in catalog order from the stored level and
// the outcome window. No transition rule is applied: the stored level already
// reflects every review, so the row rule is always stable. An out-of-range
// stored level fails with mastery.ErrInvalidLevel.
func Compute(skills []catalog.Skill, history History, engine *mastery.Engine) ([]Row, error) {
	rows := make([]Row, 0, len(skills))
	for _, s := range skills {
		snap, err := engine.Current(s.ID, history.Level(s.ID), history.Outcomes(s.ID))
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{Skill: s, Snapshot: snap})
	}
	return rows, nil
}

// Buckets counts skills per level.
type Buckets map[mastery.Level]int

// BucketByLevel counts rows per level. Every level from 1 to 5 is present.
func BucketByLevel(rows []Row) Buckets {
	b := make(Buckets, len(mastery.Levels()))
	for _, l := range mastery.Levels() {
		b[l] = 0
	}
	for _, r := range rows {
		b[r.Level()]++
	}
	return b
}

// Total returns the number of skills across all buckets.
func (b Buckets) Total() int {
	n := 0
	for _, c := range b {
		n += c
	}
	return n
}
