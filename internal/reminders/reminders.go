// Package reminders turns the skill matrix into a short, prioritized list of
// practice nudges.
package reminders

import (
	"fmt"
	"time"

	lerrors "github.com/abhisek/lina/internal/errors"
	"github.com/abhisek/lina/internal/mastery"
	"github.com/abhisek/lina/internal/matrix"
)

// Kind is the category of a reminder.
type Kind string

const (
	KindRevive  Kind = "revive"
	KindWarmup  Kind = "warmup"
	KindPromote Kind = "promote"
)

// Reminder is one suggested practice action.
type Reminder struct {
	Kind    Kind   `json:"kind"`
	SkillID string `json:"skill_id"`
	Title   string `json:"title"`
	Text    string `json:"text"`
}

// Config holds the selection thresholds.
type Config struct {
	ReviveAfter     time.Duration
	PerKind         int
	WarmupMaxLevel  mastery.Level
	WarmupBelow     float64
	PromoteMinLevel mastery.Level
	PromoteMaxLevel mastery.Level
	PromoteAtLeast  float64
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		ReviveAfter:     3 * 24 * time.Hour,
		PerKind:         3,
		WarmupMaxLevel:  2,
		WarmupBelow:     0.75,
		PromoteMinLevel: 3,
		PromoteMaxLevel: 4,
		PromoteAtLeast:  0.85,
	}
}

// Validate rejects thresholds that cannot select anything sensible.
func (c Config) Validate() error {
	switch {
	case c.ReviveAfter <= 0:
		return fmt.Errorf("%w: revive-after must be positive", lerrors.ErrInvalidInput)
	case c.PerKind < 1:
		return fmt.Errorf("%w: per-kind must be at least 1, got %d", lerrors.ErrInvalidInput, c.PerKind)
	case !c.WarmupMaxLevel.IsValid():
		return fmt.Errorf("%w: warmup max level %d", lerrors.ErrInvalidInput, c.WarmupMaxLevel)
	case !c.PromoteMinLevel.IsValid() || !c.PromoteMaxLevel.IsValid() || c.PromoteMinLevel > c.PromoteMaxLevel:
		return fmt.Errorf("%w: promote level range [%d,%d]", lerrors.ErrInvalidInput, c.PromoteMinLevel, c.PromoteMaxLevel)
	case c.WarmupBelow < 0 || c.WarmupBelow > 1 || c.PromoteAtLeast < 0 || c.PromoteAtLeast > 1:
		return fmt.Errorf("%w: success rate thresholds must be in [0,1]", lerrors.ErrInvalidInput)
	}
	return nil
}

// Generate selects reminders from matrix rows. Revive reminders come first,
// then warmup, then promote. Each kind holds at most cfg.PerKind entries in
// row order, and a skill may appear under several kinds.
func Generate(rows []matrix.Row, now time.Time, cfg Config) []Reminder {
	var out []Reminder
	out = appendKind(out, rows, cfg.PerKind, KindRevive, func(r matrix.Row) bool {
		last := r.Snapshot.LastReviewAt
		return last != nil && now.Sub(*last) > cfg.ReviveAfter
	})
	out = appendKind(out, rows, cfg.PerKind, KindWarmup, func(r matrix.Row) bool {
		return r.Level() <= cfg.WarmupMaxLevel && r.Snapshot.SuccessRate < cfg.WarmupBelow
	})
	out = appendKind(out, rows, cfg.PerKind, KindPromote, func(r matrix.Row) bool {
		l := r.Level()
		return l >= cfg.PromoteMinLevel && l <= cfg.PromoteMaxLevel && r.Snapshot.SuccessRate >= cfg.PromoteAtLeast
	})
	return out
}

func appendKind(out []Reminder, rows []matrix.Row, limit int, kind Kind, match func(matrix.Row) bool) []Reminder {
	n := 0
	for _, r := range rows {
		if n == limit {
			break
		}
		if !match(r) {
			continue
		}
		out = append(out, Reminder{
			Kind:    kind,
			SkillID: r.Skill.ID,
			Title:   r.Skill.Title,
			Text:    Text(kind, r.Skill.Title),
		})
		n++
	}
	return out
}

// Text renders the fixed message for a reminder kind.
func Text(kind Kind, title string) string {
	switch kind {
	case KindRevive:
		return fmt.Sprintf("Quick reactivation: %s (3-minute micro-session)", title)
	case KindWarmup:
		return fmt.Sprintf("Warm-up: one worked example on %s", title)
	case KindPromote:
		return fmt.Sprintf("Consolidate: %s (2 exercises), then a level check", title)
	}
	return title
}
