package mastery

import (
	"fmt"
	"time"

	lerrors "github.com/abhisek/lina/internal/errors"
)

// Default thresholds for the competence engine.
const (
	DefaultWindow           = 10
	DefaultStreakLength     = 3
	DefaultInactivityAfter  = 7 * 24 * time.Hour
	DefaultMinSamples       = 5
	DefaultPromoteThreshold = 0.85
)

// Config holds the thresholds used by Evaluate.
type Config struct {
	// Window is the number of most recent outcomes the success rate is computed over.
	Window int
	// StreakLength consecutive failures demote a skill.
	StreakLength int
	// InactivityAfter without a review demotes a skill.
	InactivityAfter time.Duration
	// MinSamples is the review count required before a promotion.
	MinSamples int
	// PromoteThreshold is the minimum windowed success rate for a promotion.
	PromoteThreshold float64
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Window:           DefaultWindow,
		StreakLength:     DefaultStreakLength,
		InactivityAfter:  DefaultInactivityAfter,
		MinSamples:       DefaultMinSamples,
		PromoteThreshold: DefaultPromoteThreshold,
	}
}

// Validate checks the configuration for values the engine cannot work with.
func (c Config) Validate() error {
	switch {
	case c.Window < 1:
		return fmt.Errorf("%w: mastery window must be at least 1, got %d", lerrors.ErrInvalidInput, c.Window)
	case c.StreakLength < 1:
		return fmt.Errorf("%w: streak length must be at least 1, got %d", lerrors.ErrInvalidInput, c.StreakLength)
	case c.InactivityAfter <= 0:
		return fmt.Errorf("%w: inactivity threshold must be positive, got %s", lerrors.ErrInvalidInput, c.InactivityAfter)
	case c.MinSamples < 1:
		return fmt.Errorf("%w: min samples must be at least 1, got %d", lerrors.ErrInvalidInput, c.MinSamples)
	case c.PromoteThreshold < 0 || c.PromoteThreshold > 1:
		return fmt.Errorf("%w: promote threshold %.2f outside [0,1]", lerrors.ErrInvalidInput, c.PromoteThreshold)
	}
	return nil
}

// Snapshot is the derived competence state of one skill after an evaluation.
type Snapshot struct {
	SkillID      string     `json:"skill_id"`
	PriorLevel   Level      `json:"prior_level"`
	Level        Level      `json:"level"`
	Rule         Rule       `json:"rule"`
	SuccessRate  float64    `json:"success_rate"`
	ReviewCount  int        `json:"review_count"`
	LastReviewAt *time.Time `json:"last_review_at,omitempty"`
}

// Changed reports whether the evaluation moved the level.
func (s Snapshot) Changed() bool {
	return s.Level != s.PriorLevel
}

// Engine decides level transitions from a skill's outcome log.
// It holds no state besides its configuration and is safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine after validating cfg.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Evaluate applies the transition rules to a skill. Rules are checked in order
// and the first one that matches wins:
//
//  1. demote-inactivity: the last review is older than InactivityAfter
//  2. demote-streak: the last StreakLength outcomes are all failures
//  3. promote: at least MinSamples reviews with success rate >= PromoteThreshold
//  4. stable
//
// Demotions never go below level 1 and promotions never above level 5; a rule
// that would cross a bound does not match. An empty log is valid and yields
// stable at the prior level.
func (e *Engine) Evaluate(skillID string, prior Level, outcomes []Outcome, now time.Time) (Snapshot, error) {
	if err := prior.Validate(); err != nil {
		return Snapshot{}, fmt.Errorf("evaluate %s: %w", skillID, err)
	}

	sum := Summarize(outcomes, e.cfg.Window)
	rule := e.selectRule(prior, sum, outcomes, now)

	return Snapshot{
		SkillID:      skillID,
		PriorLevel:   prior,
		Level:        prior + Level(rule.Direction()),
		Rule:         rule,
		SuccessRate:  sum.SuccessRate,
		ReviewCount:  sum.ReviewCount,
		LastReviewAt: sum.LastReviewAt,
	}, nil
}

// Current returns the snapshot of a skill at its stored level without applying
// any rule. The rule is always stable and the aggregates come from the outcome
// window, so it reports what the learner has, not what the next review may
// change.
func (e *Engine) Current(skillID string, level Level, outcomes []Outcome) (Snapshot, error) {
	if err := level.Validate(); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %s: %w", skillID, err)
	}
	sum := Summarize(outcomes, e.cfg.Window)
	return Snapshot{
		SkillID:      skillID,
		PriorLevel:   level,
		Level:        level,
		Rule:         RuleStable,
		SuccessRate:  sum.SuccessRate,
		ReviewCount:  sum.ReviewCount,
		LastReviewAt: sum.LastReviewAt,
	}, nil
}

func (e *Engine) selectRule(prior Level, sum Summary, outcomes []Outcome, now time.Time) Rule {
	if prior > MinLevel && sum.LastReviewAt != nil && now.Sub(*sum.LastReviewAt) > e.cfg.InactivityAfter {
		return RuleDemoteInactivity
	}
	if prior > MinLevel && failureStreak(outcomes, e.cfg.StreakLength) {
		return RuleDemoteStreak
	}
	if prior < MaxLevel && sum.ReviewCount >= e.cfg.MinSamples && sum.SuccessRate >= e.cfg.PromoteThreshold {
		return RulePromote
	}
	return RuleStable
}
