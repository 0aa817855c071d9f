package mastery

import (
	"encoding"
	"fmt"

	lerrors "github.com/abhisek/lina/internal/errors"
)

// ErrInvalidLevel is returned for mastery levels outside [1,5]. It wraps ErrInvalidInput.
var ErrInvalidLevel = fmt.Errorf("%w: mastery level", lerrors.ErrInvalidInput)

// Level is a learner's discrete competence in a skill, 1 (lowest) to 5.
type Level int

const (
	MinLevel Level = 1
	MaxLevel Level = 5
)

// IsValid reports whether l lies in [1,5].
func (l Level) IsValid() bool {
	return l >= MinLevel && l <= MaxLevel
}

// Validate returns an error wrapping ErrInvalidLevel when l is out of range.
func (l Level) Validate() error {
	if !l.IsValid() {
		return fmt.Errorf("%w %d outside [%d,%d]", ErrInvalidLevel, int(l), MinLevel, MaxLevel)
	}
	return nil
}

// Levels returns all levels in ascending order.
func Levels() []Level {
	return []Level{1, 2, 3, 4, 5}
}

// Rule is the labeled reason an evaluation did or did not change the level.
type Rule int

const (
	RuleStable Rule = iota
	RulePromote
	RuleDemoteStreak
	RuleDemoteInactivity
)

var ruleNames = [...]string{
	RuleStable:           "stable",
	RulePromote:          "promote",
	RuleDemoteStreak:     "demote-streak",
	RuleDemoteInactivity: "demote-inactivity",
}

var (
	_ fmt.Stringer             = Rule(0)
	_ encoding.TextMarshaler   = Rule(0)
	_ encoding.TextUnmarshaler = (*Rule)(nil)
)

// IsValid reports whether r is one of the four defined rules.
func (r Rule) IsValid() bool {
	return r >= RuleStable && r <= RuleDemoteInactivity
}

// String returns the wire name of the rule, or "Rule(n)" when invalid.
func (r Rule) String() string {
	if r.IsValid() {
		return ruleNames[r]
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// Direction returns the level change implied by r: +1, -1 or 0.
// It panics on an undefined rule so that a new rule cannot silently read as stable.
func (r Rule) Direction() int {
	switch r {
	case RulePromote:
		return 1
	case RuleDemoteStreak, RuleDemoteInactivity:
		return -1
	case RuleStable:
		return 0
	}
	panic(fmt.Sprintf("mastery: undefined rule %d", int(r)))
}

// MarshalText implements encoding.TextMarshaler.
func (r Rule) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: rule %d", lerrors.ErrInvalidInput, int(r))
	}
	return []byte(ruleNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rule) UnmarshalText(text []byte) error {
	v, err := ParseRule(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ParseRule converts a wire name back into a Rule.
func ParseRule(s string) (Rule, error) {
	for i, name := range ruleNames {
		if name == s {
			return Rule(i), nil
		}
	}
	return RuleStable, fmt.Errorf("%w: unknown rule %q", lerrors.ErrInvalidInput, s)
}

// Transition records a level change for display and event logging.
type Transition struct {
	SkillID string
	From    Level
	To      Level
	Rule    Rule
}

// Transition returns the level change carried by the snapshot, or nil when
// the rule is stable.
func (s Snapshot) Transition() *Transition {
	if s.Rule == RuleStable {
		return nil
	}
	return &Transition{
		SkillID: s.SkillID,
		From:    s.PriorLevel,
		To:      s.Level,
		Rule:    s.Rule,
	}
}
