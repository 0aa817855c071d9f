package mastery

import (
	"math/rand"
	"testing"
	"time"

	lerrors "github.com/abhisek/lina/internal/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig())
	require.NoError(t, err)
	return e
}

// recent returns outcomes ending one hour before now.
func recent(oks ...bool) []Outcome {
	return outcomesAt(now.Add(-time.Hour-time.Duration(len(oks))*time.Minute), oks...)
}

func repeat(ok bool, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = ok
	}
	return out
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	bad := []func(*Config){
		func(c *Config) { c.Window = 0 },
		func(c *Config) { c.StreakLength = 0 },
		func(c *Config) { c.InactivityAfter = 0 },
		func(c *Config) { c.MinSamples = -1 },
		func(c *Config) { c.MinSamples = 0 },
		func(c *Config) { c.PromoteThreshold = 1.5 },
	}
	for i, mutate := range bad {
		cfg := DefaultConfig()
		mutate(&cfg)
		_, err := NewEngine(cfg)
		assert.True(t, lerrors.IsInvalidInput(err), "case %d: %v", i, err)
	}
}

func TestEngine_Current(t *testing.T) {
	e := newTestEngine(t)
	// A history that would promote under Evaluate leaves the level alone.
	outcomes := outcomesAt(now.Add(-time.Hour), repeat(true, 6)...)

	snap, err := e.Current("s", 2, outcomes)
	require.NoError(t, err)
	assert.Equal(t, Level(2), snap.Level)
	assert.Equal(t, Level(2), snap.PriorLevel)
	assert.Equal(t, RuleStable, snap.Rule)
	assert.False(t, snap.Changed())
	assert.Equal(t, 6, snap.ReviewCount)
	assert.InDelta(t, 1.0, snap.SuccessRate, 1e-9)

	_, err = e.Current("s", 7, outcomes)
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestEvaluate_InvalidPriorLevel(t *testing.T) {
	e := newTestEngine(t)
	for _, prior := range []Level{0, 6} {
		_, err := e.Evaluate("s", prior, nil, now)
		assert.ErrorIs(t, err, ErrInvalidLevel)
		assert.True(t, lerrors.IsInvalidInput(err))
	}
}

func TestEvaluate_Rules(t *testing.T) {
	e := newTestEngine(t)
	stale := outcomesAt(now.Add(-8*24*time.Hour), repeat(true, 10)...)

	tests := []struct {
		name      string
		prior     Level
		outcomes  []Outcome
		wantRule  Rule
		wantLevel Level
	}{
		{"empty history is stable", 1, nil, RuleStable, 1},
		{"empty history keeps higher level", 4, nil, RuleStable, 4},
		{"inactivity demotes", 3, stale, RuleDemoteInactivity, 2},
		{"inactivity beats high success rate", 4, stale, RuleDemoteInactivity, 3},
		{"inactivity at level 1 falls through to promote", 1, stale, RulePromote, 2},
		{"failure streak demotes", 3, recent(true, true, false, false, false), RuleDemoteStreak, 2},
		{"streak at level 1 is stable", 1, recent(false, false, false), RuleStable, 1},
		{"two failures are not a streak", 3, recent(false, false), RuleStable, 3},
		{"promote with enough samples", 2, recent(repeat(true, 5)...), RulePromote, 3},
		{"promote blocked below sample floor", 2, recent(repeat(true, 4)...), RuleStable, 2},
		{"promote blocked at level 5", 5, recent(repeat(true, 10)...), RuleStable, 5},
		{"low success rate is stable", 2, recent(true, false, true, false, true, true), RuleStable, 2},
		{"streak after a long success run", 2, recent(append(repeat(true, 20), false, false, false)...), RuleDemoteStreak, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := e.Evaluate("skill", tt.prior, tt.outcomes, now)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRule, snap.Rule)
			assert.Equal(t, tt.wantLevel, snap.Level)
			assert.Equal(t, tt.prior, snap.PriorLevel)
		})
	}
}

func TestEvaluate_InactivityBoundary(t *testing.T) {
	e := newTestEngine(t)
	exactly := []Outcome{{OK: true, At: now.Add(-7 * 24 * time.Hour)}}
	snap, err := e.Evaluate("s", 3, exactly, now)
	require.NoError(t, err)
	assert.Equal(t, RuleStable, snap.Rule, "exactly the threshold is not inactive")

	past := []Outcome{{OK: true, At: now.Add(-7*24*time.Hour - time.Second)}}
	snap, err = e.Evaluate("s", 3, past, now)
	require.NoError(t, err)
	assert.Equal(t, RuleDemoteInactivity, snap.Rule)
}

func TestEvaluate_Snapshot(t *testing.T) {
	e := newTestEngine(t)
	log := recent(true, false, true, true)
	last := log[3].At

	snap, err := e.Evaluate("ueb01-b3-fibonacci", 2, log, now)
	require.NoError(t, err)

	want := Snapshot{
		SkillID:      "ueb01-b3-fibonacci",
		PriorLevel:   2,
		Level:        2,
		Rule:         RuleStable,
		SuccessRate:  0.75,
		ReviewCount:  4,
		LastReviewAt: &last,
	}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Errorf("Evaluate() mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluate_RuleDirectionConsistency(t *testing.T) {
	e := newTestEngine(t)
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 500; i++ {
		n := rng.Intn(25)
		start := now.Add(-time.Duration(rng.Intn(20*24)) * time.Hour)
		log := make([]Outcome, n)
		for j := range log {
			log[j] = Outcome{OK: rng.Intn(3) > 0, At: start.Add(time.Duration(j) * time.Minute)}
		}
		prior := Level(1 + rng.Intn(5))

		snap, err := e.Evaluate("s", prior, log, now)
		require.NoError(t, err)

		assert.True(t, snap.Level.IsValid(), "level %d out of bounds", snap.Level)
		assert.Equal(t, prior+Level(snap.Rule.Direction()), snap.Level)
		switch snap.Rule {
		case RulePromote:
			assert.Less(t, prior, MaxLevel)
		case RuleDemoteStreak, RuleDemoteInactivity:
			assert.Greater(t, prior, MinLevel)
		}
	}
}

func TestEvaluate_PromotionScenario(t *testing.T) {
	e := newTestEngine(t)
	var log []Outcome
	level := Level(1)

	for i := 0; i < 3; i++ {
		log = append(log, Outcome{OK: true, At: now.Add(time.Duration(i) * time.Minute)})
	}
	snap, err := e.Evaluate("s", level, log, now.Add(3*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, RuleStable, snap.Rule)
	assert.Equal(t, Level(1), snap.Level)

	for i := 3; i < 5; i++ {
		log = append(log, Outcome{OK: true, At: now.Add(time.Duration(i) * time.Minute)})
	}
	snap, err = e.Evaluate("s", level, log, now.Add(5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, RulePromote, snap.Rule)
	assert.Equal(t, Level(2), snap.Level)
	assert.Equal(t, 1.0, snap.SuccessRate)
	assert.Equal(t, 5, snap.ReviewCount)
}
