package mastery

import (
	"errors"
	"testing"

	lerrors "github.com/abhisek/lina/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_Validate(t *testing.T) {
	for _, l := range Levels() {
		assert.NoError(t, l.Validate(), "level %d", l)
	}
	for _, l := range []Level{0, -1, 6} {
		err := l.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidLevel))
		assert.True(t, lerrors.IsInvalidInput(err))
	}
}

func TestRule_Direction(t *testing.T) {
	tests := []struct {
		rule Rule
		want int
	}{
		{RuleStable, 0},
		{RulePromote, 1},
		{RuleDemoteStreak, -1},
		{RuleDemoteInactivity, -1},
	}
	for _, tt := range tests {
		t.Run(tt.rule.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Direction())
		})
	}
}

func TestRule_DirectionPanicsOnUnknown(t *testing.T) {
	assert.Panics(t, func() { Rule(42).Direction() })
}

func TestRule_Text(t *testing.T) {
	names := map[Rule]string{
		RuleStable:           "stable",
		RulePromote:          "promote",
		RuleDemoteStreak:     "demote-streak",
		RuleDemoteInactivity: "demote-inactivity",
	}
	for r, name := range names {
		b, err := r.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, name, string(b))

		var got Rule
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, r, got)
	}

	_, err := Rule(9).MarshalText()
	assert.Error(t, err)

	var r Rule
	err = r.UnmarshalText([]byte("demote"))
	assert.True(t, lerrors.IsInvalidInput(err))
	assert.Equal(t, "Rule(9)", Rule(9).String())
}

func TestSnapshot_Transition(t *testing.T) {
	stable := Snapshot{SkillID: "s", PriorLevel: 2, Level: 2, Rule: RuleStable}
	assert.Nil(t, stable.Transition())
	assert.False(t, stable.Changed())

	up := Snapshot{SkillID: "s", PriorLevel: 2, Level: 3, Rule: RulePromote}
	tr := up.Transition()
	require.NotNil(t, tr)
	assert.Equal(t, Transition{SkillID: "s", From: 2, To: 3, Rule: RulePromote}, *tr)
	assert.True(t, up.Changed())
}

func TestLevel_Label(t *testing.T) {
	assert.Equal(t, "Novice", Level(1).Label())
	assert.Equal(t, "Expert", Level(5).Label())
	assert.Equal(t, "Level(7)", Level(7).Label())
	assert.Equal(t, "L3", Level(3).String())
	assert.Equal(t, "↑", RulePromote.Arrow())
	assert.Equal(t, "↓", RuleDemoteInactivity.Arrow())
	assert.Equal(t, "·", RuleStable.Arrow())
}
