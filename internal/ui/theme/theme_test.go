package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/lina/internal/mastery"
)

func TestPlainPainter(t *testing.T) {
	p := NewPainter(false)

	assert.Equal(t, "L3 Competent", p.Level(3))
	assert.Equal(t, "↑ promote", p.Rule(mastery.RulePromote))
	assert.Equal(t, "↓ demote-streak", p.Rule(mastery.RuleDemoteStreak))
	assert.Equal(t, "· stable", p.Rule(mastery.RuleStable))
	assert.Equal(t, "Skills", p.Title("Skills"))
}

func TestBar(t *testing.T) {
	p := NewPainter(false)

	tests := []struct {
		frac  float64
		width int
		want  string
	}{
		{0, 8, "........"},
		{0.5, 8, "####...."},
		{1, 8, "########"},
		{1.7, 4, "####"},
		{-1, 4, "...."},
		{1, 2, "####"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Bar(tt.frac, tt.width))
	}
}

func TestColorPainterStyles(t *testing.T) {
	p := NewPainter(true)
	// Styled output still carries the plain text.
	assert.Contains(t, p.Level(5), "Expert")
	assert.Equal(t, TextDim, LevelColor(9))
}
