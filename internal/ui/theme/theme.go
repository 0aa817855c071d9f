// Package theme holds the terminal palette and the styles used by CLI output.
package theme

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lina/internal/mastery"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// levelColors runs cold to warm as competence grows.
var levelColors = [...]color.Color{
	1: Error,
	2: Accent,
	3: Text,
	4: Secondary,
	5: Success,
}

// LevelColor returns the display color for a competence level.
func LevelColor(l mastery.Level) color.Color {
	if !l.IsValid() {
		return TextDim
	}
	return levelColors[l]
}

// Painter renders styled fragments, or plain text when color is off
// (for example when stdout is not a terminal).
type Painter struct {
	color bool
}

// NewPainter returns a painter. Pass false to emit plain text.
func NewPainter(color bool) Painter {
	return Painter{color: color}
}

func (p Painter) render(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// Title renders a heading.
func (p Painter) Title(text string) string {
	return p.render(Title, text)
}

// Hint renders secondary text.
func (p Painter) Hint(text string) string {
	return p.render(Hint, text)
}

// Level renders a level as "L3 Competent".
func (p Painter) Level(l mastery.Level) string {
	style := lipgloss.NewStyle().Foreground(LevelColor(l))
	if l == mastery.MaxLevel {
		style = style.Bold(true)
	}
	return p.render(style, l.String()+" "+l.Label())
}

// Rule renders a rule as its direction arrow followed by its name.
func (p Painter) Rule(r mastery.Rule) string {
	var c color.Color
	switch r.Direction() {
	case 1:
		c = Success
	case -1:
		c = Error
	default:
		c = TextDim
	}
	return p.render(lipgloss.NewStyle().Foreground(c), r.Arrow()+" "+r.String())
}

// Bar renders a horizontal bar filled to frac of width cells.
func (p Painter) Bar(frac float64, width int) string {
	if width < 4 {
		width = 4
	}
	filled := int(float64(width) * frac)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	empty := width - filled

	if !p.color {
		return strings.Repeat("#", filled) + strings.Repeat(".", empty)
	}
	return lipgloss.NewStyle().Background(Secondary).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(Border).Render(strings.Repeat(" ", empty))
}
