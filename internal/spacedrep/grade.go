package spacedrep

import (
	"encoding"
	"fmt"
	"strconv"

	lerrors "github.com/abhisek/lina/internal/errors"
)

// ErrInvalidGrade is returned for grades outside [0,4]. It wraps ErrInvalidInput.
var ErrInvalidGrade = fmt.Errorf("%w: grade", lerrors.ErrInvalidInput)

// Grade is the quality of recall for a single review, 0 (blackout) to 4 (perfect).
type Grade int

const (
	GradeBlackout  Grade = iota // No recall at all.
	GradeWrong                  // Wrong, but the answer looked familiar.
	GradeHard                   // Wrong, recalled only after seeing the answer.
	GradeGood                   // Correct with effort.
	GradePerfect                // Correct, immediate recall.
)

// PassingGrade is the lowest grade that counts as a successful review.
const PassingGrade = GradeGood

var (
	_ fmt.Stringer             = Grade(0)
	_ encoding.TextMarshaler   = Grade(0)
	_ encoding.TextUnmarshaler = (*Grade)(nil)
)

// IsValid reports whether g lies in [0,4].
func (g Grade) IsValid() bool {
	return g >= GradeBlackout && g <= GradePerfect
}

// Passed reports whether g counts as a successful review.
func (g Grade) Passed() bool {
	return g >= PassingGrade
}

// String returns the numeric form of the grade, or "Grade(n)" when invalid.
func (g Grade) String() string {
	if g.IsValid() {
		return strconv.Itoa(int(g))
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}

// Validate returns an error wrapping ErrInvalidGrade when g is out of range.
func (g Grade) Validate() error {
	if !g.IsValid() {
		return fmt.Errorf("%w %d outside [0,4]", ErrInvalidGrade, int(g))
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (g Grade) MarshalText() ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Accepts "0" through "4".
func (g *Grade) UnmarshalText(text []byte) error {
	n, err := strconv.Atoi(string(text))
	if err != nil {
		return fmt.Errorf("%w %q", ErrInvalidGrade, text)
	}
	v := Grade(n)
	if err := v.Validate(); err != nil {
		return err
	}
	*g = v
	return nil
}

// ParseGrade parses a textual grade.
func ParseGrade(s string) (Grade, error) {
	var g Grade
	if err := g.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return g, nil
}
