package mastery

import "fmt"

var levelLabels = [...]string{
	1: "Novice",
	2: "Beginner",
	3: "Competent",
	4: "Proficient",
	5: "Expert",
}

// Label returns a short human-readable name for the level.
func (l Level) Label() string {
	if !l.IsValid() {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelLabels[l]
}

// String renders the level as "L3".
func (l Level) String() string {
	return fmt.Sprintf("L%d", int(l))
}

// Arrow returns a one-character marker for a rule's direction.
func (r Rule) Arrow() string {
	switch r.Direction() {
	case 1:
		return "↑"
	case -1:
		return "↓"
	}
	return "·"
}
