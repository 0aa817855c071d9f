package catalog

import (
	"fmt"
	"slices"
	"strings"

	lerrors "github.com/abhisek/lina/internal/errors"
)

// Catalog is an immutable, ordered set of skills.
type Catalog struct {
	skills  []Skill
	byID    map[string]int
	byTopic map[string][]Skill
	topics  []string
}

// New builds a catalog from skills, keeping their order.
func New(skills []Skill) (*Catalog, error) {
	if err := validateSkills(skills); err != nil {
		return nil, err
	}

	c := &Catalog{
		skills:  slices.Clone(skills),
		byID:    make(map[string]int, len(skills)),
		byTopic: make(map[string][]Skill),
	}
	for i, s := range c.skills {
		c.byID[s.ID] = i
		if _, seen := c.byTopic[s.Topic]; !seen {
			c.topics = append(c.topics, s.Topic)
		}
		c.byTopic[s.Topic] = append(c.byTopic[s.Topic], s)
	}
	return c, nil
}

// Get returns the skill with the given ID, or an error wrapping ErrMissingSkill.
func (c *Catalog) Get(id string) (Skill, error) {
	i, ok := c.byID[id]
	if !ok {
		return Skill{}, lerrors.NewMissingSkill(id)
	}
	return c.skills[i], nil
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Skills returns all skills in catalog order.
func (c *Catalog) Skills() []Skill {
	return slices.Clone(c.skills)
}

// Len returns the number of skills.
func (c *Catalog) Len() int {
	return len(c.skills)
}

// ByTopic returns the skills of a topic in catalog order.
func (c *Catalog) ByTopic(topic string) []Skill {
	return slices.Clone(c.byTopic[topic])
}

// Topics returns the distinct topics in order of first appearance.
func (c *Catalog) Topics() []string {
	return slices.Clone(c.topics)
}

// validateSkills performs all structural checks on the given skill set.
// Returns a combined error describing all problems found, or nil if valid.
func validateSkills(skills []Skill) error {
	var errs []string

	if len(skills) == 0 {
		errs = append(errs, "catalog has no skills")
	}

	seen := make(map[string]bool, len(skills))
	for i, s := range skills {
		if strings.TrimSpace(s.ID) == "" {
			errs = append(errs, fmt.Sprintf("skill %d: empty ID", i))
			continue
		}
		if seen[s.ID] {
			errs = append(errs, fmt.Sprintf("duplicate skill ID: %q", s.ID))
		}
		seen[s.ID] = true
		if strings.TrimSpace(s.Title) == "" {
			errs = append(errs, fmt.Sprintf("skill %q: empty title", s.ID))
		}
		if strings.TrimSpace(s.Topic) == "" {
			errs = append(errs, fmt.Sprintf("skill %q: empty topic", s.ID))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: catalog validation failed:\n  %s", lerrors.ErrInvalidInput, strings.Join(errs, "\n  "))
	}
	return nil
}
