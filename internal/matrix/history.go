package matrix

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/lina/internal/catalog"
	"github.com/abhisek/lina/internal/mastery"
	"github.com/abhisek/lina/internal/store"
)

// loadConcurrency bounds the number of skills read from the store at once.
const loadConcurrency = 8

// Source is the part of the store LoadHistory reads from.
type Source interface {
	Outcomes(ctx context.Context, skillID string) ([]store.OutcomeData, error)
	MasteryLevel(ctx context.Context, skillID string) (int, error)
}

// MemoryHistory is an in-memory History keyed by skill ID.
type MemoryHistory struct {
	outcomes map[string][]mastery.Outcome
	levels   map[string]mastery.Level
}

// NewMemoryHistory returns an empty history.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{
		outcomes: make(map[string][]mastery.Outcome),
		levels:   make(map[string]mastery.Level),
	}
}

// Set stores the level and outcome log of a skill.
func (h *MemoryHistory) Set(skillID string, level mastery.Level, outcomes []mastery.Outcome) {
	h.levels[skillID] = level
	h.outcomes[skillID] = outcomes
}

// Outcomes implements History.
func (h *MemoryHistory) Outcomes(skillID string) []mastery.Outcome {
	return h.outcomes[skillID]
}

// Level implements History. The stored value is returned unchecked.
func (h *MemoryHistory) Level(skillID string) mastery.Level {
	if l, ok := h.levels[skillID]; ok {
		return l
	}
	return mastery.MinLevel
}

// LoadHistory reads the stored level and outcome log of every skill.
func LoadHistory(ctx context.Context, src Source, skills []catalog.Skill) (*MemoryHistory, error) {
	h := NewMemoryHistory()
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for _, s := range skills {
		g.Go(func() error {
			level, err := src.MasteryLevel(ctx, s.ID)
			if err != nil {
				return fmt.Errorf("load level %s: %w", s.ID, err)
			}
			data, err := src.Outcomes(ctx, s.ID)
			if err != nil {
				return fmt.Errorf("load outcomes %s: %w", s.ID, err)
			}

			outcomes := make([]mastery.Outcome, len(data))
			for i, d := range data {
				outcomes[i] = mastery.Outcome{OK: d.OK, At: d.At}
			}

			mu.Lock()
			h.Set(s.ID, mastery.Level(level), outcomes)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return h, nil
}
