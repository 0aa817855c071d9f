package store

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepo is an in-process Repo. It is safe for concurrent use and
// loses all data when the process exits.
type MemoryRepo struct {
	mu        sync.RWMutex
	schedules map[string]ItemScheduleData
	outcomes  []OutcomeRecord
	levels    map[string]int
	events    []MasteryEventData
	flow      []FlowData
}

var _ Repo = (*MemoryRepo)(nil)

// NewMemoryRepo returns an empty in-memory repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		schedules: make(map[string]ItemScheduleData),
		levels:    make(map[string]int),
	}
}

func (m *MemoryRepo) GetItemSchedule(_ context.Context, itemID string) (*ItemScheduleData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.schedules[itemID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *MemoryRepo) PutItemSchedule(_ context.Context, data ItemScheduleData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules[data.ItemID] = data
	return nil
}

func (m *MemoryRepo) ListItemSchedules(_ context.Context, q ScheduleQuery) ([]ItemScheduleData, error) {
	m.mu.RLock()
	var out []ItemScheduleData
	for _, d := range m.schedules {
		if q.SkillID != "" && d.SkillID != q.SkillID {
			continue
		}
		if !q.DueBefore.IsZero() && d.Due.After(q.DueBefore) {
			continue
		}
		out = append(out, d)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Due.Equal(out[j].Due) {
			return out[i].Due.Before(out[j].Due)
		}
		return out[i].ItemID < out[j].ItemID
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *MemoryRepo) AppendOutcome(_ context.Context, skillID string, o OutcomeData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, OutcomeRecord{
		ID:      int64(len(m.outcomes) + 1),
		SkillID: skillID,
		OK:      o.OK,
		At:      o.At,
	})
	return nil
}

func (m *MemoryRepo) Outcomes(_ context.Context, skillID string) ([]OutcomeData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []OutcomeData
	for _, r := range m.outcomes {
		if r.SkillID == skillID {
			out = append(out, OutcomeData{OK: r.OK, At: r.At})
		}
	}
	return out, nil
}

func (m *MemoryRepo) QueryOutcomes(_ context.Context, opts QueryOpts) ([]OutcomeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []OutcomeRecord
	for _, r := range m.outcomes {
		if !opts.matches(r.SkillID, r.At) {
			continue
		}
		out = append(out, r)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryRepo) MasteryLevel(_ context.Context, skillID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.levels[skillID]; ok {
		return l, nil
	}
	return DefaultLevel, nil
}

func (m *MemoryRepo) SetMasteryLevel(_ context.Context, skillID string, level int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[skillID] = level
	return nil
}

func (m *MemoryRepo) AppendMasteryEvent(_ context.Context, data MasteryEventData) error {
	if data.ID == "" {
		data.ID = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, data)
	return nil
}

func (m *MemoryRepo) QueryMasteryEvents(_ context.Context, opts QueryOpts) ([]MasteryEventData, error) {
	m.mu.RLock()
	events := slices.Clone(m.events)
	m.mu.RUnlock()

	// Newest first; events appended later win ties.
	slices.Reverse(events)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].At.After(events[j].At)
	})

	var out []MasteryEventData
	for _, e := range events {
		if !opts.matches(e.SkillID, e.At) {
			continue
		}
		out = append(out, e)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryRepo) AppendFlow(_ context.Context, data FlowData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data.ID = int64(len(m.flow) + 1)
	m.flow = append(m.flow, data)
	return nil
}

func (m *MemoryRepo) QueryFlow(_ context.Context, opts QueryOpts) ([]FlowData, error) {
	m.mu.RLock()
	entries := slices.Clone(m.flow)
	m.mu.RUnlock()

	slices.Reverse(entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].At.After(entries[j].At)
	})

	opts.SkillID = ""
	var out []FlowData
	for _, f := range entries {
		if !opts.matches("", f.At) {
			continue
		}
		out = append(out, f)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}
