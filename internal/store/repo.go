package store

import (
	"context"
	"time"
)

// QueryOpts configures log queries with filtering and pagination.
type QueryOpts struct {
	SkillID string    // only this skill ("" = all)
	Limit   int       // max results (0 = unlimited)
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// ItemScheduleData is the persisted scheduling state of one item.
type ItemScheduleData struct {
	ItemID       string
	SkillID      string
	Easiness     float64
	IntervalDays int
	Repetitions  int
	Due          time.Time
	LastGrade    *int
	LastReview   *time.Time
}

// ScheduleQuery filters item schedules.
type ScheduleQuery struct {
	SkillID   string    // "" = all skills
	DueBefore time.Time // zero = no bound
	Limit     int       // 0 = unlimited
}

// OutcomeData is one appended review outcome.
type OutcomeData struct {
	OK bool
	At time.Time
}

// OutcomeRecord is an outcome with its storage identity, used for export.
type OutcomeRecord struct {
	ID      int64
	SkillID string
	OK      bool
	At      time.Time
}

// MasteryEventData records a level change.
type MasteryEventData struct {
	ID          string    `json:"id"`
	SkillID     string    `json:"skill_id"`
	FromLevel   int       `json:"from_level"`
	ToLevel     int       `json:"to_level"`
	Rule        string    `json:"rule"`
	SuccessRate float64   `json:"success_rate"`
	ReviewCount int       `json:"review_count"`
	At          time.Time `json:"at"`
}

// FlowData is one self-reported flow signal: how fluent practice felt and how
// challenging it was, each in [0,1].
type FlowData struct {
	ID        int64     `json:"id,omitempty"`
	Fluency   float64   `json:"fluency"`
	Challenge float64   `json:"challenge"`
	At        time.Time `json:"at"`
}

// ScheduleRepo persists per-item scheduling state.
type ScheduleRepo interface {
	// GetItemSchedule returns the schedule for an item, or nil if none exists.
	GetItemSchedule(ctx context.Context, itemID string) (*ItemScheduleData, error)

	// PutItemSchedule creates or overwrites an item's schedule.
	PutItemSchedule(ctx context.Context, data ItemScheduleData) error

	// ListItemSchedules returns schedules ordered by due time, then item ID.
	ListItemSchedules(ctx context.Context, q ScheduleQuery) ([]ItemScheduleData, error)
}

// OutcomeRepo holds the append-only per-skill outcome log.
type OutcomeRepo interface {
	// AppendOutcome adds an outcome to the end of a skill's log.
	AppendOutcome(ctx context.Context, skillID string, o OutcomeData) error

	// Outcomes returns a skill's full log in append order.
	Outcomes(ctx context.Context, skillID string) ([]OutcomeData, error)

	// QueryOutcomes returns outcomes across skills in append order.
	QueryOutcomes(ctx context.Context, opts QueryOpts) ([]OutcomeRecord, error)
}

// LevelRepo persists the current mastery level per skill.
type LevelRepo interface {
	// MasteryLevel returns the stored level, or 1 if none is stored.
	MasteryLevel(ctx context.Context, skillID string) (int, error)

	// SetMasteryLevel creates or overwrites the stored level.
	SetMasteryLevel(ctx context.Context, skillID string, level int) error
}

// EventRepo records mastery level changes.
type EventRepo interface {
	// AppendMasteryEvent records a level change.
	AppendMasteryEvent(ctx context.Context, data MasteryEventData) error

	// QueryMasteryEvents returns events newest first.
	QueryMasteryEvents(ctx context.Context, opts QueryOpts) ([]MasteryEventData, error)
}

// FlowRepo holds the append-only flow signal log.
type FlowRepo interface {
	// AppendFlow adds an entry to the log. The ID is assigned by the repo.
	AppendFlow(ctx context.Context, data FlowData) error

	// QueryFlow returns entries newest first. SkillID in opts is ignored.
	QueryFlow(ctx context.Context, opts QueryOpts) ([]FlowData, error)
}

// Repo is the full storage collaborator.
type Repo interface {
	ScheduleRepo
	OutcomeRepo
	LevelRepo
	EventRepo
	FlowRepo
}

// DefaultLevel is returned by MasteryLevel for skills without a stored level.
const DefaultLevel = 1

func (o QueryOpts) matches(skillID string, at time.Time) bool {
	if o.SkillID != "" && skillID != o.SkillID {
		return false
	}
	if !o.From.IsZero() && at.Before(o.From) {
		return false
	}
	if !o.To.IsZero() && at.After(o.To) {
		return false
	}
	return true
}
