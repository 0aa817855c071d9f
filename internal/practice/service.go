// Package practice wires the scheduling and mastery core to storage. It is
// the entry point for grading items and recording finished reviews.
package practice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/lina/internal/catalog"
	lerrors "github.com/abhisek/lina/internal/errors"
	"github.com/abhisek/lina/internal/mastery"
	"github.com/abhisek/lina/internal/matrix"
	"github.com/abhisek/lina/internal/metrics"
	"github.com/abhisek/lina/internal/reminders"
	"github.com/abhisek/lina/internal/spacedrep"
	"github.com/abhisek/lina/internal/store"
)

// FeedbackFacts is the structured input handed to an external feedback
// generator after a review.
type FeedbackFacts struct {
	EventID    uuid.UUID        `json:"event_id"`
	SkillID    string           `json:"skill_id"`
	SkillTitle string           `json:"skill_title"`
	OK         bool             `json:"ok"`
	Snapshot   mastery.Snapshot `json:"snapshot"`
	Rule       mastery.Rule     `json:"rule"`
}

// Result is returned by ReviewFinished.
type Result struct {
	Competence mastery.Snapshot `json:"competence"`
	Facts      FeedbackFacts    `json:"facts"`
}

// Attempt is one graded answer to an item.
type Attempt struct {
	ItemID  string
	SkillID string // optional
	Grade   spacedrep.Grade
}

// AttemptResult is returned by RecordAttempt. Review is nil when the attempt
// has no skill.
type AttemptResult struct {
	Schedule spacedrep.ItemSchedule `json:"schedule"`
	Review   *Result                `json:"review,omitempty"`
}

// Service records practice and derives competence from the stored history.
type Service struct {
	repo      store.Repo
	catalog   *catalog.Catalog
	engine    *mastery.Engine
	reminders reminders.Config
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l.With().Str("component", "practice").Logger() }
}

// WithMetrics enables metric recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithReminderConfig overrides the reminder thresholds.
func WithReminderConfig(cfg reminders.Config) Option {
	return func(s *Service) { s.reminders = cfg }
}

// NewService creates a practice service.
func NewService(repo store.Repo, cat *catalog.Catalog, engine *mastery.Engine, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		catalog:   cat,
		engine:    engine,
		reminders: reminders.DefaultConfig(),
		logger:    zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the skill catalog the service resolves skills against.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// ReviewFinished records the outcome of a review of skillID, re-evaluates the
// skill's level and persists it if it changed.
func (s *Service) ReviewFinished(ctx context.Context, skillID string, ok bool) (*Result, error) {
	skill, err := s.catalog.Get(skillID)
	if err != nil {
		s.metrics.RecordError("review")
		return nil, err
	}
	now := s.now()

	prior, err := s.storedLevel(ctx, skillID)
	if err != nil {
		s.metrics.RecordError("review")
		return nil, err
	}
	if err := s.repo.AppendOutcome(ctx, skillID, store.OutcomeData{OK: ok, At: now}); err != nil {
		s.metrics.RecordError("review")
		return nil, err
	}
	s.metrics.RecordReview(ok)

	outcomes, err := s.outcomes(ctx, skillID)
	if err != nil {
		s.metrics.RecordError("review")
		return nil, err
	}

	snap, err := s.engine.Evaluate(skillID, prior, outcomes, now)
	if err != nil {
		s.metrics.RecordError("review")
		return nil, err
	}

	eventID := uuid.New()
	if snap.Changed() {
		if err := s.repo.SetMasteryLevel(ctx, skillID, int(snap.Level)); err != nil {
			s.metrics.RecordError("review")
			return nil, err
		}
		s.recordTransition(ctx, eventID, snap.Transition(), snap, now)
	}

	return &Result{
		Competence: snap,
		Facts: FeedbackFacts{
			EventID:    eventID,
			SkillID:    skillID,
			SkillTitle: skill.Title,
			OK:         ok,
			Snapshot:   snap,
			Rule:       snap.Rule,
		},
	}, nil
}

// recordTransition logs and counts a level change and appends it to the
// event log. A failed append is logged and does not fail the review.
func (s *Service) recordTransition(ctx context.Context, id uuid.UUID, tr *mastery.Transition, snap mastery.Snapshot, now time.Time) {
	if tr == nil {
		return
	}
	s.metrics.RecordTransition(tr.Rule.String())
	s.logger.Info().
		Str("skill", tr.SkillID).
		Int("from", int(tr.From)).
		Int("to", int(tr.To)).
		Str("rule", tr.Rule.String()).
		Float64("success_rate", snap.SuccessRate).
		Msg("mastery level changed")

	err := s.repo.AppendMasteryEvent(ctx, store.MasteryEventData{
		ID:          id.String(),
		SkillID:     tr.SkillID,
		FromLevel:   int(tr.From),
		ToLevel:     int(tr.To),
		Rule:        tr.Rule.String(),
		SuccessRate: snap.SuccessRate,
		ReviewCount: snap.ReviewCount,
		At:          now,
	})
	if err != nil {
		s.metrics.RecordError("append_event")
		s.logger.Warn().Err(err).Str("skill", tr.SkillID).Msg("failed to append mastery event")
	}
}

// storedLevel reads the persisted level. An out-of-range value fails with
// mastery.ErrInvalidLevel.
func (s *Service) storedLevel(ctx context.Context, skillID string) (mastery.Level, error) {
	raw, err := s.repo.MasteryLevel(ctx, skillID)
	if err != nil {
		return 0, err
	}
	level := mastery.Level(raw)
	if err := level.Validate(); err != nil {
		return 0, fmt.Errorf("stored level of %s: %w", skillID, err)
	}
	return level, nil
}

func (s *Service) outcomes(ctx context.Context, skillID string) ([]mastery.Outcome, error) {
	data, err := s.repo.Outcomes(ctx, skillID)
	if err != nil {
		return nil, err
	}
	out := make([]mastery.Outcome, len(data))
	for i, d := range data {
		out[i] = mastery.Outcome{OK: d.OK, At: d.At}
	}
	return out, nil
}

// GradeItem applies a grade to an item's schedule, creating the schedule on
// first review.
func (s *Service) GradeItem(ctx context.Context, itemID, skillID string, grade spacedrep.Grade) (spacedrep.ItemSchedule, error) {
	if strings.TrimSpace(itemID) == "" {
		return spacedrep.ItemSchedule{}, fmt.Errorf("%w: empty item ID", lerrors.ErrInvalidInput)
	}
	if err := grade.Validate(); err != nil {
		s.metrics.RecordError("grade")
		return spacedrep.ItemSchedule{}, err
	}
	now := s.now()

	stored, err := s.repo.GetItemSchedule(ctx, itemID)
	if err != nil {
		s.metrics.RecordError("grade")
		return spacedrep.ItemSchedule{}, err
	}
	current := spacedrep.NewItemSchedule(itemID, skillID, now)
	if stored != nil {
		current = fromData(*stored)
		if skillID != "" {
			current.SkillID = skillID
		}
	}

	next, err := spacedrep.Next(current, grade, now)
	if err != nil {
		return spacedrep.ItemSchedule{}, err
	}
	if err := s.repo.PutItemSchedule(ctx, toData(next)); err != nil {
		s.metrics.RecordError("grade")
		return spacedrep.ItemSchedule{}, err
	}
	s.metrics.RecordGrade(grade.String())

	s.logger.Debug().
		Str("item", itemID).
		Int("grade", int(grade)).
		Int("interval_days", next.IntervalDays).
		Float64("easiness", next.Easiness).
		Msg("item graded")
	return next, nil
}

// RecordAttempt grades the item and, when the attempt names a skill, records
// a passed or failed review of that skill.
func (s *Service) RecordAttempt(ctx context.Context, a Attempt) (*AttemptResult, error) {
	if a.SkillID != "" && !s.catalog.Has(a.SkillID) {
		return nil, lerrors.NewMissingSkill(a.SkillID)
	}
	sched, err := s.GradeItem(ctx, a.ItemID, a.SkillID, a.Grade)
	if err != nil {
		return nil, err
	}
	res := &AttemptResult{Schedule: sched}
	if a.SkillID == "" {
		return res, nil
	}

	review, err := s.ReviewFinished(ctx, a.SkillID, a.Grade.Passed())
	if err != nil {
		return nil, err
	}
	res.Review = review
	return res, nil
}

// ItemView is an item schedule with its review status at a point in time.
type ItemView struct {
	spacedrep.ItemSchedule
	Status          spacedrep.ReviewStatus `json:"status"`
	DaysUntilReview int                    `json:"days_until_review"`
	OverdueDays     float64                `json:"overdue_days"`
}

func viewAt(sched spacedrep.ItemSchedule, now time.Time) ItemView {
	return ItemView{
		ItemSchedule:    sched,
		Status:          sched.Status(now),
		DaysUntilReview: sched.DaysUntilReview(now),
		OverdueDays:     sched.OverdueDays(now),
	}
}

// Item returns the schedule of one item. An item that was never graded fails
// with ErrMissingItem.
func (s *Service) Item(ctx context.Context, itemID string) (ItemView, error) {
	d, err := s.repo.GetItemSchedule(ctx, itemID)
	if err != nil {
		return ItemView{}, err
	}
	if d == nil {
		return ItemView{}, lerrors.NewMissingItem(itemID)
	}
	return viewAt(fromData(*d), s.now()), nil
}

// DueItems returns the item schedules due now, most overdue first. A limit
// of 0 returns all of them.
func (s *Service) DueItems(ctx context.Context, limit int) ([]ItemView, error) {
	now := s.now()
	data, err := s.repo.ListItemSchedules(ctx, store.ScheduleQuery{DueBefore: now})
	if err != nil {
		return nil, err
	}
	records := make([]spacedrep.ItemSchedule, len(data))
	for i, d := range data {
		records[i] = fromData(d)
	}
	due := spacedrep.DueItems(records, now)
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	views := make([]ItemView, len(due))
	for i, sched := range due {
		views[i] = viewAt(sched, now)
	}
	return views, nil
}

// Matrix reports every catalog skill at its stored level with the outcome
// aggregates. No rule is re-applied and nothing is written.
func (s *Service) Matrix(ctx context.Context) ([]matrix.Row, error) {
	skills := s.catalog.Skills()
	h, err := matrix.LoadHistory(ctx, s.repo, skills)
	if err != nil {
		return nil, err
	}
	return matrix.Compute(skills, h, s.engine)
}

// Buckets counts skills per stored level.
func (s *Service) Buckets(ctx context.Context) (matrix.Buckets, error) {
	rows, err := s.Matrix(ctx)
	if err != nil {
		return nil, err
	}
	return matrix.BucketByLevel(rows), nil
}

// Reminders derives the practice reminders from the current matrix.
func (s *Service) Reminders(ctx context.Context) ([]reminders.Reminder, error) {
	rows, err := s.Matrix(ctx)
	if err != nil {
		return nil, err
	}
	return reminders.Generate(rows, s.now(), s.reminders), nil
}

// Events returns the most recent mastery level changes, newest first.
func (s *Service) Events(ctx context.Context, opts store.QueryOpts) ([]store.MasteryEventData, error) {
	return s.repo.QueryMasteryEvents(ctx, opts)
}

// LogFlow records how fluent and how challenging practice felt, each in [0,1].
func (s *Service) LogFlow(ctx context.Context, fluency, challenge float64) (store.FlowData, error) {
	for name, v := range map[string]float64{"fluency": fluency, "challenge": challenge} {
		if v < 0 || v > 1 || v != v {
			return store.FlowData{}, fmt.Errorf("%w: %s %v outside [0,1]", lerrors.ErrInvalidInput, name, v)
		}
	}
	entry := store.FlowData{Fluency: fluency, Challenge: challenge, At: s.now()}
	if err := s.repo.AppendFlow(ctx, entry); err != nil {
		s.metrics.RecordError("flow")
		return store.FlowData{}, err
	}
	s.logger.Debug().
		Float64("fluency", fluency).
		Float64("challenge", challenge).
		Msg("flow logged")
	return entry, nil
}

// Flow returns logged flow signals, newest first.
func (s *Service) Flow(ctx context.Context, opts store.QueryOpts) ([]store.FlowData, error) {
	return s.repo.QueryFlow(ctx, opts)
}
