package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

const tableItemSchedules = "item_schedules"

var scheduleColumns = []string{
	"item_id", "skill_id", "easiness", "interval_days", "repetitions",
	"due_ms", "last_grade", "last_review_ms",
}

func (s *Store) GetItemSchedule(ctx context.Context, itemID string) (*ItemScheduleData, error) {
	b := s.builder()
	q, args := b.Select(scheduleColumns...).
		From(b.Table(tableItemSchedules)).
		Where(entsql.EQ("item_id", itemID)).
		Query()

	out, err := s.scanSchedules(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("get item schedule: %w", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (s *Store) PutItemSchedule(ctx context.Context, data ItemScheduleData) error {
	var lastGrade, lastReview any
	if data.LastGrade != nil {
		lastGrade = *data.LastGrade
	}
	if data.LastReview != nil {
		lastReview = toMillis(*data.LastReview)
	}

	q, args := s.builder().Insert(tableItemSchedules).
		Columns(scheduleColumns...).
		Values(
			data.ItemID, data.SkillID, data.Easiness, data.IntervalDays, data.Repetitions,
			toMillis(data.Due), lastGrade, lastReview,
		).
		OnConflict(
			entsql.ConflictColumns("item_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := s.exec(ctx, q, args); err != nil {
		return fmt.Errorf("put item schedule: %w", err)
	}
	return nil
}

func (s *Store) ListItemSchedules(ctx context.Context, sq ScheduleQuery) ([]ItemScheduleData, error) {
	b := s.builder()
	sel := b.Select(scheduleColumns...).
		From(b.Table(tableItemSchedules)).
		OrderBy("due_ms", "item_id")
	if sq.SkillID != "" {
		sel.Where(entsql.EQ("skill_id", sq.SkillID))
	}
	if !sq.DueBefore.IsZero() {
		sel.Where(entsql.LTE("due_ms", toMillis(sq.DueBefore)))
	}
	if sq.Limit > 0 {
		sel.Limit(sq.Limit)
	}

	q, args := sel.Query()
	out, err := s.scanSchedules(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("list item schedules: %w", err)
	}
	return out, nil
}

func (s *Store) scanSchedules(ctx context.Context, q string, args []any) ([]ItemScheduleData, error) {
	rows, err := s.query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ItemScheduleData
	for rows.Next() {
		var (
			d          ItemScheduleData
			dueMs      int64
			lastGrade  sql.NullInt64
			lastReview sql.NullInt64
		)
		if err := rows.Scan(
			&d.ItemID, &d.SkillID, &d.Easiness, &d.IntervalDays, &d.Repetitions,
			&dueMs, &lastGrade, &lastReview,
		); err != nil {
			return nil, fmt.Errorf("scan item schedule: %w", err)
		}
		d.Due = fromMillis(dueMs)
		if lastGrade.Valid {
			g := int(lastGrade.Int64)
			d.LastGrade = &g
		}
		if lastReview.Valid {
			t := fromMillis(lastReview.Int64)
			d.LastReview = &t
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
