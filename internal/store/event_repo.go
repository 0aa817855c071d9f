package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const tableMasteryEvents = "mastery_events"

func (s *Store) AppendMasteryEvent(ctx context.Context, data MasteryEventData) error {
	if data.ID == "" {
		data.ID = uuid.NewString()
	}
	q, args := s.builder().Insert(tableMasteryEvents).
		Columns("id", "skill_id", "from_level", "to_level", "rule", "success_rate", "review_count", "at_ms").
		Values(data.ID, data.SkillID, data.FromLevel, data.ToLevel, data.Rule, data.SuccessRate, data.ReviewCount, toMillis(data.At)).
		Query()
	if err := s.exec(ctx, q, args); err != nil {
		return fmt.Errorf("save mastery event: %w", err)
	}
	return nil
}

func (s *Store) QueryMasteryEvents(ctx context.Context, opts QueryOpts) ([]MasteryEventData, error) {
	b := s.builder()
	sel := b.Select("id", "skill_id", "from_level", "to_level", "rule", "success_rate", "review_count", "at_ms").
		From(b.Table(tableMasteryEvents)).
		OrderBy(entsql.Desc("at_ms"), entsql.Desc("seq"))
	applyQueryOpts(sel, opts)

	q, args := sel.Query()
	rows, err := s.query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("query mastery events: %w", err)
	}
	defer rows.Close()

	var out []MasteryEventData
	for rows.Next() {
		var (
			e    MasteryEventData
			atMs int64
		)
		if err := rows.Scan(&e.ID, &e.SkillID, &e.FromLevel, &e.ToLevel, &e.Rule, &e.SuccessRate, &e.ReviewCount, &atMs); err != nil {
			return nil, fmt.Errorf("scan mastery event: %w", err)
		}
		e.At = fromMillis(atMs)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query mastery events: %w", err)
	}
	return out, nil
}
