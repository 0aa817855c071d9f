package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const tableMasteryLevels = "mastery_levels"

func (s *Store) MasteryLevel(ctx context.Context, skillID string) (int, error) {
	b := s.builder()
	q, args := b.Select("level").
		From(b.Table(tableMasteryLevels)).
		Where(entsql.EQ("skill_id", skillID)).
		Query()

	rows, err := s.query(ctx, q, args)
	if err != nil {
		return 0, fmt.Errorf("get mastery level: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("get mastery level: %w", err)
		}
		return DefaultLevel, nil
	}
	var level int
	if err := rows.Scan(&level); err != nil {
		return 0, fmt.Errorf("scan mastery level: %w", err)
	}
	return level, nil
}

func (s *Store) SetMasteryLevel(ctx context.Context, skillID string, level int) error {
	q, args := s.builder().Insert(tableMasteryLevels).
		Columns("skill_id", "level", "updated_ms").
		Values(skillID, level, toMillis(time.Now())).
		OnConflict(
			entsql.ConflictColumns("skill_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := s.exec(ctx, q, args); err != nil {
		return fmt.Errorf("set mastery level: %w", err)
	}
	return nil
}
