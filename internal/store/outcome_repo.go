package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

const tableOutcomes = "outcomes"

func (s *Store) AppendOutcome(ctx context.Context, skillID string, o OutcomeData) error {
	q, args := s.builder().Insert(tableOutcomes).
		Columns("skill_id", "ok", "at_ms").
		Values(skillID, o.OK, toMillis(o.At)).
		Query()
	if err := s.exec(ctx, q, args); err != nil {
		return fmt.Errorf("append outcome: %w", err)
	}
	return nil
}

func (s *Store) Outcomes(ctx context.Context, skillID string) ([]OutcomeData, error) {
	records, err := s.QueryOutcomes(ctx, QueryOpts{SkillID: skillID})
	if err != nil {
		return nil, err
	}
	out := make([]OutcomeData, len(records))
	for i, r := range records {
		out[i] = OutcomeData{OK: r.OK, At: r.At}
	}
	return out, nil
}

func (s *Store) QueryOutcomes(ctx context.Context, opts QueryOpts) ([]OutcomeRecord, error) {
	b := s.builder()
	sel := b.Select("id", "skill_id", "ok", "at_ms").
		From(b.Table(tableOutcomes)).
		OrderBy("id")
	applyQueryOpts(sel, opts)

	q, args := sel.Query()
	rows, err := s.query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var out []OutcomeRecord
	for rows.Next() {
		var (
			r    OutcomeRecord
			atMs int64
		)
		if err := rows.Scan(&r.ID, &r.SkillID, &r.OK, &atMs); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		r.At = fromMillis(atMs)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	return out, nil
}

// applyQueryOpts adds the skill, time range and limit filters to a selector
// over a table with skill_id and at_ms columns.
func applyQueryOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.SkillID != "" {
		sel.Where(entsql.EQ("skill_id", opts.SkillID))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("at_ms", toMillis(opts.From)))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("at_ms", toMillis(opts.To)))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}
