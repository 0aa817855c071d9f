package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

const tableFlow = "flow_log"

func (s *Store) AppendFlow(ctx context.Context, data FlowData) error {
	q, args := s.builder().Insert(tableFlow).
		Columns("fluency", "challenge", "at_ms").
		Values(data.Fluency, data.Challenge, toMillis(data.At)).
		Query()
	if err := s.exec(ctx, q, args); err != nil {
		return fmt.Errorf("append flow: %w", err)
	}
	return nil
}

func (s *Store) QueryFlow(ctx context.Context, opts QueryOpts) ([]FlowData, error) {
	b := s.builder()
	sel := b.Select("id", "fluency", "challenge", "at_ms").
		From(b.Table(tableFlow)).
		OrderBy(entsql.Desc("at_ms"), entsql.Desc("id"))
	opts.SkillID = ""
	applyQueryOpts(sel, opts)

	q, args := sel.Query()
	rows, err := s.query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("query flow: %w", err)
	}
	defer rows.Close()

	var out []FlowData
	for rows.Next() {
		var (
			f    FlowData
			atMs int64
		)
		if err := rows.Scan(&f.ID, &f.Fluency, &f.Challenge, &atMs); err != nil {
			return nil, fmt.Errorf("scan flow: %w", err)
		}
		f.At = fromMillis(atMs)
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query flow: %w", err)
	}
	return out, nil
}
