// Package export writes the outcome log and mastery events as Parquet files
// using github.com/parquet-go/parquet-go.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/abhisek/lina/internal/store"
)

// OutcomeRow is one review outcome in the outcome log export.
type OutcomeRow struct {
	// ID is the storage sequence number of the outcome.
	ID int64 `parquet:"id,snappy"`

	SkillID string `parquet:"skill_id,snappy"`

	OK bool `parquet:"ok,snappy"`

	// ReviewedAt is stored as TIMESTAMP with nanosecond precision.
	ReviewedAt time.Time `parquet:"reviewed_at,snappy"`
}

// MasteryEventRow is one level change in the mastery event export.
type MasteryEventRow struct {
	EventID     string    `parquet:"event_id,snappy"`
	SkillID     string    `parquet:"skill_id,snappy"`
	FromLevel   int32     `parquet:"from_level,snappy"`
	ToLevel     int32     `parquet:"to_level,snappy"`
	Rule        string    `parquet:"rule,snappy"`
	SuccessRate float64   `parquet:"success_rate,snappy"`
	ReviewCount int32     `parquet:"review_count,snappy"`
	At          time.Time `parquet:"at,snappy"`
}

// Kind selects which data set to export.
type Kind string

const (
	KindOutcomes Kind = "outcomes"
	KindEvents   Kind = "events"
)

// ParseKind validates an export kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindOutcomes, KindEvents:
		return k, nil
	}
	return "", fmt.Errorf("unknown export kind %q (want %s or %s)", s, KindOutcomes, KindEvents)
}

// OutcomeRows converts stored outcome records to export rows.
func OutcomeRows(records []store.OutcomeRecord) []OutcomeRow {
	rows := make([]OutcomeRow, len(records))
	for i, r := range records {
		rows[i] = OutcomeRow{
			ID:         r.ID,
			SkillID:    r.SkillID,
			OK:         r.OK,
			ReviewedAt: r.At.UTC(),
		}
	}
	return rows
}

// MasteryEventRows converts stored mastery events to export rows.
func MasteryEventRows(events []store.MasteryEventData) []MasteryEventRow {
	rows := make([]MasteryEventRow, len(events))
	for i, e := range events {
		rows[i] = MasteryEventRow{
			EventID:     e.ID,
			SkillID:     e.SkillID,
			FromLevel:   int32(e.FromLevel),
			ToLevel:     int32(e.ToLevel),
			Rule:        e.Rule,
			SuccessRate: e.SuccessRate,
			ReviewCount: int32(e.ReviewCount),
			At:          e.At.UTC(),
		}
	}
	return rows
}

// WriteOutcomes writes the outcome records to w as a Parquet file.
func WriteOutcomes(w io.Writer, records []store.OutcomeRecord) error {
	return write(w, OutcomeRows(records))
}

// WriteMasteryEvents writes the mastery events to w as a Parquet file.
func WriteMasteryEvents(w io.Writer, events []store.MasteryEventData) error {
	return write(w, MasteryEventRows(events))
}

func write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if len(rows) > 0 {
		if _, err := writer.Write(rows); err != nil {
			_ = writer.Close()
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
