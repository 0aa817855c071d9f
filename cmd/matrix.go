package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/lina/internal/mastery"
	"github.com/abhisek/lina/internal/matrix"
)

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Show the evaluated competence level of every skill",
	RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, args []string) error {
		rows, err := rt.svc.Matrix(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(out, struct {
				Skills  []matrix.Row   `json:"skills"`
				Buckets matrix.Buckets `json:"buckets"`
			}{rows, matrix.BucketByLevel(rows)})
		}
		return printMatrix(out, rows)
	}),
}

func init() {
	matrixCmd.Flags().Bool("json", false, "Print JSON instead of a table")
}

func printMatrix(w io.Writer, rows []matrix.Row) error {
	p := painterFor(w)

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		s := r.Snapshot
		last := "-"
		if s.LastReviewAt != nil {
			last = s.LastReviewAt.Local().Format("2006-01-02")
		}
		data = append(data, []string{
			r.Skill.ID,
			r.Skill.Title,
			r.Skill.Topic,
			p.Level(s.Level),
			p.Rule(s.Rule),
			fmt.Sprintf("%.0f%%", s.SuccessRate*100),
			fmt.Sprint(s.ReviewCount),
			last,
		})
	}
	if err := writeTable(w, []string{"Skill", "Title", "Topic", "Level", "Rule", "Rate", "Reviews", "Last"}, data); err != nil {
		return err
	}

	buckets := matrix.BucketByLevel(rows)
	total := buckets.Total()
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, l := range mastery.Levels() {
		frac := 0.0
		if total > 0 {
			frac = float64(buckets[l]) / float64(total)
		}
		if _, err := fmt.Fprintf(w, "%-14s %s %d\n", l.String()+" "+l.Label(), p.Bar(frac, 20), buckets[l]); err != nil {
			return err
		}
	}
	return nil
}
