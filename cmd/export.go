package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/lina/internal/export"
	"github.com/abhisek/lina/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the outcome log or level changes as Parquet",
	RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, args []string) error {
		path, _ := cmd.Flags().GetString("out")
		if path == "" {
			return fmt.Errorf("--out is required")
		}
		kindName, _ := cmd.Flags().GetString("kind")
		kind, err := export.ParseKind(kindName)
		if err != nil {
			return err
		}
		skill, _ := cmd.Flags().GetString("skill")
		opts := store.QueryOpts{SkillID: skill}

		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = file.Close() }()

		var (
			n    int
			werr error
		)
		switch kind {
		case export.KindOutcomes:
			records, err := rt.repo.QueryOutcomes(cmd.Context(), opts)
			if err != nil {
				return err
			}
			n = len(records)
			werr = export.WriteOutcomes(file, records)
		case export.KindEvents:
			events, err := rt.repo.QueryMasteryEvents(cmd.Context(), opts)
			if err != nil {
				return err
			}
			n = len(events)
			werr = export.WriteMasteryEvents(file, events)
		}
		if werr != nil {
			return werr
		}
		if err := file.Close(); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d %s rows to %s\n", n, kind, path)
		return err
	}),
}

func init() {
	exportCmd.Flags().String("out", "", "Output Parquet file")
	exportCmd.Flags().String("kind", string(export.KindOutcomes), "What to export: outcomes or events")
	exportCmd.Flags().String("skill", "", "Only rows for this skill")
}
