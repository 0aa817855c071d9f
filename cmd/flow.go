package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lina/internal/store"
)

var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Log and list how practice felt",
}

var flowLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Log fluency and challenge, each between 0 and 1",
	RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, args []string) error {
		fluency, _ := cmd.Flags().GetFloat64("fluency")
		challenge, _ := cmd.Flags().GetFloat64("challenge")
		entry, err := rt.svc.LogFlow(cmd.Context(), fluency, challenge)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "logged fluency %.2f, challenge %.2f at %s\n",
			entry.Fluency, entry.Challenge, entry.At.Local().Format("2006-01-02 15:04"))
		return err
	}),
}

var flowListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged flow signals, newest first",
	RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		if limit < 0 {
			return fmt.Errorf("--limit must not be negative")
		}
		entries, err := rt.svc.Flow(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		p := painterFor(out)
		if len(entries) == 0 {
			_, err := fmt.Fprintln(out, p.Hint("Nothing logged yet."))
			return err
		}

		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{
				e.At.Local().Format("2006-01-02 15:04"),
				fmt.Sprintf("%.2f", e.Fluency),
				p.Bar(e.Fluency, 10),
				fmt.Sprintf("%.2f", e.Challenge),
				p.Bar(e.Challenge, 10),
			})
		}
		return writeTable(out, []string{"When", "Fluency", "", "Challenge", ""}, rows)
	}),
}

func init() {
	flowLogCmd.Flags().Float64("fluency", 0, "How fluent practice felt, 0 to 1")
	flowLogCmd.Flags().Float64("challenge", 0, "How challenging practice felt, 0 to 1")
	_ = flowLogCmd.MarkFlagRequired("fluency")
	_ = flowLogCmd.MarkFlagRequired("challenge")
	flowListCmd.Flags().Int("limit", 20, "Maximum number of entries (0 = all)")
	flowCmd.AddCommand(flowLogCmd, flowListCmd)
}
