package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List items that are due for review",
	RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		if limit < 0 {
			return fmt.Errorf("--limit must not be negative")
		}
		items, err := rt.svc.DueItems(cmd.Context(), limit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(items) == 0 {
			_, err := fmt.Fprintln(out, painterFor(out).Hint("Nothing due."))
			return err
		}

		rows := make([][]string, 0, len(items))
		for _, it := range items {
			rows = append(rows, []string{
				it.ItemID,
				it.SkillID,
				it.Due.Local().Format("2006-01-02 15:04"),
				string(it.Status),
				fmt.Sprintf("%.1fd", it.OverdueDays),
				strconv.Itoa(it.IntervalDays),
				strconv.Itoa(it.Repetitions),
			})
		}
		if err := writeTable(out, []string{"Item", "Skill", "Due", "Status", "Late", "Interval", "Reps"}, rows); err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%d items due\n", len(items))
		return err
	}),
}

func init() {
	dueCmd.Flags().Int("limit", 20, "Maximum number of items (0 = all)")
}
