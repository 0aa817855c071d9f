package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var itemCmd = &cobra.Command{
	Use:   "item <item-id>",
	Short: "Show the schedule of one item",
	Args:  cobra.ExactArgs(1),
	RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, args []string) error {
		view, err := rt.svc.Item(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		p := painterFor(out)

		when := fmt.Sprintf("in %d days", view.DaysUntilReview)
		if view.DaysUntilReview == 0 {
			when = fmt.Sprintf("%.1f days late", view.OverdueDays)
		}
		_, err = fmt.Fprintf(out, "%s  %s\n  due    %s (%s)\n  ease   %.2f, interval %d days, repetition %d\n",
			p.Title(view.ItemID), p.Hint(string(view.Status)),
			view.Due.Local().Format("2006-01-02 15:04"), when,
			view.Easiness, view.IntervalDays, view.Repetitions)
		return err
	}),
}
