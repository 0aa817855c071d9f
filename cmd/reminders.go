package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Suggest what to practise next",
	RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, args []string) error {
		rs, err := rt.svc.Reminders(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(out, rs)
		}

		p := painterFor(out)
		if len(rs) == 0 {
			_, err := fmt.Fprintln(out, p.Hint("No reminders. Keep going."))
			return err
		}
		for _, r := range rs {
			if _, err := fmt.Fprintf(out, "%-8s %s  %s\n", r.Kind, r.Text, p.Hint(r.SkillID)); err != nil {
				return err
			}
		}
		return nil
	}),
}

func init() {
	remindersCmd.Flags().Bool("json", false, "Print JSON")
}
