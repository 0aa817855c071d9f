package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lina/internal/mastery"
	"github.com/abhisek/lina/internal/store"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent level changes",
	RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		skill, _ := cmd.Flags().GetString("skill")
		events, err := rt.svc.Events(cmd.Context(), store.QueryOpts{SkillID: skill, Limit: limit})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		p := painterFor(out)
		if len(events) == 0 {
			_, err := fmt.Fprintln(out, p.Hint("No level changes yet."))
			return err
		}

		rows := make([][]string, 0, len(events))
		for _, e := range events {
			rule, err := mastery.ParseRule(e.Rule)
			if err != nil {
				return err
			}
			rows = append(rows, []string{
				e.At.Local().Format("2006-01-02 15:04"),
				e.SkillID,
				fmt.Sprintf("%s -> %s", p.Level(mastery.Level(e.FromLevel)), p.Level(mastery.Level(e.ToLevel))),
				p.Rule(rule),
				fmt.Sprintf("%.0f%% / %d", e.SuccessRate*100, e.ReviewCount),
			})
		}
		return writeTable(out, []string{"When", "Skill", "Change", "Rule", "Rate / Reviews"}, rows)
	}),
}

func init() {
	eventsCmd.Flags().Int("limit", 20, "Maximum number of events (0 = all)")
	eventsCmd.Flags().String("skill", "", "Only events for this skill")
}
