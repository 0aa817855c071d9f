package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/lina/internal/practice"
	"github.com/abhisek/lina/internal/spacedrep"
)

var reviewCmd = &cobra.Command{
	Use:   "review <skill-id>",
	Short: "Record a finished review for a skill",
	Args:  cobra.ExactArgs(1),
	RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, args []string) error {
		ok, _ := cmd.Flags().GetBool("ok")
		fail, _ := cmd.Flags().GetBool("fail")
		if ok == fail {
			return fmt.Errorf("pass exactly one of --ok or --fail")
		}
		res, err := rt.svc.ReviewFinished(cmd.Context(), args[0], ok)
		if err != nil {
			return err
		}
		return printReview(cmd.OutOrStdout(), res)
	}),
}

var gradeCmd = &cobra.Command{
	Use:   "grade <item-id> <0-4>",
	Short: "Grade a review of a single item and reschedule it",
	Args:  cobra.ExactArgs(2),
	RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, args []string) error {
		g, err := spacedrep.ParseGrade(args[1])
		if err != nil {
			return err
		}
		skill, _ := cmd.Flags().GetString("skill")
		sched, err := rt.svc.GradeItem(cmd.Context(), args[0], skill, g)
		if err != nil {
			return err
		}
		return printSchedule(cmd.OutOrStdout(), sched)
	}),
}

func init() {
	reviewCmd.Flags().Bool("ok", false, "The review succeeded")
	reviewCmd.Flags().Bool("fail", false, "The review failed")
	gradeCmd.Flags().String("skill", "", "Skill the item belongs to")
}

func printReview(w io.Writer, res *practice.Result) error {
	p := painterFor(w)
	c := res.Competence
	outcome := "fail"
	if res.Facts.OK {
		outcome = "ok"
	}
	_, err := fmt.Fprintf(w, "%s  %s\n  level  %s -> %s  %s\n  rate   %.0f%% over %d reviews\n",
		p.Title(res.Facts.SkillTitle), p.Hint(outcome),
		p.Level(c.PriorLevel), p.Level(c.Level), p.Rule(c.Rule),
		c.SuccessRate*100, c.ReviewCount)
	return err
}

func printSchedule(w io.Writer, s spacedrep.ItemSchedule) error {
	_, err := fmt.Fprintf(w, "%s  next review %s (in %d days, ease %.2f, repetition %d)\n",
		s.ItemID, s.Due.Local().Format("2006-01-02 15:04"),
		s.IntervalDays, s.Easiness, s.Repetitions)
	return err
}
