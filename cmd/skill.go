package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lina/internal/catalog"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Browse the skill catalog",
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all skills (optionally filtered by topic)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := catalog.Load(cfg.Catalog)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}

		topic, _ := cmd.Flags().GetString("topic")
		skills := cat.Skills()
		if topic != "" {
			skills = cat.ByTopic(topic)
			if len(skills) == 0 {
				return fmt.Errorf("no skills found for topic %q (topics: %v)", topic, cat.Topics())
			}
		}

		rows := make([][]string, 0, len(skills))
		for _, s := range skills {
			title := s.Title
			if r := []rune(title); len(r) > 40 {
				title = string(r[:37]) + "..."
			}
			rows = append(rows, []string{s.ID, title, s.Topic, s.Syllabus})
		}
		out := cmd.OutOrStdout()
		if err := writeTable(out, []string{"ID", "Title", "Topic", "Syllabus"}, rows); err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "\n%d skills\n", len(skills))
		return err
	},
}

func init() {
	skillListCmd.Flags().String("topic", "", "Filter by topic (e.g. Zahlentheorie)")

	skillCmd.AddCommand(skillListCmd)
}
