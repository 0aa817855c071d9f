package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lina/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database schema migrations",
	Long:  "Migrate the schema to the latest version (default), a specific version, or roll everything back with --target 0.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.DB.Backend == string(store.BackendMemory) {
			return fmt.Errorf("the memory backend has no schema to migrate")
		}
		target, _ := cmd.Flags().GetInt("target")

		_, st, err := openRepo(cmd.Context(), cfg, true)
		if err != nil {
			return err
		}
		defer st.Close()

		res, err := st.Migrate(cmd.Context(), target)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !res.Changed {
			_, err = fmt.Fprintf(out, "Schema already at version %d\n", res.To)
			return err
		}
		_, err = fmt.Fprintf(out, "Migrated schema from version %d to %d\n", res.From, res.To)
		return err
	},
}

func init() {
	migrateCmd.Flags().Int("target", store.LatestVersion, "Target version (-1 = latest, 0 = roll back all)")
}
