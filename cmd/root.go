package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/lina/internal/catalog"
	"github.com/abhisek/lina/internal/config"
	"github.com/abhisek/lina/internal/logging"
	"github.com/abhisek/lina/internal/mastery"
	"github.com/abhisek/lina/internal/metrics"
	"github.com/abhisek/lina/internal/practice"
	"github.com/abhisek/lina/internal/store"
)

var v = config.New()

var rootCmd = &cobra.Command{
	Use:           "lina",
	Short:         "Spaced repetition and skill mastery tracking",
	Long:          "Lina schedules item reviews with SM-2 and tracks competence per skill on a five-level scale.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to config file (default: .lina.yaml in . or $HOME)")
	flags.String("db", "", "Database path for sqlite, connection string otherwise (overrides LINA_DB_DSN)")
	flags.String("backend", "", "Storage backend: sqlite, postgres, mysql or memory")
	flags.String("log-level", "", "Log level: debug, info, warn, error")

	_ = v.BindPFlag("db.dsn", flags.Lookup("db"))
	_ = v.BindPFlag("db.backend", flags.Lookup("backend"))
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(itemCmd)
	rootCmd.AddCommand(flowCmd)
	rootCmd.AddCommand(matrixCmd)
	rootCmd.AddCommand(remindersCmd)
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}

// runtime bundles the dependencies a command needs.
type runtime struct {
	cfg     *config.Config
	logger  zerolog.Logger
	repo    store.Repo
	svc     *practice.Service
	metrics *metrics.Metrics
	close   func() error
}

func (rt *runtime) Close() error {
	if rt.close == nil {
		return nil
	}
	return rt.close()
}

// loadConfig merges flags, environment and the config file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	return config.Load(v, configFile)
}

// resolveDSN returns the data source for the configured backend. For sqlite an
// explicit path wins, then LINA_DB, then the default XDG path.
func resolveDSN(cfg *config.Config) (string, error) {
	if cfg.DB.Backend != string(store.BackendSQLite) {
		return cfg.DB.DSN, nil
	}
	if cfg.DB.DSN != "" {
		return cfg.DB.DSN, store.EnsureDir(cfg.DB.DSN)
	}
	return store.DefaultDBPath()
}

// openRepo opens the configured store.
func openRepo(ctx context.Context, cfg *config.Config, skipMigrate bool) (store.Repo, *store.Store, error) {
	backend, err := store.ParseBackend(cfg.DB.Backend)
	if err != nil {
		return nil, nil, err
	}
	if backend == store.BackendMemory {
		return store.NewMemoryRepo(), nil, nil
	}
	dsn, err := resolveDSN(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(ctx, store.Options{Backend: backend, DSN: dsn, SkipMigrate: skipMigrate})
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return st, st, nil
}

// openRuntime loads configuration, opens the store and builds the service.
func openRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return newRuntime(cmd.Context(), cfg, logger)
}

func newRuntime(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*runtime, error) {
	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	engine, err := mastery.NewEngine(cfg.MasteryConfig())
	if err != nil {
		return nil, err
	}

	repo, st, err := openRepo(ctx, cfg, false)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	rt := &runtime{
		cfg:     cfg,
		logger:  logger,
		repo:    repo,
		metrics: m,
		svc: practice.NewService(repo, cat, engine,
			practice.WithLogger(logger),
			practice.WithMetrics(m),
			practice.WithReminderConfig(cfg.ReminderConfig()),
		),
	}
	if st != nil {
		rt.close = st.Close
	}
	logger.Debug().
		Str("backend", cfg.DB.Backend).
		Int("skills", cat.Len()).
		Msg("runtime ready")
	return rt, nil
}

// withRuntime wraps a command body that needs an open runtime.
func withRuntime(fn func(cmd *cobra.Command, rt *runtime, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()
		return fn(cmd, rt, args)
	}
}
