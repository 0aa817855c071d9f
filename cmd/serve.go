package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/lina/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = rt.cfg.Server.Addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(server.Config{Addr: addr}, rt.svc, rt.metrics, rt.logger)
		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		if err := srv.Shutdown(); err != nil {
			return err
		}
		return <-errCh
	}),
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
