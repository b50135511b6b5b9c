package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/st8/internal/server"
)

func newServeCmd(app *App) *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the shared roster API and the printable planning",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.RosterBackend == nil {
				return errors.New("no roster backend configured")
			}
			settings := server.SettingsFromConfig(app.Config.Server)
			if cmd.Flags().Changed("host") {
				settings.Host = host
			}
			if cmd.Flags().Changed("port") {
				settings.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			backend, release, err := app.RosterBackend(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = release() }()

			srv := server.New(settings, backend, server.WithPlanning(app.Planning))
			if err := srv.Start(ctx); err != nil {
				return err
			}
			outf(cmd, "Serving on %s (Ctrl+C to stop)\n", srv.BaseURL())

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (default from config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (default from config)")

	return cmd
}
