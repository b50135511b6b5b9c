package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/st8/internal/config"
	"github.com/alexanderramin/st8/internal/keyring"
	"github.com/alexanderramin/st8/internal/storage/postgres"
)

func newDBCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the workspace store connection",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set-dsn DSN",
			Short: "Store the Postgres connection string in the OS keyring",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				dsn := strings.TrimSpace(args[0])
				if err := postgres.ValidateConnString(dsn); err != nil {
					return err
				}
				if err := keyring.SetConnectionString(dsn); err != nil {
					return err
				}
				outln(cmd, "Connection string saved to the OS keyring.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear-dsn",
			Short: "Remove the Postgres connection string from the OS keyring",
			RunE: func(cmd *cobra.Command, args []string) error {
				err := keyring.DeleteConnectionString()
				if errors.Is(err, keyring.ErrNotFound) {
					outln(cmd, "Nothing stored.")
					return nil
				}
				if err != nil {
					return err
				}
				outln(cmd, "Connection string removed.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "info",
			Short: "Show where the workspace is stored",
			RunE: func(cmd *cobra.Command, args []string) error {
				if app.Config == nil {
					return errors.New("no configuration loaded")
				}
				store := app.Config.Store
				outf(cmd, "Home:   %s\n", app.Config.Home)
				outf(cmd, "Driver: %s\n", store.Driver)
				switch store.Driver {
				case config.DriverSQLite:
					outf(cmd, "File:   %s\n", store.SQLitePath)
				case config.DriverJSON:
					outf(cmd, "File:   %s\n", store.JSONPath)
				case config.DriverPostgres:
					source := "config"
					if store.PostgresDSN == "" {
						source = "keyring"
						if _, err := keyring.GetConnectionString(); err != nil {
							source = "keyring (missing: " + err.Error() + ")"
						}
					}
					outf(cmd, "DSN:    from %s\n", source)
				}
				return nil
			},
		},
	)

	return cmd
}
