package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/st8/internal/apisync"
	"github.com/alexanderramin/st8/internal/cli/formatter"
)

func newSyncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Exchange the roster with the shared st8 server",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "pull",
			Short: "Merge the shared roster and its presences into the workspace",
			RunE: func(cmd *cobra.Command, args []string) error {
				stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Fetching roster...")
				res, err := app.Sync.Pull(cmd.Context())
				stop()
				if err != nil {
					return err
				}
				if res.RemoteErr != nil {
					outf(cmd, "Server unreachable (%v)\n", res.RemoteErr)
				}
				if res.Source == apisync.SourceEmpty {
					outln(cmd, "No roster available; workspace left unchanged.")
					return nil
				}
				outf(cmd, "Merged %s and %d presences from %s\n",
					formatter.Plural(res.Agents, "agent"), res.Cells, res.Source)
				return nil
			},
		},
		&cobra.Command{
			Use:   "push",
			Short: "Send the workspace roster to the shared server",
			RunE: func(cmd *cobra.Command, args []string) error {
				if app.Config != nil && app.Config.Sync.Endpoint == "" {
					return errors.New("no sync endpoint configured (sync.endpoint in config.yaml)")
				}
				stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Pushing roster...")
				ok, err := app.Sync.Push(cmd.Context())
				stop()
				if err != nil {
					return err
				}
				if !ok {
					outln(cmd, "Server rejected the roster.")
					return nil
				}
				outln(cmd, "Roster pushed.")
				return nil
			},
		},
	)

	return cmd
}
