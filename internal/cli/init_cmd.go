package cli

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/st8/internal/config"
)

func newInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default config and seed the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Config == nil {
				return errors.New("no configuration loaded")
			}
			created, err := config.WriteDefault(app.Config.Home)
			if err != nil {
				return err
			}
			path := filepath.Join(app.Config.Home, config.FileName)
			if created {
				outf(cmd, "Created %s\n", path)
			} else {
				outf(cmd, "Config already present at %s\n", path)
			}

			ws, err := app.Workspace.Current(cmd.Context())
			if err != nil {
				return err
			}
			outf(cmd, "Workspace ready: %d agents in %d groups (%s store)\n",
				ws.Agents.Len(), len(ws.Agents), app.Config.Store.Driver)
			return nil
		},
	}
}
