package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/st8/internal/config"
	"github.com/alexanderramin/st8/internal/service"
	"github.com/alexanderramin/st8/internal/storage"
)

// App holds the services and settings used by CLI commands and the TUI.
type App struct {
	Workspace service.WorkspaceService
	Roster    service.RosterService
	Planning  service.PlanningService
	Stats     service.StatsService
	Sync      service.SyncService

	Config *config.Config

	// RosterBackend opens the document store served by `st8 serve`. The
	// returned func releases it.
	RosterBackend func(ctx context.Context) (storage.RosterBackend, func() error, error)

	// IsInteractive reports whether stdin is a terminal; bare `st8` opens
	// the TUI when it does.
	IsInteractive func() bool

	// Now is the clock used for default months; nil means time.Now.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "st8" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "st8",
		Short:         "Roster and attendance planning for the public works teams",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newAgentCmd(app),
		newGroupCmd(app),
		newPlanCmd(app),
		newGridCmd(app),
		newStatsCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newServeCmd(app),
		newSyncCmd(app),
		newTUICmd(app),
		newInitCmd(app),
		newDBCmd(app),
	)

	return root
}

func outf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

func outln(cmd *cobra.Command, s string) {
	fmt.Fprintln(cmd.OutOrStdout(), s)
}
