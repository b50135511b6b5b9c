package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/st8/internal/apisync"
	"github.com/alexanderramin/st8/internal/cli"
	"github.com/alexanderramin/st8/internal/config"
	"github.com/alexanderramin/st8/internal/db"
	"github.com/alexanderramin/st8/internal/keyring"
	"github.com/alexanderramin/st8/internal/logger"
	"github.com/alexanderramin/st8/internal/service"
	"github.com/alexanderramin/st8/internal/storage"
	"github.com/alexanderramin/st8/internal/storage/mongostore"
	"github.com/alexanderramin/st8/internal/storage/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	home, err := config.HomeDir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(home)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Config{Debug: cfg.Log.Debug, Dir: cfg.Log.Dir}); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	observers := []service.UseCaseObserver{service.ProcessLogObserver{}}
	if cfg.Log.UseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	var syncObserver apisync.Observer = apisync.NoopObserver{}
	if cfg.Log.Debug {
		syncObserver = apisync.NewLogObserver(os.Stderr)
	}

	ws := service.NewWorkspaceService(store, observers...)
	app := &cli.App{
		Workspace: ws,
		Roster:    service.NewRosterService(ws, observers...),
		Planning:  service.NewPlanningService(ws, observers...),
		Stats:     service.NewStatsService(ws),
		Sync:      service.NewSyncService(apisync.NewClient(apisync.FromConfig(cfg.Sync), syncObserver), ws, observers...),
		Config:    cfg,
	}

	app.RosterBackend = func(ctx context.Context) (storage.RosterBackend, func() error, error) {
		return openRosterBackend(ctx, cfg.Server)
	}

	// Detect interactive terminal for the TUI entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

// openStore opens the workspace store selected by store.driver.
func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverJSON:
		return storage.NewJSONStore(cfg.Store.JSONPath), nil

	case config.DriverPostgres:
		dsn, err := keyring.ResolveDSN(cfg.Store.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("resolving postgres DSN (st8 db set-dsn): %w", err)
		}
		return postgres.Open(context.Background(), dsn)

	default:
		database, err := db.OpenDB(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		return storage.NewSQLiteStore(database), nil
	}
}

// openRosterBackend opens the document store behind `st8 serve`. The JSON
// file also seeds an empty Mongo collection.
func openRosterBackend(ctx context.Context, cfg config.ServerConfig) (storage.RosterBackend, func() error, error) {
	file := storage.NewRosterFile(cfg.DataFile)
	if cfg.Backend != config.BackendMongo {
		return file, func() error { return nil }, nil
	}

	backend, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, file)
	if err != nil {
		return nil, nil, err
	}
	return backend, func() error {
		return backend.Close(context.Background())
	}, nil
}
