// Package cli implements the equimind operator command line: strategy catalog
// maintenance and rider trend reports against the configured store.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/forgo/equimind/api/internal/config"
	"github.com/forgo/equimind/api/internal/database"
	"github.com/forgo/equimind/api/internal/repository"
	"github.com/forgo/equimind/api/internal/service"
)

// App holds what commands need from the environment
type App struct {
	Out       io.Writer
	OpenStore func(ctx context.Context) (database.Store, error)
	Now       func() time.Time
}

// NewRootCommand builds the command tree for app
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "equimind",
		Short: "EquiMind operator tools",
		Long: `equimind manages the strategy catalog and prints rider trend reports.

It reads the same DB_* environment variables as the API server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(app.Out)

	root.AddCommand(newCatalogCommand(app))
	root.AddCommand(newReportCommand(app))
	return root
}

// Execute runs the CLI against the store named by the environment
func Execute(version string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	app := &App{
		Out: os.Stdout,
		OpenStore: func(ctx context.Context) (database.Store, error) {
			store, err := database.Open(database.Config{
				Driver:    cfg.Database.Driver,
				Host:      cfg.Database.Host,
				Port:      cfg.Database.Port,
				User:      cfg.Database.User,
				Password:  cfg.Database.Password,
				Namespace: cfg.Database.Namespace,
				Database:  cfg.Database.Database,
				MongoURI:  cfg.Database.MongoURI,
			})
			if err != nil {
				return nil, err
			}
			if err := store.Connect(ctx); err != nil {
				return nil, err
			}
			return store, nil
		},
		Now: time.Now,
	}

	root := NewRootCommand(app)
	root.Version = version
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// withCatalog opens the store, loads the catalog and runs fn
func (a *App) withCatalog(ctx context.Context, fn func(*service.CatalogService) error) error {
	store, err := a.OpenStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() { _ = store.Close() }()

	catalog := service.NewCatalogService(service.CatalogServiceConfig{
		Repo: repository.NewStrategyRepository(store),
	})
	if err := catalog.Reload(ctx); err != nil {
		return err
	}
	return fn(catalog)
}
