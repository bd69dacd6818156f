package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	"github.com/princekumarofficial/portfolio-service/internal/bootstrap"
	"github.com/princekumarofficial/portfolio-service/internal/cache"
	"github.com/princekumarofficial/portfolio-service/internal/config"
	"github.com/princekumarofficial/portfolio-service/internal/services/content"
	"github.com/princekumarofficial/portfolio-service/internal/services/media"
	"github.com/princekumarofficial/portfolio-service/internal/storage"
)

// App holds the backends opened for a command.
type App struct {
	configPath string

	cfg     *config.Config
	logger  *slog.Logger
	rows    storage.Storage
	store   storage.Storage
	redis   *redis.Client
	objects media.ObjectStore
}

// open connects to the shared database, Redis when enabled and, if
// withObjects is set, the object store. Writes go through the cache so the
// running service does not serve stale lists.
func (a *App) open(ctx context.Context, withObjects bool) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = bootstrap.NewLogger(cfg.Env)

	a.rows, err = bootstrap.OpenSharedStorage(cfg)
	if err != nil {
		return err
	}
	a.store = a.rows

	a.redis, err = bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if a.redis != nil {
		a.store = cache.NewCacheService(a.rows, a.redis)
	}

	if withObjects {
		objects, err := media.NewService(ctx, cfg)
		if err != nil {
			return err
		}
		a.objects = objects
	}
	return nil
}

func (a *App) close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.rows != nil {
		a.rows.Close()
	}
}

// content returns a content service; changes made here are not pushed to
// live viewers, who pick them up on their next reload.
func (a *App) content() *content.Service {
	return content.NewService(a.store, a.objects, nil, a.logger)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "portfolioctl",
		Short:         "Maintenance commands for the portfolio service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&app.configPath, "config", os.Getenv("CONFIG_PATH"), "path to config file (defaults to $CONFIG_PATH)")
	cmd.AddCommand(
		newSeedCmd(app),
		newProjectsCmd(app),
		newMediaCmd(app),
		newSweepCmd(app),
	)
	return cmd
}

// Execute initializes and runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &App{}
	rootCmd := newRootCmd(app)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
