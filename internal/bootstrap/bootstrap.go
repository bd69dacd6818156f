// Package bootstrap opens the backends shared by the binaries.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/portfolio-service/internal/config"
	"github.com/princekumarofficial/portfolio-service/internal/storage"
	"github.com/princekumarofficial/portfolio-service/internal/storage/memdb"
	"github.com/princekumarofficial/portfolio-service/internal/storage/postgres"
	"github.com/princekumarofficial/portfolio-service/internal/types"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// ErrEphemeralStorage is returned where a command needs rows shared with
// the running service.
var ErrEphemeralStorage = errors.New("memory storage is private to one process")

// NewLogger returns the JSON logger every binary installs as the default.
func NewLogger(env string) *slog.Logger {
	level := slog.LevelInfo
	if env == "local" || env == "dev" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// OpenStorage opens the row store selected by cfg.Storage.Driver.
func OpenStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case DriverPostgres, "":
		store, err := postgres.NewPostgres(cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		slog.Info("Connected to Postgres database",
			slog.String("host", cfg.PGSQL.Host),
			slog.String("dbname", cfg.PGSQL.DBName))
		return store, nil
	case DriverMemory:
		store, err := memdb.New()
		if err != nil {
			return nil, err
		}
		slog.Warn("Using in-memory storage; rows are lost on exit")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// OpenSharedStorage is OpenStorage for commands that must see the service's
// rows, which rules out the memory driver.
func OpenSharedStorage(cfg *config.Config) (storage.Storage, error) {
	if cfg.Storage.Driver == DriverMemory {
		return nil, ErrEphemeralStorage
	}
	return OpenStorage(cfg)
}

// OpenRedis connects to Redis. It returns a nil client when Redis is
// disabled.
func OpenRedis(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Address, err)
	}
	slog.Info("Connected to Redis", slog.String("address", cfg.Address))
	return client, nil
}

// SocialLinks resolves the configured links against the known kinds.
func SocialLinks(entries []config.Social) ([]types.SocialLink, error) {
	links := make([]types.SocialLink, 0, len(entries))
	for _, e := range entries {
		link, err := types.NewSocialLink(e.Kind, e.URL)
		if err != nil {
			return nil, fmt.Errorf("social link %s: %w", e.URL, err)
		}
		links = append(links, link)
	}
	return links, nil
}
