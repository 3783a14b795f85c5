package factory

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mcoot/flashdeck/internal/config"
	"github.com/mcoot/flashdeck/internal/dependencies/clock"
	"github.com/mcoot/flashdeck/internal/dependencies/ids"
	"github.com/mcoot/flashdeck/internal/events"
	"github.com/mcoot/flashdeck/internal/services/auth"
	"github.com/mcoot/flashdeck/internal/services/deck"
	"github.com/mcoot/flashdeck/internal/storage"
	"github.com/mcoot/flashdeck/internal/storage/memory"
	redisstorage "github.com/mcoot/flashdeck/internal/storage/redis"
	"github.com/mcoot/flashdeck/internal/storage/sqlstore"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	IDs   ids.Generator

	// Change notifications for the presentation layer
	Events *events.Bus

	// Services
	AuthService *auth.Service
	DeckService *deck.Service

	Logger *slog.Logger
}

// New creates a new application with all dependencies wired.
// A nil logger discards output.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	authCfg := auth.Config{
		BcryptCost:        cfg.Auth.BcryptCost,
		MinPasswordLength: cfg.Auth.MinPasswordLength,
	}

	logger.Debug("application created",
		slog.String("storage_type", cfg.Storage.Type),
		slog.String("timezone", loc.String()))

	return newWithDependencies(store, clock.New(loc), ids.New(), authCfg, logger), nil
}

// newStorage opens the backend selected by cfg.Type
func newStorage(cfg config.StorageConfig) (storage.Storage, error) {
	switch cfg.Type {
	case config.StorageTypeMemory, "":
		return memory.New(), nil
	case config.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		if cfg.RedisPrefix != "" {
			redisCfg.KeyPrefix = cfg.RedisPrefix
		}
		return redisstorage.New(redisCfg)
	case config.StorageTypeSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		return sqlstore.New(sqlstore.Config{Driver: sqlstore.DriverSQLite, DSN: cfg.SQLitePath})
	case config.StorageTypePostgres:
		return sqlstore.New(sqlstore.Config{Driver: sqlstore.DriverPostgres, DSN: cfg.PostgresDSN})
	default:
		return nil, fmt.Errorf("invalid storage type %q", cfg.Type)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, gen ids.Generator, authCfg auth.Config, logger *slog.Logger) *App {
	bus := events.NewBus(logger)
	deckService := deck.New(store, gen, bus, logger)
	authService := auth.New(store, deckService, clk, bus, authCfg, logger)

	return &App{
		Storage:     store,
		Clock:       clk,
		IDs:         gen,
		Events:      bus,
		AuthService: authService,
		DeckService: deckService,
		Logger:      logger,
	}
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}
