// Package setup bootstraps the application dependencies in order: config,
// logging, the realtime-store client, and the local cache.
package setup

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"github.com/eljasus/guardian/internal/cache"
	"github.com/eljasus/guardian/internal/setup/config"
	"github.com/eljasus/guardian/internal/store"
)

// App bundles the core dependencies every command needs.
type App struct {
	Config *config.Config // Application configuration
	Logger *zap.Logger    // Main application logger
	Store  store.Store    // Realtime-store adapter
	Cache  cache.Cache    // Local persistent cache
}

// InitializeApp loads configuration and wires the logger, store client, and
// local cache. The store client implementation is selected by configuration,
// one per deployed store-client version.
func InitializeApp() (*App, error) {
	cfg, configPath, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := GetLogger(cfg.Debug.LogLevel)
	if err != nil {
		return nil, err
	}

	if configPath != "" {
		logger.Info("Loaded configuration file", zap.String("path", configPath))
	}

	remoteStore, err := newStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	localCache, err := newCache(cfg, logger)
	if err != nil {
		remoteStore.Close()
		return nil, err
	}

	return &App{
		Config: cfg,
		Logger: logger,
		Store:  remoteStore,
		Cache:  localCache,
	}, nil
}

// Cleanup releases the store and cache and flushes the logger.
func (a *App) Cleanup() {
	a.Store.Close()
	a.Cache.Close()
	_ = a.Logger.Sync()
}

// newStore constructs the store adapter for the configured client version.
func newStore(cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)

	switch cfg.Store.Client {
	case config.StoreClientRueidis:
		client, err := rueidis.NewClient(rueidis.ClientOption{
			InitAddress: []string{addr},
			Username:    cfg.Redis.Username,
			Password:    cfg.Redis.Password,
			ClientName:  "guardian",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create rueidis client: %w", err)
		}

		return store.NewRueidis(client, logger), nil

	case config.StoreClientGoRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
		})

		return store.NewGoRedis(client, logger), nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStoreClient, cfg.Store.Client)
	}
}

// newCache opens the configured local cache.
func newCache(cfg *config.Config, logger *zap.Logger) (cache.Cache, error) {
	if cfg.Cache.Path == "" {
		return cache.NewMemory(), nil
	}

	return cache.NewSQLite(cfg.Cache.Path, logger)
}
