// Package app is the composition root: it owns the state containers and
// wires them to the configured snapshot store, the write-behind persister,
// and the UI collaborator ports supplied by the embedding application.
package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/craftlink/marketplace-core/internal/core/ports"
	"github.com/craftlink/marketplace-core/internal/core/service"
	"github.com/craftlink/marketplace-core/internal/infrastructure/persist"
	filestore "github.com/craftlink/marketplace-core/internal/infrastructure/storage/file"
	redisstore "github.com/craftlink/marketplace-core/internal/infrastructure/storage/redis"
	"github.com/craftlink/marketplace-core/internal/pkg/config"
)

// Collaborators are the UI surfaces the embedding application provides.
// Any of them may be nil.
type Collaborators struct {
	Navigator   ports.Navigator
	Alerter     ports.Alerter
	ImagePicker ports.ImagePicker
}

// App bundles the wired state containers.
type App struct {
	Session   ports.SessionService
	Cart      ports.CartService
	Catalog   ports.CatalogService
	Messaging ports.MessagingService

	Alerter     ports.Alerter
	ImagePicker ports.ImagePicker

	writer *persist.Writer
	redis  *goredis.Client
	log    zerolog.Logger
}

// New builds the application state layer. The snapshot store is selected by
// cfg.Storage.Backend; containers rehydrate from it before New returns.
func New(ctx context.Context, cfg *config.Config, collab Collaborators, log zerolog.Logger) (*App, error) {
	var (
		store ports.SnapshotStore
		rdb   *goredis.Client
	)

	switch cfg.Storage.Backend {
	case "redis":
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect snapshot store: %w", err)
		}
		rdb = client
		store = redisstore.NewSnapshotStore(client)
	case "file", "":
		fs, err := filestore.New(cfg.Storage.Dir)
		if err != nil {
			return nil, fmt.Errorf("open snapshot store: %w", err)
		}
		store = fs
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	writer := persist.NewWriter(cfg.Storage.Workers, store, log)
	writer.Start()

	catalog, err := service.NewCatalogService()
	if err != nil {
		return nil, err
	}

	session := service.NewSessionService(ctx, store, writer, collab.Navigator, service.SessionConfig{
		JWTSecret:        cfg.JWTSecret,
		SimulatedLatency: cfg.AuthLatency,
	}, log)
	cart := service.NewCartService(ctx, store, writer, collab.Navigator, log)
	messaging := service.NewMessagingService(catalog.Professionals(), log)

	return &App{
		Session:     session,
		Cart:        cart,
		Catalog:     catalog,
		Messaging:   messaging,
		Alerter:     collab.Alerter,
		ImagePicker: collab.ImagePicker,
		writer:      writer,
		redis:       rdb,
		log:         log,
	}, nil
}

// Close drains pending snapshot writes and releases the store.
func (a *App) Close() error {
	a.writer.Close()
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
