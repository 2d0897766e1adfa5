// Command server runs the auth HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/authkit/internal/config"
	"github.com/iliyamo/authkit/internal/database"
	"github.com/iliyamo/authkit/internal/handler"
	"github.com/iliyamo/authkit/internal/logging"
	"github.com/iliyamo/authkit/internal/middleware"
	"github.com/iliyamo/authkit/internal/queue"
	"github.com/iliyamo/authkit/internal/repository"
	"github.com/iliyamo/authkit/internal/router"
	"github.com/iliyamo/authkit/internal/token"
)

func main() {
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Error(context.Background(), "server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *logging.SlogLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens, err := token.NewService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
		log.Info(ctx, "redis connected; rate limiting and user cache available")
	} else {
		log.Warn(ctx, "redis unavailable; rate limiting and user cache disabled")
	}
	store = withUserCache(store, rdb)

	var events queue.Publisher = queue.NopPublisher{}
	if cfg.EventsEnabled {
		events = queue.NewAMQPPublisher(cfg.RabbitMQURL, cfg.EventsQueue)
	}

	auth := handler.NewAuthHandler(cfg, store, tokens, events, log.With("component", "auth"))

	e := router.New(router.Options{ClientURL: cfg.ClientURL}, log)
	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log.With("component", "ratelimit")),
		middleware.RequireAuth(auth.Cookie, tokens, store, log.With("component", "auth-middleware")),
	)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", addr, "env", cfg.Env, "db", cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info(shutdownCtx, "shutting down")
	err = e.Shutdown(shutdownCtx)
	auth.Wait()
	return err
}

// openStore connects the configured backend and returns it with a closer.
func openStore(ctx context.Context, cfg config.Config) (repository.UserStore, func(), error) {
	switch cfg.DBDriver {
	case config.DriverMemory:
		return repository.NewMemoryUserRepo(), func() {}, nil

	case config.DriverMongo:
		client, db, err := database.OpenMongo(cfg.DBURL, cfg.DBName)
		if err != nil {
			return nil, nil, err
		}
		closer := func() { _ = client.Disconnect(context.Background()) }
		repo := repository.NewMongoUserRepo(db)
		if cfg.DBMigrate {
			if err := repo.EnsureIndexes(ctx); err != nil {
				closer()
				return nil, nil, err
			}
		}
		return repo, closer, nil

	case config.DriverMySQL, config.DriverPostgres:
		db, err := database.Open(cfg.DBDriver, cfg.DBURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
		}
		closer := func() { _ = db.Close() }
		if cfg.DBMigrate {
			if err := database.Migrate(ctx, db, cfg.DBDriver); err != nil {
				closer()
				return nil, nil, err
			}
		}
		if cfg.DBDriver == config.DriverPostgres {
			return repository.NewPostgresUserRepo(db), closer, nil
		}
		return repository.NewUserRepo(db), closer, nil
	}
	return nil, nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}

func withUserCache(store repository.UserStore, rdb *redis.Client) repository.UserStore {
	uc := config.LoadUserCacheConfig()
	if !uc.Enabled {
		return store
	}
	return repository.NewCachedUserRepo(store, rdb, uc.TTL, uc.Prefix)
}
