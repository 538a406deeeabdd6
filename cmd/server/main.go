// @title        SocialConnect API
// @version      1.0
// @description  Users, posts, likes and comments.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/socialconnect/social-api/internal/api"
	"github.com/socialconnect/social-api/internal/core/ports"
	"github.com/socialconnect/social-api/internal/core/service"
	"github.com/socialconnect/social-api/internal/infrastructure/db/mongo"
	"github.com/socialconnect/social-api/internal/infrastructure/db/postgres"
	"github.com/socialconnect/social-api/internal/infrastructure/db/redis"
	"github.com/socialconnect/social-api/internal/infrastructure/db/sqlite"
	"github.com/socialconnect/social-api/internal/infrastructure/db/sqlstore"
	httpx "github.com/socialconnect/social-api/internal/infrastructure/http"
	"github.com/socialconnect/social-api/internal/infrastructure/http/handlers"
	"github.com/socialconnect/social-api/internal/infrastructure/queue"
	"github.com/socialconnect/social-api/internal/pkg/config"
	"github.com/socialconnect/social-api/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "social-api",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()
	log.Info().Str("driver", store.Dialect()).Msg("store ready")

	checks := map[string]handlers.Checker{"sql": store.Ping}

	// --- Activity trail (optional) ---
	var (
		recorder   ports.ActivityRecorder = service.NopRecorder{}
		activity   ports.ActivityService
		dispatcher *queue.Dispatcher
	)
	workersCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	if cfg.Mongo.URI != "" {
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("disconnect mongo")
			}
		}()

		repo := mongo.NewActivityRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		activity = service.NewActivityService(store.Users, repo, log)
		dispatcher = queue.NewDispatcher(cfg.Activity.Workers, activity, log)
		dispatcher.Start(workersCtx)
		recorder = dispatcher
		checks["mongodb"] = mongo.Pinger(client)
		log.Info().Int("workers", cfg.Activity.Workers).Msg("activity trail enabled")
	}

	// --- Idempotent post creation (optional) ---
	var idem ports.IdempotencyStore
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer client.Close()

		idem = redis.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL)
		checks["redis"] = redis.Pinger(client)
		log.Info().Dur("ttl", cfg.Redis.IdempotencyTTL).Msg("idempotency store enabled")
	}

	users := service.NewUserService(store.Users, recorder, log)
	posts := service.NewPostService(service.Repositories{
		Users:    store.Users,
		Posts:    store.Posts,
		Likes:    store.Likes,
		Comments: store.Comments,
	}, idem, recorder, log)

	e := httpx.NewRouter(httpx.RouterOptions{
		Logger:           log,
		MaxUploadBytes:   cfg.MaxUploadBytes,
		Checks:           checks,
		MetricsSubsystem: "socialconnect",
	})
	api.Register(e, api.Services{Users: users, Posts: posts, Activity: activity}, cfg.MaxUploadBytes, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	if dispatcher != nil {
		stopWorkers()
		dispatcher.Wait()
	}
	return nil
}

// openStore connects the configured relational store and returns it with its
// closer.
func openStore(ctx context.Context, cfg *config.Config) (*sqlstore.Store, func() error, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Store.URL, MaxConns: cfg.Store.MaxConns})
		if err != nil {
			return nil, nil, err
		}
		return db.Store, db.Close, nil
	default:
		store, err := sqlite.Open(ctx, cfg.Store.URL)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
}
