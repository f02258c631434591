// Command admin-api serves the admin console HTTP API.
//
// @title                       Admin Console API
// @version                     1.0
// @description                 User management, role/permission matrix, dashboard statistics and account settings.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/api"
	"github.com/99minutos/admin-console/internal/api/handler"
	"github.com/99minutos/admin-console/internal/core/ports"
	"github.com/99minutos/admin-console/internal/core/service"
	mongodb "github.com/99minutos/admin-console/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/admin-console/internal/infrastructure/db/redis"
	"github.com/99minutos/admin-console/internal/infrastructure/memory"
	"github.com/99minutos/admin-console/internal/pkg/config"
	"github.com/99minutos/admin-console/pkg/logger"
)

const (
	shutdownTimeout      = 15 * time.Second
	idempotencyCacheSize = 10_000
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Pretty(),
		Service: "admin-api",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("admin-api stopped")
	}
	log.Info().Msg("admin-api stopped")
}

type stores struct {
	users  ports.UserStore
	roles  ports.RoleStore
	idem   ports.IdempotencyStore
	checks map[string]handler.DependencyCheck
	close  []func(context.Context) error
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; tokens are signed with an empty key")
	}

	s, err := openStores(ctx, cfg, log)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, fn := range s.close {
			if err := fn(closeCtx); err != nil {
				log.Warn().Err(err).Msg("close dependency")
			}
		}
	}()
	if err != nil {
		return err
	}

	e := api.NewRouter(api.Deps{
		Users:     service.NewUserService(s.users, s.roles, s.idem, logger.Component(log, "user_service")),
		Roles:     service.NewRoleService(s.roles, s.users, logger.Component(log, "role_service")),
		Accounts:  service.NewAccountService(s.users, s.roles, cfg.JWTSecret, cfg.TokenTTL, logger.Component(log, "account_service")),
		Dashboard: service.NewDashboardService(s.users, s.roles, logger.Component(log, "dashboard_service")),
		JWTSecret: cfg.JWTSecret,
		Checks:    s.checks,
		Logger:    logger.Component(log, "http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store.Backend).Msg("admin-api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	s := &stores{checks: map[string]handler.DependencyCheck{}}

	switch cfg.Store.Backend {
	case config.BackendMongo:
		db, err := mongodb.Open(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return s, err
		}
		s.close = append(s.close, db.Close)
		if cfg.Store.Seed {
			if err := db.Seed(ctx, memory.SeedRoles(), memory.SeedUsers()); err != nil {
				return s, err
			}
		}
		s.users, s.roles = db.Users, db.Roles
		s.checks["mongo"] = handler.MongoCheck(db.Database())
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo store ready")

	default:
		opts := memory.Options{Latency: cfg.Store.Latency}
		store := memory.NewStore(opts)
		if cfg.Store.Seed {
			store = memory.NewSeededStore(opts)
		}
		s.users, s.roles = store, store
		s.checks["store"] = func(ctx context.Context) error {
			_, err := store.ListRoles(ctx)
			return err
		}
	}

	if cfg.Redis.Addr != "" {
		idem, err := redisdb.Open(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB, TTL: cfg.Redis.IdempotencyTTL})
		if err != nil {
			return s, err
		}
		s.close = append(s.close, func(context.Context) error { return idem.Close() })
		s.idem = idem
		s.checks["redis"] = handler.RedisCheck(idem.Client())
	} else {
		s.idem = memory.NewIdempotencyCache(idempotencyCacheSize, cfg.Redis.IdempotencyTTL)
	}

	return s, nil
}
