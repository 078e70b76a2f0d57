package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/talentscout/internal/api"
	"github.com/vytor/talentscout/internal/config"
	"github.com/vytor/talentscout/internal/db"
	"github.com/vytor/talentscout/internal/logger"
	"github.com/vytor/talentscout/internal/notify"
	"github.com/vytor/talentscout/internal/repository"
	"github.com/vytor/talentscout/internal/repository/postgres"
	"github.com/vytor/talentscout/internal/repository/postgrest"
	"github.com/vytor/talentscout/internal/repository/sqlite"
	"github.com/vytor/talentscout/internal/services"
	"github.com/vytor/talentscout/internal/session"
	"github.com/vytor/talentscout/internal/worker"
)

const sessionSweepInterval = time.Minute

// backend is an opened gateway plus its readiness probe and cleanup.
type backend struct {
	gateway repository.Gateway
	ping    func(ctx context.Context) error
	close   func()
}

func main() {
	cfg := config.Load()

	format := logger.ParseFormat(cfg.LogFormat)
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(format),
		logger.WithColors(format == logger.FormatText),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("TalentScout Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("gateway_backend=%s", cfg.GatewayBackend)
	log.Debug("gateway_timeout=%s", cfg.GatewayTimeout)
	log.Debug("session_cache=%s", cfg.SessionCache)
	log.Debug("session_ttl=%s", cfg.SessionTTL)
	log.Debug("notify_worker_count=%d", cfg.NotifyWorkerCount)
	log.Debug("notify_queue_size=%d", cfg.NotifyQueueSize)
	log.Debug("dashboard_route=%s", cfg.DashboardRoute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	be, err := openBackend(ctx, cfg)
	if err != nil {
		log.Error("failed to open %s gateway: %v", cfg.GatewayBackend, err)
		os.Exit(1)
	}
	defer be.close()

	cache, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		log.Error("failed to open session cache: %v", err)
		os.Exit(1)
	}
	defer closeCache()

	// Notifications
	notifyPool := worker.NewPool("notify", cfg.NotifyWorkerCount, cfg.NotifyQueueSize)
	inbox := notify.NewInbox(cfg.InboxLimit)
	dispatcher := notify.NewDispatcher(notifyPool, inbox, notify.LogSink{})

	// Services
	coordinator := services.NewProfileCoordinator(be.gateway, cfg.GatewayTimeout)
	handlers := services.NewProfileHandlers(be.gateway, coordinator, dispatcher, services.HandlerConfig{
		Timeout:        cfg.GatewayTimeout,
		DashboardRoute: cfg.DashboardRoute,
	})

	sessions := session.NewManager(be.gateway.Profiles, cache)
	sessions.OnEnd(func(ctx context.Context, userID string) {
		coordinator.Release(ctx, userID)
		inbox.Forget(userID)
	})

	srv := &api.Server{
		Auth:        session.NewAuthenticator(cfg.JWTSecret, cfg.JWTAudience),
		Sessions:    sessions,
		Coordinator: coordinator,
		Handlers:    handlers,
		Evaluations: services.NewEvaluationService(be.gateway.Evaluations),
		Experts:     services.NewExpertDirectoryService(be.gateway.Experts),
		Inbox:       inbox,
		Ready:       be.ping,
	}

	notifyPool.Start(ctx)
	go sessions.Run(ctx, sessionSweepInterval, cfg.SessionTTL)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GatewayTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Deliver what is already queued before the workers exit.
	log.Debug("stopping notification pool")
	notifyPool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("TalentScout Server Stopped")
	log.Info("===========================================")
}

func openBackend(ctx context.Context, cfg config.Config) (backend, error) {
	log := logger.Default()

	switch cfg.GatewayBackend {
	case config.BackendSQLite:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return backend{}, err
		}
		return backend{
			gateway: sqlite.NewGateway(database.DB),
			ping:    database.PingContext,
			close: func() {
				log.Debug("closing database connection")
				_ = database.Close()
			},
		}, nil

	case config.BackendPostgres:
		pool, err := db.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return backend{}, err
		}
		return backend{
			gateway: postgres.NewGateway(pool),
			ping:    pool.Ping,
			close: func() {
				log.Debug("closing postgres pool")
				pool.Close()
			},
		}, nil

	case config.BackendPostgREST:
		client := postgrest.New(cfg.PostgRESTURL, cfg.PostgRESTAPIKey,
			postgrest.WithTokenSource(session.TokenFromContext),
			postgrest.WithHTTPClient(&http.Client{Timeout: cfg.GatewayTimeout}),
		)
		return backend{
			gateway: postgrest.NewGateway(client),
			ping:    client.Ping,
			close:   func() {},
		}, nil

	default:
		return backend{}, fmt.Errorf("unknown gateway backend %q", cfg.GatewayBackend)
	}
}

func openCache(ctx context.Context, cfg config.Config) (session.Cache, func(), error) {
	if cfg.SessionCache != config.CacheRedis {
		return session.NewMemoryCache(cfg.SessionTTL), func() {}, nil
	}
	rdb, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	return session.NewRedisCache(rdb, cfg.SessionTTL), func() { _ = rdb.Close() }, nil
}
