package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/campusfest/eventhub-api/internal/api"
	"github.com/campusfest/eventhub-api/internal/cache"
	"github.com/campusfest/eventhub-api/internal/config"
	"github.com/campusfest/eventhub-api/internal/db"
	"github.com/campusfest/eventhub-api/internal/logger"
	"github.com/campusfest/eventhub-api/internal/media"
	"github.com/campusfest/eventhub-api/internal/notify"
	"github.com/campusfest/eventhub-api/internal/repository/dao"
	"github.com/campusfest/eventhub-api/internal/service"
)

const defaultConfigPath = "./cmd/app/config.yml"

func ConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return defaultConfigPath
}

// OpenDatabase prefers DATABASE_URL over the postgres section of the config.
func OpenDatabase(conf *config.AppConfig) (*gorm.DB, error) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return db.OpenPostgresWithURL(dbURL)
	}
	return db.OpenPostgres(conf.Postgres)
}

func Start() error {
	path := ConfigPath()
	conf, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	if err = logger.SetLevel(conf.API.LogLevel); err != nil {
		return fmt.Errorf("failed to set log level -> %w", err)
	}

	config.Watch(path, func(updated *config.AppConfig, err error) {
		if err != nil {
			zap.L().Warn("config reload failed", zap.Error(err))
			return
		}
		if err = logger.SetLevel(updated.API.LogLevel); err != nil {
			zap.L().Warn("invalid log level in reloaded config", zap.Error(err))
			return
		}
		zap.L().Info("config reloaded", zap.String("log_level", updated.API.LogLevel))
	})

	postgresDB, err := OpenDatabase(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	dropped, err := dao.Migrate(postgresDB)
	if err != nil {
		return fmt.Errorf("failed to migrate tables -> %w", err)
	}
	for _, name := range dropped {
		zap.L().Info("dropped legacy usn index", zap.String("name", name))
	}

	images, err := media.NewMinioStore(conf.Media)
	if err != nil {
		return fmt.Errorf("failed to initialize media store -> %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := notify.NewHub()
	publisher, closePublisher := newPublisher(conf.AMQP, hub)
	defer closePublisher()

	s := api.NewServer(conf, postgresDB, api.Infra{
		Images:    images,
		Cache:     newEventCache(conf.Redis),
		Publisher: publisher,
		Feed:      hub,
	})

	srv := &http.Server{
		Addr:              ":" + s.Config.API.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err = g.Wait(); err != nil {
		return err
	}

	if sqlDB, err := postgresDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	zap.L().Info("server exited")

	return nil
}

// newEventCache falls back to no caching when redis is not configured or
// cannot be reached at startup.
func newEventCache(conf *config.RedisConfig) service.EventCache {
	if conf.Addr == "" {
		return cache.NoopEventCache{}
	}

	client, err := cache.NewRedisClient(conf)
	if err != nil {
		zap.L().Warn("redis unavailable, event list caching disabled", zap.Error(err))
		return cache.NoopEventCache{}
	}

	return cache.NewRedisEventCache(client, conf.TTL)
}

// newPublisher always feeds the websocket hub and adds the broker when one is
// configured and reachable.
func newPublisher(conf *config.AMQPConfig, hub *notify.Hub) (notify.Fanout, func()) {
	publishers := notify.Fanout{hub}
	if conf.URL == "" {
		return publishers, func() {}
	}

	amqpPublisher, err := notify.NewAMQPPublisher(conf.URL, conf.Queue)
	if err != nil {
		zap.L().Warn("amqp unavailable, booking notifications stay in-process", zap.Error(err))
		return publishers, func() {}
	}

	return append(publishers, amqpPublisher), func() {
		if err := amqpPublisher.Close(); err != nil {
			zap.L().Warn("closing amqp publisher failed", zap.Error(err))
		}
	}
}
