package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"taskboard-api/api"
	"taskboard-api/config"
	"taskboard-api/domain"
	"taskboard-api/events"
	"taskboard-api/storage"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "taskboard-api",
		Short:         "Task board REST backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Seed default categories and serve the HTTP API",
		RunE:  runServe,
	})
	root.AddCommand(&cobra.Command{
		Use:   "init-storage",
		Short: "Create tables and queues, seed default categories, then exit",
		RunE:  runInitStorage,
	})
	return root
}

// backend groups the store with the optional components that depend on the
// storage account.
type backend struct {
	store     domain.Store
	tables    *storage.Tables
	publisher *events.QueuePublisher
}

func openBackend(cfg config.Config) (*backend, error) {
	b := &backend{}
	switch cfg.StorageDriver {
	case config.DriverMemory:
		b.store = storage.NewMemory()
	default:
		t, err := storage.New(cfg.ConnectionString, cfg.TasksTable, cfg.CategoriesTable)
		if err != nil {
			return nil, err
		}
		b.store, b.tables = t, t
	}
	if cfg.EventsQueue != "" {
		p, err := events.NewQueuePublisher(cfg.ConnectionString, cfg.EventsQueue)
		if err != nil {
			return nil, err
		}
		b.publisher = p
	}
	return b, nil
}

func (b *backend) eventPublisher() domain.Publisher {
	if b.publisher == nil {
		return nil
	}
	return b.publisher
}

func newLogger(cfg config.Config) *log.Logger {
	logger := log.New()
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func runInitStorage(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	logger.Info("storage init starting")

	b, err := openBackend(cfg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if b.tables != nil {
		if err := b.tables.Bootstrap(ctx); err != nil {
			logger.WithError(err).Error("create tables")
			return err
		}
	}
	if b.publisher != nil {
		if err := b.publisher.Create(ctx); err != nil {
			logger.WithError(err).Error("create queue")
			return err
		}
	}
	categories := domain.NewCategoryService(b.store, b.store, b.eventPublisher(), logger)
	if _, err := categories.SeedDefaults(ctx); err != nil {
		logger.WithError(err).Error("seed default categories")
		return err
	}
	logger.Info("storage init complete")
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := newLogger(cfg)

	b, err := openBackend(cfg)
	if err != nil {
		logger.Fatalf("storage: %v", err)
	}

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.WithError(err).Warn("tracer shutdown")
		}
	}()

	pub := b.eventPublisher()
	if b.publisher != nil {
		async := events.NewAsyncPublisher(b.publisher, logger, events.AsyncOptions{
			Workers:        cfg.EventWorkers,
			Buffer:         cfg.EventBuffer,
			HandoffTimeout: 15 * time.Millisecond,
		})
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := async.Close(ctx); err != nil {
				logger.WithError(err).Warn("event publisher drain")
			}
		}()
		pub = async
	}
	categories := domain.NewCategoryService(b.store, b.store, pub, logger)
	svc := api.Services{
		Categories: categories,
		Tasks:      domain.NewTaskService(b.store, pub, logger),
		Stats:      domain.NewStatsService(b.store),
		Health:     b.store,
	}

	seedCtx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	_, err = categories.SeedDefaults(seedCtx)
	cancel()
	if err != nil {
		logger.Fatalf("seed default categories: %v", err)
	}

	if cfg.RedisConnection != "" {
		rc := redis.NewClient(cfg.RedisOptions())
		defer rc.Close()
		svc.Deduper = api.NewRedisDeduper(rc, cfg.IdempotencyTTL)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("taskboard"))
	e.GET("/metrics", echoprometheus.NewHandler())
	api.Register(e, svc, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server: %v", err)
		}
	}()
	<-ctx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	return e.Shutdown(shutdownCtx)
}
