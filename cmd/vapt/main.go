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

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	_ "github.com/tair/vapt/docs"
	"github.com/tair/vapt/internal/config"
	"github.com/tair/vapt/internal/marketplace"
	httpDelivery "github.com/tair/vapt/internal/marketplace/delivery/http"
	"github.com/tair/vapt/internal/marketplace/usecase/command"
	"github.com/tair/vapt/internal/store"
	"github.com/tair/vapt/kafka"
	"github.com/tair/vapt/pkg/database"
	"github.com/tair/vapt/pkg/logger"
	"github.com/tair/vapt/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger.Configure(logger.Options{
		Service:     cfg.ServiceName,
		Development: cfg.Development(),
		Level:       cfg.LogLevel,
	})
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("environment", cfg.AppEnv).
		Str("store_driver", cfg.StoreDriver).
		Str("log_level", cfg.LogLevel).
		Msg("Starting marketplace")

	if err := run(cfg); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Marketplace stopped with error")
	}
	logger.Logger.Info().Msg("Marketplace stopped")
}

func run(cfg *config.Config) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.InitTracer(tracing.Config{
		ServiceName:    cfg.ServiceName,
		Enabled:        cfg.TracingEnabled,
		JaegerEndpoint: cfg.JaegerEndpoint,
	})
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Invoke(func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return tracing.Shutdown(shutdownCtx, tp)
	}))

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	s := store.New(store.NewTracedBackend(backend, cfg.StoreDriver))
	defer multierr.AppendInvoke(&err, multierr.Close(s))

	publisher, err := openPublisher(cfg)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(publisher))

	if err := s.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	if cfg.SeedSampleData {
		dispatcher, err := marketplace.InitializeDispatcher(s, kafka.NopPublisher{})
		if err != nil {
			return err
		}
		if _, err := dispatcher.Dispatch(ctx, command.SeedSampleDataCommand{}); err != nil {
			return fmt.Errorf("failed to seed sample data: %w", err)
		}
	}

	handler, err := marketplace.InitializeHTTPHandler(s, publisher, prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("failed to initialize handler: %w", err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           newRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/index.html").
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Logger.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newRouter(handler *httpDelivery.MarketplaceHandler) http.Handler {
	router := mux.NewRouter()
	router.Use(httpDelivery.RecoverMiddleware, httpDelivery.LoggingMiddleware)

	handler.RegisterRoutes(router)

	router.Handle("/metrics", promhttp.Handler())
	httpDelivery.RegisterSwaggerDocs(router, httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return otelhttp.NewHandler(c.Handler(router), "vapt-http")
}

func openBackend(ctx context.Context, cfg *config.Config) (store.Backend, error) {
	switch cfg.StoreDriver {
	case config.DriverRedis:
		b, err := store.NewRedisBackend(ctx, store.RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.StoreKeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		return b, nil

	case config.DriverSQLite:
		db, err := database.NewSQLiteConnection(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return migrated(store.NewSQLBackend(db))

	case config.DriverPostgres:
		db, err := database.NewGormConnection(cfg.Database)
		if err != nil {
			return nil, err
		}
		return migrated(store.NewSQLBackend(db))

	default:
		logger.Logger.Warn().Msg("Using in-memory store; data is lost on restart")
		return store.NewMemoryBackend(), nil
	}
}

func migrated(b *store.SQLBackend) (store.Backend, error) {
	if err := b.AutoMigrate(); err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return b, nil
}

func openPublisher(cfg *config.Config) (kafka.Publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Logger.Info().Msg("No Kafka brokers configured; events are dropped")
		return kafka.NopPublisher{}, nil
	}
	pub, err := kafka.NewSaramaPublisher(cfg.KafkaBrokers)
	if err != nil {
		return nil, err
	}
	return pub, nil
}
