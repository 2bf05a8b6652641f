// Package app wires the catalog's stores, publishers, service and transports together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	appconfig "github.com/abgdnv/catalog/internal/config"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/internal/store"
	grpcImpl "github.com/abgdnv/catalog/internal/transport/grpc"
	"github.com/abgdnv/catalog/internal/transport/rest"
	"github.com/abgdnv/catalog/internal/validation"
	"github.com/abgdnv/catalog/pkg/bootstrap"
	"github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/messaging"
	natsclient "github.com/abgdnv/catalog/pkg/nats"
	"github.com/abgdnv/catalog/pkg/rabbitmq"
	"github.com/abgdnv/catalog/pkg/server"
	"github.com/abgdnv/catalog/pkg/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
)

type Dependencies struct {
	ProductService service.ProductService
	Validator      *validation.Validator
	Logger         *slog.Logger
	// Metrics is served on /metrics when set.
	Metrics prometheus.Gatherer
}

func SetupDependencies(repo store.ProductStore, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	pService := service.NewService(repo,
		service.WithPublisher(publisher),
		service.WithLogger(logger.With("component", "service")),
	)

	return &Dependencies{
		ProductService: pService,
		Validator:      validation.New(),
		Logger:         logger,
	}
}

// NewStore opens the product store selected by cfg.Driver. The returned func releases its resources.
func NewStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (store.ProductStore, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		if cfg.Migrate {
			if err := store.Migrate(cfg.URL); err != nil {
				return nil, nil, err
			}
			logger.Info("Database migrations applied")
		}
		dbPool, err := bootstrap.NewDbPool(ctx, cfg.URL, cfg.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create database connection pool: %w", err)
		}
		logger.Info("Successfully connected to the database!")
		return store.NewPgStore(dbPool), dbPool.Close, nil
	case config.DriverSQLite:
		gdb, err := store.OpenSQLite(cfg.URL)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		gormStore, err := store.NewGormStore(gdb)
		if err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
		logger.Info("Using SQLite product store", "path", cfg.URL)
		return gormStore, func() { _ = sqlDB.Close() }, nil
	case config.DriverMemory:
		logger.Warn("Using in-memory product store, data is lost on restart")
		return store.NewInMemoryStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// NewPublisher connects to the broker selected by cfg.Driver and guards it with a circuit breaker.
// Without a broker a no-op publisher is returned.
func NewPublisher(ctx context.Context, cfg config.MessagingConfig, logger *slog.Logger) (messaging.Publisher, func(), error) {
	var (
		publisher messaging.Publisher
		closer    func()
	)
	switch cfg.Driver {
	case "", config.MessagingNone:
		return messaging.NoopPublisher{}, func() {}, nil
	case config.MessagingNATS:
		nc, err := natsclient.NewClient(cfg.NATS.Url, cfg.NATS.Timeout)
		if err != nil {
			return nil, nil, err
		}
		js, err := natsclient.NewJetStreamContext(nc)
		if err != nil {
			return nil, nil, err
		}
		if err := natsclient.EnsureStream(ctx, js, messaging.ProductsStream, messaging.ProductsSubjects); err != nil {
			nc.Close()
			return nil, nil, err
		}
		publisher = natsclient.NewNatsPublisher(js)
		closer = func() { _ = nc.Drain() }
	case config.MessagingAMQP:
		p, err := rabbitmq.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return nil, nil, err
		}
		publisher = p
		closer = func() { _ = p.Close() }
	default:
		return nil, nil, fmt.Errorf("unknown messaging driver %q", cfg.Driver)
	}
	logger.Info("Publishing product events", "driver", cfg.Driver)
	return messaging.NewBreakerPublisher(cfg.Driver+"-publisher", publisher, cfg.CircuitBreaker, logger), closer, nil
}

// SetupHttpHandler initializes the router and routes of the catalog.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) *chi.Mux {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes of the catalog.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	productHandler := rest.NewHandler(deps.ProductService, deps.Validator, deps.Logger)
	productHandler.RegisterRoutes(mux)
	if deps.Metrics != nil {
		mux.Handle("/metrics", telemetry.MetricsHandler(deps.Metrics))
	}
}

// SetupHttpServer creates and configures the catalog HTTP server.
func SetupHttpServer(deps *Dependencies, cfg *appconfig.Config) *http.Server {
	var handler http.Handler = SetupHttpHandler(deps)
	if cfg.Telemetry.Enabled {
		handler = server.Instrument(handler, "catalog-http")
	}

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, handler)
}

// SetupGrpcServer initializes the gRPC server of the catalog.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) *grpc.Server {
	productGRPCServer := grpcImpl.NewServer(deps.ProductService, deps.Validator, deps.Logger)
	return server.NewGRPCServer(deps.Logger, reflectionEnabled, productGRPCServer.Register)
}
