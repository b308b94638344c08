package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/toko-pos/internal/cart"
	"github.com/noah-isme/toko-pos/internal/catalog"
	"github.com/noah-isme/toko-pos/internal/config"
	"github.com/noah-isme/toko-pos/internal/events"
	"github.com/noah-isme/toko-pos/internal/health"
	"github.com/noah-isme/toko-pos/internal/leave"
	"github.com/noah-isme/toko-pos/internal/lock"
	"github.com/noah-isme/toko-pos/internal/obs"
	"github.com/noah-isme/toko-pos/internal/parking"
	"github.com/noah-isme/toko-pos/internal/pricing"
	"github.com/noah-isme/toko-pos/internal/resilience"
	"github.com/noah-isme/toko-pos/internal/store"
)

// Dependencies enumerates the services shared by every terminal utility.
type Dependencies struct {
	Config          *config.Config
	Logger          zerolog.Logger
	Store           *store.Handle
	Redis           *redis.Client
	Validator       *validator.Validate
	MetricsRegistry *prometheus.Registry
	Metrics         *obs.DomainMetrics
	Events          *events.Bus
	CacheBreaker    *resilience.Breaker

	Catalog *catalog.Service
	Cart    *cart.Service
	Leave   *leave.Service
	Parking *parking.Service
}

// New opens the store and optional redis cache and wires the domain services.
// The returned Dependencies must be closed.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Dependencies, error) {
	if cfg == nil {
		return nil, errors.New("app: config is required")
	}
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	handle, err := store.Open(openCtx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug().Str("driver", handle.Driver).Msg("store opened")

	deps := &Dependencies{
		Config:          cfg,
		Logger:          logger,
		Store:           handle,
		Validator:       validator.New(),
		MetricsRegistry: prometheus.NewRegistry(),
	}
	deps.Metrics = obs.NewDomainMetrics(cfg.MetricsNamespace, deps.MetricsRegistry)

	var guard parking.Guard
	if cfg.RedisURL != "" {
		client, reachable, err := NewRedis(openCtx, cfg.RedisURL, logger)
		if err != nil {
			_ = handle.Close()
			return nil, err
		}
		deps.Redis = client
		// terminals sharing redis take turns on the lot
		if reachable {
			guard = lock.New(client, "toko-pos:lock", 10*time.Second, 0)
		}
	}

	deps.Events = &events.Bus{
		Store:     handle,
		Notifiers: []events.Notifier{events.LogNotifier{Logger: logger}},
	}

	breakerMetrics, err := resilience.NewMetrics(cfg.MetricsNamespace, deps.MetricsRegistry)
	if err != nil {
		_ = deps.Close()
		return nil, fmt.Errorf("register breaker metrics: %w", err)
	}
	deps.CacheBreaker = resilience.NewBreaker(resilience.Options{
		Target:  "catalog_cache",
		OpenFor: 30 * time.Second,
		Logger:  logger,
		Metrics: breakerMetrics,
	})

	deps.Catalog, err = catalog.NewService(catalog.ServiceConfig{
		Store:     handle,
		Cache:     catalog.NewCache(deps.Redis, cfg.CatalogCacheTTL).WithBreaker(deps.CacheBreaker),
		Logger:    logger,
		Validator: deps.Validator,
	})
	if err != nil {
		_ = deps.Close()
		return nil, err
	}
	deps.Cart = &cart.Service{
		Catalog: deps.Catalog,
		Pricer:  pricing.NewPricer(cfg.PromotedCategory),
		Events:  deps.Events,
		Metrics: deps.Metrics,
		Logger:  logger,
	}
	deps.Leave = &leave.Service{
		Store:    handle,
		MaxCap:   cfg.LeaveMaxCap,
		Accrual:  cfg.LeaveMonthlyAccrual,
		Events:   deps.Events,
		Metrics:  deps.Metrics,
		Logger:   logger,
		Validate: deps.Validator,
	}
	deps.Parking = &parking.Service{
		Store:   handle,
		Slots:   cfg.ParkingSlots,
		Guard:   guard,
		Events:  deps.Events,
		Metrics: deps.Metrics,
		Logger:  logger,
	}
	return deps, nil
}

// NewRedis connects an instrumented client and reports whether the server
// answered a ping. An unreachable server is logged, not fatal; the catalog
// falls back to the store.
func NewRedis(ctx context.Context, url string, logger zerolog.Logger) (*redis.Client, bool, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, false, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if err := redisotel.InstrumentMetrics(client); err != nil {
		logger.Error().Err(err).Msg("instrument redis metrics")
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis unreachable, catalog cache degraded")
		return client, false, nil
	}
	return client, true, nil
}

// Seed loads the sample catalog and roster into empty tables.
func (d *Dependencies) Seed(ctx context.Context) (products, employees bool, err error) {
	products, err = d.Catalog.Seed(ctx)
	if err != nil {
		return false, false, err
	}
	employees, err = d.Leave.Seed(ctx)
	if err != nil {
		return products, false, err
	}
	return products, employees, nil
}

// Checker exposes the store and cache probes.
func (d *Dependencies) Checker() health.Checker {
	checker := health.ContextChecker{DB: d.Store.Ping}
	if d.Redis != nil {
		checker.Redis = func(ctx context.Context) error { return d.Redis.Ping(ctx).Err() }
	}
	return checker
}

// Close flushes metrics and releases the cache and store.
func (d *Dependencies) Close() error {
	if d == nil {
		return nil
	}
	var errs error
	if d.Config != nil && d.Config.MetricsTextfile != "" {
		if err := obs.WriteTextfile(d.Config.MetricsTextfile, d.MetricsRegistry); err != nil {
			errs = errors.Join(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = errors.Join(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			errs = errors.Join(errs, fmt.Errorf("close store: %w", err))
		}
	}
	return errs
}

// Tracer returns the default OpenTelemetry tracer for instrumentation hooks.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
