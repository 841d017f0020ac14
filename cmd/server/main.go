package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/nantech/inventory/internal/application/catalog"
	identityapp "github.com/nantech/inventory/internal/application/identity"
	"github.com/nantech/inventory/internal/domain/catalog"
	"github.com/nantech/inventory/internal/domain/identity"
	"github.com/nantech/inventory/internal/domain/shared"
	"github.com/nantech/inventory/internal/infrastructure/auth"
	"github.com/nantech/inventory/internal/infrastructure/config"
	"github.com/nantech/inventory/internal/infrastructure/event"
	"github.com/nantech/inventory/internal/infrastructure/logger"
	"github.com/nantech/inventory/internal/infrastructure/persistence"
	"github.com/nantech/inventory/internal/infrastructure/search"
	"github.com/nantech/inventory/internal/infrastructure/telemetry"
	"github.com/nantech/inventory/internal/interfaces/http/handler"
	"github.com/nantech/inventory/internal/interfaces/http/middleware"
	"github.com/nantech/inventory/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const (
	shutdownTimeout       = 30 * time.Second
	stockSnapshotInterval = time.Minute
	indexSyncTimeout      = 2 * time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	// The log exporter needs a logger of its own before the final one exists
	bootLog := logger.New(logCfg)

	ctx := context.Background()

	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}

	log := logger.New(logCfg, logProvider.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting inventory service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		SpanProfiles:      cfg.Profiling.Enabled && cfg.Profiling.SpanProfiles,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiling.Enabled,
		ServerAddress:     cfg.Profiling.ServerAddress,
		ApplicationName:   cfg.Profiling.ApplicationName,
		BasicAuthUser:     cfg.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Profiling.BasicAuthPassword,
		ProfileTypes:      cfg.Profiling.ProfileTypes,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	// Database with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Database.SlowQuery)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled: cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Repositories
	itemRepo := persistence.NewGormItemRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)

	// Session infrastructure
	codec, err := auth.NewSessionCodec(auth.SessionCodecConfig{
		Codec:  cfg.Session.Codec,
		Secret: cfg.Session.Secret,
		MaxAge: cfg.Session.MaxAge,
		Issuer: cfg.Session.Issuer,
	})
	if err != nil {
		log.Fatal("Failed to create session codec", zap.Error(err))
	}
	revocations, closeRevocations := newRevocationStore(cfg, log)

	// Optional item event stream and search index
	publisher, closePublisher := newEventPublisher(cfg, log)
	index := newItemIndex(ctx, cfg, log)

	inventoryMetrics, err := telemetry.NewInventoryMetrics(telemetry.InventoryMetricsConfig{
		Meter:    meterProvider.Meter("inventory"),
		Logger:   log,
		Provider: telemetry.NewGormStockSnapshotProvider(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to create inventory metrics", zap.Error(err))
	}
	metricsCtx, stopMetrics := context.WithCancel(ctx)
	inventoryMetrics.StartPeriodicCollection(metricsCtx, stockSnapshotInterval)

	// Application services
	authService := identityapp.NewAuthService(
		userRepo,
		codec,
		revocations,
		inventoryMetrics,
		identityapp.AuthServiceConfig{SessionMaxAge: cfg.Session.MaxAge},
		log,
	)
	itemService := catalogapp.NewItemService(itemRepo, publisher, index, inventoryMetrics, log)
	if index != nil {
		go syncItemIndex(ctx, itemService, log)
	}
	lookupService := catalogapp.NewLookupService(categoryRepo, supplierRepo)

	cookie := middleware.SessionCookie{
		Name:     cfg.Session.CookieName,
		Domain:   cfg.Cookie.Domain,
		Path:     cfg.Cookie.Path,
		SameSite: middleware.ParseSameSite(cfg.Cookie.SameSite),
		Secure:   cfg.App.IsProduction(),
		MaxAge:   cfg.Session.MaxAge,
	}

	engineCfg := router.EngineConfig{
		Logger: log,
		CORS: middleware.CORSConfig{
			AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
			AllowMethods:     cfg.HTTP.CORSAllowMethods,
			AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		Security: securityConfig(cfg),
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		RequestTimeout: cfg.HTTP.RequestTimeout,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
	}
	if cfg.HTTP.MetricsEnabled {
		engineCfg.Metrics = middleware.NewHTTPMetrics("inventory")
	}
	if cfg.HTTP.LoginRateLimitEnabled {
		engineCfg.LoginLimiter = middleware.NewRateLimiter(cfg.HTTP.LoginRateLimitRequests, cfg.HTTP.LoginRateLimitWindow)
	}

	engine, err := router.NewEngine(engineCfg,
		router.SessionDeps{
			Authenticator: authService,
			Cookie:        cookie,
			Policy:        identity.DefaultAccessPolicy(),
		},
		router.Handlers{
			Auth:   handler.NewAuthHandler(authService, cookie),
			Item:   handler.NewItemHandler(itemService),
			Lookup: handler.NewLookupHandler(lookupService),
			Page:   handler.NewPageHandler(),
			System: handler.NewSystemHandler(cfg.App.Name, version, db),
		})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if engineCfg.LoginLimiter != nil {
		engineCfg.LoginLimiter.Stop()
	}
	inventoryMetrics.Stop()
	stopMetrics()
	closePublisher()
	closeRevocations()

	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	_ = meterProvider.Shutdown(shutdownCtx)
	_ = tracerProvider.Shutdown(shutdownCtx)
	if err := profiler.Stop(); err != nil {
		log.Warn("Error stopping profiler", zap.Error(err))
	}
	_ = logProvider.Shutdown(shutdownCtx)

	log.Info("Server exited gracefully")
}

func securityConfig(cfg *config.Config) middleware.SecurityConfig {
	sec := middleware.DefaultSecurityConfig()
	sec.HSTSEnabled = cfg.App.IsProduction()
	return sec
}

// newRevocationStore returns the Redis store when enabled, otherwise an
// in-process one. The returned func releases the store.
func newRevocationStore(cfg *config.Config, log *zap.Logger) (auth.RevocationStore, func()) {
	if !cfg.Redis.Enabled {
		log.Info("Redis disabled, session revocations kept in memory")
		return auth.NewInMemoryRevocationStore(), func() {}
	}

	store, err := auth.NewRedisRevocationStore(auth.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.String("addr", cfg.Redis.Addr()), zap.Error(err))
	}
	log.Info("Session revocation backed by Redis", zap.String("addr", cfg.Redis.Addr()))

	return store, func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing Redis", zap.Error(err))
		}
	}
}

// newEventPublisher returns the Kafka publisher when enabled. A nil publisher
// disables item events.
func newEventPublisher(cfg *config.Config, log *zap.Logger) (shared.EventPublisher, func()) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}
	}

	kp, err := event.NewKafkaPublisher(event.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.Topic,
		WriteTimeout: cfg.Kafka.WriteTimeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to create Kafka publisher", zap.Error(err))
	}
	log.Info("Item events published to Kafka",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic))

	return kp, func() {
		if err := kp.Close(); err != nil {
			log.Error("Error closing Kafka publisher", zap.Error(err))
		}
	}
}

// syncItemIndex loads items written while the index was absent or behind.
// Until it finishes, index searches may miss those items.
func syncItemIndex(ctx context.Context, items *catalogapp.ItemService, log *zap.Logger) {
	syncCtx, cancel := context.WithTimeout(ctx, indexSyncTimeout)
	defer cancel()
	if _, err := items.SyncIndex(syncCtx); err != nil {
		log.Warn("Search index sync failed", zap.Error(err))
	}
}

// newItemIndex returns the Elasticsearch index when enabled. A nil index
// routes searches to the database.
func newItemIndex(ctx context.Context, cfg *config.Config, log *zap.Logger) catalog.ItemIndex {
	if !cfg.Search.Enabled {
		return nil
	}

	idx, err := search.NewElasticItemIndex(search.Config{
		Addresses: cfg.Search.Addresses,
		Username:  cfg.Search.Username,
		Password:  cfg.Search.Password,
		Index:     cfg.Search.Index,
	}, log)
	if err != nil {
		log.Fatal("Failed to create search client", zap.Error(err))
	}

	ensureCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := idx.EnsureIndex(ensureCtx); err != nil {
		// Searches fall back to the database while the index is unavailable
		log.Warn("Search index not ready", zap.String("index", cfg.Search.Index), zap.Error(err))
	}
	return idx
}
