package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/orderbridge/backend/docs"
	appevent "github.com/orderbridge/backend/internal/application/event"
	appintegration "github.com/orderbridge/backend/internal/application/integration"
	"github.com/orderbridge/backend/internal/domain/integration"
	"github.com/orderbridge/backend/internal/domain/shared"
	"github.com/orderbridge/backend/internal/infrastructure/auth"
	"github.com/orderbridge/backend/internal/infrastructure/cache"
	"github.com/orderbridge/backend/internal/infrastructure/config"
	"github.com/orderbridge/backend/internal/infrastructure/event"
	"github.com/orderbridge/backend/internal/infrastructure/logger"
	"github.com/orderbridge/backend/internal/infrastructure/messaging"
	"github.com/orderbridge/backend/internal/infrastructure/persistence"
	"github.com/orderbridge/backend/internal/infrastructure/storage"
	"github.com/orderbridge/backend/internal/infrastructure/telemetry"
	"github.com/orderbridge/backend/internal/interfaces/http/handler"
	"github.com/orderbridge/backend/internal/interfaces/http/middleware"
	"github.com/orderbridge/backend/internal/interfaces/http/router"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Orderbridge API
//	@version		1.0
//	@description	Imports Channable marketplace orders into store carts

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
	}

	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	if logProvider.IsEnabled() {
		log = logProvider.Bridge(log, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))
	}

	log.Info("Starting orderbridge",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiling.Enabled,
		ServerAddress:     cfg.Profiling.ServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Profiling.BasicAuthPass,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Events are written to the outbox in the cart's transaction and relayed later
	serializer := event.NewDefaultSerializer()
	outboxRepo := event.NewGormOutboxRepository(db.DB)
	outboxPublisher := event.NewOutboxPublisher(serializer)

	cartRepo := persistence.NewGormCartRepository(db.DB, persistence.WithOutbox(outboxPublisher))
	productRepo := persistence.NewGormProductRepository(db.DB)
	stockRegistry := persistence.NewGormStockRegistry(db.DB)
	taxRates := persistence.NewGormTaxRateCalculator(db.DB)
	weeeTaxes := persistence.NewGormWeeeTaxLookup(db.DB)
	storeConfigRepo := persistence.NewGormStoreConfigRepository(db.DB)

	cacheFactory := cache.NewFactory(cfg.Redis,
		cache.WithLogger(log.Named("cache")),
		cache.WithStoreConfigTTL(cfg.Import.StoreConfigTTL),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	)
	defer func() {
		if err := cacheFactory.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()

	idempotencyStore, err := cacheFactory.CreateIdempotencyStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() { _ = idempotencyStore.Close() }()

	storeConfigCache, err := cacheFactory.CreateStoreConfigCache(ctx)
	if err != nil {
		log.Fatal("Failed to create store config cache", zap.Error(err))
	}
	defer func() { _ = storeConfigCache.Close() }()

	archive, locator := newPayloadArchive(ctx, cfg, log)

	// Application services
	storeConfigs := appintegration.NewStoreConfigService(storeConfigRepo, storeConfigCache, cfg.Import.StoreConfigTTL, log.Named("store_config"))
	itemImporter := appintegration.NewOrderItemImporter(productRepo, stockRegistry, taxRates, weeeTaxes, log.Named("item_importer"))
	importService := appintegration.NewOrderImportService(
		itemImporter,
		storeConfigs,
		cartRepo,
		idempotencyStore,
		archive,
		shared.IdempotencyConfig{Enabled: true, TTL: cfg.Import.IdempotencyTTL},
		log.Named("order_import"),
	)
	if meterProvider.IsEnabled() {
		importMetrics, err := telemetry.NewImportMetrics(meterProvider.Meter("orderbridge.import"))
		if err != nil {
			log.Fatal("Failed to create import metrics", zap.Error(err))
		}
		importService.SetImportMetrics(importMetrics)
	}
	queryService := appintegration.NewOrderQueryService(cartRepo, locator, log.Named("order_query"))
	outboxService := appevent.NewOutboxService(outboxRepo, log.Named("outbox"))
	configObserver := appintegration.NewConfigSaveObserver(
		cfg.Channable.ConfigSection,
		appintegration.NewStoreConfigRefresher(storeConfigs),
		log.Named("config_observer"),
	)

	// Event relay: outbox -> bus -> log and, when configured, RabbitMQ
	eventBus := event.NewInMemoryEventBus(log.Named("event_bus"))
	eventBus.Subscribe(appintegration.NewOrderImportedLogger(log.Named("order_events")))
	if cfg.Messaging.Enabled {
		publisher, err := messaging.NewRabbitMQPublisher(cfg.Messaging, messaging.WithLogger(log.Named("rabbitmq")))
		if err != nil {
			log.Fatal("Failed to connect to message broker", zap.Error(err))
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Error("Error closing message broker connection", zap.Error(err))
			}
		}()
		forwarder := messaging.NewOrderEventForwarder(publisher, cfg.Messaging.RoutingKey, log.Named("order_forwarder"))
		eventBus.Subscribe(event.NewIdempotentHandler(forwarder, idempotencyStore, log.Named("order_forwarder"),
			event.WithKeyPrefix("forwarded:"),
			event.WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: true, TTL: cfg.Import.IdempotencyTTL}),
		))
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, serializer, event.OutboxProcessorConfig{
		BatchSize:        cfg.Outbox.BatchSize,
		PollInterval:     cfg.Outbox.PollInterval,
		CleanupEnabled:   cfg.Outbox.CleanupRetention > 0,
		CleanupRetention: cfg.Outbox.CleanupRetention,
	}, log.Named("outbox_processor"))
	if err := outboxProcessor.Start(ctx); err != nil {
		log.Fatal("Failed to start outbox processor", zap.Error(err))
	}

	// HTTP
	jwtService := auth.NewJWTService(cfg.JWT)
	tokenBlacklist := newTokenBlacklist(cfg, log)

	var webhookLimiter *middleware.RateLimiter
	if cfg.Channable.RateLimit >= 0 {
		webhookLimiter = middleware.NewRateLimiter(cfg.Channable.RateLimit, cfg.Channable.RateBurst)
		go webhookLimiter.Run(ctx, time.Minute)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = tokenBlacklist
	jwtConfig.Logger = log

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	cors.ExposeHeaders = []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"}

	engine := router.NewEngine(router.EngineConfig{
		Logger:         log,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		CORS:           cors,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracerProvider.IsEnabled(),
		},
		Metrics: middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			Enabled:       meterProvider.IsEnabled(),
			Logger:        log,
		},
		Profiling: middleware.ProfilingConfig{
			Enabled:          profiler.IsEnabled(),
			SkipPaths:        []string{"/api/v1/system/ping", "/api/v1/system/health"},
			SkipPathPrefixes: []string{"/swagger"},
		},
		WebhookToken:   cfg.Channable.WebhookToken,
		WebhookLimiter: webhookLimiter,
		JWT:            jwtConfig,
		Swagger: middleware.SwaggerConfig{
			Enabled:     cfg.HTTP.SwaggerEnabled,
			RequireAuth: cfg.HTTP.SwaggerRequireAuth,
			AllowedIPs:  cfg.HTTP.SwaggerAllowedIPs,
		},
	}, router.Handlers{
		Orders: handler.NewChannableOrderHandler(importService),
		Lookup: handler.NewOrderHandler(queryService),
		Auth:   handler.NewAuthHandler(auth.NewAdminAuthenticator(cfg.Admin), jwtService, tokenBlacklist, log.Named("auth")),
		Config: handler.NewConfigHandler(storeConfigs, cfg.Channable.ConfigSection, log.Named("config"), configObserver),
		Outbox: handler.NewOutboxHandler(outboxService),
		System: handler.NewSystemHandler(version, map[string]handler.HealthCheck{
			"database": db.Ping,
			"redis":    cacheFactory.Ping,
		}),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := outboxProcessor.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping outbox processor", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down log provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newPayloadArchive returns the S3 archive when storage is enabled, otherwise
// a no-op archive. The second value serves download links for archived payloads.
func newPayloadArchive(ctx context.Context, cfg *config.Config, log *zap.Logger) (integration.PayloadArchive, integration.PayloadLocator) {
	if !cfg.Storage.Enabled || !cfg.Import.ArchiveRawPayload {
		noop := storage.NewNoopPayloadArchive(log.Named("archive"))
		return noop, nil
	}

	s3Archive, err := storage.NewS3PayloadArchive(&cfg.Storage,
		storage.WithLogger(log.Named("archive")),
		storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
	)
	if err != nil {
		log.Fatal("Failed to create payload archive", zap.Error(err))
	}
	if err := s3Archive.EnsureBucket(ctx); err != nil {
		log.Fatal("Failed to prepare payload archive bucket", zap.Error(err))
	}
	return s3Archive, s3Archive
}

// newTokenBlacklist shares revoked tokens through Redis when it is enabled
func newTokenBlacklist(cfg *config.Config, log *zap.Logger) auth.TokenBlacklist {
	if !cfg.Redis.Enabled {
		return auth.NewInMemoryTokenBlacklist()
	}
	client, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		if cfg.IsProduction() {
			log.Fatal("Failed to connect token blacklist to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, revoked tokens are kept in memory", zap.Error(err))
		return auth.NewInMemoryTokenBlacklist()
	}
	return auth.NewRedisTokenBlacklist(client)
}
