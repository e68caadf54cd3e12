package router

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/orderbridge/backend/internal/infrastructure/logger"
	"github.com/orderbridge/backend/internal/interfaces/http/handler"
	"github.com/orderbridge/backend/internal/interfaces/http/middleware"
)

// Handlers are the HTTP handlers mounted by NewEngine. Outbox may be nil.
type Handlers struct {
	Orders *handler.ChannableOrderHandler
	Lookup *handler.OrderHandler
	Auth   *handler.AuthHandler
	Config *handler.ConfigHandler
	Outbox *handler.OutboxHandler
	System *handler.SystemHandler
}

// EngineConfig configures the middleware stack
type EngineConfig struct {
	Logger         *zap.Logger
	TrustedProxies []string
	CORS           middleware.CORSConfig
	MaxBodySize    int64
	RequestTimeout time.Duration

	Tracing   middleware.TracingConfig
	Metrics   middleware.HTTPMetricsConfig
	Profiling middleware.ProfilingConfig

	// WebhookToken is the shared secret Channable sends with every order
	WebhookToken string
	// WebhookLimiter throttles webhook calls per client IP; nil disables it
	WebhookLimiter *middleware.RateLimiter

	JWT     middleware.JWTMiddlewareConfig
	Swagger middleware.SwaggerConfig
}

// NewEngine builds the gin engine with the full middleware stack and all
// routes under /api/v1.
func NewEngine(cfg EngineConfig, h Handlers) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			cfg.Logger.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(
		logger.Recovery(cfg.Logger),
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger),
		middleware.Secure(),
		middleware.CORSWithConfig(cfg.CORS),
		middleware.TracingWithConfig(cfg.Tracing),
		middleware.SpanErrorMarker(),
		middleware.TracingAttributeInjector(),
		middleware.ProfilingWithConfig(cfg.Profiling),
		middleware.HTTPMetrics(cfg.Metrics),
	)
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	engine.Use(middleware.Timeout(cfg.RequestTimeout))

	jwtAuth := middleware.JWTAuthMiddlewareWithConfig(cfg.JWT)

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, jwtAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	r := NewRouter(engine, WithAPIVersion("v1"))

	channable := NewDomainGroup("channable", "/channable").
		Use(middleware.RateLimit(cfg.WebhookLimiter), middleware.ChannableToken(cfg.WebhookToken, cfg.Logger))
	channable.POST("/orders", h.Orders.ImportOrder)

	admin := NewDomainGroup("admin", "/admin").
		Use(jwtAuth, middleware.TracingAttributeInjector())
	admin.POST("/auth/login", h.Auth.Login)
	admin.POST("/auth/logout", h.Auth.Logout)
	admin.GET("/auth/me", h.Auth.GetCurrentAdmin)
	admin.POST("/config/sections/:section/save", h.Config.SaveSection)
	admin.GET("/stores", h.Config.ListStoreConfigs)
	admin.GET("/stores/:store_id/config", h.Config.GetStoreConfig)
	admin.PUT("/stores/:store_id/config", h.Config.UpdateStoreConfig)
	admin.GET("/stores/:store_id/orders/:channable_id", h.Lookup.GetImportedOrder)
	if h.Outbox != nil {
		outbox := admin.Group("outbox", "/outbox")
		outbox.GET("/stats", h.Outbox.GetStats)
		outbox.GET("/dead", h.Outbox.GetDeadLetters)
		outbox.POST("/dead/:id/retry", h.Outbox.RetryDeadLetter)
		outbox.POST("/dead/retry-all", h.Outbox.RetryAllDeadLetters)
	}

	system := NewDomainGroup("system", "/system")
	system.GET("/ping", h.System.Ping)
	system.GET("/info", h.System.GetSystemInfo)
	system.GET("/health", h.System.Health)

	r.Register(channable).
		Register(admin).
		Register(system)
	r.Setup()

	for _, g := range []*DomainGroup{channable, admin, system} {
		for _, rt := range g.Routes("/api/v1") {
			cfg.Logger.Debug("Route registered",
				zap.String("group", g.Name()),
				zap.String("method", rt.Method),
				zap.String("path", rt.Path))
		}
	}

	return engine
}
