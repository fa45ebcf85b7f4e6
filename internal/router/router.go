package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/teraclinic/clinic-api/internal/handler"
	"github.com/teraclinic/clinic-api/internal/middleware"
	"github.com/teraclinic/clinic-api/internal/model"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	h       *handler.Handler
	metrics *routerMetrics

	authH     Handler
	userH     Handler
	patientH  Handler
	apptH     Handler
	evoH      Handler
	chatH     Handler
	financeH  Handler
	documentH Handler
	settingsH Handler
	licenseH  Handler
	portalH   Handler
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
	CORSConfig     middleware.CORSConfig
	MetricsPrefix  string
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	h *handler.Handler,
	authH Handler,
	userH Handler,
	patientH Handler,
	apptH Handler,
	evoH Handler,
	chatH Handler,
	financeH Handler,
	documentH Handler,
	settingsH Handler,
	licenseH Handler,
	portalH Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	if config.RequestTimeout == 0 {
		config.RequestTimeout = middleware.DefaultTimeoutConfig().Duration
	}

	r := &Router{
		engine:    engine,
		auth:      auth,
		h:         h,
		metrics:   initRouterMetrics(config.MetricsPrefix),
		authH:     authH,
		userH:     userH,
		patientH:  patientH,
		apptH:     apptH,
		evoH:      evoH,
		chatH:     chatH,
		financeH:  financeH,
		documentH: documentH,
		settingsH: settingsH,
		licenseH:  licenseH,
		portalH:   portalH,
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.RequestTimeout}),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	if config.RateLimitRPS > 0 {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RPS:   config.RateLimitRPS,
			Burst: config.RateLimitBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)

	// Public routes: signup, both logins, recovery, refresh, logout.
	r.authH.RegisterRoutes(api)

	// Guardian portal, scoped to one patient by the portal token.
	portal := api.Group("/portal")
	portal.Use(r.auth.AuthenticatePortal())
	r.portalH.RegisterRoutes(portal)

	// Staff dashboard.
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.setupProtectedRoutes(protected)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	r.patientH.RegisterRoutes(rg)
	r.apptH.RegisterRoutes(rg)
	r.evoH.RegisterRoutes(rg)
	r.chatH.RegisterRoutes(rg)
	r.documentH.RegisterRoutes(rg)

	// Ledger access needs the financial capability tag.
	financial := rg.Group("")
	financial.Use(r.auth.RequirePermission(model.PermissionFinancialControl))
	r.financeH.RegisterRoutes(financial)

	// Staff management is for MASTER and permitted ADMINs.
	staff := rg.Group("")
	staff.Use(r.auth.RequireRole(model.RoleMaster, model.RoleAdmin))
	r.userH.RegisterRoutes(staff)

	// Account management is the MASTER's alone.
	master := rg.Group("")
	master.Use(r.auth.RequireRole(model.RoleMaster))
	r.settingsH.RegisterRoutes(master)
	r.licenseH.RegisterRoutes(master)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
