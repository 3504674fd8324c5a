// Package router assembles the gin engine from the application modules.
package router

import (
	"time"

	apphttp "lead_analyzer_backend/internal/http"
	"lead_analyzer_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const corsMaxAge = 12 * time.Hour

// New builds the HTTP engine with global middleware, the per-IP rate limiter
// and every module's routes. CORS runs at engine level so preflight requests
// reach it before route matching.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(httpkit.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(app.Config)))
	engine.NoRoute(httpkit.NotFound())

	api := engine.Group("/api")

	limiter := httpkit.NewIPRateLimiterFromConfig(app.Config, app.Logger)
	limited := api.Group("")
	limited.Use(limiter.RateLimit())

	routerCtx := &apphttp.RouterContext{
		Engine:  engine,
		API:     api,
		Limited: limited,
	}
	modules := app.Modules
	if app.Metrics != nil {
		modules = append([]apphttp.Module{metricsModule{gatherer: app.Metrics}}, modules...)
	}
	for _, module := range modules {
		module.RegisterRoutes(routerCtx)
		app.Logger.Debug("module routes registered", "module", module.Name())
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", httpkit.HeaderRequestID},
		ExposeHeaders:    []string{httpkit.HeaderRequestID},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           corsMaxAge,
	}
	if cfg.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.GetCORSOrigins()
	}
	return corsCfg
}

// metricsModule serves the Prometheus exposition at the engine root, outside
// /api and the rate limiter.
type metricsModule struct {
	gatherer prometheus.Gatherer
}

func (metricsModule) Name() string { return "metrics" }

func (m metricsModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})))
}
