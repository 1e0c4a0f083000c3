package cli

import (
	"github.com/apela812/server-stat-TG/internal/controllers"
	"github.com/apela812/server-stat-TG/internal/middleware"
	"github.com/apela812/server-stat-TG/internal/routes"
	"github.com/apela812/server-stat-TG/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// engineDeps collects what the HTTP surface needs. Webhook is nil in
// polling mode; Auth, Hub and Limiter are nil when no API secret is
// configured.
type engineDeps struct {
	Log         *zap.Logger
	Security    *middleware.SecurityLogger
	Collector   services.Collector
	Auth        *services.AuthService
	Hub         *services.WebSocketHub
	Limiter     *middleware.RateLimiter
	WebhookPath string
	Webhook     gin.HandlerFunc
}

func newEngine(d engineDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Log.Named("http")))
	r.Use(middleware.SecurityHeadersMiddleware())

	routes.RegisterHealthRoutes(r)

	if d.Webhook != nil {
		routes.RegisterWebhookRoute(r, d.WebhookPath, d.Webhook)
	}

	if d.Auth == nil {
		return r
	}

	api := r.Group("", middleware.RateLimitMiddleware(d.Limiter, d.Security))
	auth := middleware.BearerAuthMiddleware(d.Auth, d.Security)

	routes.RegisterMonitorRoutes(api, auth, controllers.NewMetricsController(d.Collector, d.Log.Named("http")))
	routes.RegisterAuthRoutes(api, auth, controllers.NewWebSocketController(d.Hub, d.Auth, d.Security, d.Log))
	return r
}
