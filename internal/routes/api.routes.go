package routes

import (
	"github.com/apela812/server-stat-TG/internal/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterHealthRoutes registers the unauthenticated liveness probe
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/healthz", controllers.GetHealth)
}

// RegisterWebhookRoute registers the Telegram update receiver
func RegisterWebhookRoute(r *gin.Engine, path string, handler gin.HandlerFunc) {
	r.POST(path, handler)
}

// RegisterMonitorRoutes registers the JSON metrics API behind auth
func RegisterMonitorRoutes(r gin.IRouter, auth gin.HandlerFunc, mc *controllers.MetricsController) {
	metrics := r.Group("/metrics", auth)
	{
		metrics.GET("/", mc.GetStatus)
		metrics.GET("/cpu", mc.GetCPU)
		metrics.GET("/memory", mc.GetMemory)
		metrics.GET("/disk", mc.GetDisk)
		metrics.GET("/network", mc.GetNetwork)
		metrics.GET("/system", mc.GetSystem)
	}

	processes := r.Group("/processes", auth)
	{
		processes.GET("/", mc.GetTopProcesses)
	}
}

// RegisterAuthRoutes registers the WebSocket stream and token status.
// Tokens are issued from the CLI only.
func RegisterAuthRoutes(r gin.IRouter, auth gin.HandlerFunc, wc *controllers.WebSocketController) {
	// The WebSocket handler validates its own token so it can
	// reply before the upgrade.
	r.GET("/ws", wc.HandleWebSocket)
	r.GET("/auth/token/status", auth, controllers.HandleTokenStatus)
}
