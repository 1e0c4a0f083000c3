package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/apela812/server-stat-TG/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Context key holding validated JWT claims
const ClaimsKey = "claims"

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter implements token bucket rate limiting per IP
type RateLimiter struct {
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
}

// NewRateLimiter creates a limiter allowing perSecond requests per IP with the given burst
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if perSecond <= 0 {
		perSecond = 10
	}
	if burst <= 0 {
		burst = 20
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

// GetLimiter gets or creates a limiter for an IP address
func (rl *RateLimiter) GetLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, exists := rl.visitors[ip]; exists {
		v.lastSeen = time.Now()
		return v.limiter
	}

	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.visitors[ip] = &visitor{limiter: limiter, lastSeen: time.Now()}
	return limiter
}

// Evict drops limiters idle for at least maxIdle and returns how many went
func (rl *RateLimiter) Evict(maxIdle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	evicted := 0
	for ip, v := range rl.visitors {
		if time.Since(v.lastSeen) >= maxIdle {
			delete(rl.visitors, ip)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of tracked IPs
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// Run evicts idle limiters every interval until ctx is done
func (rl *RateLimiter) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Evict(maxIdle)
		}
	}
}

// RateLimitMiddleware enforces rate limiting per IP
func RateLimitMiddleware(limiter *RateLimiter, sl *SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.GetLimiter(ip).Allow() {
			sl.LogRateLimited(ip)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": 60,
			})
			return
		}
		c.Next()
	}
}

// SecurityHeadersMiddleware adds security headers to all responses
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}

// BearerToken extracts a token from the Authorization header, falling back
// to the token query parameter.
func BearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return c.Query("token")
}

// BearerAuthMiddleware rejects requests without a valid API token
func BearerAuthMiddleware(auth *services.AuthService, sl *SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			sl.LogFailedAuth(c.ClientIP(), "missing token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			sl.LogFailedAuth(c.ClientIP(), err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequestLogger logs one line per HTTP request
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// SecurityLogger logs security events for both the HTTP API and the bot
type SecurityLogger struct {
	log *zap.Logger
}

// NewSecurityLogger creates a new security logger
func NewSecurityLogger(logger *zap.Logger) *SecurityLogger {
	return &SecurityLogger{log: logger.Named("security")}
}

// LogFailedAuth logs failed authentication attempts
func (sl *SecurityLogger) LogFailedAuth(ip string, reason string) {
	sl.log.Warn("failed authentication", zap.String("ip", ip), zap.String("reason", reason))
}

// LogRateLimited logs a request rejected by the rate limiter
func (sl *SecurityLogger) LogRateLimited(ip string) {
	sl.log.Warn("rate limit exceeded", zap.String("ip", ip))
}

// LogAccessDenied logs a Telegram user outside the allow-list
func (sl *SecurityLogger) LogAccessDenied(userID int64, kind, trigger string) {
	sl.log.Warn("access denied",
		zap.Int64("user_id", userID),
		zap.String("kind", kind),
		zap.String("trigger", trigger),
	)
}

// LogWebSocketConnected logs successful WebSocket connections
func (sl *SecurityLogger) LogWebSocketConnected(ip string, client string) {
	sl.log.Info("websocket connected", zap.String("client", client), zap.String("ip", ip))
}

// LogWebSocketDisconnected logs WebSocket disconnections
func (sl *SecurityLogger) LogWebSocketDisconnected(ip string, clientID string) {
	sl.log.Info("websocket disconnected", zap.String("client", clientID), zap.String("ip", ip))
}
