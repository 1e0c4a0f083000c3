package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/apela812/server-stat-TG/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newSecurityLogger() (*SecurityLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return NewSecurityLogger(zap.New(core)), logs
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestBearerAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	auth, err := services.NewAuthService(testSecret, time.Hour)
	require.NoError(t, err)
	token, _, err := auth.GenerateToken("tests")
	require.NoError(t, err)

	sl, logs := newSecurityLogger()
	r := gin.New()
	r.GET("/private", BearerAuthMiddleware(auth, sl), func(c *gin.Context) {
		claims := c.MustGet(ClaimsKey).(*services.CustomClaims)
		c.String(http.StatusOK, claims.Client)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := serve(r, httptest.NewRequest(http.MethodGet, "/private", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("header token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := serve(r, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "tests", rec.Body.String())
	})

	t.Run("query token", func(t *testing.T) {
		rec := serve(r, httptest.NewRequest(http.MethodGet, "/private?token="+token, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	assert.Equal(t, 2, logs.FilterMessage("failed authentication").Len())
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sl, logs := newSecurityLogger()
	r := gin.New()
	r.Use(RateLimitMiddleware(NewRateLimiter(0.001, 2), sl))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 2; i++ {
		rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("rate limit exceeded").Len())

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.9:1234"
	assert.Equal(t, http.StatusNoContent, serve(r, other).Code, "limits are per IP")
}

func TestRateLimiterEvictsIdleIPs(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	first := rl.GetLimiter("10.0.0.1")
	rl.GetLimiter("10.0.0.2")
	assert.Same(t, first, rl.GetLimiter("10.0.0.1"))
	assert.Equal(t, 2, rl.Len())

	assert.Zero(t, rl.Evict(time.Hour))
	assert.Equal(t, 2, rl.Evict(0))
	assert.Zero(t, rl.Len())
}

func TestRateLimiterRunSweeps(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.GetLimiter("10.0.0.1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rl.Run(ctx, 5*time.Millisecond, 0)
		close(done)
	}()

	assert.Eventually(t, func() bool { return rl.Len() == 0 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(SecurityHeadersMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestLogAccessDenied(t *testing.T) {
	sl, logs := newSecurityLogger()
	sl.LogAccessDenied(333, "command", "status")

	entries := logs.FilterMessage("access denied").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(333), fields["user_id"])
	assert.Equal(t, "command", fields["kind"])
	assert.Equal(t, "status", fields["trigger"])
}
