package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/apela812/server-stat-TG/internal/bot"
	"github.com/apela812/server-stat-TG/internal/config"
	"github.com/apela812/server-stat-TG/internal/controllers"
	"github.com/apela812/server-stat-TG/internal/logging"
	"github.com/apela812/server-stat-TG/internal/middleware"
	"github.com/apela812/server-stat-TG/internal/routes"
	"github.com/apela812/server-stat-TG/internal/services"
	"github.com/apela812/server-stat-TG/internal/telegram"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 30 * time.Second

	limiterSweep   = time.Minute
	limiterMaxIdle = 10 * time.Minute
)

func runBot(parent context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return err
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ids, invalid := config.ParseAllowedUsers(cfg.AllowedUsers)
	for _, v := range invalid {
		logger.Warn("skipping invalid user id", zap.String("value", v))
	}
	allow := services.NewAllowList(ids)
	logger.Info("allowed users", zap.String("users", describeAllowList(allow)))

	markup, err := services.ParseMarkup(cfg.Markup)
	if err != nil {
		return err
	}

	collector := services.NewSystemCollector(logger.Named("metrics"))
	security := middleware.NewSecurityLogger(logger)

	router := bot.NewRouter(allow, logger.Named("bot"))
	router.OnDenied(func(ev *bot.Event) {
		security.LogAccessDenied(ev.UserID, ev.Kind.String(), ev.Trigger)
	})
	routes.RegisterBotRoutes(router, controllers.NewBotController(collector, services.NewFormatter(markup), cfg.ProcessLimit))
	logger.Debug("bot routes registered", zap.Int("routes", router.Routes()))

	transport, err := telegram.New(cfg.BotToken, cfg.Debug, router, logger)
	if err != nil {
		logger.Error("telegram login failed", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	if cfg.HTTPAddr != "" {
		deps := engineDeps{
			Log:       logger,
			Security:  security,
			Collector: collector,
		}
		if cfg.WebhookURL != "" {
			deps.WebhookPath = telegram.WebhookPath(cfg.WebhookURL)
			deps.Webhook = transport.WebhookHandler(cfg.WebhookSecret)
		}
		if cfg.APISecret != "" {
			if deps.Auth, err = services.NewAuthService(cfg.APISecret, cfg.TokenExpiry); err != nil {
				return err
			}
			deps.Hub = services.NewWebSocketHub(collector, cfg.StreamInterval, logger.Named("ws"))
			deps.Limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
			g.Go(func() error {
				deps.Hub.Run(gctx)
				return nil
			})
			g.Go(func() error {
				deps.Limiter.Run(gctx, limiterSweep, limiterMaxIdle)
				return nil
			})
		}

		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           newEngine(deps),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		// The other goroutines stop once the transport does
		defer stop()
		if cfg.WebhookURL != "" {
			return transport.RunWebhook(gctx, cfg.WebhookURL, cfg.WebhookSecret)
		}
		return transport.RunPolling(gctx)
	})

	runErr := g.Wait()
	logger.Info("shutting down")

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := transport.Close(drainCtx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	return runErr
}

// describeAllowList renders the allow-list for the startup log
func describeAllowList(allow *services.AllowList) string {
	if allow.Len() == 0 {
		return "Все"
	}
	ids := allow.IDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
