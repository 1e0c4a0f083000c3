// Package logging builds the process-wide zap logger and adapts it for
// third-party libraries that expect a printf-style logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger for the given level ("debug", "info", ...) and
// format ("console" or "json").
func New(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	case "", "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.Development = false
		cfg.DisableStacktrace = true
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("invalid log format %q: want console or json", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// BotLogger satisfies tgbotapi.BotLogger. The SDK uses Printf for debug
// traces and Println for transport errors.
type BotLogger struct {
	s *zap.SugaredLogger
}

// NewBotLogger wraps l for use with tgbotapi.SetLogger.
func NewBotLogger(l *zap.Logger) *BotLogger {
	return &BotLogger{s: l.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (b *BotLogger) Printf(format string, v ...interface{}) {
	b.s.Debugf(format, v...)
}

func (b *BotLogger) Println(v ...interface{}) {
	b.s.Warn(fmt.Sprint(v...))
}
