package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/keel-go/keel"
)

// LoggerConfig configures the logging middleware.
type LoggerConfig struct {
	// Logger is the slog logger to write to (default: slog.Default()).
	Logger *slog.Logger

	// Level is the level for successful dispatches (default: slog.LevelInfo).
	// Failed dispatches always log at error level.
	Level slog.Level
}

// LoggerOption configures the logging middleware.
type LoggerOption func(*LoggerConfig)

// WithLogger sets the destination logger.
func WithLogger(logger *slog.Logger) LoggerOption {
	return func(c *LoggerConfig) {
		c.Logger = logger
	}
}

// WithLogLevel sets the level used for successful dispatches.
func WithLogLevel(level slog.Level) LoggerOption {
	return func(c *LoggerConfig) {
		c.Level = level
	}
}

func defaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Logger: slog.Default(),
		Level:  slog.LevelInfo,
	}
}

// Logger creates middleware that logs every dispatch with its action type,
// duration, and outcome.
func Logger[S any](opts ...LoggerOption) keel.Middleware[S] {
	cfg := defaultLoggerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(api keel.MiddlewareAPI[S]) keel.Interceptor {
		return func(next keel.Dispatcher) keel.Dispatcher {
			return func(action any) (any, error) {
				typ, _ := keel.ActionType(action)
				start := time.Now()

				out, err := next(action)

				elapsed := time.Since(start)
				if err != nil {
					cfg.Logger.Error("dispatch failed",
						slog.String("action", typ),
						slog.Duration("duration", elapsed),
						slog.Any("error", err),
					)
					return out, err
				}
				cfg.Logger.Log(context.Background(), cfg.Level, "action dispatched",
					slog.String("action", typ),
					slog.Duration("duration", elapsed),
				)
				return out, nil
			}
		}
	}
}
