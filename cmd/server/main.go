// Package main is the entry point for the storefront state server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vyrodovalexey/zuice-storefront/internal/auth"
	"github.com/vyrodovalexey/zuice-storefront/internal/catalog"
	"github.com/vyrodovalexey/zuice-storefront/internal/config"
	"github.com/vyrodovalexey/zuice-storefront/internal/handler"
	"github.com/vyrodovalexey/zuice-storefront/internal/persist"
	"github.com/vyrodovalexey/zuice-storefront/internal/server"
	"github.com/vyrodovalexey/zuice-storefront/internal/session"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Use a basic logger for startup errors
		basicLogger, _ := zap.NewProduction()
		basicLogger.Error("failed to load configuration", zap.Error(err))
		return 1
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		basicLogger, _ := zap.NewProduction()
		basicLogger.Error("failed to initialize logger", zap.Error(err))
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("configuration loaded",
		zap.Int("server_port", cfg.ServerPort),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("shutdown_timeout", cfg.ShutdownTimeout),
		zap.Bool("metrics_enabled", cfg.MetricsEnabled),
		zap.String("auth_mode", cfg.AuthMode),
		zap.String("persist_backend", cfg.PersistBackend),
		zap.String("chat_strategy", cfg.ChatStrategy),
		zap.Duration("session_idle_timeout", cfg.SessionIdleTimeout),
	)

	srv, sessions, err := build(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize server", zap.Error(err))
		return 1
	}
	defer sessions.Close()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go sessions.Run(ctx)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", zap.Error(err))
		return 1
	case sig := <-shutdown:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
			return 1
		}
	}

	logger.Info("server stopped")
	return 0
}

// build wires the persistence backend, session manager, authenticator and
// chat assistant into a server.
func build(cfg *config.Config, logger *zap.Logger) (*server.Server, *session.Manager, error) {
	store, err := persist.Open(cfg.PersistBackend, cfg.DataDir, breakerConfig(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s persistence: %w", cfg.PersistBackend, err)
	}

	authenticator, err := auth.New(cfg.AuthMode, cfg.BasicAuthUsers, cfg.APIKeys)
	if err != nil {
		return nil, nil, fmt.Errorf("creating authenticator: %w", err)
	}

	assistant, err := handler.NewAssistant(cfg.ChatStrategy, cfg.FAQThreshold)
	if err != nil {
		return nil, nil, fmt.Errorf("creating chat assistant: %w", err)
	}

	sessions := session.NewManager(store, session.Config{
		IdleTimeout:  cfg.SessionIdleTimeout,
		ChatStrategy: cfg.ChatStrategy,
		Products:     catalog.SeedProducts(),
	}, logger)

	return server.New(cfg, logger, sessions, authenticator, assistant), sessions, nil
}

func breakerConfig(cfg *config.Config) persist.BreakerConfig {
	return persist.BreakerConfig{
		ConsecutiveFailures: cfg.BreakerFailures,
		ErrorRatePercent:    cfg.BreakerErrorRate,
		MaxRequests:         1,
		Timeout:             cfg.BreakerTimeout,
	}
}

// initLogger initializes a zap logger with the specified log level.
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	zapConfig := zap.Config{
		Level:       zap.NewAtomicLevelAt(zapLevel),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "timestamp",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "message",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapConfig.Build()
}
