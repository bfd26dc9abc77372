package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	githubadapter "github.com/tilsley/shelf/apps/server/internal/adapters/github"
	"github.com/tilsley/shelf/apps/server/internal/files"
	"github.com/tilsley/shelf/apps/server/internal/files/handler"
	"github.com/tilsley/shelf/apps/server/internal/platform/config"
	githubplatform "github.com/tilsley/shelf/apps/server/internal/platform/github"
	"github.com/tilsley/shelf/apps/server/internal/platform/logger"
	"github.com/tilsley/shelf/apps/server/internal/platform/telemetry"
	"github.com/tilsley/shelf/apps/server/internal/platform/validation"
	"github.com/tilsley/shelf/schemas"
)

func main() {
	slog := logger.New()

	// --- Observability ---

	if os.Getenv("OTEL_SERVICE_NAME") == "" {
		os.Setenv("OTEL_SERVICE_NAME", "shelf-server") //nolint:errcheck
	}

	otelEnabled := os.Getenv("OTEL_ENABLED") == "true"
	ctx := context.Background()
	tel, err := telemetry.New(ctx, otelEnabled)
	if err != nil {
		slog.Error("telemetry init failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("telemetry shutdown failed", "error", err)
		}
	}()

	// --- Configuration ---

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1) //nolint:gocritic // nothing to flush before config exists
	}

	// --- Remote store ---

	gh, err := githubplatform.NewClient(cfg.GitHub)
	if err != nil {
		slog.Error("github client init failed", "error", err)
		os.Exit(1)
	}
	remote := githubadapter.New(gh, cfg.GitHub.Owner, cfg.GitHub.Repo)

	// --- Service + HTTP ---

	svc := files.NewService(remote)

	router := gin.New()

	validator, err := validation.New(schemas.OpenAPISpec)
	if err != nil {
		slog.Error("openapi validation middleware init failed", "error", err)
		os.Exit(1)
	}

	router.Use(gin.Recovery(), otelgin.Middleware("shelf-server"), validator)
	handler.RegisterRoutes(router, svc, slog)

	slog.Info("starting shelf", "port", cfg.Port, "owner", cfg.GitHub.Owner, "repo", cfg.GitHub.Repo)
	if err := router.Run(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
