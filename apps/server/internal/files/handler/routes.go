// Package handler translates HTTP requests into calls on the files.Service.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tilsley/shelf/apps/server/internal/files"
)

// Handler holds the service, logger and instruments shared by all routes.
type Handler struct {
	svc     *files.Service
	log     *slog.Logger
	metrics *metrics
}

// RegisterRoutes mounts the shelf file API onto the given Gin engine.
func RegisterRoutes(r *gin.Engine, svc *files.Service, log *slog.Logger) {
	h := &Handler{svc: svc, log: log, metrics: newMetrics()}

	r.GET("/health", h.Health)

	r.POST("/files", h.Upload)
	r.GET("/files", h.List)
	r.GET("/files/tree", h.ListTree)
	r.GET("/files/meta", h.Metadata)
	r.GET("/files/content", h.Content)
	r.GET("/files/archive", h.Archive)
	r.DELETE("/files", h.Delete)
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
