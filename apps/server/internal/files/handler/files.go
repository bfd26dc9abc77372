package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/tilsley/shelf/apps/server/internal/files"
)

// Upload handles POST /files — write one file with revision-conflict
// protection.
func (h *Handler) Upload(c *gin.Context) {
	var req files.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Overwrite {
	case "", files.OverwriteAllow, files.OverwriteReject:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "overwrite must be \"allow\" or \"reject\""})
		return
	}

	outcome, err := h.svc.Upload(c.Request.Context(), req)
	if err != nil {
		h.log.Error("upload failed", "dir", req.Dir, "name", req.Name, "error", err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	h.metrics.uploads.Add(c.Request.Context(), 1,
		metric.WithAttributes(attribute.String("status", string(outcome.Status))))

	code := http.StatusOK
	if outcome.Status == files.StatusCreated {
		code = http.StatusCreated
	}
	c.JSON(code, outcome)
}

// List handles GET /files?dir= — one listing level.
func (h *Handler) List(c *gin.Context) {
	dir := c.Query("dir")
	entries, err := h.svc.ListFiles(c.Request.Context(), dir)
	if err != nil {
		h.log.Error("list failed", "dir", dir, "error", err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ListTree handles GET /files/tree?dir= — recursive leaf-file enumeration.
func (h *Handler) ListTree(c *gin.Context) {
	dir := c.Query("dir")
	entries, err := h.svc.ListAllFiles(c.Request.Context(), dir)
	if err != nil {
		h.log.Error("tree listing failed", "dir", dir, "error", err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Metadata handles GET /files/meta?dir=&name=.
func (h *Handler) Metadata(c *gin.Context) {
	dir, name := c.Query("dir"), c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	fd, err := h.svc.FetchMetadata(c.Request.Context(), dir, name)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, fd)
}

// Content handles GET /files/content?dir=&name= — base64 content when the
// store inlines it, otherwise a download URL.
func (h *Handler) Content(c *gin.Context) {
	dir, name := c.Query("dir"), c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	fc, err := h.svc.FetchContent(c.Request.Context(), dir, name)
	if err != nil {
		h.log.Error("content fetch failed", "dir", dir, "name", name, "error", err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, fc)
}

// Delete handles DELETE /files?dir=&name= — delete preconditioned on the
// current revision.
func (h *Handler) Delete(c *gin.Context) {
	dir, name := c.Query("dir"), c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), dir, name); err != nil {
		h.log.Error("delete failed", "dir", dir, "name", name, "error", err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	h.metrics.deletes.Add(c.Request.Context(), 1)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// statusFor maps the files error taxonomy onto HTTP statuses. Remote-side
// failures (transport, data integrity) are the upstream's fault, hence 502.
func statusFor(err error) int {
	var (
		notFound  files.PathNotFoundError
		conflict  files.RevisionConflictError
		integrity files.DataIntegrityError
		transport files.TransportError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &integrity):
		return http.StatusBadGateway
	case errors.As(err, &transport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
