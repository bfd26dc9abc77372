package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Archive handles GET /files/archive?dir= — streams the subtree as a tar.gz
// directly onto the response body. The response writer is the archive sink
// and is exclusively owned by this request for its duration.
func (h *Handler) Archive(c *gin.Context) {
	dir := c.Query("dir")
	jobID := uuid.New().String()

	// Resolve the file list before any byte is written so an empty or broken
	// tree still gets a proper error status.
	descriptors, err := h.svc.ListAllFiles(c.Request.Context(), dir)
	if err != nil {
		h.log.Error("archive walk failed", "jobId", jobID, "dir", dir, "error", err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "application/gzip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.tar.gz", archiveName(dir)))

	h.log.Info("archive job started", "jobId", jobID, "dir", dir, "files", len(descriptors))
	if err := h.svc.DownloadArchive(c.Request.Context(), dir, c.Writer); err != nil {
		// Headers are gone once streaming starts; abort the connection so the
		// client sees a truncated stream instead of a silently short archive.
		h.log.Error("archive job failed", "jobId", jobID, "dir", dir, "error", err)
		h.metrics.archiveFailures.Add(c.Request.Context(), 1)
		c.Abort()
		_ = c.Error(err) //nolint:errcheck // recorded for gin middleware, nothing else to do mid-stream
		return
	}

	h.metrics.archives.Add(c.Request.Context(), 1)
	h.log.Info("archive job completed", "jobId", jobID, "dir", dir)
	c.Status(http.StatusOK)
}

// archiveName derives a download filename from the requested subtree.
func archiveName(dir string) string {
	trimmed := strings.Trim(dir, "/")
	if trimmed == "" {
		return "shelf"
	}
	return strings.ReplaceAll(trimmed, "/", "-")
}
