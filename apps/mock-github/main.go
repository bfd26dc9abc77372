// mock-github is a local stand-in for the GitHub contents API, shaped so the
// go-github client in the shelf server can point at it via GITHUB_BASE_URL.
// It enforces the same sha preconditions as the real API: creates against
// existing paths return 422, stale shas on update or delete return 409.
package main

import (
	"crypto/sha1" //nolint:gosec // mimics git's blob hash, not a security boundary
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/tilsley/shelf/pkg/logging"
)

// store holds file content keyed by "owner/repo".
type store struct {
	mu    sync.RWMutex
	repos map[string]map[string][]byte // repo key -> path -> content
}

func newStore() *store {
	return &store{repos: make(map[string]map[string][]byte)}
}

func shaOf(content []byte) string {
	return fmt.Sprintf("%x", sha1.Sum(content)) //nolint:gosec
}

func (s *store) get(repoKey, path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.repos[repoKey][path]
	return content, ok
}

// put applies one write under contents-API precondition rules. It returns the
// new sha, or an HTTP status and message when the precondition fails.
func (s *store) put(repoKey, path, sha string, content []byte) (string, int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repos[repoKey] == nil {
		s.repos[repoKey] = make(map[string][]byte)
	}
	current, exists := s.repos[repoKey][path]

	if sha == "" && exists {
		return "", http.StatusUnprocessableEntity, fmt.Sprintf("%q already exists; update requires the current sha", path)
	}
	if sha != "" {
		if !exists {
			return "", http.StatusNotFound, fmt.Sprintf("%q not found", path)
		}
		if shaOf(current) != sha {
			return "", http.StatusConflict, fmt.Sprintf("%q does not match %q", sha, path)
		}
	}

	s.repos[repoKey][path] = content
	return shaOf(content), 0, ""
}

// remove deletes one file under the same precondition rules as put.
func (s *store) remove(repoKey, path, sha string) (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.repos[repoKey][path]
	if !exists {
		return http.StatusNotFound, fmt.Sprintf("%q not found", path)
	}
	if shaOf(current) != sha {
		return http.StatusConflict, fmt.Sprintf("%q does not match %q", sha, path)
	}
	delete(s.repos[repoKey], path)
	return 0, ""
}

// listDir returns the immediate children of dirPath, name-sorted, like
// GitHub's GET contents endpoint does for directories.
func (s *store) listDir(repoKey, dirPath string) []gin.H {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := dirPath
	if prefix != "" {
		prefix += "/"
	}

	seen := map[string]bool{}
	var entries []gin.H
	for filePath, content := range s.repos[repoKey] {
		if !strings.HasPrefix(filePath, prefix) {
			continue
		}
		rest := filePath[len(prefix):]
		idx := strings.Index(rest, "/")
		if idx == -1 {
			entries = append(entries, gin.H{
				"name":         rest,
				"path":         filePath,
				"type":         "file",
				"sha":          shaOf(content),
				"download_url": "", // filled in by the handler, which knows the host
			})
			continue
		}
		name := rest[:idx]
		if seen[name] {
			continue
		}
		seen[name] = true
		entries = append(entries, gin.H{
			"name": name,
			"path": prefix + name,
			"type": "dir",
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i]["name"].(string) < entries[j]["name"].(string)
	})
	return entries
}

func main() {
	log := logging.New("mock-github")
	s := newStore()

	seedRepos(s)
	log.Info("seeded repos", "repos", len(s.repos))

	r := gin.Default()
	registerRoutes(r, s)

	port := os.Getenv("PORT")
	if port == "" {
		port = "9090"
	}

	log.Info("mock-github starting", "port", port)
	if err := r.Run(":" + port); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// contentsRequest is the PUT/DELETE body of the contents API.
type contentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"` // base64, PUT only
	SHA     string `json:"sha"`
}

func registerRoutes(r *gin.Engine, s *store) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Raw download endpoint — the target of download_url.
	r.GET("/raw/:owner/:repo/*path", func(c *gin.Context) {
		repoKey := c.Param("owner") + "/" + c.Param("repo")
		path := strings.TrimPrefix(c.Param("path"), "/")

		content, ok := s.get(repoKey, path)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("%q not found", path)})
			return
		}
		c.Data(http.StatusOK, "application/octet-stream", content)
	})

	// GET contents — file object for exact matches, listing array for
	// directories, 404 otherwise. Mirrors the real API's dual shape.
	r.GET("/repos/:owner/:repo/contents/*path", func(c *gin.Context) {
		owner, repo := c.Param("owner"), c.Param("repo")
		repoKey := owner + "/" + repo
		path := strings.TrimPrefix(c.Param("path"), "/")

		if content, ok := s.get(repoKey, path); ok {
			c.JSON(http.StatusOK, fileObject(c, owner, repo, path, content))
			return
		}

		if entries := s.listDir(repoKey, path); len(entries) > 0 {
			for _, e := range entries {
				if e["type"] == "file" {
					e["download_url"] = downloadURL(c, owner, repo, e["path"].(string))
				}
			}
			c.JSON(http.StatusOK, entries)
			return
		}

		c.JSON(http.StatusNotFound, gin.H{
			"message": fmt.Sprintf("path %q not found in %s", path, repoKey),
		})
	})

	// PUT contents — create (no sha) or update (sha precondition).
	r.PUT("/repos/:owner/:repo/contents/*path", func(c *gin.Context) {
		owner, repo := c.Param("owner"), c.Param("repo")
		repoKey := owner + "/" + repo
		path := strings.TrimPrefix(c.Param("path"), "/")

		var req contentsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		raw, err := base64.StdEncoding.DecodeString(req.Content)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "content is not valid base64"})
			return
		}

		newSHA, code, msg := s.put(repoKey, path, req.SHA, raw)
		if code != 0 {
			c.JSON(code, gin.H{"message": msg})
			return
		}

		status := http.StatusOK
		if req.SHA == "" {
			status = http.StatusCreated
		}
		c.JSON(status, gin.H{
			"content": fileObject(c, owner, repo, path, raw),
			"commit":  gin.H{"sha": newSHA, "message": req.Message},
		})
	})

	// DELETE contents — sha precondition required.
	r.DELETE("/repos/:owner/:repo/contents/*path", func(c *gin.Context) {
		repoKey := c.Param("owner") + "/" + c.Param("repo")
		path := strings.TrimPrefix(c.Param("path"), "/")

		var req contentsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		if code, msg := s.remove(repoKey, path, req.SHA); code != 0 {
			c.JSON(code, gin.H{"message": msg})
			return
		}
		c.JSON(http.StatusOK, gin.H{"commit": gin.H{"message": req.Message}})
	})
}

// fileObject renders a file in the contents-API shape go-github expects.
func fileObject(c *gin.Context, owner, repo, path string, content []byte) gin.H {
	name := path
	if idx := strings.LastIndex(path, "/"); idx != -1 {
		name = path[idx+1:]
	}
	return gin.H{
		"name":         name,
		"path":         path,
		"type":         "file",
		"sha":          shaOf(content),
		"content":      base64.StdEncoding.EncodeToString(content),
		"encoding":     "base64",
		"download_url": downloadURL(c, owner, repo, path),
	}
}

func downloadURL(c *gin.Context, owner, repo, path string) string {
	return fmt.Sprintf("http://%s/raw/%s/%s/%s", c.Request.Host, owner, repo, path)
}
