package github

import (
	"bytes"
	"context"
	"crypto/sha1" //nolint:gosec // revision token, not a security boundary — mirrors git's blob hash
	"encoding/base64"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/tilsley/shelf/apps/server/internal/files"
)

// inMemURLScheme prefixes the download URLs the fake hands out.
const inMemURLScheme = "inmem://"

// InMem is an in-memory files.RemoteContents for unit tests and local
// development. It enforces the same precondition semantics as the real
// contents API: a create against an existing path and a stale revision on
// update or delete both conflict. Revisions are content hashes, so rewriting
// identical bytes yields the same revision.
type InMem struct {
	mu    sync.Mutex
	blobs map[string][]byte // repository-relative path -> raw content
}

// NewInMem creates an empty InMem store.
func NewInMem() *InMem {
	return &InMem{blobs: make(map[string][]byte)}
}

// SetFile seeds a file, bypassing revision checks.
func (m *InMem) SetFile(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[path] = content
}

// Revision returns the revision the fake currently assigns to path, or ""
// when absent. Test helper.
func (m *InMem) Revision(path string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.blobs[path]
	if !ok {
		return ""
	}
	return revisionOf(raw)
}

// Get returns the item at path: a file when the path holds a blob, a
// directory when any blob lives beneath it, files.PathNotFoundError otherwise.
func (m *InMem) Get(_ context.Context, path string) (*files.RemoteItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if raw, ok := m.blobs[path]; ok {
		return &files.RemoteItem{
			Name:           lastSegment(path),
			Path:           path,
			Kind:           files.KindFile,
			Revision:       revisionOf(raw),
			EncodedContent: base64.StdEncoding.EncodeToString(raw),
			HasContent:     true,
			DownloadURL:    inMemURLScheme + path,
		}, nil
	}

	prefix := path + "/"
	for p := range m.blobs {
		if strings.HasPrefix(p, prefix) {
			return &files.RemoteItem{
				Name: lastSegment(path),
				Path: path,
				Kind: files.KindDir,
			}, nil
		}
	}
	return nil, files.PathNotFoundError{Path: path}
}

// Put applies one blob write under the same rules as the real API.
func (m *InMem) Put(_ context.Context, path string, req files.PutRequest) (*files.RemoteItem, error) {
	raw, err := decodeContent(req.EncodedContent)
	if err != nil {
		return nil, fmt.Errorf("decode content for %q: %w", path, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.blobs[path]
	if req.Revision == "" {
		if exists {
			return nil, files.RevisionConflictError{Path: path, Revision: ""}
		}
	} else {
		if !exists || revisionOf(current) != req.Revision {
			return nil, files.RevisionConflictError{Path: path, Revision: req.Revision}
		}
	}

	m.blobs[path] = raw
	return &files.RemoteItem{
		Name:        lastSegment(path),
		Path:        path,
		Kind:        files.KindFile,
		Revision:    revisionOf(raw),
		DownloadURL: inMemURLScheme + path,
	}, nil
}

// Delete removes one blob, preconditioned on the carried revision.
func (m *InMem) Delete(_ context.Context, path string, req files.DeleteRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.blobs[path]
	if !exists {
		return files.PathNotFoundError{Path: path}
	}
	if revisionOf(current) != req.Revision {
		return files.RevisionConflictError{Path: path, Revision: req.Revision}
	}
	delete(m.blobs, path)
	return nil
}

// List returns the immediate children of path, name-sorted for determinism.
func (m *InMem) List(_ context.Context, path string) ([]files.FileDescriptor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := strings.Trim(path, "/")
	if prefix != "" {
		prefix += "/"
	}

	seen := make(map[string]bool)
	var entries []files.FileDescriptor
	for p, raw := range m.blobs {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := p[len(prefix):]
		idx := strings.Index(rest, "/")
		if idx == -1 {
			entries = append(entries, files.FileDescriptor{
				Name:        rest,
				Path:        p,
				Kind:        files.KindFile,
				Revision:    revisionOf(raw),
				DownloadURL: inMemURLScheme + p,
			})
			continue
		}
		name := rest[:idx]
		if seen[name] {
			continue
		}
		seen[name] = true
		entries = append(entries, files.FileDescriptor{
			Name: name,
			Path: prefix + name,
			Kind: files.KindDir,
		})
	}
	if len(entries) == 0 {
		return nil, files.PathNotFoundError{Path: path}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// FetchBinary serves the raw bytes behind a download URL minted by this fake.
func (m *InMem) FetchBinary(_ context.Context, url string) (io.ReadCloser, error) {
	path, ok := strings.CutPrefix(url, inMemURLScheme)
	if !ok {
		return nil, files.TransportError{Op: "download", Path: url, Err: fmt.Errorf("unknown URL scheme")}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	raw, exists := m.blobs[path]
	if !exists {
		return nil, files.PathNotFoundError{Path: url}
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

// revisionOf hashes content into the revision token the fake assigns. sha1
// keeps the tokens git-sized; the value is opaque to callers either way.
func revisionOf(content []byte) string {
	return fmt.Sprintf("%x", sha1.Sum(content)) //nolint:gosec
}
