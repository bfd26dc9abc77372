// Package github implements the files.RemoteContents port using the official
// go-github library against the GitHub contents API. Wire it up with an
// authenticated *github.Client from apps/server/internal/platform/github.
package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	gogithub "github.com/google/go-github/v75/github"

	"github.com/tilsley/shelf/apps/server/internal/files"
)

// Adapter wraps a go-github client bound to a single repository. GitHub's
// blob sha is the revision token: it rides along on every update and delete
// as the optimistic-concurrency precondition.
type Adapter struct {
	gh    *gogithub.Client
	owner string
	repo  string
}

// New creates an Adapter from an authenticated *github.Client.
func New(gh *gogithub.Client, owner, repo string) *Adapter {
	return &Adapter{gh: gh, owner: owner, repo: repo}
}

// Get fetches a single item's metadata and inline content when present.
// A 404 maps to files.PathNotFoundError; every other failure is a transport
// error and must never be treated as absence.
func (a *Adapter) Get(ctx context.Context, path string) (*files.RemoteItem, error) {
	fc, _, _, err := a.gh.Repositories.GetContents(ctx, a.owner, a.repo, path, nil)
	if err != nil {
		return nil, classify("get contents", path, err)
	}
	if fc == nil {
		// GetContents returns a listing instead of a file object when path
		// is a directory.
		return &files.RemoteItem{
			Name: lastSegment(path),
			Path: path,
			Kind: files.KindDir,
		}, nil
	}

	item := &files.RemoteItem{
		Name:        fc.GetName(),
		Path:        fc.GetPath(),
		Kind:        files.KindFile,
		Revision:    fc.GetSHA(),
		DownloadURL: fc.GetDownloadURL(),
	}
	// GitHub omits inline content for large blobs (encoding "none").
	if fc.Content != nil && *fc.Content != "" && fc.GetEncoding() == "base64" {
		item.EncodedContent = *fc.Content
		item.HasContent = true
	}
	return item, nil
}

// Put writes one blob. A request revision selects the update endpoint with
// the sha precondition; no revision selects create. The API rejects a stale
// sha with 409 and a create against an existing path with 422 — both surface
// as files.RevisionConflictError.
func (a *Adapter) Put(ctx context.Context, path string, req files.PutRequest) (*files.RemoteItem, error) {
	raw, err := decodeContent(req.EncodedContent)
	if err != nil {
		return nil, fmt.Errorf("decode content for %q: %w", path, err)
	}

	opts := &gogithub.RepositoryContentFileOptions{
		Message: gogithub.Ptr(req.Message),
		Content: raw,
	}

	var resp *gogithub.RepositoryContentResponse
	if req.Revision != "" {
		opts.SHA = gogithub.Ptr(req.Revision)
		resp, _, err = a.gh.Repositories.UpdateFile(ctx, a.owner, a.repo, path, opts)
	} else {
		resp, _, err = a.gh.Repositories.CreateFile(ctx, a.owner, a.repo, path, opts)
	}
	if err != nil {
		return nil, classifyWrite("put contents", path, req.Revision, err)
	}

	return &files.RemoteItem{
		Name:        resp.Content.GetName(),
		Path:        resp.Content.GetPath(),
		Kind:        files.KindFile,
		Revision:    resp.Content.GetSHA(),
		DownloadURL: resp.Content.GetDownloadURL(),
	}, nil
}

// Delete removes one blob, preconditioned on the carried revision.
func (a *Adapter) Delete(ctx context.Context, path string, req files.DeleteRequest) error {
	opts := &gogithub.RepositoryContentFileOptions{
		Message: gogithub.Ptr(req.Message),
		SHA:     gogithub.Ptr(req.Revision),
	}
	if _, _, err := a.gh.Repositories.DeleteFile(ctx, a.owner, a.repo, path, opts); err != nil {
		return classifyWrite("delete contents", path, req.Revision, err)
	}
	return nil
}

// List returns the immediate children of path in the order the API returns
// them.
func (a *Adapter) List(ctx context.Context, path string) ([]files.FileDescriptor, error) {
	_, dc, _, err := a.gh.Repositories.GetContents(ctx, a.owner, a.repo, path, nil)
	if err != nil {
		return nil, classify("list contents", path, err)
	}
	if dc == nil {
		return nil, files.TransportError{
			Op:   "list contents",
			Path: path,
			Err:  errors.New("path is a file, not a directory"),
		}
	}

	entries := make([]files.FileDescriptor, 0, len(dc))
	for _, entry := range dc {
		kind := files.KindFile
		if entry.GetType() == "dir" {
			kind = files.KindDir
		}
		entries = append(entries, files.FileDescriptor{
			Name:        entry.GetName(),
			Path:        entry.GetPath(),
			Kind:        kind,
			Revision:    entry.GetSHA(),
			DownloadURL: entry.GetDownloadURL(),
		})
	}
	return entries, nil
}

// FetchBinary streams raw bytes from a download URL. The request goes through
// the go-github client's underlying http.Client so it carries the configured
// auth transport; the client strips the Authorization header on cross-host
// redirects to CDN pre-signed URLs.
func (a *Adapter) FetchBinary(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := a.gh.Client().Do(req)
	if err != nil {
		return nil, files.TransportError{Op: "download", Path: url, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close() //nolint:errcheck // already failing, close error is non-actionable
		if resp.StatusCode == http.StatusNotFound {
			return nil, files.PathNotFoundError{Path: url}
		}
		return nil, files.TransportError{
			Op:   "download",
			Path: url,
			Err:  fmt.Errorf("GET returned %d", resp.StatusCode),
		}
	}
	return resp.Body, nil
}

// decodeContent decodes a base64 payload into raw bytes for the SDK, which
// re-encodes on the wire. GitHub inserts newlines into the base64 it serves,
// so whitespace is removed before decoding.
func decodeContent(encoded string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, encoded)
	return base64.StdEncoding.DecodeString(cleaned)
}

// classify maps read failures onto the files error taxonomy.
func classify(op, path string, err error) error {
	var ghErr *gogithub.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
		return files.PathNotFoundError{Path: path}
	}
	return files.TransportError{Op: op, Path: path, Err: err}
}

// classifyWrite additionally maps precondition failures on writes and deletes.
func classifyWrite(op, path, revision string, err error) error {
	var ghErr *gogithub.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusNotFound:
			return files.PathNotFoundError{Path: path}
		case http.StatusConflict, http.StatusUnprocessableEntity:
			return files.RevisionConflictError{Path: path, Revision: revision}
		}
	}
	return files.TransportError{Op: op, Path: path, Err: err}
}

func lastSegment(path string) string {
	if idx := strings.LastIndex(path, "/"); idx != -1 {
		return path[idx+1:]
	}
	return path
}
