package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// envelopeMarker terminates a data-URI transport envelope. Everything up to
// and including the marker is framing; what follows is the base64 payload.
const envelopeMarker = ";base64,"

// Service is the application-level file store. It depends only on the
// RemoteContents port — no framework imports.
type Service struct {
	remote RemoteContents
}

// NewService creates a new Service.
func NewService(remote RemoteContents) *Service {
	return &Service{remote: remote}
}

// Upload writes content to dir/name. When the path already exists the write
// carries the current revision as a precondition (update semantics); when it
// does not, the revision is omitted (create semantics) — the branch is
// explicit, never inferred from error shapes. Under OverwriteReject an
// existing path short-circuits to StatusSkippedExists without writing.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*UploadOutcome, error) {
	if req.Content == "" {
		return nil, fmt.Errorf("upload %q: content must not be empty", req.Name)
	}

	content := normalizeContent(req.Content)
	path := joinPath(req.Dir, req.Name)

	existing, err := s.remote.Get(ctx, path)
	var notFound PathNotFoundError
	switch {
	case err == nil:
		// Path exists — its revision becomes the write precondition.
	case errors.As(err, &notFound):
		existing = nil
	default:
		// Permission, rate limit, network: fatal, never treated as absence.
		return nil, fmt.Errorf("check existing %q: %w", path, err)
	}

	if existing != nil && req.Overwrite == OverwriteReject {
		return &UploadOutcome{Status: StatusSkippedExists, Revision: existing.Revision}, nil
	}

	put := PutRequest{
		Message:        fmt.Sprintf("shelf: upload %s", path),
		EncodedContent: content,
	}
	status := StatusCreated
	if existing != nil {
		put.Revision = existing.Revision
		status = StatusUpdated
	}

	written, err := s.remote.Put(ctx, path, put)
	if err != nil {
		return nil, fmt.Errorf("write %q: %w", path, err)
	}
	return &UploadOutcome{Status: status, Revision: written.Revision}, nil
}

// FetchMetadata returns the descriptor for a single entry. Absence surfaces
// as PathNotFoundError so callers can branch on it.
func (s *Service) FetchMetadata(ctx context.Context, dir, name string) (*FileDescriptor, error) {
	item, err := s.remote.Get(ctx, joinPath(dir, name))
	if err != nil {
		return nil, err
	}
	return &FileDescriptor{
		Name:        item.Name,
		Path:        item.Path,
		Kind:        item.Kind,
		Revision:    item.Revision,
		DownloadURL: item.DownloadURL,
	}, nil
}

// FetchContent returns the file's base64 content when the remote store
// inlines it, or its download URL when the blob is too large to inline.
// Neither present is a data-integrity failure for that file.
func (s *Service) FetchContent(ctx context.Context, dir, name string) (*FileContent, error) {
	path := joinPath(dir, name)
	item, err := s.remote.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if item.HasContent {
		return &FileContent{EncodedContent: item.EncodedContent}, nil
	}
	if item.DownloadURL != "" {
		return &FileContent{DownloadURL: item.DownloadURL}, nil
	}
	return nil, DataIntegrityError{Path: path}
}

// Delete removes dir/name. The current revision is always resolved first and
// passed as the delete precondition; a path that never existed surfaces as
// PathNotFoundError, not as a conflict.
func (s *Service) Delete(ctx context.Context, dir, name string) error {
	path := joinPath(dir, name)
	item, err := s.remote.Get(ctx, path)
	if err != nil {
		return err
	}

	del := DeleteRequest{
		Message:  fmt.Sprintf("shelf: delete %s", path),
		Revision: item.Revision,
	}
	if err := s.remote.Delete(ctx, path, del); err != nil {
		return fmt.Errorf("delete %q: %w", path, err)
	}
	return nil
}

// ListFiles returns the immediate children of dir in listing order.
func (s *Service) ListFiles(ctx context.Context, dir string) ([]FileDescriptor, error) {
	entries, err := s.remote.List(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", dir, err)
	}
	return entries, nil
}

// ListAllFiles returns every leaf file reachable from dir by depth-first
// descent, directories elided.
func (s *Service) ListAllFiles(ctx context.Context, dir string) ([]FileDescriptor, error) {
	return NewWalker(s.remote).Walk(ctx, dir)
}

// DownloadArchive streams every file under dir into sink as a tar.gz archive.
func (s *Service) DownloadArchive(ctx context.Context, dir string, sink io.Writer) error {
	return NewAssembler(s.remote).Assemble(ctx, dir, sink)
}

// joinPath joins dir and name into a repository-relative path.
func joinPath(dir, name string) string {
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// normalizeContent strips a transport envelope, keeping only the raw base64
// payload. Content without a marker passes through unchanged.
func normalizeContent(content string) string {
	if idx := strings.Index(content, envelopeMarker); idx != -1 {
		return content[idx+len(envelopeMarker):]
	}
	return content
}
