package files

import (
	"context"
	"io"
)

// RemoteItem is a single entry fetched from the remote store. EncodedContent
// is base64-encoded; the store omits inline content for large blobs and
// supplies DownloadURL instead, so callers must check HasContent before
// falling back to the URL.
type RemoteItem struct {
	Name           string
	Path           string
	Kind           Kind
	Revision       string
	EncodedContent string
	HasContent     bool
	DownloadURL    string
}

// PutRequest carries one blob write. An empty Revision means create; a
// non-empty Revision means update preconditioned on that revision.
type PutRequest struct {
	Message        string
	EncodedContent string
	Revision       string
}

// DeleteRequest carries one blob delete, preconditioned on Revision.
type DeleteRequest struct {
	Message  string
	Revision string
}

// RemoteContents is the port the files service depends on to talk to the
// remote content store. Implementations live in the adapters layer.
//
// Get and List must return PathNotFoundError (matchable with errors.As) when
// the path does not exist, so callers can branch on absence explicitly; any
// other failure is fatal to the caller and must never be conflated with
// absence. Put and Delete must return RevisionConflictError when the carried
// revision no longer matches remote state.
type RemoteContents interface {
	Get(ctx context.Context, path string) (*RemoteItem, error)
	Put(ctx context.Context, path string, req PutRequest) (*RemoteItem, error)
	Delete(ctx context.Context, path string, req DeleteRequest) error
	List(ctx context.Context, path string) ([]FileDescriptor, error)
	FetchBinary(ctx context.Context, url string) (io.ReadCloser, error)
}
