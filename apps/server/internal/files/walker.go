package files

import (
	"context"
	"fmt"
)

// Walker enumerates a remote subtree into a flat list of leaf files.
type Walker struct {
	remote RemoteContents
}

// NewWalker creates a Walker over the given remote.
func NewWalker(remote RemoteContents) *Walker {
	return &Walker{remote: remote}
}

// Walk lists root and descends depth-first into every directory, returning
// leaf files in traversal order as a freshly built slice. Sibling order is
// whatever the remote listing returns — callers must not assume it is
// sorted. Any listing failure at any depth aborts the whole walk; there is
// no partial result.
func (w *Walker) Walk(ctx context.Context, root string) ([]FileDescriptor, error) {
	entries, err := w.remote.List(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", root, err)
	}

	var out []FileDescriptor
	for _, entry := range entries {
		if entry.Kind == KindDir {
			sub, err := w.Walk(ctx, entry.Path)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}
