package files

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"time"
)

// Assembler packages a remote subtree into a single tar.gz archive. Files are
// retrieved and appended strictly in traversal order — the tar writer is a
// single sequential stream and is not safe for concurrent append — and one at
// a time, so memory is bounded by the largest file rather than the tree.
type Assembler struct {
	remote RemoteContents
	walker *Walker
}

// NewAssembler creates an Assembler over the given remote.
func NewAssembler(remote RemoteContents) *Assembler {
	return &Assembler{remote: remote, walker: NewWalker(remote)}
}

// Assemble walks root and appends each file's raw bytes to a gzip-compressed
// tar stream on sink, at best compression, entry names equal to each file's
// name. The first retrieval failure aborts the whole job; no partial archive
// is finalized as success. The sink is exclusively owned by this call for its
// duration. When the sink supports Sync (e.g. *os.File) it is synced after
// both writers are closed, so returning nil means the bytes reached the sink.
func (a *Assembler) Assemble(ctx context.Context, root string, sink io.Writer) error {
	descriptors, err := a.walker.Walk(ctx, root)
	if err != nil {
		return fmt.Errorf("walk %q: %w", root, err)
	}

	gw, err := gzip.NewWriterLevel(sink, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("open gzip writer: %w", err)
	}
	tw := tar.NewWriter(gw)

	modTime := time.Now().UTC()
	for _, d := range descriptors {
		if err := a.appendFile(ctx, tw, d, modTime); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finalize tar stream: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("finalize gzip stream: %w", err)
	}
	if syncer, ok := sink.(interface{ Sync() error }); ok {
		if err := syncer.Sync(); err != nil {
			return fmt.Errorf("sync sink: %w", err)
		}
	}
	return nil
}

// appendFile retrieves one file's raw bytes over its download URL — the
// binary-safe transport, not the base64 metadata path — and writes a tar
// entry named after the file. The tar header needs the exact size up front,
// so the file is buffered in full before the entry is written.
func (a *Assembler) appendFile(ctx context.Context, tw *tar.Writer, d FileDescriptor, modTime time.Time) error {
	if d.DownloadURL == "" {
		return DataIntegrityError{Path: d.Path}
	}

	body, err := a.remote.FetchBinary(ctx, d.DownloadURL)
	if err != nil {
		return fmt.Errorf("fetch %q: %w", d.Path, err)
	}
	defer func() { //nolint:errcheck // close errors on readers are non-actionable
		_ = body.Close()
	}()

	raw, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read %q: %w", d.Path, err)
	}

	hdr := &tar.Header{
		Name:    d.Name,
		Mode:    0644,
		Size:    int64(len(raw)),
		ModTime: modTime,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write header %q: %w", d.Name, err)
	}
	if _, err := tw.Write(raw); err != nil {
		return fmt.Errorf("write entry %q: %w", d.Name, err)
	}
	return nil
}
