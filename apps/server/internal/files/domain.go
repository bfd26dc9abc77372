// Package files implements revisioned file-store semantics over a remote,
// tree-structured content store (the GitHub contents API in production).
// Every mutation resolves the current revision of its target first and passes
// it through as a precondition — nothing is cached between calls, the remote
// store is always authoritative.
package files

// Kind distinguishes tree entries returned by the remote store.
type Kind string

// Entry kinds.
const (
	KindFile Kind = "file"
	KindDir  Kind = "dir"
)

// OverwritePolicy controls what Upload does when the target path already exists.
type OverwritePolicy string

// Overwrite policies. The zero value behaves like OverwriteAllow.
const (
	OverwriteAllow  OverwritePolicy = "allow"
	OverwriteReject OverwritePolicy = "reject"
)

// UploadStatus describes how an upload concluded.
type UploadStatus string

// Upload outcomes. StatusSkippedExists is a successful short-circuit under
// OverwriteReject, not an error.
const (
	StatusCreated       UploadStatus = "created"
	StatusUpdated       UploadStatus = "updated"
	StatusSkippedExists UploadStatus = "skipped-exists"
)

// FileDescriptor identifies one entry in the remote tree. Revision is the
// opaque content hash the remote store assigns to the current version of the
// entry; it is only ever passed back as a write precondition, never
// interpreted. A later listing may return a new descriptor for the same path
// with a different revision.
type FileDescriptor struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Kind        Kind   `json:"kind"`
	Revision    string `json:"revision,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

// UploadRequest carries one file write. Content is the base64-encoded
// payload; it may arrive wrapped in a data-URI style transport envelope
// ("data:...;base64,"), which Upload strips before transmission.
type UploadRequest struct {
	Content   string          `json:"content" binding:"required"`
	Dir       string          `json:"dir"`
	Name      string          `json:"name" binding:"required"`
	Overwrite OverwritePolicy `json:"overwrite"`
}

// UploadOutcome reports how an upload concluded and the revision the remote
// store assigned to the written content.
type UploadOutcome struct {
	Status   UploadStatus `json:"status"`
	Revision string       `json:"revision,omitempty"`
}

// FileContent is what FetchContent returns: base64 content when the remote
// store inlines it, otherwise a direct download URL for blobs too large to
// inline. Exactly one of the two fields is set.
type FileContent struct {
	EncodedContent string `json:"content,omitempty"`
	DownloadURL    string `json:"downloadUrl,omitempty"`
}
