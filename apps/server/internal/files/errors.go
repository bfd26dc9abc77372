package files

import "fmt"

// PathNotFoundError is returned when the remote store has no entry at the
// requested path. For fetch-then-decide flows it is a branch point rather
// than a failure: Upload treats it as "create", Delete surfaces it as-is.
type PathNotFoundError struct {
	Path string
}

// Error implements the error interface.
func (e PathNotFoundError) Error() string {
	return fmt.Sprintf("path %q not found", e.Path)
}

// RevisionConflictError is returned when a write or delete carried a revision
// that no longer matches the remote store's current state. The operation is
// fatal for that file; there is no automatic retry.
type RevisionConflictError struct {
	Path     string
	Revision string
}

// Error implements the error interface.
func (e RevisionConflictError) Error() string {
	return fmt.Sprintf("revision %q is stale for path %q", e.Revision, e.Path)
}

// TransportError wraps a network, auth or rate-limit failure from the remote
// store. The underlying cause is preserved for errors.Is / errors.As.
type TransportError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e TransportError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e TransportError) Unwrap() error { return e.Err }

// DataIntegrityError is returned when a remote item carries neither inline
// content nor a download URL, so its bytes cannot be retrieved at all. Fatal
// for that single file.
type DataIntegrityError struct {
	Path string
}

// Error implements the error interface.
func (e DataIntegrityError) Error() string {
	return fmt.Sprintf("remote item %q has neither inline content nor a download URL", e.Path)
}
