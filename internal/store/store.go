package store

import (
	"context"
	"errors"
	"fmt"
)

// Document is one versioned text document. Revision is the opaque token the
// store hands out on read and demands back on write.
type Document struct {
	Content  string
	Revision string
}

// Store is a versioned key-value document store. Get returns ErrNotFound for
// an absent path. Put with an empty revision creates the document and fails
// with ErrConflict if it already exists; Put with a revision overwrites and
// fails with ErrConflict if the revision is stale. The returned string is the
// new revision.
type Store interface {
	Get(ctx context.Context, path string) (*Document, error)
	Put(ctx context.Context, path, content, revision, message string) (string, error)
}

var (
	// ErrNotFound means the document does not exist. Callers generally treat
	// this as "no data yet", not as a failure.
	ErrNotFound = errors.New("document not found")

	// ErrConflict means a write carried a stale or missing revision token.
	// The caller must re-read and retry or surface a failed save.
	ErrConflict = errors.New("revision conflict")
)

// IsNotFound reports whether err is the absent-document case.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is a stale-revision write rejection.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// DecodeError marks a document that exists but could not be decrypted or
// parsed. It is deliberately distinct from ErrNotFound: treating a corrupt
// document as empty would mask data loss.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode document %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsDecodeError reports whether err wraps a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
