package filestorage

import (
	"context"
	"errors"
)

// ErrNotExist is returned by Read when the named document was never written
var ErrNotExist = errors.New("document does not exist")

// DocumentStorage reads and writes whole named documents.
// A Write either fully replaces the document or leaves the previous version in place.
type DocumentStorage interface {
	// Read returns the document contents or ErrNotExist
	Read(ctx context.Context, name string) ([]byte, error)

	// Write replaces the document with data
	Write(ctx context.Context, name string, data []byte) error

	// Location describes where name lives, for logs
	Location(name string) string
}
