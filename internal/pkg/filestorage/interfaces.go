package filestorage

import (
	"context"
	"io"
)

// ObjectStorage stores binary objects by path inside a single bucket
type ObjectStorage interface {
	// Upload writes the content of r under path, replacing any existing object
	Upload(ctx context.Context, path string, r io.Reader) error

	// PublicURL returns the publicly resolvable URL for a stored object
	PublicURL(path string) string
}
