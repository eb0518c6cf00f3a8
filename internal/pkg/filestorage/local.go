package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aarjjun/EventSync/internal/pkg/logger"
)

// ErrInvalidPath is returned for object paths that escape the bucket
var ErrInvalidPath = errors.New("invalid object path")

// LocalStorage keeps a bucket as a directory on the local filesystem.
// Objects are served by the HTTP router under /uploads/{bucket}/...
type LocalStorage struct {
	root    string // root directory shared by all buckets
	bucket  string // bucket subdirectory
	baseURL string // public base URL of the server
}

// NewLocalStorage creates the bucket directory under basePath if needed
func NewLocalStorage(basePath, bucket, baseURL string) (*LocalStorage, error) {
	dir := filepath.Join(basePath, bucket)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	logger.Info().Str("path", dir).Msg("Local storage bucket ensured")

	return &LocalStorage{
		root:    basePath,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Root returns the directory served at /uploads
func (ls *LocalStorage) Root() string {
	return ls.root
}

func (ls *LocalStorage) resolve(objectPath string) (string, error) {
	clean := path.Clean("/" + objectPath)
	if clean == "/" || strings.Contains(objectPath, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, objectPath)
	}
	return filepath.Join(ls.root, ls.bucket, filepath.FromSlash(clean)), nil
}

// Upload writes the object, creating intermediate directories
func (ls *LocalStorage) Upload(ctx context.Context, objectPath string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dstPath, err := ls.resolve(objectPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to save file content: %w", err)
	}

	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to close destination file: %w", err)
	}

	logger.Debug().Str("bucket", ls.bucket).Str("path", objectPath).Msg("Object stored")
	return nil
}

// PublicURL returns {baseURL}/uploads/{bucket}/{path}
func (ls *LocalStorage) PublicURL(objectPath string) string {
	return ls.baseURL + "/uploads/" + ls.bucket + "/" + strings.TrimLeft(objectPath, "/")
}
