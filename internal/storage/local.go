package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage is a BlobStore on the local filesystem. Files are served by the
// HTTP layer under PublicURL.
type LocalStorage struct {
	BaseDir   string
	PublicURL string
}

func NewLocalStorage(baseDir, publicURL string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir, PublicURL: strings.TrimRight(publicURL, "/")}
}

// Put writes content under key. An existing object is never replaced.
func (s *LocalStorage) Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create blob directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create blob %s: %w", key, err)
	}
	if _, err := io.Copy(file, &ctxReader{ctx: ctx, r: content}); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close blob %s: %w", key, err)
	}
	return s.PublicURL + "/" + key, nil
}

func (s *LocalStorage) Remove(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove blob %s: %w", key, err)
	}
	return nil
}

func (s *LocalStorage) KeyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, s.PublicURL+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// Open returns the stored object for reading.
func (s *LocalStorage) Open(key string) (*os.File, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// CleanKey returns key in the canonical slash-separated form the store reads
// and writes, so "a/../b/x" becomes "b/x". Keys escaping BaseDir are rejected.
func (s *LocalStorage) CleanKey(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || clean == "." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || clean == ".." {
		return "", errors.New("invalid blob key: " + key)
	}
	return filepath.ToSlash(clean), nil
}

func (s *LocalStorage) path(key string) (string, error) {
	clean, err := s.CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.BaseDir, filepath.FromSlash(clean)), nil
}

// ctxReader stops a copy once the request is cancelled.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
