package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/picshelf/picshelf"
)

// FileStore stores objects in a local directory. The root provides sandboxed
// file operations preventing path traversal; writes go through a temp file
// and rename so readers never observe a partial object.
type FileStore struct {
	root    *os.Root
	baseURL string
}

// NewFileStore creates a FileStore rooted at root. baseURL is the public
// prefix under which the directory is served (the serve command mounts it at
// /files/).
func NewFileStore(root *os.Root, baseURL string) *FileStore {
	return &FileStore{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func tmpFileName() string {
	return ".tmp-" + uuid.NewString()
}

// Put atomically writes content under key and returns its public URL.
// Writing an existing key overwrites it.
func (s *FileStore) Put(ctx context.Context, key, contentType string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp := tmpFileName()
	t, err := s.root.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("filestore put %s: create temp file: %w", key, err)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil {
			slog.Warn("failed to close temp file", "err", closeErr)
		}
		if !success {
			if rmErr := s.root.Remove(tmp); rmErr != nil {
				slog.Warn("failed to remove temp file", "err", rmErr)
			}
		}
	}()

	if _, err = io.Copy(t, content); err != nil {
		return "", fmt.Errorf("filestore put %s: copy contents: %w", key, err)
	}

	if err = t.Sync(); err != nil {
		return "", fmt.Errorf("filestore put %s: sync: %w", key, err)
	}

	if err = s.root.Rename(tmp, key); err != nil {
		return "", fmt.Errorf("filestore put %s: rename: %w", key, err)
	}

	success = true
	return s.baseURL + "/" + key, nil
}

// Delete removes the object stored under key. Returns picshelf.ErrNotFound
// if the key is absent.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.root.Remove(key); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return picshelf.ErrNotFound
		}
		return fmt.Errorf("filestore delete %s: %w", key, err)
	}

	return nil
}
