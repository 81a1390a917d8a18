package picshelf

import (
	"context"
	"fmt"
	"io"
	"time"
	"unicode/utf8"
)

// GalleryService composes the metadata repository and the object store into
// the gallery operations the HTTP layer exposes. It holds no request state of
// its own and is safe for concurrent use.
type GalleryService struct {
	repo           GalleryRepo
	store          ObjectStore
	cleanupTimeout time.Duration
}

// ServiceConfig holds configuration options for GalleryService.
type ServiceConfig struct {
	CleanupTimeout time.Duration // Timeout for orphan cleanup after a failed insert (default: 30s)
}

func NewGalleryService(repo GalleryRepo, store ObjectStore, cfg ServiceConfig) *GalleryService {
	cleanupTimeout := cfg.CleanupTimeout
	if cleanupTimeout <= 0 {
		cleanupTimeout = 30 * time.Second
	}
	return &GalleryService{
		repo:           repo,
		store:          store,
		cleanupTimeout: cleanupTimeout,
	}
}

// List returns every image in the gallery, a snapshot at call time.
func (s *GalleryService) List(ctx context.Context) ([]Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	images, err := s.repo.ListImages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	return images, nil
}

// Upload stores an image binary in the object store and records its metadata
// row. The returned Image carries the assigned id and the public URL of the
// stored object.
//
// The method performs the following steps:
//  1. Sanitizes the client filename into a storage key
//  2. Writes the content to the object store under that key
//  3. Inserts the metadata row
//  4. On insert failure, deletes the stored object so no orphan survives
//
// A storage write failure aborts the request before any metadata is written;
// the error is never folded into a success value. Uploading a key that
// already exists overwrites the stored object (last-write-wins).
//
// Cleanup after a failed insert uses a background context with the configured
// cleanup timeout so it completes even if the request context is cancelled.
func (s *GalleryService) Upload(ctx context.Context, req UploadRequest, content io.Reader) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, fmt.Errorf("upload image: %w", err)
	}

	if req.Filename == "" {
		return Image{}, fmt.Errorf("upload image: %w: filename cannot be empty", ErrInvalidInput)
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key, err := SanitizeFilename(req.Filename)
	if err != nil {
		return Image{}, fmt.Errorf("upload image: %w", err)
	}

	// The key doubles as the initial display name, so it carries the same
	// length cap as Rename.
	if utf8.RuneCountInString(key) > MaxImageNameLength {
		return Image{}, fmt.Errorf("upload image: %w: filename longer than %d characters", ErrInvalidInput, MaxImageNameLength)
	}

	url, putErr := s.store.Put(ctx, key, contentType, content)
	if putErr != nil {
		return Image{}, fmt.Errorf("upload image %s: store write failed: %w", key, putErr)
	}

	img, createErr := s.repo.CreateImage(ctx, url, key)
	if createErr != nil {
		// Use background context for cleanup since the request context may
		// already be cancelled.
		cleanupCtx, cancel := context.WithTimeout(context.Background(), s.cleanupTimeout)
		defer cancel()

		if delErr := s.store.Delete(cleanupCtx, key); delErr != nil {
			return Image{}, fmt.Errorf("upload image %s: metadata insert failed (%w) and cleanup failed: %w", key, createErr, delErr)
		}
		return Image{}, fmt.Errorf("upload image %s: metadata insert failed: %w", key, createErr)
	}

	return img, nil
}

// Rename changes the display name of an existing image. The stored object and
// its URL are untouched.
func (s *GalleryService) Rename(ctx context.Context, id int64, name string) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, fmt.Errorf("rename image: %w", err)
	}

	if name == "" {
		return Image{}, fmt.Errorf("rename image: %w: name cannot be empty", ErrInvalidInput)
	}

	if utf8.RuneCountInString(name) > MaxImageNameLength {
		return Image{}, fmt.Errorf("rename image: %w: name longer than %d characters", ErrInvalidInput, MaxImageNameLength)
	}

	img, err := s.repo.UpdateImageName(ctx, id, name)
	if err != nil {
		return Image{}, fmt.Errorf("rename image %d: %w", id, err)
	}

	return img, nil
}

// DeleteSelected removes the given image rows in one transaction and reports
// how many existed. Ids with no matching row are skipped silently; the stored
// objects are not touched (the gallery never deletes binaries it has handed
// out URLs for).
func (s *GalleryService) DeleteSelected(ctx context.Context, ids []int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("delete images: %w", err)
	}

	if len(ids) == 0 {
		return 0, fmt.Errorf("delete images: %w: no ids given", ErrInvalidInput)
	}

	deleted, err := s.repo.DeleteImages(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete images: %w", err)
	}

	return deleted, nil
}
