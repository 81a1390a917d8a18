package picshelf

import (
	"context"
	"io"
)

// GalleryRepo defines the interface for image and user metadata persistence.
// Implementations must be safe for concurrent use; each method is a single
// logical transaction, committed before it returns.
//
// All methods accept a context for cancellation and timeout control.
type GalleryRepo interface {
	// CreateImage inserts a new image row and assigns its id.
	CreateImage(ctx context.Context, storageURL, name string) (Image, error)

	// ListImages returns every image row. The result is a snapshot at call
	// time in the storage's natural order.
	ListImages(ctx context.Context) ([]Image, error)

	// GetImage returns the image with the given id, or ErrNotFound.
	GetImage(ctx context.Context, id int64) (Image, error)

	// UpdateImageName overwrites the display name of an existing image.
	// Returns ErrNotFound if the id is absent. StorageURL is never touched.
	UpdateImageName(ctx context.Context, id int64, name string) (Image, error)

	// DeleteImages removes the given ids in one transaction and reports how
	// many rows were deleted. Absent ids are skipped, not errors.
	DeleteImages(ctx context.Context, ids []int64) (int64, error)

	// CreateUser inserts a new user row. Returns ErrConflict if the username
	// is already taken.
	CreateUser(ctx context.Context, username, passwordHash string) (User, error)

	// GetUserByUsername returns the user with the given username, or
	// ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (User, error)
}

// ObjectStore defines the interface for binary object storage. Implementations
// can use S3, the local filesystem, or any backend that can address objects by
// key and serve them at a public URL.
type ObjectStore interface {
	// Put writes content under key with the declared content type and
	// public-read access, and returns the publicly addressable URL of the
	// stored object. Keys must already be sanitized by the caller. A write to
	// an existing key is last-write-wins.
	//
	// Exactly one outcome per call: either a usable URL or an error. Callers
	// must treat any error as fatal to the request and must not record
	// metadata for an object that failed to store.
	Put(ctx context.Context, key, contentType string, content io.Reader) (string, error)

	// Delete removes the object stored under key. Returns ErrNotFound if the
	// key is absent. Used to clean up an orphaned object when the metadata
	// insert fails after a successful write.
	Delete(ctx context.Context, key string) error
}
