package picshelf_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/picshelf/picshelf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type SpyGalleryRepo struct {
	mock.Mock
}

func (s *SpyGalleryRepo) CreateImage(ctx context.Context, storageURL, name string) (picshelf.Image, error) {
	args := s.Called(ctx, storageURL, name)
	return args.Get(0).(picshelf.Image), args.Error(1)
}

func (s *SpyGalleryRepo) ListImages(ctx context.Context) ([]picshelf.Image, error) {
	args := s.Called(ctx)
	return args.Get(0).([]picshelf.Image), args.Error(1)
}

func (s *SpyGalleryRepo) GetImage(ctx context.Context, id int64) (picshelf.Image, error) {
	args := s.Called(ctx, id)
	return args.Get(0).(picshelf.Image), args.Error(1)
}

func (s *SpyGalleryRepo) UpdateImageName(ctx context.Context, id int64, name string) (picshelf.Image, error) {
	args := s.Called(ctx, id, name)
	return args.Get(0).(picshelf.Image), args.Error(1)
}

func (s *SpyGalleryRepo) DeleteImages(ctx context.Context, ids []int64) (int64, error) {
	args := s.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (s *SpyGalleryRepo) CreateUser(ctx context.Context, username, passwordHash string) (picshelf.User, error) {
	args := s.Called(ctx, username, passwordHash)
	return args.Get(0).(picshelf.User), args.Error(1)
}

func (s *SpyGalleryRepo) GetUserByUsername(ctx context.Context, username string) (picshelf.User, error) {
	args := s.Called(ctx, username)
	return args.Get(0).(picshelf.User), args.Error(1)
}

type SpyObjectStore struct {
	mock.Mock
}

func (s *SpyObjectStore) Put(ctx context.Context, key, contentType string, content io.Reader) (string, error) {
	args := s.Called(ctx, key, contentType, content)
	return args.String(0), args.Error(1)
}

func (s *SpyObjectStore) Delete(ctx context.Context, key string) error {
	args := s.Called(ctx, key)
	return args.Error(0)
}

func NewGalleryService(t *testing.T) (*picshelf.GalleryService, *SpyGalleryRepo, *SpyObjectStore) {
	t.Helper()
	spyRepo := new(SpyGalleryRepo)
	spyStore := new(SpyObjectStore)
	s := picshelf.NewGalleryService(spyRepo, spyStore, picshelf.ServiceConfig{})
	return s, spyRepo, spyStore
}

func TestGalleryService_List(t *testing.T) {
	t.Run("returns all images", func(t *testing.T) {
		service, repo, _ := NewGalleryService(t)
		ctx := context.Background()

		expected := []picshelf.Image{
			{ID: 1, StorageURL: "https://bucket.s3.amazonaws.com/beach.jpg", Name: "beach.jpg"},
			{ID: 2, StorageURL: "https://bucket.s3.amazonaws.com/sunset.png", Name: "sunset.png"},
		}
		repo.On("ListImages", ctx).Return(expected, nil)

		images, err := service.List(ctx)
		assert.NoError(t, err)
		assert.Equal(t, expected, images)

		repo.AssertExpectations(t)
	})

	t.Run("empty gallery returns empty slice", func(t *testing.T) {
		service, repo, _ := NewGalleryService(t)
		ctx := context.Background()

		repo.On("ListImages", ctx).Return([]picshelf.Image{}, nil)

		images, err := service.List(ctx)
		assert.NoError(t, err)
		assert.NotNil(t, images)
		assert.Empty(t, images)
	})

	t.Run("repo error", func(t *testing.T) {
		service, repo, _ := NewGalleryService(t)
		ctx := context.Background()

		repo.On("ListImages", ctx).Return([]picshelf.Image{}, io.ErrUnexpectedEOF)

		_, err := service.List(ctx)
		assert.Error(t, err)
	})
}

func TestGalleryService_Upload(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service, repo, store := NewGalleryService(t)
		ctx := context.Background()
		content := strings.NewReader("image bytes")

		url := "https://bucket.s3.amazonaws.com/my_photo.png"
		store.On("Put", ctx, "my_photo.png", "image/png", content).Return(url, nil)
		repo.On("CreateImage", ctx, url, "my_photo.png").
			Return(picshelf.Image{ID: 1, StorageURL: url, Name: "my_photo.png"}, nil)

		img, err := service.Upload(ctx, picshelf.UploadRequest{
			Filename:    "my photo.png",
			ContentType: "image/png",
		}, content)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), img.ID)
		assert.Equal(t, url, img.StorageURL)
		assert.Equal(t, "my_photo.png", img.Name)

		store.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("empty filename", func(t *testing.T) {
		service, repo, store := NewGalleryService(t)
		ctx := context.Background()

		_, err := service.Upload(ctx, picshelf.UploadRequest{}, strings.NewReader(""))
		assert.ErrorIs(t, err, picshelf.ErrInvalidInput)

		store.AssertNotCalled(t, "Put")
		repo.AssertNotCalled(t, "CreateImage")
	})

	t.Run("filename with nothing usable", func(t *testing.T) {
		service, repo, store := NewGalleryService(t)
		ctx := context.Background()

		_, err := service.Upload(ctx, picshelf.UploadRequest{Filename: "???"}, strings.NewReader(""))
		assert.ErrorIs(t, err, picshelf.ErrInvalidInput)

		store.AssertNotCalled(t, "Put")
		repo.AssertNotCalled(t, "CreateImage")
	})

	t.Run("filename longer than the name cap", func(t *testing.T) {
		service, repo, store := NewGalleryService(t)
		ctx := context.Background()

		name := strings.Repeat("a", picshelf.MaxImageNameLength+4) + ".png"
		_, err := service.Upload(ctx, picshelf.UploadRequest{Filename: name}, strings.NewReader(""))
		assert.ErrorIs(t, err, picshelf.ErrInvalidInput)

		store.AssertNotCalled(t, "Put")
		repo.AssertNotCalled(t, "CreateImage")
	})

	t.Run("multibyte filename at the name cap", func(t *testing.T) {
		service, repo, store := NewGalleryService(t)
		ctx := context.Background()
		content := strings.NewReader("bytes")

		// 120 runes but 240 bytes; the cap counts characters
		name := strings.Repeat("ф", 120)
		url := "https://bucket.s3.amazonaws.com/" + name
		store.On("Put", ctx, name, "image/png", content).Return(url, nil)
		repo.On("CreateImage", ctx, url, name).
			Return(picshelf.Image{ID: 3, StorageURL: url, Name: name}, nil)

		_, err := service.Upload(ctx, picshelf.UploadRequest{
			Filename:    name,
			ContentType: "image/png",
		}, content)
		assert.NoError(t, err)

		store.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("missing content type defaults to octet-stream", func(t *testing.T) {
		service, repo, store := NewGalleryService(t)
		ctx := context.Background()
		content := strings.NewReader("bytes")

		url := "https://bucket.s3.amazonaws.com/blob"
		store.On("Put", ctx, "blob", "application/octet-stream", content).Return(url, nil)
		repo.On("CreateImage", ctx, url, "blob").
			Return(picshelf.Image{ID: 2, StorageURL: url, Name: "blob"}, nil)

		_, err := service.Upload(ctx, picshelf.UploadRequest{Filename: "blob"}, content)
		assert.NoError(t, err)

		store.AssertExpectations(t)
	})

	t.Run("store failure aborts before metadata insert", func(t *testing.T) {
		service, repo, store := NewGalleryService(t)
		ctx := context.Background()
		content := strings.NewReader("bytes")

		store.On("Put", ctx, "beach.jpg", "image/jpeg", content).Return("", io.ErrClosedPipe)

		_, err := service.Upload(ctx, picshelf.UploadRequest{
			Filename:    "beach.jpg",
			ContentType: "image/jpeg",
		}, content)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, picshelf.ErrInvalidInput)
		repo.AssertNotCalled(t, "CreateImage")
	})

	t.Run("metadata insert failure removes stored object", func(t *testing.T) {
		service, repo, store := NewGalleryService(t)
		ctx := context.Background()
		content := strings.NewReader("bytes")

		url := "https://bucket.s3.amazonaws.com/beach.jpg"
		insertErr := errors.New("insert failed")
		store.On("Put", ctx, "beach.jpg", "image/jpeg", content).Return(url, nil)
		repo.On("CreateImage", ctx, url, "beach.jpg").Return(picshelf.Image{}, insertErr)
		// Cleanup runs on a fresh background context.
		store.On("Delete", mock.Anything, "beach.jpg").Return(nil)

		_, err := service.Upload(ctx, picshelf.UploadRequest{
			Filename:    "beach.jpg",
			ContentType: "image/jpeg",
		}, content)

		assert.ErrorIs(t, err, insertErr)
		store.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("cleanup failure is reported alongside insert failure", func(t *testing.T) {
		service, repo, store := NewGalleryService(t)
		ctx := context.Background()
		content := strings.NewReader("bytes")

		url := "https://bucket.s3.amazonaws.com/beach.jpg"
		insertErr := errors.New("insert failed")
		cleanupErr := errors.New("cleanup failed")
		store.On("Put", ctx, "beach.jpg", "image/jpeg", content).Return(url, nil)
		repo.On("CreateImage", ctx, url, "beach.jpg").Return(picshelf.Image{}, insertErr)
		store.On("Delete", mock.Anything, "beach.jpg").Return(cleanupErr)

		_, err := service.Upload(ctx, picshelf.UploadRequest{
			Filename:    "beach.jpg",
			ContentType: "image/jpeg",
		}, content)

		assert.ErrorIs(t, err, cleanupErr)
	})
}

func TestGalleryService_Rename(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service, repo, _ := NewGalleryService(t)
		ctx := context.Background()

		expected := picshelf.Image{ID: 7, StorageURL: "https://bucket.s3.amazonaws.com/x.png", Name: "vacation"}
		repo.On("UpdateImageName", ctx, int64(7), "vacation").Return(expected, nil)

		img, err := service.Rename(ctx, 7, "vacation")
		assert.NoError(t, err)
		assert.Equal(t, expected, img)

		repo.AssertExpectations(t)
	})

	t.Run("empty name", func(t *testing.T) {
		service, repo, _ := NewGalleryService(t)
		ctx := context.Background()

		_, err := service.Rename(ctx, 7, "")
		assert.ErrorIs(t, err, picshelf.ErrInvalidInput)

		repo.AssertNotCalled(t, "UpdateImageName")
	})

	t.Run("name too long", func(t *testing.T) {
		service, repo, _ := NewGalleryService(t)
		ctx := context.Background()

		_, err := service.Rename(ctx, 7, strings.Repeat("a", picshelf.MaxImageNameLength+1))
		assert.ErrorIs(t, err, picshelf.ErrInvalidInput)

		repo.AssertNotCalled(t, "UpdateImageName")
	})

	t.Run("multibyte name at the cap", func(t *testing.T) {
		service, repo, _ := NewGalleryService(t)
		ctx := context.Background()

		// 150 runes but 300 bytes; the cap counts characters
		name := strings.Repeat("ф", picshelf.MaxImageNameLength)

		repo.On("UpdateImageName", ctx, int64(7), name).
			Return(picshelf.Image{ID: 7, Name: name}, nil)

		_, err := service.Rename(ctx, 7, name)
		assert.NoError(t, err)

		repo.AssertExpectations(t)
	})

	t.Run("unknown id", func(t *testing.T) {
		service, repo, _ := NewGalleryService(t)
		ctx := context.Background()

		repo.On("UpdateImageName", ctx, int64(99), "vacation").
			Return(picshelf.Image{}, picshelf.ErrNotFound)

		_, err := service.Rename(ctx, 99, "vacation")
		assert.ErrorIs(t, err, picshelf.ErrNotFound)
	})
}

func TestGalleryService_DeleteSelected(t *testing.T) {
	t.Run("success reports deleted count", func(t *testing.T) {
		service, repo, _ := NewGalleryService(t)
		ctx := context.Background()

		repo.On("DeleteImages", ctx, []int64{1, 2, 99}).Return(int64(2), nil)

		deleted, err := service.DeleteSelected(ctx, []int64{1, 2, 99})
		assert.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		repo.AssertExpectations(t)
	})

	t.Run("empty selection", func(t *testing.T) {
		service, repo, _ := NewGalleryService(t)
		ctx := context.Background()

		_, err := service.DeleteSelected(ctx, nil)
		assert.ErrorIs(t, err, picshelf.ErrInvalidInput)

		repo.AssertNotCalled(t, "DeleteImages")
	})

	t.Run("repo error", func(t *testing.T) {
		service, repo, _ := NewGalleryService(t)
		ctx := context.Background()

		repo.On("DeleteImages", ctx, []int64{1}).Return(int64(0), io.ErrUnexpectedEOF)

		_, err := service.DeleteSelected(ctx, []int64{1})
		assert.Error(t, err)
	})
}
