package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	apperrors "osfr/internal/errors"
	"osfr/internal/model"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func newImageFixture(t *testing.T, maxBytes int64) (*MockImageRepository, *memStore, *syncRemover, ImageService) {
	repo := new(MockImageRepository)
	store := newMemStore()
	remover := &syncRemover{}
	svc := NewImageService(repo, store, remover, ImageOptions{ServerURL: "http://localhost:3000/", MaxBytes: maxBytes}, zaptest.NewLogger(t))
	return repo, store, remover, svc
}

func TestImageService_Upload(t *testing.T) {
	repo, store, _, svc := newImageFixture(t, 1024)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Image")).Return(nil)

	img, err := svc.Upload(context.Background(), &Upload{
		Filename: "screen.png",
		Size:     int64(len(pngHeader)),
		Content:  bytes.NewReader(pngHeader),
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(img.Filename, "image-"), img.Filename)
	assert.True(t, strings.HasSuffix(img.Filename, ".png"), img.Filename)
	assert.Equal(t, "http://localhost:3000/uploads/"+img.Filename, img.URL)
	assert.Equal(t, "screen.png", img.OriginalName)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, int64(len(pngHeader)), img.Size)

	obj, err := store.Open(context.Background(), img.FilePath)
	require.NoError(t, err)
	data, _ := io.ReadAll(obj)
	assert.Equal(t, pngHeader, data, "sniffed bytes are stored too")
	repo.AssertExpectations(t)
}

func TestImageService_UploadRejects(t *testing.T) {
	tests := []struct {
		name   string
		upload *Upload
	}{
		{name: "no file", upload: nil},
		{name: "not an image", upload: upload("evil.png", "#!/bin/sh\necho hi\n")},
		{name: "declared size too large", upload: &Upload{Filename: "a.png", Size: 4096, Content: bytes.NewReader(pngHeader)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, store, _, svc := newImageFixture(t, 1024)

			img, err := svc.Upload(context.Background(), tt.upload)

			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Nil(t, img)
			assert.Empty(t, store.paths())
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestImageService_UploadRejectsOversizedContent(t *testing.T) {
	repo, store, remover, svc := newImageFixture(t, 64)
	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 128)...)

	// The client claims a small size but sends more.
	_, err := svc.Upload(context.Background(), &Upload{Filename: "a.png", Size: 10, Content: bytes.NewReader(content)})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Len(t, remover.removed, 1)
	assert.Empty(t, store.paths())
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestImageService_Delete(t *testing.T) {
	t.Run("resolves by url base name", func(t *testing.T) {
		repo, store, _, svc := newImageFixture(t, 0)
		p, _, err := store.Put(context.Background(), "image-1-2.png", bytes.NewReader(pngHeader))
		require.NoError(t, err)
		repo.On("DeleteByFilename", mock.Anything, "image-1-2.png").Return(&model.Image{Filename: "image-1-2.png", FilePath: p}, nil)

		err = svc.Delete(context.Background(), "http://localhost:3000/uploads/image-1-2.png?v=1")

		require.NoError(t, err)
		assert.False(t, store.has(p))
	})

	t.Run("unknown image", func(t *testing.T) {
		repo, _, _, svc := newImageFixture(t, 0)
		repo.On("DeleteByFilename", mock.Anything, "nope.png").Return(nil, gorm.ErrRecordNotFound)

		assert.ErrorIs(t, svc.Delete(context.Background(), "/uploads/nope.png"), apperrors.ErrNotFound)
	})

	t.Run("empty url", func(t *testing.T) {
		_, _, _, svc := newImageFixture(t, 0)

		assert.ErrorIs(t, svc.Delete(context.Background(), " "), apperrors.ErrValidation)
	})
}

func TestImageService_Open(t *testing.T) {
	repo, store, _, svc := newImageFixture(t, 0)
	p, _, err := store.Put(context.Background(), "image-1-2.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	repo.On("FindByFilename", mock.Anything, "image-1-2.png").Return(&model.Image{Filename: "image-1-2.png", FilePath: p, ContentType: "image/png"}, nil)
	repo.On("FindByFilename", mock.Anything, "lost.png").Return(&model.Image{Filename: "lost.png", FilePath: "mem/lost.png"}, nil)
	repo.On("FindByFilename", mock.Anything, "nope.png").Return(nil, gorm.ErrRecordNotFound)

	dl, err := svc.Open(context.Background(), "image-1-2.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", dl.ContentType)
	_ = dl.Object.Close()

	_, err = svc.Open(context.Background(), "lost.png")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.Open(context.Background(), "nope.png")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
