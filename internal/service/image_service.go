package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "osfr/internal/errors"
	"osfr/internal/model"
	"osfr/internal/repository"
	"osfr/internal/storage"
)

// sniffLen is how much of an upload is inspected to detect its type.
const sniffLen = 3072

// ImageService manages pictures embedded into instructions.
type ImageService interface {
	Upload(ctx context.Context, upload *Upload) (*model.Image, error)
	Delete(ctx context.Context, imageURL string) error
	Open(ctx context.Context, filename string) (*Download, error)
}

// ImageOptions configures image handling.
type ImageOptions struct {
	// ServerURL prefixes the public URL of uploaded images.
	ServerURL string
	MaxBytes  int64
}

type imageService struct {
	repo    repository.ImageRepository
	store   storage.Store
	remover Remover
	opts    ImageOptions
	l       *zap.Logger
	now     func() time.Time
}

// NewImageService creates a new image service.
func NewImageService(
	repo repository.ImageRepository,
	store storage.Store,
	remover Remover,
	opts ImageOptions,
	l *zap.Logger,
) ImageService {
	opts.ServerURL = strings.TrimRight(opts.ServerURL, "/")
	return &imageService{
		repo:    repo,
		store:   store,
		remover: remover,
		opts:    opts,
		l:       l,
		now:     time.Now,
	}
}

func (s *imageService) tooLarge() error {
	return apperrors.Validation(fmt.Sprintf("image exceeds %d bytes", s.opts.MaxBytes))
}

// Upload stores an image after checking its content really is an image.
func (s *imageService) Upload(ctx context.Context, upload *Upload) (*model.Image, error) {
	if upload == nil || upload.Content == nil || upload.Size == 0 {
		return nil, apperrors.Validation("image file is required")
	}
	if s.opts.MaxBytes > 0 && upload.Size > s.opts.MaxBytes {
		return nil, s.tooLarge()
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(upload.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, apperrors.Validation("image file is required")
	}

	detected := mimetype.Detect(head)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, apperrors.Validation("only image files are allowed")
	}
	ext := detected.Extension()
	if ext == "" {
		ext = storage.Extension(upload.Filename)
	}

	name := "image-" + strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + strconv.Itoa(rand.Intn(1e9)) + ext

	var content io.Reader = io.MultiReader(bytes.NewReader(head), upload.Content)
	if s.opts.MaxBytes > 0 {
		content = io.LimitReader(content, s.opts.MaxBytes+1)
	}
	stored, size, err := s.store.Put(ctx, name, content)
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}
	if s.opts.MaxBytes > 0 && size > s.opts.MaxBytes {
		s.remover.Remove(s.store, stored)
		return nil, s.tooLarge()
	}

	image := &model.Image{
		Filename:     name,
		OriginalName: upload.Filename,
		ContentType:  detected.String(),
		Size:         size,
		FilePath:     stored,
		URL:          s.opts.ServerURL + "/uploads/" + name,
	}
	if err := s.repo.Create(ctx, image); err != nil {
		s.remover.Remove(s.store, stored)
		return nil, fmt.Errorf("create image: %w", err)
	}

	s.l.Info("image uploaded", zap.String("filename", name), zap.Int64("size", size))
	return image, nil
}

// Delete removes the image a public URL points to.
func (s *imageService) Delete(ctx context.Context, imageURL string) error {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return apperrors.Validation("url is required")
	}
	p := imageURL
	if u, err := url.Parse(imageURL); err == nil {
		p = u.Path
	}
	filename := path.Base(p)
	if filename == "." || filename == "/" || filename == "" {
		return apperrors.Validation("url does not name an image")
	}

	deleted, err := s.repo.DeleteByFilename(ctx, filename)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("image not found")
		}
		return fmt.Errorf("delete image: %w", err)
	}
	s.remover.Remove(s.store, deleted.FilePath)
	return nil
}

// Open returns the stored image for inline serving.
func (s *imageService) Open(ctx context.Context, filename string) (*Download, error) {
	image, err := s.repo.FindByFilename(ctx, filename)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("image not found")
		}
		return nil, fmt.Errorf("find image: %w", err)
	}

	obj, err := s.store.Open(ctx, image.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			s.l.Error("image file missing from store", zap.String("filename", filename))
			return nil, apperrors.NotFound("image not found")
		}
		return nil, fmt.Errorf("open image: %w", err)
	}

	contentType := image.ContentType
	if contentType == "" {
		contentType = octetStream
	}
	return &Download{Filename: image.Filename, ContentType: contentType, Object: obj}, nil
}
