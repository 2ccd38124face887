package service

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "osfr/internal/errors"
	"osfr/internal/model"
	"osfr/internal/repository"
	"osfr/internal/storage"
)

const octetStream = "application/octet-stream"

// SoftwareInput holds the metadata fields of a software record. Nil fields are
// absent from the request.
type SoftwareInput struct {
	Name        *string
	Description *string
	CategoryID  *uint
}

// SoftwareService manages software records and their binaries.
type SoftwareService interface {
	Get(ctx context.Context, id uint) (*model.Software, error)
	Create(ctx context.Context, input SoftwareInput, upload *Upload) (*model.Software, error)
	Replace(ctx context.Context, id uint, input SoftwareInput, upload *Upload) (*model.Software, error)
	Delete(ctx context.Context, id uint) error
	Download(ctx context.Context, id uint) (*Download, error)
}

type softwareService struct {
	repo    repository.SoftwareRepository
	catalog CatalogService
	store   storage.Store
	remover Remover
	l       *zap.Logger
	now     func() time.Time
}

// NewSoftwareService creates a new software service.
func NewSoftwareService(
	repo repository.SoftwareRepository,
	catalog CatalogService,
	store storage.Store,
	remover Remover,
	l *zap.Logger,
) SoftwareService {
	return &softwareService{
		repo:    repo,
		catalog: catalog,
		store:   store,
		remover: remover,
		l:       l,
		now:     time.Now,
	}
}

func (s *softwareService) Get(ctx context.Context, id uint) (*model.Software, error) {
	software, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("software not found")
		}
		return nil, fmt.Errorf("find software: %w", err)
	}
	return software, nil
}

func (s *softwareService) checkCategory(ctx context.Context, id uint) error {
	ok, err := s.catalog.CategoryExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Validation("unknown category")
	}
	return nil
}

func (s *softwareService) put(ctx context.Context, base string, upload *Upload) (string, error) {
	path, _, err := putUnique(ctx, s.store, upload.Content, func(t time.Time) string {
		return storage.GenerateName(base, upload.Filename, t)
	}, s.now)
	if err != nil {
		return "", fmt.Errorf("store software file: %w", err)
	}
	return path, nil
}

// Create validates the request, stores the file and inserts the row.
func (s *softwareService) Create(ctx context.Context, input SoftwareInput, upload *Upload) (*model.Software, error) {
	if upload == nil || upload.Content == nil || upload.Size <= 0 {
		return nil, apperrors.Validation("file is required")
	}
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" || input.CategoryID == nil || *input.CategoryID == 0 {
		return nil, apperrors.Validation("name and category_id are required")
	}
	if err := s.checkCategory(ctx, *input.CategoryID); err != nil {
		return nil, err
	}

	path, err := s.put(ctx, *input.Name, upload)
	if err != nil {
		return nil, err
	}

	software := &model.Software{
		CategoryID: *input.CategoryID,
		Name:       *input.Name,
		FilePath:   &path,
	}
	if input.Description != nil {
		software.Description = *input.Description
	}
	if err := s.repo.Create(ctx, software); err != nil {
		s.remover.Remove(s.store, path)
		return nil, fmt.Errorf("create software: %w", err)
	}

	s.catalog.Invalidate(ctx, software.CategoryID)
	s.l.Info("software created", zap.Uint("id", software.ID), zap.String("path", path))
	return software, nil
}

// Replace updates metadata and optionally swaps the stored file. The row update is
// conditioned on the version that was read, so a concurrent replace or delete
// makes this call fail with a conflict instead of orphaning a file.
func (s *softwareService) Replace(ctx context.Context, id uint, input SoftwareInput, upload *Upload) (*model.Software, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := repository.SoftwareChanges{
		Name:        input.Name,
		Description: input.Description,
		CategoryID:  input.CategoryID,
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, apperrors.Validation("name must not be empty")
	}
	if input.CategoryID != nil {
		if err := s.checkCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	var newPath string
	if upload != nil {
		if upload.Content == nil || upload.Size <= 0 {
			return nil, apperrors.Validation("uploaded file is empty")
		}
		base := existing.Name
		if input.Name != nil {
			base = *input.Name
		}
		if newPath, err = s.put(ctx, base, upload); err != nil {
			return nil, err
		}
		changes.FilePath = &newPath
	}

	ok, err := s.repo.UpdateVersioned(ctx, id, existing.Version, changes)
	if err != nil {
		s.remover.Remove(s.store, newPath)
		return nil, fmt.Errorf("update software: %w", err)
	}
	if !ok {
		s.remover.Remove(s.store, newPath)
		return nil, apperrors.Conflict("software was modified concurrently, retry")
	}

	if newPath != "" && existing.FilePath != nil && *existing.FilePath != newPath {
		s.remover.Remove(s.store, *existing.FilePath)
	}

	categories := []uint{existing.CategoryID}
	if input.CategoryID != nil {
		categories = append(categories, *input.CategoryID)
	}
	s.catalog.Invalidate(ctx, categories...)

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.l.Info("software replaced", zap.Uint("id", id), zap.Bool("file_replaced", newPath != ""))
	return updated, nil
}

// Delete removes the row and schedules removal of its file.
func (s *softwareService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.repo.DeleteLocked(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("software not found")
		}
		return fmt.Errorf("delete software: %w", err)
	}
	if deleted.FilePath != nil {
		s.remover.Remove(s.store, *deleted.FilePath)
	}
	s.catalog.Invalidate(ctx, deleted.CategoryID)
	return nil
}

// Download opens the stored file of a software record. The caller closes the object.
func (s *softwareService) Download(ctx context.Context, id uint) (*Download, error) {
	software, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.l.Info("download of unknown software", zap.Uint("id", id))
			return nil, apperrors.NotFound("file not found")
		}
		return nil, fmt.Errorf("find software: %w", err)
	}
	if software.FilePath == nil || *software.FilePath == "" {
		s.l.Warn("software has no file", zap.Uint("id", id))
		return nil, apperrors.NotFound("file not found")
	}

	obj, err := s.store.Open(ctx, *software.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			s.l.Error("software file missing from store", zap.Uint("id", id), zap.String("path", *software.FilePath))
			return nil, apperrors.NotFound("file not found")
		}
		return nil, fmt.Errorf("open software file: %w", err)
	}

	ext := storage.Extension(*software.FilePath)
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = octetStream
	}
	return &Download{
		Filename:    software.Name + ext,
		ContentType: contentType,
		Object:      obj,
	}, nil
}
