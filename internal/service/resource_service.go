package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "osfr/internal/errors"
	"osfr/internal/model"
	"osfr/internal/repository"
)

// ResourceInput holds the editable fields of a resource.
type ResourceInput struct {
	Name       string
	Service    string
	URL        string
	CategoryID uint
}

// ResourceService manages links to external services.
type ResourceService interface {
	Get(ctx context.Context, id uint) (*model.Resource, error)
	Create(ctx context.Context, input ResourceInput) (*model.Resource, error)
	Update(ctx context.Context, id uint, input ResourceInput) (*model.Resource, error)
	Delete(ctx context.Context, id uint) error
}

type resourceService struct {
	repo    repository.ResourceRepository
	catalog CatalogService
}

// NewResourceService creates a new resource service.
func NewResourceService(repo repository.ResourceRepository, catalog CatalogService) ResourceService {
	return &resourceService{repo: repo, catalog: catalog}
}

func (s *resourceService) validate(ctx context.Context, input ResourceInput) error {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.URL) == "" {
		return apperrors.Validation("name and url are required")
	}
	ok, err := s.catalog.CategoryExists(ctx, input.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Validation("unknown category")
	}
	return nil
}

func (s *resourceService) Get(ctx context.Context, id uint) (*model.Resource, error) {
	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("resource not found")
		}
		return nil, fmt.Errorf("find resource: %w", err)
	}
	return resource, nil
}

func (s *resourceService) Create(ctx context.Context, input ResourceInput) (*model.Resource, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}
	resource := &model.Resource{
		Name:       input.Name,
		Service:    input.Service,
		URL:        input.URL,
		CategoryID: input.CategoryID,
	}
	if err := s.repo.Create(ctx, resource); err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	s.catalog.Invalidate(ctx, resource.CategoryID)
	return resource, nil
}

func (s *resourceService) Update(ctx context.Context, id uint, input ResourceInput) (*model.Resource, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	resource := &model.Resource{
		ID:         id,
		Name:       input.Name,
		Service:    input.Service,
		URL:        input.URL,
		CategoryID: input.CategoryID,
	}
	found, err := s.repo.Update(ctx, resource)
	if err != nil {
		return nil, fmt.Errorf("update resource: %w", err)
	}
	if !found {
		return nil, apperrors.NotFound("resource not found")
	}
	s.catalog.Invalidate(ctx, existing.CategoryID, resource.CategoryID)
	return resource, nil
}

func (s *resourceService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("resource not found")
		}
		return fmt.Errorf("delete resource: %w", err)
	}
	s.catalog.Invalidate(ctx, deleted.CategoryID)
	return nil
}
