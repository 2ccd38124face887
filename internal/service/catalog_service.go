package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"osfr/internal/cache"
	apperrors "osfr/internal/errors"
	"osfr/internal/model"
	"osfr/internal/repository"
)

const (
	catalogCacheTTL      = 5 * time.Minute
	categoriesCacheKey   = "catalog:categories"
	itemsAllCacheKey     = "catalog:items:all"
	itemsCategoryKeyBase = "catalog:items:category:"
)

// CatalogService serves the public category and combined item listings.
type CatalogService interface {
	Categories(ctx context.Context) ([]model.Category, error)
	Items(ctx context.Context, categoryName string) ([]model.Item, error)
	// CategoryExists reports whether a category with the given id exists.
	CategoryExists(ctx context.Context, id uint) (bool, error)
	// Invalidate drops cached listings touching the given categories.
	Invalidate(ctx context.Context, categoryIDs ...uint)
}

type catalogService struct {
	categoryRepo    repository.CategoryRepository
	resourceRepo    repository.ResourceRepository
	instructionRepo repository.InstructionRepository
	softwareRepo    repository.SoftwareRepository
	cache           *cache.Client
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	resourceRepo repository.ResourceRepository,
	instructionRepo repository.InstructionRepository,
	softwareRepo repository.SoftwareRepository,
	cache *cache.Client,
) CatalogService {
	return &catalogService{
		categoryRepo:    categoryRepo,
		resourceRepo:    resourceRepo,
		instructionRepo: instructionRepo,
		softwareRepo:    softwareRepo,
		cache:           cache,
	}
}

func itemsCacheKey(categoryID *uint) string {
	if categoryID == nil {
		return itemsAllCacheKey
	}
	return itemsCategoryKeyBase + strconv.FormatUint(uint64(*categoryID), 10)
}

// Categories lists all categories with caching.
func (s *catalogService) Categories(ctx context.Context) ([]model.Category, error) {
	var cached []model.Category
	if s.cache.GetJSON(ctx, categoriesCacheKey, &cached) {
		return cached, nil
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []model.Category{}
	}
	s.cache.SetJSON(ctx, categoriesCacheKey, categories, catalogCacheTTL)
	return categories, nil
}

// Items returns resources, instructions and software, optionally of one category.
func (s *catalogService) Items(ctx context.Context, categoryName string) ([]model.Item, error) {
	var categoryID *uint
	if categoryName != "" {
		category, err := s.categoryRepo.FindByName(ctx, categoryName)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NotFound("category not found")
			}
			return nil, fmt.Errorf("find category: %w", err)
		}
		categoryID = &category.ID
	}

	key := itemsCacheKey(categoryID)
	var cached []model.Item
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	resources, err := s.resourceRepo.List(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	instructions, err := s.instructionRepo.List(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list instructions: %w", err)
	}
	software, err := s.softwareRepo.List(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list software: %w", err)
	}

	items := make([]model.Item, 0, len(resources)+len(instructions)+len(software))
	for _, r := range resources {
		service, url := r.Service, r.URL
		items = append(items, model.Item{
			ID:         r.ID,
			Type:       model.ItemTypeResource,
			CategoryID: r.CategoryID,
			Name:       r.Name,
			Service:    &service,
			URL:        &url,
		})
	}
	for _, in := range instructions {
		content := in.Content
		items = append(items, model.Item{
			ID:         in.ID,
			Type:       model.ItemTypeInstruction,
			CategoryID: in.CategoryID,
			Name:       in.Title,
			Content:    &content,
		})
	}
	for _, sw := range software {
		description := sw.Description
		items = append(items, model.Item{
			ID:          sw.ID,
			Type:        model.ItemTypeSoftware,
			CategoryID:  sw.CategoryID,
			Name:        sw.Name,
			Description: &description,
			FilePath:    sw.FilePath,
		})
	}

	s.cache.SetJSON(ctx, key, items, catalogCacheTTL)
	return items, nil
}

func (s *catalogService) CategoryExists(ctx context.Context, id uint) (bool, error) {
	if id == 0 {
		return false, nil
	}
	_, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find category: %w", err)
	}
	return true, nil
}

func (s *catalogService) Invalidate(ctx context.Context, categoryIDs ...uint) {
	keys := []string{itemsAllCacheKey}
	for i := range categoryIDs {
		keys = append(keys, itemsCacheKey(&categoryIDs[i]))
	}
	_ = s.cache.Delete(ctx, keys...)
}
