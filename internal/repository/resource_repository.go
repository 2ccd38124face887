package repository

import (
	"context"

	"gorm.io/gorm"

	"osfr/internal/model"
)

// ResourceRepository defines resource persistence operations.
type ResourceRepository interface {
	Create(ctx context.Context, resource *model.Resource) error
	Update(ctx context.Context, resource *model.Resource) (bool, error)
	Delete(ctx context.Context, id uint) (*model.Resource, error)
	FindByID(ctx context.Context, id uint) (*model.Resource, error)
	List(ctx context.Context, categoryID *uint) ([]model.Resource, error)
}

type resourceRepository struct {
	db *gorm.DB
}

// NewResourceRepository creates a new resource repository.
func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

// Create creates a new resource.
func (r *resourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}

// Update overwrites all fields of an existing resource and reports whether it existed.
func (r *resourceRepository) Update(ctx context.Context, resource *model.Resource) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Resource{}).
		Where("id = ?", resource.ID).
		Updates(map[string]interface{}{
			"name":        resource.Name,
			"service":     resource.Service,
			"url":         resource.URL,
			"category_id": resource.CategoryID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes a resource and returns the deleted row.
func (r *resourceRepository) Delete(ctx context.Context, id uint) (*model.Resource, error) {
	var deleted model.Resource
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&deleted).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Resource{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

// FindByID finds a resource by ID.
func (r *resourceRepository) FindByID(ctx context.Context, id uint) (*model.Resource, error) {
	var resource model.Resource
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&resource).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}

// List lists resources, optionally restricted to one category.
func (r *resourceRepository) List(ctx context.Context, categoryID *uint) ([]model.Resource, error) {
	var resources []model.Resource
	q := r.db.WithContext(ctx).Order("id")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if err := q.Find(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}
