package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"osfr/internal/model"
)

// SoftwareChanges carries the columns a versioned update may touch.
// Nil fields are left unchanged.
type SoftwareChanges struct {
	Name        *string
	Description *string
	CategoryID  *uint
	FilePath    *string
}

// SoftwareRepository defines software persistence operations.
type SoftwareRepository interface {
	Create(ctx context.Context, software *model.Software) error
	FindByID(ctx context.Context, id uint) (*model.Software, error)
	List(ctx context.Context, categoryID *uint) ([]model.Software, error)
	UpdateVersioned(ctx context.Context, id, version uint, changes SoftwareChanges) (bool, error)
	DeleteLocked(ctx context.Context, id uint) (*model.Software, error)
}

type softwareRepository struct {
	db *gorm.DB
}

// NewSoftwareRepository creates a new software repository.
func NewSoftwareRepository(db *gorm.DB) SoftwareRepository {
	return &softwareRepository{db: db}
}

// Create inserts a new software row.
func (r *softwareRepository) Create(ctx context.Context, software *model.Software) error {
	return r.db.WithContext(ctx).Create(software).Error
}

// FindByID finds a software row by ID.
func (r *softwareRepository) FindByID(ctx context.Context, id uint) (*model.Software, error) {
	var software model.Software
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&software).Error; err != nil {
		return nil, err
	}
	return &software, nil
}

// List lists software, optionally restricted to one category.
func (r *softwareRepository) List(ctx context.Context, categoryID *uint) ([]model.Software, error) {
	var software []model.Software
	q := r.db.WithContext(ctx).Order("id")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if err := q.Find(&software).Error; err != nil {
		return nil, err
	}
	return software, nil
}

// UpdateVersioned applies changes only if the row still has the given version,
// bumping the version. It reports false when the row changed or disappeared meanwhile.
func (r *softwareRepository) UpdateVersioned(ctx context.Context, id, version uint, changes SoftwareChanges) (bool, error) {
	updates := map[string]interface{}{
		"version": gorm.Expr("version + 1"),
	}
	if changes.Name != nil {
		updates["name"] = *changes.Name
	}
	if changes.Description != nil {
		updates["description"] = *changes.Description
	}
	if changes.CategoryID != nil {
		updates["category_id"] = *changes.CategoryID
	}
	if changes.FilePath != nil {
		updates["file_path"] = *changes.FilePath
	}

	res := r.db.WithContext(ctx).Model(&model.Software{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeleteLocked locks the row, deletes it and returns what was deleted.
func (r *softwareRepository) DeleteLocked(ctx context.Context, id uint) (*model.Software, error) {
	var deleted model.Software
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&deleted).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Software{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}
