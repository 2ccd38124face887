package repository

import (
	"context"

	"gorm.io/gorm"

	"osfr/internal/model"
)

// ImageRepository defines uploaded image persistence operations.
type ImageRepository interface {
	Create(ctx context.Context, image *model.Image) error
	FindByFilename(ctx context.Context, filename string) (*model.Image, error)
	DeleteByFilename(ctx context.Context, filename string) (*model.Image, error)
}

type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository creates a new image repository.
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, image *model.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *imageRepository) FindByFilename(ctx context.Context, filename string) (*model.Image, error) {
	var image model.Image
	if err := r.db.WithContext(ctx).Where("filename = ?", filename).First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// DeleteByFilename removes the row and returns it so the caller can drop the file.
func (r *imageRepository) DeleteByFilename(ctx context.Context, filename string) (*model.Image, error) {
	var deleted model.Image
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("filename = ?", filename).First(&deleted).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Image{}, deleted.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}
