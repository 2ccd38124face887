package repository

import (
	"context"

	"gorm.io/gorm"

	"osfr/internal/model"
)

// InstructionRepository defines instruction persistence operations.
type InstructionRepository interface {
	Create(ctx context.Context, instruction *model.Instruction) error
	Update(ctx context.Context, instruction *model.Instruction) (bool, error)
	Delete(ctx context.Context, id uint) (*model.Instruction, error)
	FindByID(ctx context.Context, id uint) (*model.Instruction, error)
	List(ctx context.Context, categoryID *uint) ([]model.Instruction, error)
}

type instructionRepository struct {
	db *gorm.DB
}

// NewInstructionRepository creates a new instruction repository.
func NewInstructionRepository(db *gorm.DB) InstructionRepository {
	return &instructionRepository{db: db}
}

// withCategoryName selects instructions joined with their category name.
func (r *instructionRepository) withCategoryName(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("instructions AS i").
		Select("i.id, i.title, i.content, i.category_id, c.name AS category_name").
		Joins("LEFT JOIN categories c ON i.category_id = c.id")
}

func (r *instructionRepository) Create(ctx context.Context, instruction *model.Instruction) error {
	return r.db.WithContext(ctx).Omit("CategoryName").Create(instruction).Error
}

func (r *instructionRepository) Update(ctx context.Context, instruction *model.Instruction) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Instruction{}).
		Where("id = ?", instruction.ID).
		Updates(map[string]interface{}{
			"title":       instruction.Title,
			"content":     instruction.Content,
			"category_id": instruction.CategoryID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *instructionRepository) Delete(ctx context.Context, id uint) (*model.Instruction, error) {
	var deleted model.Instruction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&deleted).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Instruction{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

func (r *instructionRepository) FindByID(ctx context.Context, id uint) (*model.Instruction, error) {
	var instruction model.Instruction
	if err := r.withCategoryName(ctx).Where("i.id = ?", id).Take(&instruction).Error; err != nil {
		return nil, err
	}
	return &instruction, nil
}

func (r *instructionRepository) List(ctx context.Context, categoryID *uint) ([]model.Instruction, error) {
	var instructions []model.Instruction
	q := r.withCategoryName(ctx)
	if categoryID != nil {
		q = q.Where("i.category_id = ?", *categoryID)
	}
	if err := q.Order("i.title ASC").Find(&instructions).Error; err != nil {
		return nil, err
	}
	return instructions, nil
}
