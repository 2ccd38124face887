package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "osfr/internal/errors"
	"osfr/internal/htmlsafe"
	"osfr/internal/model"
	"osfr/internal/repository"
)

// InstructionInput holds the editable fields of an instruction.
type InstructionInput struct {
	Title      string
	Content    string
	CategoryID uint
}

// InstructionService manages HTML instructions.
type InstructionService interface {
	List(ctx context.Context, categoryID *uint) ([]model.Instruction, error)
	Get(ctx context.Context, id uint) (*model.Instruction, error)
	Create(ctx context.Context, input InstructionInput) (*model.Instruction, error)
	Update(ctx context.Context, id uint, input InstructionInput) (*model.Instruction, error)
	Delete(ctx context.Context, id uint) error
}

type instructionService struct {
	repo    repository.InstructionRepository
	catalog CatalogService
}

// NewInstructionService creates a new instruction service.
func NewInstructionService(repo repository.InstructionRepository, catalog CatalogService) InstructionService {
	return &instructionService{repo: repo, catalog: catalog}
}

func validateInstruction(input InstructionInput) error {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" || input.CategoryID == 0 {
		return apperrors.Validation("title, content and category_id are required")
	}
	return nil
}

func (s *instructionService) List(ctx context.Context, categoryID *uint) ([]model.Instruction, error) {
	instructions, err := s.repo.List(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list instructions: %w", err)
	}
	if instructions == nil {
		instructions = []model.Instruction{}
	}
	return instructions, nil
}

func (s *instructionService) Get(ctx context.Context, id uint) (*model.Instruction, error) {
	instruction, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("instruction not found")
		}
		return nil, fmt.Errorf("find instruction: %w", err)
	}
	return instruction, nil
}

func (s *instructionService) Create(ctx context.Context, input InstructionInput) (*model.Instruction, error) {
	if err := validateInstruction(input); err != nil {
		return nil, err
	}
	ok, err := s.catalog.CategoryExists(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Validation("unknown category")
	}

	instruction := &model.Instruction{
		Title:      input.Title,
		Content:    htmlsafe.Sanitize(input.Content),
		CategoryID: input.CategoryID,
	}
	if err := s.repo.Create(ctx, instruction); err != nil {
		return nil, fmt.Errorf("create instruction: %w", err)
	}
	s.catalog.Invalidate(ctx, instruction.CategoryID)
	return instruction, nil
}

func (s *instructionService) Update(ctx context.Context, id uint, input InstructionInput) (*model.Instruction, error) {
	if err := validateInstruction(input); err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.catalog.CategoryExists(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Validation("unknown category")
	}

	instruction := &model.Instruction{
		ID:         id,
		Title:      input.Title,
		Content:    htmlsafe.Sanitize(input.Content),
		CategoryID: input.CategoryID,
	}
	found, err := s.repo.Update(ctx, instruction)
	if err != nil {
		return nil, fmt.Errorf("update instruction: %w", err)
	}
	if !found {
		return nil, apperrors.NotFound("instruction not found")
	}
	s.catalog.Invalidate(ctx, existing.CategoryID, instruction.CategoryID)
	return instruction, nil
}

func (s *instructionService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("instruction not found")
		}
		return fmt.Errorf("delete instruction: %w", err)
	}
	s.catalog.Invalidate(ctx, deleted.CategoryID)
	return nil
}
