package usecase

import (
	"context"
	"strings"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/repo/persistent"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/validation"
)

type CategoryInput struct {
	Name        string         `json:"name" validate:"required,max=100"`
	Description string         `json:"description" validate:"max=500"`
	Subject     entity.Subject `json:"subject" validate:"required,subject"`
	Grade       entity.Grade   `json:"grade" validate:"required,grade"`
	IsActive    *bool          `json:"isActive"`
}

type CategoryUseCase interface {
	List(ctx context.Context, activeOnly bool) ([]*entity.Category, error)
	Create(ctx context.Context, creatorID string, in CategoryInput) (*entity.Category, error)
	Update(ctx context.Context, id string, in CategoryInput) (*entity.Category, error)
	Delete(ctx context.Context, id string) error
}

type categoryUseCase struct {
	categoryRepo persistent.CategoryRepository
	validator    *validation.Validator
	logger       *logger.Logger
}

func NewCategoryUseCase(
	categoryRepo persistent.CategoryRepository,
	validator *validation.Validator,
	logger *logger.Logger,
) CategoryUseCase {
	return &categoryUseCase{
		categoryRepo: categoryRepo,
		validator:    validator,
		logger:       logger,
	}
}

func (uc *categoryUseCase) List(ctx context.Context, activeOnly bool) ([]*entity.Category, error) {
	return uc.categoryRepo.List(ctx, activeOnly)
}

func (uc *categoryUseCase) Create(ctx context.Context, creatorID string, in CategoryInput) (*entity.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}

	category := &entity.Category{
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Subject:     in.Subject,
		Grade:       in.Grade,
		IsActive:    in.IsActive == nil || *in.IsActive,
		CreatedBy:   creatorID,
	}
	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	uc.logger.Info("Category created: %s (%s)", category.ID, category.Name)
	return category, nil
}

func (uc *categoryUseCase) Update(ctx context.Context, id string, in CategoryInput) (*entity.Category, error) {
	category, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}

	category.Name = in.Name
	category.Description = strings.TrimSpace(in.Description)
	category.Subject = in.Subject
	category.Grade = in.Grade
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}
	if err := uc.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return uc.categoryRepo.GetByID(ctx, id)
}

func (uc *categoryUseCase) Delete(ctx context.Context, id string) error {
	return uc.categoryRepo.Delete(ctx, id)
}
