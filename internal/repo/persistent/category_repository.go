package persistent

import (
	"context"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/model"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	List(ctx context.Context, activeOnly bool) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	categoryModel := ToCategoryModel(category)
	if err := r.db.WithContext(ctx).Create(categoryModel).Error; err != nil {
		return translate(err, "category")
	}
	*category = *ToCategoryEntity(categoryModel)
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var categoryModel model.CategoryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&categoryModel).Error; err != nil {
		return nil, translate(err, "category")
	}
	return ToCategoryEntity(&categoryModel), nil
}

func (r *categoryRepository) List(ctx context.Context, activeOnly bool) ([]*entity.Category, error) {
	var categoryModels []model.CategoryModel
	query := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&categoryModels).Error; err != nil {
		return nil, err
	}

	categories := make([]*entity.Category, len(categoryModels))
	for i := range categoryModels {
		categories[i] = ToCategoryEntity(&categoryModels[i])
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	categoryModel := ToCategoryModel(category)
	result := r.db.WithContext(ctx).Model(&model.CategoryModel{}).Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"name":        categoryModel.Name,
			"description": categoryModel.Description,
			"subject":     categoryModel.Subject,
			"grade":       categoryModel.Grade,
			"is_active":   categoryModel.IsActive,
		})
	if result.Error != nil {
		return translate(result.Error, "category")
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("category")
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CategoryModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("category")
	}
	return nil
}

func (r *categoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CategoryModel{}).Count(&count).Error
	return count, err
}
