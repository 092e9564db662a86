package persistent

import (
	"context"
	"time"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/model"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"

	"gorm.io/gorm"
)

type UploadRepository interface {
	Create(ctx context.Context, upload *entity.Upload) error
	GetByURL(ctx context.Context, url string) (*entity.Upload, error)
	Claim(ctx context.Context, id, claimant string) error
	Release(ctx context.Context, id, claimant string) error
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*entity.Upload, error)
	Delete(ctx context.Context, id string) error
}

type uploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) Create(ctx context.Context, upload *entity.Upload) error {
	uploadModel := ToUploadModel(upload)
	if err := r.db.WithContext(ctx).Create(uploadModel).Error; err != nil {
		return translate(err, "upload")
	}
	*upload = *ToUploadEntity(uploadModel)
	return nil
}

func (r *uploadRepository) GetByURL(ctx context.Context, url string) (*entity.Upload, error) {
	var uploadModel model.UploadModel
	if err := r.db.WithContext(ctx).Where("url = ?", url).First(&uploadModel).Error; err != nil {
		return nil, translate(err, "upload")
	}
	return ToUploadEntity(&uploadModel), nil
}

// Claim attaches an unclaimed upload to its owning record. The conditional
// update makes two racing claims resolve to exactly one winner.
func (r *uploadRepository) Claim(ctx context.Context, id, claimant string) error {
	result := r.db.WithContext(ctx).Model(&model.UploadModel{}).
		Where("id = ? AND claimed_by = ?", id, "").
		Update("claimed_by", claimant)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.Conflict("upload already in use")
	}
	return nil
}

// Release hands a claimed upload back to the sweeper. Only the current
// claimant can release it.
func (r *uploadRepository) Release(ctx context.Context, id, claimant string) error {
	return r.db.WithContext(ctx).Model(&model.UploadModel{}).
		Where("id = ? AND claimed_by = ?", id, claimant).
		Update("claimed_by", "").Error
}

func (r *uploadRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]*entity.Upload, error) {
	var uploadModels []model.UploadModel
	query := r.db.WithContext(ctx).
		Where("claimed_by = ? AND expires_at < ?", "", now).
		Order("expires_at ASC")
	if err := paginate(query, limit, 0).Find(&uploadModels).Error; err != nil {
		return nil, err
	}

	uploads := make([]*entity.Upload, len(uploadModels))
	for i := range uploadModels {
		uploads[i] = ToUploadEntity(&uploadModels[i])
	}
	return uploads, nil
}

func (r *uploadRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.UploadModel{}).Error
}
