package persistent

import (
	"context"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/model"

	"gorm.io/gorm"
)

// LikeRepository toggles membership of a user in a target's like list.
type LikeRepository interface {
	Toggle(ctx context.Context, targetType, targetID, userID string) (bool, error)
	UserIDs(ctx context.Context, targetType string, targetIDs []string) (map[string][]string, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Toggle removes the user's like if present and adds it otherwise. It reports
// whether the target is liked after the call.
func (r *likeRepository) Toggle(ctx context.Context, targetType, targetID, userID string) (bool, error) {
	liked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("target_type = ? AND target_id = ? AND user_id = ?", targetType, targetID, userID).
			Delete(&model.LikeModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		liked = true
		return tx.Create(&model.LikeModel{TargetType: targetType, TargetID: targetID, UserID: userID}).Error
	})
	if err != nil {
		return false, translate(err, "like")
	}
	return liked, nil
}

func (r *likeRepository) UserIDs(ctx context.Context, targetType string, targetIDs []string) (map[string][]string, error) {
	return likeUserIDs(r.db.WithContext(ctx), targetType, targetIDs)
}

func likeUserIDs(db *gorm.DB, targetType string, targetIDs []string) (map[string][]string, error) {
	likes := make(map[string][]string, len(targetIDs))
	if len(targetIDs) == 0 {
		return likes, nil
	}

	var likeModels []model.LikeModel
	if err := db.Where("target_type = ? AND target_id IN ?", targetType, targetIDs).
		Order("created_at ASC").Find(&likeModels).Error; err != nil {
		return nil, err
	}
	for _, like := range likeModels {
		likes[like.TargetID] = append(likes[like.TargetID], like.UserID)
	}
	return likes, nil
}

func deleteLikes(tx *gorm.DB, targetType string, targetIDs []string) error {
	if len(targetIDs) == 0 {
		return nil
	}
	return tx.Where("target_type = ? AND target_id IN ?", targetType, targetIDs).Delete(&model.LikeModel{}).Error
}
