package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LikeModel stores the embedded like lists of posts, comments, questions and
// answers, one row per user and target.
type LikeModel struct {
	ID         string    `gorm:"type:uuid;primary_key" json:"id"`
	TargetType string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_likes_target_user" json:"target_type"`
	TargetID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_likes_target_user;index" json:"target_id"`
	UserID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_likes_target_user" json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (LikeModel) TableName() string {
	return "likes"
}

func (l *LikeModel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}
