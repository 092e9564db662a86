package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UploadModel struct {
	ID           string    `gorm:"type:uuid;primary_key" json:"id"`
	Kind         string    `gorm:"type:varchar(10);not null" json:"kind"`
	StoredName   string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"stored_name"`
	URL          string    `gorm:"type:varchar(500);uniqueIndex;not null" json:"url"`
	OriginalName string    `gorm:"type:varchar(255)" json:"original_name"`
	Size         int64     `gorm:"not null" json:"size"`
	MimeType     string    `gorm:"type:varchar(100)" json:"mime_type"`
	UploaderID   string    `gorm:"type:uuid;not null;index" json:"uploader_id"`
	ClaimedBy    string    `gorm:"type:varchar(36);index" json:"claimed_by"`
	ExpiresAt    time.Time `gorm:"index" json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (UploadModel) TableName() string {
	return "uploads"
}

func (u *UploadModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// All lists every model in dependency order for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&SessionModel{},
		&NoteModel{},
		&NoteRatingModel{},
		&CategoryModel{},
		&CommunityPostModel{},
		&CommentModel{},
		&DailyQuestionModel{},
		&AnswerModel{},
		&LikeModel{},
		&UploadModel{},
	}
}
