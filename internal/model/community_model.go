package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CommunityPostModel struct {
	ID        string                      `gorm:"type:uuid;primary_key" json:"id"`
	Title     string                      `gorm:"type:varchar(200);not null" json:"title"`
	Content   string                      `gorm:"type:text;not null" json:"content"`
	Type      string                      `gorm:"type:varchar(20);not null;index" json:"type"`
	Category  string                      `gorm:"type:varchar(100);index" json:"category"`
	Tags      datatypes.JSONSlice[string] `json:"tags"`
	AuthorID  string                      `gorm:"type:uuid;not null;index" json:"author_id"`
	Comments  []CommentModel              `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	CreatedAt time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

func (CommunityPostModel) TableName() string {
	return "community_posts"
}

func (p *CommunityPostModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

type CommentModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	PostID    string    `gorm:"type:uuid;not null;index" json:"post_id"`
	AuthorID  string    `gorm:"type:uuid;not null" json:"author_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CommentModel) TableName() string {
	return "community_comments"
}

func (c *CommentModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
