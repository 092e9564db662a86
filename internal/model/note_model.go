package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NoteModel struct {
	ID          string                      `gorm:"type:uuid;primary_key" json:"id"`
	Title       string                      `gorm:"type:varchar(100);not null" json:"title"`
	Description string                      `gorm:"type:text" json:"description"`
	Subject     string                      `gorm:"type:varchar(20);not null;index" json:"subject"`
	Grade       string                      `gorm:"type:varchar(10);not null;index" json:"grade"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	FileURL     string                      `gorm:"type:varchar(500);not null" json:"file_url"`
	FileName    string                      `gorm:"type:varchar(255);not null" json:"file_name"`
	FileSize    int64                       `gorm:"not null" json:"file_size"`
	AuthorID    string                      `gorm:"type:uuid;not null;index" json:"author_id"`
	Downloads   int                         `gorm:"default:0" json:"downloads"`
	ViewCount   int                         `gorm:"default:0" json:"view_count"`
	RatingTotal int                         `gorm:"default:0" json:"rating_total"`
	RatingCount int                         `gorm:"default:0" json:"rating_count"`
	IsApproved  bool                        `gorm:"default:false;index" json:"is_approved"`
	CreatedAt   time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (NoteModel) TableName() string {
	return "notes"
}

func (n *NoteModel) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

// NoteRatingModel keeps one rating per user and note so a re-rate replaces
// the earlier value in the note's accumulator.
type NoteRatingModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	NoteID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_note_ratings_note_user" json:"note_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_note_ratings_note_user" json:"user_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (NoteRatingModel) TableName() string {
	return "note_ratings"
}

func (r *NoteRatingModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
