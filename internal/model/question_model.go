package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DailyQuestionModel struct {
	ID          string        `gorm:"type:uuid;primary_key" json:"id"`
	Question    string        `gorm:"type:text;not null" json:"question"`
	Description string        `gorm:"type:text" json:"description"`
	Category    string        `gorm:"type:varchar(100)" json:"category"`
	Difficulty  string        `gorm:"type:varchar(10);default:'medium'" json:"difficulty"`
	Points      int           `gorm:"default:10" json:"points"`
	Answers     []AnswerModel `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
	IsActive    bool          `gorm:"default:true;index" json:"is_active"`
	Date        string        `gorm:"type:varchar(10);not null;index" json:"date"`
	CreatedBy   string        `gorm:"type:uuid" json:"created_by"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (DailyQuestionModel) TableName() string {
	return "daily_questions"
}

func (q *DailyQuestionModel) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	return nil
}

type AnswerModel struct {
	ID         string    `gorm:"type:uuid;primary_key" json:"id"`
	QuestionID string    `gorm:"type:uuid;not null;uniqueIndex:idx_answers_question_author" json:"question_id"`
	AuthorID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_answers_question_author" json:"author_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsAccepted bool      `gorm:"default:false" json:"is_accepted"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (AnswerModel) TableName() string {
	return "question_answers"
}

func (a *AnswerModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
