package entity

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var Difficulties = []string{string(DifficultyEasy), string(DifficultyMedium), string(DifficultyHard)}

const DefaultQuestionPoints = 10

// DateLayout is the calendar-day format of DailyQuestion.Date.
const DateLayout = "2006-01-02"

type DailyQuestion struct {
	ID          string     `json:"id"`
	Question    string     `json:"question"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Difficulty  Difficulty `json:"difficulty"`
	Points      int        `json:"points"`
	Answers     []Answer   `json:"answers"`
	Likes       []string   `json:"likes"`
	IsActive    bool       `json:"isActive"`
	Date        string     `json:"date"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Answer struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"-"`
	AuthorID   string    `json:"author"`
	Content    string    `json:"content"`
	Likes      []string  `json:"likes"`
	IsAccepted bool      `json:"isAccepted"`
	CreatedAt  time.Time `json:"createdAt"`
}
