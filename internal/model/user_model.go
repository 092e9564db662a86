package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PrivacyModel struct {
	ShowEmail    bool `json:"showEmail"`
	ShowProfile  bool `json:"showProfile"`
	ShowActivity bool `json:"showActivity"`
}

type UserModel struct {
	ID         string                           `gorm:"type:uuid;primary_key" json:"id"`
	Name       string                           `gorm:"type:varchar(50);not null" json:"name"`
	Email      string                           `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password   string                           `gorm:"not null" json:"-"`
	Role       string                           `gorm:"type:varchar(20);default:'user';index" json:"role"`
	Avatar     string                           `gorm:"type:varchar(500)" json:"avatar"`
	Department string                           `gorm:"type:varchar(100)" json:"department"`
	Year       string                           `gorm:"type:varchar(20)" json:"year"`
	Bio        string                           `gorm:"type:text" json:"bio"`
	Interests  datatypes.JSONSlice[string]      `json:"interests"`
	Privacy    datatypes.JSONType[PrivacyModel] `json:"privacy"`
	Badges     datatypes.JSONSlice[string]      `json:"badges"`
	Level      int                              `gorm:"default:1" json:"level"`
	Points     int                              `gorm:"default:0" json:"points"`
	IsActive   bool                             `gorm:"default:true" json:"is_active"`
	LastLogin  *time.Time                       `json:"last_login"`
	Sessions   []SessionModel                   `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt  time.Time                        `json:"created_at"`
	UpdatedAt  time.Time                        `json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

type SessionModel struct {
	ID         string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash  string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	Device     string    `gorm:"type:varchar(255)" json:"device"`
	IP         string    `gorm:"type:varchar(64)" json:"ip"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
	ExpiresAt  time.Time `gorm:"index" json:"expires_at"`
}

func (SessionModel) TableName() string {
	return "user_sessions"
}

func (s *SessionModel) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
