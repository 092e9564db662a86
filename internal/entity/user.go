package entity

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type PrivacySettings struct {
	ShowEmail    bool `json:"showEmail"`
	ShowProfile  bool `json:"showProfile"`
	ShowActivity bool `json:"showActivity"`
}

func DefaultPrivacy() PrivacySettings {
	return PrivacySettings{ShowEmail: false, ShowProfile: true, ShowActivity: true}
}

type User struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email,omitempty"`
	Password   string          `json:"-"`
	Role       UserRole        `json:"role"`
	Avatar     string          `json:"avatar,omitempty"`
	Department string          `json:"department,omitempty"`
	Year       string          `json:"year,omitempty"`
	Bio        string          `json:"bio,omitempty"`
	Interests  []string        `json:"interests"`
	Privacy    PrivacySettings `json:"privacy"`
	Badges     []string        `json:"badges"`
	Level      int             `json:"level"`
	Points     int             `json:"points"`
	IsActive   bool            `json:"isActive"`
	LastLogin  *time.Time      `json:"lastLogin,omitempty"`
	Sessions   []Session       `json:"-"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) HasBadge(badge string) bool {
	for _, b := range u.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// Session is one entry of a user's active-session list. Only a hash of the
// bearer token is kept.
type Session struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	TokenHash  string    `json:"-"`
	Device     string    `json:"device"`
	IP         string    `json:"ip"`
	CreatedAt  time.Time `json:"createdAt"`
	LastUsedAt time.Time `json:"lastUsedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Current    bool      `json:"current,omitempty"`
}
