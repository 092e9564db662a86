package entity

import "time"

type PostType string

const (
	PostTypeDiscussion  PostType = "discussion"
	PostTypeQuestion    PostType = "question"
	PostTypeAchievement PostType = "achievement"
	PostTypeResource    PostType = "resource"
)

var PostTypes = []string{
	string(PostTypeDiscussion),
	string(PostTypeQuestion),
	string(PostTypeAchievement),
	string(PostTypeResource),
}

type CommunityPost struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      PostType  `json:"type"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	AuthorID  string    `json:"author"`
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"-"`
	AuthorID  string    `json:"author"`
	Content   string    `json:"content"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

type PostFilter struct {
	Type     PostType
	Category string
	AuthorID string
	Limit    int
	Offset   int
}
