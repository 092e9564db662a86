package entity

import "time"

type ActivityType string

const (
	ActivityNoteCreated      ActivityType = "note.created"
	ActivityNoteApproved     ActivityType = "note.approved"
	ActivityPostCreated      ActivityType = "post.created"
	ActivityCommentCreated   ActivityType = "comment.created"
	ActivityQuestionAnswered ActivityType = "question.answered"
	ActivityAnswerAccepted   ActivityType = "answer.accepted"
)

// Activity is a gamification event published after a successful write.
// Points is set only when the award depends on the source record (question
// points); otherwise the fixed table applies.
type Activity struct {
	Type       ActivityType `json:"type"`
	UserID     string       `json:"user_id"`
	ResourceID string       `json:"resource_id"`
	Points     int          `json:"points,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

type Stats struct {
	Users        int64 `json:"users"`
	ActiveUsers  int64 `json:"activeUsers"`
	Notes        int64 `json:"notes"`
	PendingNotes int64 `json:"pendingNotes"`
	Downloads    int64 `json:"downloads"`
	Posts        int64 `json:"posts"`
	Questions    int64 `json:"questions"`
	Categories   int64 `json:"categories"`
}
