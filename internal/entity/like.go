package entity

// Like target types. A user likes a target at most once.
const (
	LikeTargetPost     = "post"
	LikeTargetComment  = "comment"
	LikeTargetQuestion = "question"
	LikeTargetAnswer   = "answer"
)
