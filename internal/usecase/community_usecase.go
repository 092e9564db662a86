package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/repo/persistent"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/validation"
)

type PostInput struct {
	Title    string          `json:"title" validate:"required,max=200"`
	Content  string          `json:"content" validate:"required,max=5000"`
	Type     entity.PostType `json:"type" validate:"required,posttype"`
	Category string          `json:"category" validate:"max=100"`
	Tags     []string        `json:"tags" validate:"max=10,dive,required,max=30"`
}

type CommentInput struct {
	Content string `json:"content" validate:"required,max=1000"`
}

// LikeResult reports the like state after a toggle.
type LikeResult struct {
	Liked bool `json:"liked"`
	Count int  `json:"count"`
}

type CommunityUseCase interface {
	ListPosts(ctx context.Context, filter entity.PostFilter) ([]*entity.CommunityPost, error)
	GetPost(ctx context.Context, id string) (*entity.CommunityPost, error)
	CreatePost(ctx context.Context, authorID string, in PostInput) (*entity.CommunityPost, error)
	DeletePost(ctx context.Context, id string, requester Requester) error
	ToggleLike(ctx context.Context, postID, userID string) (*LikeResult, error)
	AddComment(ctx context.Context, postID, authorID string, in CommentInput) (*entity.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID string, requester Requester) error
	ToggleCommentLike(ctx context.Context, postID, commentID, userID string) (*LikeResult, error)
}

type communityUseCase struct {
	communityRepo persistent.CommunityRepository
	likeRepo      persistent.LikeRepository
	publisher     ActivityPublisher
	validator     *validation.Validator
	logger        *logger.Logger
	now           func() time.Time
}

func NewCommunityUseCase(
	communityRepo persistent.CommunityRepository,
	likeRepo persistent.LikeRepository,
	publisher ActivityPublisher,
	validator *validation.Validator,
	logger *logger.Logger,
) CommunityUseCase {
	return &communityUseCase{
		communityRepo: communityRepo,
		likeRepo:      likeRepo,
		publisher:     publisher,
		validator:     validator,
		logger:        logger,
		now:           time.Now,
	}
}

func (uc *communityUseCase) ListPosts(ctx context.Context, filter entity.PostFilter) ([]*entity.CommunityPost, error) {
	if filter.Type != "" {
		if err := uc.validator.Var("type", string(filter.Type), "posttype"); err != nil {
			return nil, err
		}
	}
	return uc.communityRepo.ListPosts(ctx, filter)
}

func (uc *communityUseCase) GetPost(ctx context.Context, id string) (*entity.CommunityPost, error) {
	return uc.communityRepo.GetPost(ctx, id)
}

func (uc *communityUseCase) CreatePost(ctx context.Context, authorID string, in PostInput) (*entity.CommunityPost, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Category = strings.TrimSpace(in.Category)
	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}

	now := uc.now()
	post := &entity.CommunityPost{
		Title:     in.Title,
		Content:   in.Content,
		Type:      in.Type,
		Category:  in.Category,
		Tags:      in.Tags,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.communityRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	publishActivity(ctx, uc.publisher, uc.logger, entity.Activity{
		Type:       entity.ActivityPostCreated,
		UserID:     authorID,
		ResourceID: post.ID,
		OccurredAt: now,
	})
	return post, nil
}

func (uc *communityUseCase) DeletePost(ctx context.Context, id string, requester Requester) error {
	post, err := uc.communityRepo.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if !requester.CanModify(post.AuthorID) {
		return apperror.Forbidden("only the author or an admin can delete this post")
	}
	return uc.communityRepo.DeletePost(ctx, id)
}

func (uc *communityUseCase) ToggleLike(ctx context.Context, postID, userID string) (*LikeResult, error) {
	if _, err := uc.communityRepo.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	return toggleLike(ctx, uc.likeRepo, entity.LikeTargetPost, postID, userID)
}

func (uc *communityUseCase) AddComment(ctx context.Context, postID, authorID string, in CommentInput) (*entity.Comment, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}
	if _, err := uc.communityRepo.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	now := uc.now()
	comment := &entity.Comment{
		PostID:    postID,
		AuthorID:  authorID,
		Content:   in.Content,
		CreatedAt: now,
	}
	if err := uc.communityRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	publishActivity(ctx, uc.publisher, uc.logger, entity.Activity{
		Type:       entity.ActivityCommentCreated,
		UserID:     authorID,
		ResourceID: comment.ID,
		OccurredAt: now,
	})
	return comment, nil
}

func (uc *communityUseCase) DeleteComment(ctx context.Context, postID, commentID string, requester Requester) error {
	comment, err := uc.communityRepo.GetComment(ctx, postID, commentID)
	if err != nil {
		return err
	}
	if !requester.CanModify(comment.AuthorID) {
		return apperror.Forbidden("only the author or an admin can delete this comment")
	}
	return uc.communityRepo.DeleteComment(ctx, commentID)
}

func (uc *communityUseCase) ToggleCommentLike(ctx context.Context, postID, commentID, userID string) (*LikeResult, error) {
	if _, err := uc.communityRepo.GetComment(ctx, postID, commentID); err != nil {
		return nil, err
	}
	return toggleLike(ctx, uc.likeRepo, entity.LikeTargetComment, commentID, userID)
}

func toggleLike(ctx context.Context, likeRepo persistent.LikeRepository, targetType, targetID, userID string) (*LikeResult, error) {
	liked, err := likeRepo.Toggle(ctx, targetType, targetID, userID)
	if err != nil {
		return nil, err
	}
	likes, err := likeRepo.UserIDs(ctx, targetType, []string{targetID})
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: liked, Count: len(likes[targetID])}, nil
}
