package persistent

import (
	"context"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/model"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"

	"gorm.io/gorm"
)

type CommunityRepository interface {
	CreatePost(ctx context.Context, post *entity.CommunityPost) error
	GetPost(ctx context.Context, id string) (*entity.CommunityPost, error)
	ListPosts(ctx context.Context, filter entity.PostFilter) ([]*entity.CommunityPost, error)
	DeletePost(ctx context.Context, id string) error
	CreateComment(ctx context.Context, comment *entity.Comment) error
	GetComment(ctx context.Context, postID, commentID string) (*entity.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
	Count(ctx context.Context) (int64, error)
}

type communityRepository struct {
	db *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func preloadComments(db *gorm.DB) *gorm.DB {
	return db.Order("community_comments.created_at ASC, community_comments.id ASC")
}

func (r *communityRepository) CreatePost(ctx context.Context, post *entity.CommunityPost) error {
	postModel := ToPostModel(post)
	if err := r.db.WithContext(ctx).Omit("Comments").Create(postModel).Error; err != nil {
		return translate(err, "post")
	}
	*post = *ToPostEntity(postModel)
	return nil
}

func (r *communityRepository) GetPost(ctx context.Context, id string) (*entity.CommunityPost, error) {
	var postModel model.CommunityPostModel
	db := r.db.WithContext(ctx)
	if err := db.Preload("Comments", preloadComments).Where("id = ?", id).First(&postModel).Error; err != nil {
		return nil, translate(err, "post")
	}

	posts := []*entity.CommunityPost{ToPostEntity(&postModel)}
	if err := attachPostLikes(db, posts); err != nil {
		return nil, err
	}
	return posts[0], nil
}

func (r *communityRepository) ListPosts(ctx context.Context, filter entity.PostFilter) ([]*entity.CommunityPost, error) {
	var postModels []model.CommunityPostModel
	db := r.db.WithContext(ctx)
	query := db.Preload("Comments", preloadComments).Order("created_at DESC, id DESC")

	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}

	if err := paginate(query, filter.Limit, filter.Offset).Find(&postModels).Error; err != nil {
		return nil, err
	}

	posts := make([]*entity.CommunityPost, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i])
	}
	if err := attachPostLikes(db, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// attachPostLikes fills the like lists of posts and their comments with two
// queries regardless of page size.
func attachPostLikes(db *gorm.DB, posts []*entity.CommunityPost) error {
	postIDs := make([]string, 0, len(posts))
	var commentIDs []string
	for _, post := range posts {
		postIDs = append(postIDs, post.ID)
		for _, comment := range post.Comments {
			commentIDs = append(commentIDs, comment.ID)
		}
	}

	postLikes, err := likeUserIDs(db, entity.LikeTargetPost, postIDs)
	if err != nil {
		return err
	}
	commentLikes, err := likeUserIDs(db, entity.LikeTargetComment, commentIDs)
	if err != nil {
		return err
	}

	for _, post := range posts {
		if likes, ok := postLikes[post.ID]; ok {
			post.Likes = likes
		}
		for i := range post.Comments {
			if likes, ok := commentLikes[post.Comments[i].ID]; ok {
				post.Comments[i].Likes = likes
			}
		}
	}
	return nil
}

// DeletePost removes the post with its comments and every like attached to
// either, in one transaction.
func (r *communityRepository) DeletePost(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []string
		if err := tx.Model(&model.CommentModel{}).Where("post_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if err := deleteLikes(tx, entity.LikeTargetComment, commentIDs); err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.CommentModel{}).Error; err != nil {
			return err
		}
		if err := deleteLikes(tx, entity.LikeTargetPost, []string{id}); err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&model.CommunityPostModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperror.NotFound("post")
		}
		return nil
	})
}

func (r *communityRepository) CreateComment(ctx context.Context, comment *entity.Comment) error {
	commentModel := ToCommentModel(comment)
	if err := r.db.WithContext(ctx).Create(commentModel).Error; err != nil {
		return translate(err, "comment")
	}
	*comment = *ToCommentEntity(commentModel)
	return nil
}

func (r *communityRepository) GetComment(ctx context.Context, postID, commentID string) (*entity.Comment, error) {
	var commentModel model.CommentModel
	if err := r.db.WithContext(ctx).Where("id = ? AND post_id = ?", commentID, postID).
		First(&commentModel).Error; err != nil {
		return nil, translate(err, "comment")
	}
	return ToCommentEntity(&commentModel), nil
}

func (r *communityRepository) DeleteComment(ctx context.Context, commentID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteLikes(tx, entity.LikeTargetComment, []string{commentID}); err != nil {
			return err
		}
		result := tx.Where("id = ?", commentID).Delete(&model.CommentModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperror.NotFound("comment")
		}
		return nil
	})
}

func (r *communityRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CommunityPostModel{}).Count(&count).Error
	return count, err
}
