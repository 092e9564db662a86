package http

import (
	"net/http"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/usecase"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/middleware"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	communityUseCase usecase.CommunityUseCase
	logger           *logger.Logger
}

func NewCommunityHandler(communityUseCase usecase.CommunityUseCase, logger *logger.Logger) *CommunityHandler {
	return &CommunityHandler{
		communityUseCase: communityUseCase,
		logger:           logger,
	}
}

// ListPosts godoc
// @Summary      List community posts
// @Tags         community
// @Produce      json
// @Param        type     query string false "discussion, question, achievement or resource"
// @Param        category query string false "Category"
// @Param        author   query string false "Author ID"
// @Param        limit    query int    false "Page size"
// @Param        offset   query int    false "Offset"
// @Success      200  {object}  response.Envelope{data=[]entity.CommunityPost}
// @Router       /community/posts [get]
func (h *CommunityHandler) ListPosts(c *gin.Context) {
	limit, offset, err := pagination(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	posts, err := h.communityUseCase.ListPosts(c.Request.Context(), entity.PostFilter{
		Type:     entity.PostType(c.Query("type")),
		Category: c.Query("category"),
		AuthorID: c.Query("author"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, posts)
}

// GetPost godoc
// @Summary      Get a post with its comments
// @Tags         community
// @Produce      json
// @Param        id path string true "Post ID"
// @Success      200  {object}  response.Envelope{data=entity.CommunityPost}
// @Failure      404  {object}  response.Envelope
// @Router       /community/posts/{id} [get]
func (h *CommunityHandler) GetPost(c *gin.Context) {
	post, err := h.communityUseCase.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, post)
}

// CreatePost godoc
// @Summary      Create a post
// @Tags         community
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body usecase.PostInput true "Post"
// @Success      201  {object}  response.Envelope{data=entity.CommunityPost}
// @Failure      400  {object}  response.Envelope
// @Router       /community/posts [post]
func (h *CommunityHandler) CreatePost(c *gin.Context) {
	var req usecase.PostInput
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.communityUseCase.CreatePost(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusCreated, post)
}

// DeletePost godoc
// @Summary      Delete a post
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Router       /community/posts/{id} [delete]
func (h *CommunityHandler) DeletePost(c *gin.Context) {
	if err := h.communityUseCase.DeletePost(c.Request.Context(), c.Param("id"), requester(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"message": "Post deleted"})
}

// ToggleLike godoc
// @Summary      Like or unlike a post
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  response.Envelope{data=usecase.LikeResult}
// @Router       /community/posts/{id}/like [post]
func (h *CommunityHandler) ToggleLike(c *gin.Context) {
	result, err := h.communityUseCase.ToggleLike(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, result)
}

// AddComment godoc
// @Summary      Comment on a post
// @Tags         community
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        request body usecase.CommentInput true "Comment"
// @Success      201  {object}  response.Envelope{data=entity.Comment}
// @Router       /community/posts/{id}/comments [post]
func (h *CommunityHandler) AddComment(c *gin.Context) {
	var req usecase.CommentInput
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.communityUseCase.AddComment(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusCreated, comment)
}

// DeleteComment godoc
// @Summary      Delete a comment
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        id        path string true "Post ID"
// @Param        commentId path string true "Comment ID"
// @Success      200  {object}  response.Envelope
// @Router       /community/posts/{id}/comments/{commentId} [delete]
func (h *CommunityHandler) DeleteComment(c *gin.Context) {
	err := h.communityUseCase.DeleteComment(c.Request.Context(), c.Param("id"), c.Param("commentId"), requester(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"message": "Comment deleted"})
}

// ToggleCommentLike godoc
// @Summary      Like or unlike a comment
// @Tags         community
// @Produce      json
// @Security     BearerAuth
// @Param        id        path string true "Post ID"
// @Param        commentId path string true "Comment ID"
// @Success      200  {object}  response.Envelope{data=usecase.LikeResult}
// @Router       /community/posts/{id}/comments/{commentId}/like [post]
func (h *CommunityHandler) ToggleCommentLike(c *gin.Context) {
	result, err := h.communityUseCase.ToggleCommentLike(c.Request.Context(),
		c.Param("id"), c.Param("commentId"), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, result)
}
