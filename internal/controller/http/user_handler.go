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

type UserHandler struct {
	profileUseCase usecase.ProfileUseCase
	logger         *logger.Logger
}

func NewUserHandler(profileUseCase usecase.ProfileUseCase, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		profileUseCase: profileUseCase,
		logger:         logger,
	}
}

type avatarRequest struct {
	Avatar string `json:"avatar"`
}

// GetProfile godoc
// @Summary      Public profile
// @Description  Fields are filtered by the owner's privacy settings
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200  {object}  response.Envelope{data=entity.User}
// @Failure      404  {object}  response.Envelope
// @Router       /users/{id} [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.profileUseCase.GetProfile(c.Request.Context(), c.Param("id"), requester(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary      Update my profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body usecase.ProfileInput true "Profile fields"
// @Success      200  {object}  response.Envelope{data=entity.User}
// @Failure      400  {object}  response.Envelope
// @Router       /users/me/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req usecase.ProfileInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.profileUseCase.UpdateProfile(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, user)
}

// UpdatePrivacy godoc
// @Summary      Update my privacy settings
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body entity.PrivacySettings true "Privacy"
// @Success      200  {object}  response.Envelope{data=entity.User}
// @Router       /users/me/privacy [put]
func (h *UserHandler) UpdatePrivacy(c *gin.Context) {
	var req entity.PrivacySettings
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.profileUseCase.UpdatePrivacy(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, user)
}

// ChangePassword godoc
// @Summary      Change my password
// @Description  Other sessions are revoked
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body usecase.PasswordInput true "Passwords"
// @Success      200  {object}  response.Envelope
// @Failure      400  {object}  response.Envelope
// @Router       /users/me/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req usecase.PasswordInput
	if !bindJSON(c, &req) {
		return
	}

	err := h.profileUseCase.ChangePassword(c.Request.Context(),
		c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextSessionID), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"message": "Password updated"})
}

// SetAvatar godoc
// @Summary      Set my avatar
// @Description  avatar must be the URL of an avatar upload by the same user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body avatarRequest true "Avatar URL"
// @Success      200  {object}  response.Envelope{data=entity.User}
// @Router       /users/me/avatar [put]
func (h *UserHandler) SetAvatar(c *gin.Context) {
	var req avatarRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.profileUseCase.SetAvatar(c.Request.Context(), c.GetString(middleware.ContextUserID), req.Avatar)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, user)
}
