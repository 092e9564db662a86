package http

import (
	"net/http"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/usecase"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/middleware"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUseCase usecase.AuthUseCase
	logger      *logger.Logger
}

func NewAuthHandler(authUseCase usecase.AuthUseCase, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		logger:      logger,
	}
}

// Register godoc
// @Summary      Register a new user
// @Description  Create an account and open a session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body usecase.RegisterInput true "Registration data"
// @Success      201  {object}  response.Envelope{data=usecase.AuthResult}
// @Failure      400  {object}  response.Envelope
// @Failure      409  {object}  response.Envelope
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req usecase.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	req.Device = c.Request.UserAgent()
	req.IP = c.ClientIP()

	result, err := h.authUseCase.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusCreated, result)
}

// Login godoc
// @Summary      Login user
// @Description  Authenticate with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body usecase.LoginInput true "Credentials"
// @Success      200  {object}  response.Envelope{data=usecase.AuthResult}
// @Failure      401  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req usecase.LoginInput
	if !bindJSON(c, &req) {
		return
	}
	req.Device = c.Request.UserAgent()
	req.IP = c.ClientIP()

	result, err := h.authUseCase.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, result)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=entity.User}
// @Failure      401  {object}  response.Envelope
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUseCase.Me(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, user)
}

// Logout godoc
// @Summary      Logout
// @Description  Revoke the session of the presented token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	err := h.authUseCase.Logout(c.Request.Context(),
		c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextSessionID))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// LogoutAll godoc
// @Summary      Logout everywhere
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope
// @Router       /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	if err := h.authUseCase.LogoutAll(c.Request.Context(), c.GetString(middleware.ContextUserID)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"message": "All sessions revoked"})
}

// ListSessions godoc
// @Summary      Active sessions
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=[]entity.Session}
// @Router       /auth/sessions [get]
func (h *AuthHandler) ListSessions(c *gin.Context) {
	sessions, err := h.authUseCase.ListSessions(c.Request.Context(),
		c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextSessionID))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, sessions)
}

// RevokeSession godoc
// @Summary      Revoke a session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Session ID"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /auth/sessions/{id} [delete]
func (h *AuthHandler) RevokeSession(c *gin.Context) {
	err := h.authUseCase.RevokeSession(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"message": "Session revoked"})
}
