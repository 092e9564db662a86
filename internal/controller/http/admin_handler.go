package http

import (
	"net/http"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/usecase"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminUseCase usecase.AdminUseCase
	logger       *logger.Logger
}

func NewAdminHandler(adminUseCase usecase.AdminUseCase, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		adminUseCase: adminUseCase,
		logger:       logger,
	}
}

type approveRequest struct {
	Approved *bool `json:"approved"`
}

type activeRequest struct {
	IsActive bool `json:"isActive"`
}

type roleRequest struct {
	Role entity.UserRole `json:"role"`
}

// PendingNotes godoc
// @Summary      Notes awaiting approval
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200  {object}  response.Envelope{data=[]entity.Note}
// @Router       /admin/notes/pending [get]
func (h *AdminHandler) PendingNotes(c *gin.Context) {
	limit, offset, err := pagination(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	notes, err := h.adminUseCase.PendingNotes(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, notes)
}

// ApproveNote godoc
// @Summary      Approve or unapprove a note
// @Description  approved defaults to true when omitted
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Note ID"
// @Param        request body approveRequest false "Approval"
// @Success      200  {object}  response.Envelope{data=entity.Note}
// @Router       /admin/notes/{id}/approve [put]
func (h *AdminHandler) ApproveNote(c *gin.Context) {
	var req approveRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	approved := true
	if req.Approved != nil {
		approved = *req.Approved
	}

	note, err := h.adminUseCase.ApproveNote(c.Request.Context(), c.Param("id"), approved)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, note)
}

// ListUsers godoc
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200  {object}  response.Envelope{data=[]entity.User}
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, offset, err := pagination(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	users, err := h.adminUseCase.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, users)
}

// SetUserActive godoc
// @Summary      Activate or deactivate a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body activeRequest true "Active flag"
// @Success      200  {object}  response.Envelope{data=entity.User}
// @Failure      403  {object}  response.Envelope
// @Router       /admin/users/{id}/active [put]
func (h *AdminHandler) SetUserActive(c *gin.Context) {
	var req activeRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.adminUseCase.SetUserActive(c.Request.Context(), requester(c), c.Param("id"), req.IsActive)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, user)
}

// SetUserRole godoc
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body roleRequest true "Role"
// @Success      200  {object}  response.Envelope{data=entity.User}
// @Router       /admin/users/{id}/role [put]
func (h *AdminHandler) SetUserRole(c *gin.Context) {
	var req roleRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.adminUseCase.SetUserRole(c.Request.Context(), requester(c), c.Param("id"), req.Role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, user)
}

// Stats godoc
// @Summary      Platform counters
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=entity.Stats}
// @Router       /admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminUseCase.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, stats)
}
