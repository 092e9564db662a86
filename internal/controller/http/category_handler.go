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

type CategoryHandler struct {
	categoryUseCase usecase.CategoryUseCase
	logger          *logger.Logger
}

func NewCategoryHandler(categoryUseCase usecase.CategoryUseCase, logger *logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryUseCase: categoryUseCase,
		logger:          logger,
	}
}

// List godoc
// @Summary      List categories
// @Description  Admins may pass all=true to include inactive categories
// @Tags         categories
// @Produce      json
// @Param        all query bool false "Include inactive (admin)"
// @Success      200  {object}  response.Envelope{data=[]entity.Category}
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	activeOnly := !(c.Query("all") == "true" && c.GetString(middleware.ContextUserRole) == string(entity.RoleAdmin))

	categories, err := h.categoryUseCase.List(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, categories)
}

// Create godoc
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body usecase.CategoryInput true "Category"
// @Success      201  {object}  response.Envelope{data=entity.Category}
// @Failure      400  {object}  response.Envelope
// @Failure      409  {object}  response.Envelope
// @Router       /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req usecase.CategoryInput
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryUseCase.Create(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusCreated, category)
}

// Update godoc
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Category ID"
// @Param        request body usecase.CategoryInput true "Category"
// @Success      200  {object}  response.Envelope{data=entity.Category}
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	var req usecase.CategoryInput
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryUseCase.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, category)
}

// Delete godoc
// @Summary      Delete a category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Category ID"
// @Success      200  {object}  response.Envelope
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categoryUseCase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"message": "Category deleted"})
}
