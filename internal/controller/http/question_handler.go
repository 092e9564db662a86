package http

import (
	"net/http"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/usecase"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/middleware"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	questionUseCase usecase.QuestionUseCase
	logger          *logger.Logger
}

func NewQuestionHandler(questionUseCase usecase.QuestionUseCase, logger *logger.Logger) *QuestionHandler {
	return &QuestionHandler{
		questionUseCase: questionUseCase,
		logger:          logger,
	}
}

// Today godoc
// @Summary      Today's question
// @Tags         questions
// @Produce      json
// @Success      200  {object}  response.Envelope{data=entity.DailyQuestion}
// @Failure      404  {object}  response.Envelope
// @Router       /questions/today [get]
func (h *QuestionHandler) Today(c *gin.Context) {
	question, err := h.questionUseCase.Today(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, question)
}

// List godoc
// @Summary      Question archive
// @Tags         questions
// @Produce      json
// @Param        limit  query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200  {object}  response.Envelope{data=[]entity.DailyQuestion}
// @Router       /questions [get]
func (h *QuestionHandler) List(c *gin.Context) {
	limit, offset, err := pagination(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	questions, err := h.questionUseCase.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, questions)
}

// Get godoc
// @Summary      Get a question with its answers
// @Tags         questions
// @Produce      json
// @Param        id path string true "Question ID"
// @Success      200  {object}  response.Envelope{data=entity.DailyQuestion}
// @Router       /questions/{id} [get]
func (h *QuestionHandler) Get(c *gin.Context) {
	question, err := h.questionUseCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, question)
}

// Create godoc
// @Summary      Schedule a question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body usecase.QuestionInput true "Question"
// @Success      201  {object}  response.Envelope{data=entity.DailyQuestion}
// @Failure      409  {object}  response.Envelope
// @Router       /questions [post]
func (h *QuestionHandler) Create(c *gin.Context) {
	var req usecase.QuestionInput
	if !bindJSON(c, &req) {
		return
	}

	question, err := h.questionUseCase.Create(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusCreated, question)
}

// Update godoc
// @Summary      Update a question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Question ID"
// @Param        request body usecase.QuestionInput true "Question"
// @Success      200  {object}  response.Envelope{data=entity.DailyQuestion}
// @Router       /questions/{id} [put]
func (h *QuestionHandler) Update(c *gin.Context) {
	var req usecase.QuestionInput
	if !bindJSON(c, &req) {
		return
	}

	question, err := h.questionUseCase.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, question)
}

// Deactivate godoc
// @Summary      Deactivate a question
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Question ID"
// @Success      200  {object}  response.Envelope
// @Router       /questions/{id} [delete]
func (h *QuestionHandler) Deactivate(c *gin.Context) {
	if err := h.questionUseCase.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"message": "Question deactivated"})
}

// Answer godoc
// @Summary      Answer a question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Question ID"
// @Param        request body usecase.AnswerInput true "Answer"
// @Success      201  {object}  response.Envelope{data=entity.Answer}
// @Router       /questions/{id}/answers [post]
func (h *QuestionHandler) Answer(c *gin.Context) {
	var req usecase.AnswerInput
	if !bindJSON(c, &req) {
		return
	}

	answer, err := h.questionUseCase.Answer(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusCreated, answer)
}

// ToggleLike godoc
// @Summary      Like or unlike a question
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Question ID"
// @Success      200  {object}  response.Envelope{data=usecase.LikeResult}
// @Router       /questions/{id}/like [post]
func (h *QuestionHandler) ToggleLike(c *gin.Context) {
	result, err := h.questionUseCase.ToggleLike(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, result)
}

// ToggleAnswerLike godoc
// @Summary      Like or unlike an answer
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Param        id       path string true "Question ID"
// @Param        answerId path string true "Answer ID"
// @Success      200  {object}  response.Envelope{data=usecase.LikeResult}
// @Router       /questions/{id}/answers/{answerId}/like [post]
func (h *QuestionHandler) ToggleAnswerLike(c *gin.Context) {
	result, err := h.questionUseCase.ToggleAnswerLike(c.Request.Context(),
		c.Param("id"), c.Param("answerId"), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, result)
}

// AcceptAnswer godoc
// @Summary      Mark an answer as accepted
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Param        id       path string true "Question ID"
// @Param        answerId path string true "Answer ID"
// @Success      200  {object}  response.Envelope{data=entity.DailyQuestion}
// @Router       /questions/{id}/answers/{answerId}/accept [put]
func (h *QuestionHandler) AcceptAnswer(c *gin.Context) {
	question, err := h.questionUseCase.AcceptAnswer(c.Request.Context(), c.Param("id"), c.Param("answerId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, question)
}
