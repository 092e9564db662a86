package http

import (
	"net/http"
	"strconv"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/usecase"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/middleware"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

// NotesAllow is the Allow header sent with 405 answers on /api/notes.
const NotesAllow = "GET, POST, PUT, DELETE"

type NoteHandler struct {
	noteUseCase usecase.NoteUseCase
	logger      *logger.Logger
}

func NewNoteHandler(noteUseCase usecase.NoteUseCase, logger *logger.Logger) *NoteHandler {
	return &NoteHandler{
		noteUseCase: noteUseCase,
		logger:      logger,
	}
}

type updateNoteRequest struct {
	ID string `json:"id"`
	usecase.NoteUpdate
}

type rateNoteRequest struct {
	Rating int `json:"rating"`
}

func noteFilter(c *gin.Context) (entity.NoteFilter, error) {
	filter := entity.NoteFilter{
		Subject:  entity.Subject(c.Query("subject")),
		Grade:    entity.Grade(c.Query("grade")),
		AuthorID: c.Query("author"),
		Query:    c.Query("q"),
	}
	if raw := c.Query("approved"); raw != "" {
		approved, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, apperror.Validation("approved must be true or false",
				apperror.FieldError{Field: "approved", Error: "must be true or false"})
		}
		filter.Approved = &approved
	}

	var err error
	filter.Limit, filter.Offset, err = pagination(c)
	return filter, err
}

// List godoc
// @Summary      List notes
// @Description  All notes, newest first, with optional filters
// @Tags         notes
// @Produce      json
// @Param        subject  query string false "Subject"
// @Param        grade    query string false "Grade"
// @Param        author   query string false "Author ID"
// @Param        approved query bool   false "Approval state"
// @Param        q        query string false "Title search"
// @Param        limit    query int    false "Page size"
// @Param        offset   query int    false "Offset"
// @Success      200  {object}  response.Envelope{data=[]entity.Note}
// @Failure      400  {object}  response.Envelope
// @Router       /notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	filter, err := noteFilter(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	notes, err := h.noteUseCase.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, notes)
}

// ListMine godoc
// @Summary      List my notes
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Envelope{data=[]entity.Note}
// @Router       /notes/mine [get]
func (h *NoteHandler) ListMine(c *gin.Context) {
	filter, err := noteFilter(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	notes, err := h.noteUseCase.ListMine(c.Request.Context(), c.GetString(middleware.ContextUserID), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, notes)
}

// Get godoc
// @Summary      Get note by ID
// @Tags         notes
// @Produce      json
// @Param        id path string true "Note ID"
// @Success      200  {object}  response.Envelope{data=entity.Note}
// @Failure      404  {object}  response.Envelope
// @Router       /notes/{id} [get]
func (h *NoteHandler) Get(c *gin.Context) {
	note, err := h.noteUseCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, note)
}

// Create godoc
// @Summary      Create a note
// @Description  fileUrl must come from a prior note upload by the same user
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body usecase.NoteInput true "Note"
// @Success      201  {object}  response.Envelope{data=entity.Note}
// @Failure      400  {object}  response.Envelope
// @Failure      401  {object}  response.Envelope
// @Router       /notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	var req usecase.NoteInput
	if !bindJSON(c, &req) {
		return
	}

	note, err := h.noteUseCase.Create(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusCreated, note)
}

// Update godoc
// @Summary      Update a note
// @Description  The id comes from the path, the id query parameter or the body
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Note ID"
// @Param        request body usecase.NoteUpdate true "Fields to change"
// @Success      200  {object}  response.Envelope{data=entity.Note}
// @Failure      400  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /notes/{id} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	var req updateNoteRequest
	if !bindJSON(c, &req) {
		return
	}

	id := noteID(c, req.ID)
	if id == "" {
		response.Fail(c, http.StatusBadRequest, "Note id is required")
		return
	}

	note, err := h.noteUseCase.Update(c.Request.Context(), id, requester(c), req.NoteUpdate)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, note)
}

// Delete godoc
// @Summary      Delete a note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Note ID"
// @Success      200  {object}  response.Envelope
// @Failure      403  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	id := noteID(c, "")
	if id == "" && c.Request.ContentLength != 0 {
		var body struct {
			ID string `json:"id"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			id = body.ID
		}
	}
	if id == "" {
		response.Fail(c, http.StatusBadRequest, "Note id is required")
		return
	}

	if err := h.noteUseCase.Delete(c.Request.Context(), id, requester(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"message": "Note deleted"})
}

// Download godoc
// @Summary      Count a download
// @Tags         notes
// @Produce      json
// @Param        id path string true "Note ID"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Router       /notes/{id}/download [post]
func (h *NoteHandler) Download(c *gin.Context) {
	note, err := h.noteUseCase.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"fileUrl":   note.FileURL,
		"fileName":  note.FileName,
		"downloads": note.Downloads,
	})
}

// View godoc
// @Summary      Count a view
// @Description  Counted once per signed-in viewer per day
// @Tags         notes
// @Produce      json
// @Param        id path string true "Note ID"
// @Success      200  {object}  response.Envelope{data=entity.Note}
// @Router       /notes/{id}/view [post]
func (h *NoteHandler) View(c *gin.Context) {
	note, err := h.noteUseCase.View(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, note)
}

// Rate godoc
// @Summary      Rate a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Note ID"
// @Param        request body rateNoteRequest true "Rating 1..5"
// @Success      200  {object}  response.Envelope{data=entity.Note}
// @Router       /notes/{id}/rate [post]
func (h *NoteHandler) Rate(c *gin.Context) {
	var req rateNoteRequest
	if !bindJSON(c, &req) {
		return
	}

	note, err := h.noteUseCase.Rate(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID), req.Rating)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusOK, note)
}

// MethodNotAllowed answers unsupported methods on the collection route.
func (h *NoteHandler) MethodNotAllowed(c *gin.Context) {
	c.Header("Allow", NotesAllow)
	response.Fail(c, http.StatusMethodNotAllowed, "Method not allowed")
}

// noteID resolves the target of PUT and DELETE: path, then ?id=, then body.
func noteID(c *gin.Context, bodyID string) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	if id := c.Query("id"); id != "" {
		return id
	}
	return bodyID
}
