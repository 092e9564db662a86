package http

import (
	"errors"
	"net/http"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/usecase"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/middleware"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

// multipartOverhead covers boundaries and form fields around the file part.
const multipartOverhead = 1 << 20

type UploadHandler struct {
	uploadUseCase usecase.UploadUseCase
	maxBytes      int64
	logger        *logger.Logger
}

func NewUploadHandler(uploadUseCase usecase.UploadUseCase, maxBytes int64, logger *logger.Logger) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = usecase.DefaultUploadMaxBytes
	}
	return &UploadHandler{
		uploadUseCase: uploadUseCase,
		maxBytes:      maxBytes,
		logger:        logger,
	}
}

// Upload godoc
// @Summary      Upload a file
// @Description  Stores a PDF note (kind=note, default) or an avatar image (kind=avatar)
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file   true  "File"
// @Param        kind formData string false "note or avatar"
// @Success      201  {object}  response.Envelope{data=usecase.UploadResult}
// @Failure      400  {object}  response.Envelope
// @Failure      413  {object}  response.Envelope
// @Failure      415  {object}  response.Envelope
// @Router       /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		response.Fail(c, http.StatusBadRequest, "A file field is required")
		return
	}

	body, err := file.Open()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer body.Close()

	kind := entity.UploadKind(c.PostForm("kind"))
	if kind == "" {
		kind = entity.UploadKindNote
	}

	result, err := h.uploadUseCase.Accept(c.Request.Context(), usecase.UploadInput{
		Body:         body,
		FileName:     file.Filename,
		DeclaredType: file.Header.Get("Content-Type"),
		Size:         file.Size,
		Kind:         kind,
		UploaderID:   c.GetString(middleware.ContextUserID),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.OK(c, http.StatusCreated, result)
}
