package http

import (
	"context"
	"errors"
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

// respondError maps an error to its status and envelope. Internal errors are
// logged with the route and hidden from the client.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal("unexpected error", err)
	}

	status := apperror.HTTPStatus(appErr.Kind)
	if appErr.Kind == apperror.KindInternal {
		log.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		response.Fail(c, status, "Internal server error")
		return
	}

	if len(appErr.Fields) > 0 {
		fields := make(map[string]string, len(appErr.Fields))
		for _, fe := range appErr.Fields {
			if _, ok := fields[fe.Field]; !ok {
				fields[fe.Field] = fe.Error
			}
		}
		response.FailFields(c, status, appErr.Message, fields)
		return
	}
	response.Fail(c, status, appErr.Message)
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func requester(c *gin.Context) usecase.Requester {
	return usecase.Requester{
		UserID: c.GetString(middleware.ContextUserID),
		Role:   entity.UserRole(c.GetString(middleware.ContextUserRole)),
	}
}

// queryInt reads a non-negative integer query parameter, 0 when absent.
func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperror.Validation(key+" must be a non-negative integer",
			apperror.FieldError{Field: key, Error: "must be a non-negative integer"})
	}
	return n, nil
}

func pagination(c *gin.Context) (limit, offset int, err error) {
	if limit, err = queryInt(c, "limit"); err != nil {
		return 0, 0, err
	}
	if offset, err = queryInt(c, "offset"); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

// AuthFunc adapts the auth use case to the middleware's token resolver.
func AuthFunc(authUseCase usecase.AuthUseCase) middleware.AuthFunc {
	return func(ctx context.Context, token string) (*middleware.Identity, error) {
		principal, err := authUseCase.Authenticate(ctx, token)
		if err != nil {
			return nil, err
		}
		return &middleware.Identity{
			UserID:    principal.User.ID,
			Role:      string(principal.User.Role),
			SessionID: principal.Session.ID,
		}, nil
	}
}
