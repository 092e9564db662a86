package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID    = "user_id"
	ContextUserRole  = "user_role"
	ContextSessionID = "session_id"
	ContextToken     = "token"
)

type Identity struct {
	UserID    string
	Role      string
	SessionID string
}

// AuthFunc resolves a bearer token to the identity that owns it.
type AuthFunc func(ctx context.Context, token string) (*Identity, error)

// AuthMiddleware rejects requests without a valid bearer token. Token and
// session failures answer 401; any other error from authenticate is logged
// and answers 500.
func AuthMiddleware(authenticate AuthFunc, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.AbortFail(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		identity, err := authenticate(c.Request.Context(), token)
		if err != nil {
			abortAuthError(c, log, err)
			return
		}

		setIdentity(c, identity, token)
		c.Next()
	}
}

// OptionalAuth sets the identity when a valid token is present and otherwise
// lets the request through anonymously. Errors other than a rejected token
// still fail the request.
func OptionalAuth(authenticate AuthFunc, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := BearerToken(c.GetHeader("Authorization")); ok {
			identity, err := authenticate(c.Request.Context(), token)
			switch {
			case err == nil:
				setIdentity(c, identity, token)
			case !isTokenRejection(err):
				abortAuthError(c, log, err)
				return
			}
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, identity *Identity, token string) {
	c.Set(ContextUserID, identity.UserID)
	c.Set(ContextUserRole, identity.Role)
	c.Set(ContextSessionID, identity.SessionID)
	c.Set(ContextToken, token)
}

func isTokenRejection(err error) bool {
	switch apperror.KindOf(err) {
	case apperror.KindUnauthorized, apperror.KindInvalidCredentials:
		return true
	}
	return false
}

func abortAuthError(c *gin.Context, log *logger.Logger, err error) {
	if isTokenRejection(err) {
		response.AbortFail(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	log.Error("Authentication failed on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	response.AbortFail(c, http.StatusInternalServerError, "Internal server error")
}

func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) != role {
			response.AbortFail(c, http.StatusForbidden, "Permission denied")
			return
		}
		c.Next()
	}
}

func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
