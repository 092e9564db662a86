package http

import (
	"net/http"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/middleware"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth       *AuthHandler
	Notes      *NoteHandler
	Uploads    *UploadHandler
	Users      *UserHandler
	Categories *CategoryHandler
	Community  *CommunityHandler
	Questions  *QuestionHandler
	Admin      *AdminHandler
}

// notesRejected are the methods answered with 405 on the collection route.
var notesRejected = []string{
	http.MethodPatch,
	http.MethodHead,
	http.MethodOptions,
	http.MethodConnect,
	http.MethodTrace,
}

// RegisterRoutes mounts every API route under /api. rateLimit runs after
// authentication so that limits are counted per user. A method that matches
// no route on a known path answers 405.
func RegisterRoutes(r *gin.Engine, h Handlers, authenticate middleware.AuthFunc, rateLimit gin.HandlerFunc, log *logger.Logger) {
	r.HandleMethodNotAllowed = true
	r.NoMethod(noMethod(h.Notes))

	api := r.Group("/api")

	public := api.Group("", middleware.OptionalAuth(authenticate, log))
	protected := api.Group("", middleware.AuthMiddleware(authenticate, log), rateLimit)
	admin := protected.Group("", middleware.RequireRole(string(entity.RoleAdmin)))

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}
	authProtected := protected.Group("/auth")
	{
		authProtected.GET("/me", h.Auth.Me)
		authProtected.POST("/logout", h.Auth.Logout)
		authProtected.POST("/logout-all", h.Auth.LogoutAll)
		authProtected.GET("/sessions", h.Auth.ListSessions)
		authProtected.DELETE("/sessions/:id", h.Auth.RevokeSession)
	}

	// Collection route with the id in the query or body.
	public.GET("/notes", h.Notes.List)
	protected.POST("/notes", h.Notes.Create)
	protected.PUT("/notes", h.Notes.Update)
	protected.DELETE("/notes", h.Notes.Delete)
	for _, method := range notesRejected {
		api.Handle(method, "/notes", h.Notes.MethodNotAllowed)
	}

	protected.GET("/notes/mine", h.Notes.ListMine)
	public.GET("/notes/:id", h.Notes.Get)
	protected.PUT("/notes/:id", h.Notes.Update)
	protected.DELETE("/notes/:id", h.Notes.Delete)
	public.POST("/notes/:id/download", h.Notes.Download)
	public.POST("/notes/:id/view", h.Notes.View)
	protected.POST("/notes/:id/rate", h.Notes.Rate)

	protected.POST("/upload", h.Uploads.Upload)

	public.GET("/users/:id", h.Users.GetProfile)
	me := protected.Group("/users/me")
	{
		me.PUT("/profile", h.Users.UpdateProfile)
		me.PUT("/privacy", h.Users.UpdatePrivacy)
		me.PUT("/password", h.Users.ChangePassword)
		me.PUT("/avatar", h.Users.SetAvatar)
	}

	public.GET("/categories", h.Categories.List)
	admin.POST("/categories", h.Categories.Create)
	admin.PUT("/categories/:id", h.Categories.Update)
	admin.DELETE("/categories/:id", h.Categories.Delete)

	public.GET("/community/posts", h.Community.ListPosts)
	public.GET("/community/posts/:id", h.Community.GetPost)
	posts := protected.Group("/community/posts")
	{
		posts.POST("", h.Community.CreatePost)
		posts.DELETE("/:id", h.Community.DeletePost)
		posts.POST("/:id/like", h.Community.ToggleLike)
		posts.POST("/:id/comments", h.Community.AddComment)
		posts.DELETE("/:id/comments/:commentId", h.Community.DeleteComment)
		posts.POST("/:id/comments/:commentId/like", h.Community.ToggleCommentLike)
	}

	public.GET("/questions/today", h.Questions.Today)
	public.GET("/questions", h.Questions.List)
	public.GET("/questions/:id", h.Questions.Get)
	protected.POST("/questions/:id/answers", h.Questions.Answer)
	protected.POST("/questions/:id/like", h.Questions.ToggleLike)
	protected.POST("/questions/:id/answers/:answerId/like", h.Questions.ToggleAnswerLike)
	admin.POST("/questions", h.Questions.Create)
	admin.PUT("/questions/:id", h.Questions.Update)
	admin.DELETE("/questions/:id", h.Questions.Deactivate)
	admin.PUT("/questions/:id/answers/:answerId/accept", h.Questions.AcceptAnswer)

	adminGroup := admin.Group("/admin")
	{
		adminGroup.GET("/notes/pending", h.Admin.PendingNotes)
		adminGroup.PUT("/notes/:id/approve", h.Admin.ApproveNote)
		adminGroup.GET("/users", h.Admin.ListUsers)
		adminGroup.PUT("/users/:id/active", h.Admin.SetUserActive)
		adminGroup.PUT("/users/:id/role", h.Admin.SetUserRole)
		adminGroup.GET("/stats", h.Admin.Stats)
	}
}

func noMethod(notes *NoteHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/api/notes" {
			notes.MethodNotAllowed(c)
			return
		}
		response.Fail(c, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
