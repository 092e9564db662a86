package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/usecase"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAdminUseCase struct {
	mock.Mock
}

func (m *MockAdminUseCase) PendingNotes(ctx context.Context, limit, offset int) ([]*entity.Note, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Note), args.Error(1)
}

func (m *MockAdminUseCase) ApproveNote(ctx context.Context, id string, approved bool) (*entity.Note, error) {
	args := m.Called(id, approved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Note), args.Error(1)
}

func (m *MockAdminUseCase) ListUsers(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *MockAdminUseCase) SetUserActive(ctx context.Context, admin usecase.Requester, id string, active bool) (*entity.User, error) {
	args := m.Called(admin, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAdminUseCase) SetUserRole(ctx context.Context, admin usecase.Requester, id string, role entity.UserRole) (*entity.User, error) {
	args := m.Called(admin, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAdminUseCase) Stats(ctx context.Context) (*entity.Stats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Stats), args.Error(1)
}

var _ usecase.AdminUseCase = (*MockAdminUseCase)(nil)

// stubAuth accepts two fixed tokens.
func stubAuth(ctx context.Context, token string) (*middleware.Identity, error) {
	switch token {
	case "user-token":
		return &middleware.Identity{UserID: "user-1", Role: string(entity.RoleUser), SessionID: "s-1"}, nil
	case "admin-token":
		return &middleware.Identity{UserID: "admin-1", Role: string(entity.RoleAdmin), SessionID: "s-2"}, nil
	}
	return nil, apperror.Unauthorized("invalid token")
}

func setupAPI(notes *MockNoteUseCase, admin *MockAdminUseCase) *gin.Engine {
	log := logger.New()
	router := setupTestRouter()
	RegisterRoutes(router, Handlers{
		Auth:       NewAuthHandler(nil, log),
		Notes:      NewNoteHandler(notes, log),
		Uploads:    NewUploadHandler(nil, 0, log),
		Users:      NewUserHandler(nil, log),
		Categories: NewCategoryHandler(nil, log),
		Community:  NewCommunityHandler(nil, log),
		Questions:  NewQuestionHandler(nil, log),
		Admin:      NewAdminHandler(admin, log),
	}, stubAuth, middleware.RateLimitMiddleware(nil, 0, 0), log)
	return router
}

func TestRoutes_NotesMethodNotAllowed(t *testing.T) {
	router := setupAPI(new(MockNoteUseCase), new(MockAdminUseCase))

	for _, method := range []string{"PATCH", "TRACE"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(method, "/api/notes", nil)

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		assert.Equal(t, NotesAllow, w.Header().Get("Allow"), method)
	}
}

func TestRoutes_UnknownMethodsAnswer405(t *testing.T) {
	router := setupAPI(new(MockNoteUseCase), new(MockAdminUseCase))

	for _, method := range []string{"PROPFIND", "LOCK"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(method, "/api/notes", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		assert.Equal(t, NotesAllow, w.Header().Get("Allow"), method)
		assert.JSONEq(t, `{"success":false,"error":"Method not allowed"}`, w.Body.String())
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/api/notes/mine", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/nowhere", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutes_WritesRequireToken(t *testing.T) {
	notes := new(MockNoteUseCase)
	router := setupAPI(notes, new(MockAdminUseCase))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/notes", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/api/notes?id=note-1", nil)
	req.Header.Set("Authorization", "Bearer forged")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	notes.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRoutes_ListMineUsesCaller(t *testing.T) {
	notes := new(MockNoteUseCase)
	router := setupAPI(notes, new(MockAdminUseCase))

	notes.On("ListMine", "user-1", entity.NoteFilter{}).Return([]*entity.Note{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/notes/mine", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	notes.AssertExpectations(t)
}

func TestRoutes_ViewIsAnonymousFriendly(t *testing.T) {
	notes := new(MockNoteUseCase)
	router := setupAPI(notes, new(MockAdminUseCase))

	notes.On("View", "note-1", "").Return(&entity.Note{ID: "note-1", ViewCount: 1}, nil).Once()
	notes.On("View", "note-1", "user-1").Return(&entity.Note{ID: "note-1", ViewCount: 2}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/notes/note-1/view", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/notes/note-1/view", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	notes.AssertExpectations(t)
}

func TestRoutes_AdminRequiresRole(t *testing.T) {
	admin := new(MockAdminUseCase)
	router := setupAPI(new(MockNoteUseCase), admin)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin.On("Stats").Return(&entity.Stats{Users: 3}, nil)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	admin.AssertExpectations(t)
}

func TestRoutes_ApproveDefaultsToTrue(t *testing.T) {
	admin := new(MockAdminUseCase)
	router := setupAPI(new(MockNoteUseCase), admin)

	admin.On("ApproveNote", "note-1", true).Return(&entity.Note{ID: "note-1", IsApproved: true}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/admin/notes/note-1/approve", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	admin.AssertExpectations(t)
}
