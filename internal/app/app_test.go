package app

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/storage"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/testutil"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/config"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

type testServer struct {
	t      *testing.T
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.NewLocalStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	cfg := &config.Config{
		ServerPort:         "0",
		PublicBaseURL:      "http://localhost:8080",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		JWTSecret:          "test-secret",
		JWTExpiration:      time.Hour,
		BcryptCost:         4,
		UploadMaxBytes:     1 << 20,
		UploadOrphanTTL:    time.Hour,
	}

	a, err := New(cfg, logger.New(), Deps{DB: testutil.NewDB(t), Store: store})
	require.NoError(t, err)
	t.Cleanup(a.stop)

	return &testServer{t: t, router: a.Router()}
}

func (s *testServer) do(req *http.Request, token string) (int, envelope) {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (s *testServer) json(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, token)
}

func TestAPI_RegisterLoginMe(t *testing.T) {
	s := newTestServer(t)

	status, env := s.json("POST", "/api/auth/register", "", map[string]string{
		"name": "Ayşe", "email": "a@x.com", "password": "pw123456",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)

	status, env = s.json("POST", "/api/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "pw123456",
	})
	require.Equal(t, http.StatusOK, status, env.Error)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)

	status, env = s.json("GET", "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, status)

	var me map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "Ayşe", me["name"])
	assert.Equal(t, "a@x.com", me["email"])
	assert.NotContains(t, me, "password")
	assert.NotContains(t, me, "passwordHash")

	status, env = s.json("POST", "/api/auth/register", "", map[string]string{
		"name": "Ayşe", "email": "a@x.com", "password": "pw123456",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, env.Success)

	status, env = s.json("POST", "/api/auth/register", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Fields, "email")
}

func TestAPI_UploadThenCreateNote(t *testing.T) {
	s := newTestServer(t)

	status, env := s.json("POST", "/api/auth/register", "", map[string]string{
		"name": "Bora", "email": "bora@x.com", "password": "pw123456",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var auth struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &auth))

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="Türev özeti.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	status, env = s.do(req, auth.Token)
	require.Equal(t, http.StatusCreated, status, env.Error)

	var upload struct {
		FileURL  string `json:"fileUrl"`
		FileName string `json:"fileName"`
		FileSize int64  `json:"fileSize"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &upload))
	assert.Contains(t, upload.FileURL, "http://localhost:8080/uploads/")

	status, env = s.json("POST", "/api/notes", auth.Token, map[string]interface{}{
		"title":    "Türev",
		"subject":  "matematik",
		"grade":    "12",
		"fileUrl":  upload.FileURL,
		"fileName": upload.FileName,
		"fileSize": upload.FileSize,
	})
	require.Equal(t, http.StatusCreated, status, env.Error)

	var note struct {
		ID         string `json:"id"`
		IsApproved bool   `json:"isApproved"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &note))
	assert.False(t, note.IsApproved)

	status, env = s.json("GET", "/api/notes?subject=matematik", "", nil)
	require.Equal(t, http.StatusOK, status)
	var notes []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, note.ID, notes[0]["id"])

	status, _ = s.json("DELETE", "/api/notes?id="+note.ID, auth.Token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = s.json("GET", "/api/notes/"+note.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_NotesRejectsOtherMethods(t *testing.T) {
	s := newTestServer(t)

	status, env := s.json("PATCH", "/api/notes", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.False(t, env.Success)
}

func TestAPI_Health(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)
}
