package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestClient_LoginStoresTokenAndSendsBearer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "a@x.com", in["email"])
		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"token": "tok-1", "user": map[string]string{"id": "user-1"}},
		})
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    map[string]string{"id": "user-1", "name": "Ayşe"},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL + "/")
	result, err := c.Login(context.Background(), "a@x.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", result.Token)
	assert.Equal(t, "tok-1", c.Token())

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ayşe", me.Name)
}

func TestClient_ErrorFromEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "Validation failed",
			"fields":  map[string]string{"title": "title is required"},
		})
	}))
	defer srv.Close()

	_, err := New(srv.URL, WithToken("t")).CreateNote(context.Background(), usecase.NoteInput{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Validation failed", apiErr.Message)
	assert.Equal(t, "title is required", apiErr.Fields["title"])
}

func TestClient_ErrorWithoutEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream down</html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListNotes(context.Background(), NoteQuery{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestClient_ListNotesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/notes", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "fizik", q.Get("subject"))
		assert.Equal(t, "11", q.Get("grade"))
		assert.Equal(t, "5", q.Get("limit"))
		assert.False(t, q.Has("offset"))
		assert.Empty(t, r.Header.Get("Authorization"))
		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    []map[string]interface{}{{"id": "n1", "subject": "fizik", "rating": 4.5}},
		})
	}))
	defer srv.Close()

	notes, err := New(srv.URL).ListNotes(context.Background(), NoteQuery{
		Subject: entity.SubjectFizik,
		Grade:   entity.Grade11,
		Limit:   5,
	})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "n1", notes[0].ID)
	assert.Equal(t, 4.5, notes[0].Rating)
}

func TestClient_UpdateAndDeleteNote(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPut {
			var in map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "Yeni", in["title"])
			assert.Nil(t, in["grade"])
			writeEnvelope(w, http.StatusOK, map[string]interface{}{"success": true, "data": map[string]string{"id": "n1", "title": "Yeni"}})
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]interface{}{"success": true})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("t"))
	title := "Yeni"
	note, err := c.UpdateNote(context.Background(), "n1", usecase.NoteUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Yeni", note.Title)

	require.NoError(t, c.DeleteNote(context.Background(), "n1"))
	assert.Equal(t, []string{"PUT /api/notes/n1", "DELETE /api/notes/n1"}, seen)
}

func TestClient_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4", string(content))
		assert.Equal(t, "ozet.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))

		writeEnvelope(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"fileName": "abc.pdf", "fileUrl": "http://cdn/uploads/abc.pdf", "fileSize": len(content), "originalName": "ozet.pdf",
			},
		})
	}))
	defer srv.Close()

	result, err := New(srv.URL, WithToken("t")).Upload(context.Background(), "ozet.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/uploads/abc.pdf", result.FileURL)
	assert.Equal(t, int64(8), result.FileSize)
}

func TestClient_LogoutDropsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "error": "Session expired"})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("t"))
	err := c.Logout(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Session expired", apiErr.Message)
	assert.Empty(t, c.Token())
}
