// Package client is a typed Go client for the notes API. It attaches the
// bearer token, decodes the response envelope and turns failures into
// *APIError values.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/usecase"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New builds a client for baseURL, the server root without the /api prefix.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string { return c.token }

func (c *Client) SetToken(token string) { c.token = token }

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out interface{}) error {
	u := c.baseURL + "/api" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || (decodeErr == nil && !env.Success) {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if decodeErr == nil && env.Error != "" {
			apiErr.Message = env.Error
			apiErr.Fields = env.Fields
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, nil, body, contentType, out)
}

// Register creates an account and keeps the returned token for later calls.
func (c *Client) Register(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error) {
	var result usecase.AuthResult
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", in, &result); err != nil {
		return nil, err
	}
	c.token = result.Token
	return &result, nil
}

// Login opens a session and keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*usecase.AuthResult, error) {
	var result usecase.AuthResult
	in := usecase.LoginInput{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", in, &result); err != nil {
		return nil, err
	}
	c.token = result.Token
	return &result, nil
}

func (c *Client) Me(ctx context.Context) (*entity.User, error) {
	var user entity.User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout ends the current session. The token is dropped even if the call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.token = ""
	return err
}

// NoteQuery filters ListNotes. Zero values are left out of the request.
type NoteQuery struct {
	Subject  entity.Subject
	Grade    entity.Grade
	AuthorID string
	Query    string
	Approved *bool
	Limit    int
	Offset   int
}

func (q NoteQuery) values() url.Values {
	v := url.Values{}
	if q.Subject != "" {
		v.Set("subject", string(q.Subject))
	}
	if q.Grade != "" {
		v.Set("grade", string(q.Grade))
	}
	if q.AuthorID != "" {
		v.Set("author", q.AuthorID)
	}
	if q.Query != "" {
		v.Set("q", q.Query)
	}
	if q.Approved != nil {
		v.Set("approved", strconv.FormatBool(*q.Approved))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	return v
}

func (c *Client) ListNotes(ctx context.Context, q NoteQuery) ([]*entity.Note, error) {
	var notes []*entity.Note
	if err := c.do(ctx, http.MethodGet, "/notes", q.values(), nil, "", &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) GetNote(ctx context.Context, id string) (*entity.Note, error) {
	var note entity.Note
	if err := c.doJSON(ctx, http.MethodGet, "/notes/"+url.PathEscape(id), nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) CreateNote(ctx context.Context, in usecase.NoteInput) (*entity.Note, error) {
	var note entity.Note
	if err := c.doJSON(ctx, http.MethodPost, "/notes", in, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) UpdateNote(ctx context.Context, id string, in usecase.NoteUpdate) (*entity.Note, error) {
	var note entity.Note
	if err := c.doJSON(ctx, http.MethodPut, "/notes/"+url.PathEscape(id), in, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), nil, nil)
}

// Upload sends one file as multipart form data. contentType is declared on
// the part and must match what the server sniffs from the content.
func (c *Client) Upload(ctx context.Context, fileName, contentType string, r io.Reader) (*usecase.UploadResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	var result usecase.UploadResult
	if err := c.do(ctx, http.MethodPost, "/upload", nil, body, writer.FormDataContentType(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
