package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/anonto42/media-share/backend/internal/assets"
	"github.com/anonto42/media-share/backend/internal/models"
	"github.com/anonto42/media-share/backend/internal/repositories"
	"github.com/anonto42/media-share/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	e        *echo.Echo
	posts    *repositories.MemoryPostRepository
	comments *repositories.MemoryCommentRepository
}

type envOptions struct {
	sink          assets.Sink
	posts         repositories.PostRepository
	comments      repositories.CommentRepository
	transactional bool
	maxUpload     string
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	memPosts := repositories.NewMemoryPostRepository()
	memComments := repositories.NewMemoryCommentRepository(memPosts)

	var posts repositories.PostRepository = memPosts
	if opts.posts != nil {
		posts = opts.posts
	}
	var comments repositories.CommentRepository = memComments
	if opts.comments != nil {
		comments = opts.comments
	}
	if opts.sink == nil {
		sink, err := assets.NewLocalSink(t.TempDir(), "/uploads")
		require.NoError(t, err)
		opts.sink = sink
	}
	if opts.maxUpload == "" {
		opts.maxUpload = "500M"
	}

	e := echo.New()
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = ErrorHandler

	api := e.Group("/api")
	NewUploadHandler(opts.sink, posts, nil, opts.maxUpload).RegisterUploadRoutes(api)
	NewPostHandler(posts).RegisterPostRoutes(api)
	NewLikeHandler(posts).RegisterLikeRoutes(api)
	NewCommentHandler(comments, posts, opts.transactional).RegisterCommentRoutes(api)

	return &testEnv{e: e, posts: memPosts, comments: memComments}
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) createPost(t *testing.T) models.Post {
	t.Helper()
	p := &models.Post{URL: "/uploads/seed.png", Type: models.MediaTypeImage}
	require.NoError(t, env.posts.CreatePost(context.Background(), p))
	return *p
}

type filePart struct {
	field       string
	filename    string
	contentType string
	body        string
}

func multipartRequest(t *testing.T, files []filePart, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = io.WriteString(part, f.body)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, code int, msg string) {
	t.Helper()
	require.Equal(t, code, rec.Code, rec.Body.String())
	require.Equal(t, msg, decode[ErrorResponse](t, rec).Error)
}

type failingSink struct{}

func (failingSink) Put(context.Context, assets.Object) (string, error) {
	return "", errors.New("asset host unreachable")
}

// failingPostRepository fails inserts and delegates everything else
type failingPostRepository struct {
	repositories.PostRepository
}

func (failingPostRepository) CreatePost(context.Context, *models.Post) error {
	return errors.New("connection refused")
}

type brokenCommentRepository struct {
	repositories.CommentRepository
}

func (brokenCommentRepository) GetCommentsByPostID(context.Context, uint) ([]models.Comment, error) {
	return nil, errors.New("pq: relation \"comments\" does not exist")
}
