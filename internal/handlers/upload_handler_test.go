package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anonto42/media-share/backend/internal/assets"
	"github.com/anonto42/media-share/backend/internal/models"
	"github.com/anonto42/media-share/backend/internal/repositories"
	"github.com/stretchr/testify/require"
)

func TestUpload_ClassifiesMediaType(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		want        models.MediaType
	}{
		{name: "png", filename: "cat.png", contentType: "image/png", want: models.MediaTypeImage},
		{name: "jpeg", filename: "cat.JPG", contentType: "image/jpeg", want: models.MediaTypeImage},
		{name: "mp4", filename: "clip.mp4", contentType: "video/mp4", want: models.MediaTypeVideo},
		{name: "pdf is video", filename: "doc.pdf", contentType: "application/pdf", want: models.MediaTypeVideo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, envOptions{})

			rec := env.do(multipartRequest(t, []filePart{
				{field: "file", filename: tt.filename, contentType: tt.contentType, body: "payload"},
			}, nil))
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

			resp := decode[models.UploadResponse](t, rec)
			require.Equal(t, "File uploaded successfully", resp.Message)
			require.NotNil(t, resp.Post)
			require.Equal(t, tt.want, resp.Post.Type)
			require.Equal(t, resp.URL, resp.Post.URL)
			require.True(t, strings.HasPrefix(resp.URL, "/uploads/"), resp.URL)
			require.Equal(t, strings.ToLower(filepath.Ext(tt.filename)), filepath.Ext(resp.URL))
			require.Zero(t, resp.Post.Likes)
			require.Zero(t, resp.Post.Comments)

			posts, err := env.posts.GetAllPosts(context.Background())
			require.NoError(t, err)
			require.Len(t, posts, 1)
			require.Equal(t, resp.Post.ID, posts[0].ID)
		})
	}
}

func TestUpload_WritesFileToSink(t *testing.T) {
	dir := t.TempDir()
	sink, err := assets.NewLocalSink(dir, "/uploads")
	require.NoError(t, err)
	env := newTestEnv(t, envOptions{sink: sink})

	rec := env.do(multipartRequest(t, []filePart{
		{field: "file", filename: "cat.png", contentType: "image/png", body: "not really a png"},
	}, nil))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[models.UploadResponse](t, rec)
	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(resp.URL)))
	require.NoError(t, err)
	require.Equal(t, "not really a png", string(data))
}

func TestUpload_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		req     func(t *testing.T) *http.Request
		code    int
		message string
	}{
		{
			name: "no file",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, nil, map[string]string{"caption": "hello"})
			},
			code:    http.StatusBadRequest,
			message: "no file uploaded",
		},
		{
			name: "wrong field",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, []filePart{
					{field: "image", filename: "cat.png", contentType: "image/png", body: "x"},
				}, nil)
			},
			code:    http.StatusBadRequest,
			message: "no file uploaded",
		},
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				return jsonRequest(http.MethodPost, "/api/upload", `{"file":"cat.png"}`)
			},
			code:    http.StatusBadRequest,
			message: "no file uploaded",
		},
		{
			name: "two files",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, []filePart{
					{field: "file", filename: "a.png", contentType: "image/png", body: "a"},
					{field: "file", filename: "b.png", contentType: "image/png", body: "b"},
				}, nil)
			},
			code:    http.StatusBadRequest,
			message: "only one file may be uploaded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, envOptions{})

			rec := env.do(tt.req(t))
			requireError(t, rec, tt.code, tt.message)

			posts, err := env.posts.GetAllPosts(context.Background())
			require.NoError(t, err)
			require.Empty(t, posts)
		})
	}
}

func TestUpload_TooLarge(t *testing.T) {
	env := newTestEnv(t, envOptions{maxUpload: "1K"})

	rec := env.do(multipartRequest(t, []filePart{
		{field: "file", filename: "big.mp4", contentType: "video/mp4", body: strings.Repeat("x", 4096)},
	}, nil))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())

	posts, err := env.posts.GetAllPosts(context.Background())
	require.NoError(t, err)
	require.Empty(t, posts)
}

func TestUpload_SinkFailure(t *testing.T) {
	env := newTestEnv(t, envOptions{sink: failingSink{}})

	rec := env.do(multipartRequest(t, []filePart{
		{field: "file", filename: "cat.png", contentType: "image/png", body: "x"},
	}, nil))
	requireError(t, rec, http.StatusInternalServerError, "internal server error")
	require.NotContains(t, rec.Body.String(), "unreachable")

	posts, err := env.posts.GetAllPosts(context.Background())
	require.NoError(t, err)
	require.Empty(t, posts)
}

func TestUpload_InsertFailureKeepsStoredFile(t *testing.T) {
	dir := t.TempDir()
	sink, err := assets.NewLocalSink(dir, "/uploads")
	require.NoError(t, err)
	env := newTestEnv(t, envOptions{
		sink:  sink,
		posts: failingPostRepository{PostRepository: repositories.NewMemoryPostRepository()},
	})

	rec := env.do(multipartRequest(t, []filePart{
		{field: "file", filename: "cat.png", contentType: "image/png", body: "x"},
	}, nil))
	requireError(t, rec, http.StatusInternalServerError, "internal server error")
	require.NotContains(t, rec.Body.String(), "connection refused")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestUpload_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/upload", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.NotEmpty(t, decode[ErrorResponse](t, rec).Error)
}
