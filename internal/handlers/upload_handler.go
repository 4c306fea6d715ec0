package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anonto42/media-share/backend/internal/assets"
	"github.com/anonto42/media-share/backend/internal/metrics"
	"github.com/anonto42/media-share/backend/internal/models"
	"github.com/anonto42/media-share/backend/internal/repositories"
	"github.com/anonto42/media-share/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const uploadFormField = "file"

var tracer = otel.Tracer("github.com/anonto42/media-share/backend/internal/handlers")

// UploadHandler stores an uploaded file and records it as a post
type UploadHandler struct {
	sink           assets.Sink
	postRepository repositories.PostRepository
	metrics        *metrics.Metrics
	maxUploadSize  string
	now            func() time.Time
}

// NewUploadHandler creates a new UploadHandler. m may be nil.
func NewUploadHandler(sink assets.Sink, postRepo repositories.PostRepository, m *metrics.Metrics, maxUploadSize string) *UploadHandler {
	return &UploadHandler{
		sink:           sink,
		postRepository: postRepo,
		metrics:        m,
		maxUploadSize:  maxUploadSize,
		now:            time.Now,
	}
}

// RegisterUploadRoutes registers the upload route behind a body size limit
func (h *UploadHandler) RegisterUploadRoutes(g *echo.Group) {
	g.POST("/upload", h.Upload, middleware.BodyLimit(h.maxUploadSize))
}

// Upload persists the file to the asset sink, then inserts the post row.
// The two writes are not coordinated: if the insert fails the stored file stays behind.
func (h *UploadHandler) Upload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, "no file uploaded")
	}

	files := form.File[uploadFormField]
	switch {
	case len(files) == 0:
		return echo.NewHTTPError(http.StatusBadRequest, "no file uploaded")
	case len(files) > 1:
		return echo.NewHTTPError(http.StatusBadRequest, "only one file may be uploaded")
	}
	fh := files[0]

	src, err := fh.Open()
	if err != nil {
		return serverError(fmt.Errorf("open upload: %w", err))
	}
	defer src.Close()

	contentType := fh.Header.Get(echo.HeaderContentType)
	mediaType := models.MediaTypeFromContentType(contentType)

	ctx, span := tracer.Start(c.Request().Context(), "assets.Put")
	span.SetAttributes(
		attribute.String("media.content_type", contentType),
		attribute.Int64("media.size", fh.Size),
	)
	url, err := h.sink.Put(ctx, assets.Object{
		Key:         assets.NewObjectKey(fh.Filename, h.now()),
		ContentType: contentType,
		Size:        fh.Size,
		Body:        src,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store upload")
		span.End()
		return serverError(fmt.Errorf("store upload: %w", err))
	}
	span.End()

	post := &models.Post{URL: url, Type: mediaType}
	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		return serverError(fmt.Errorf("insert post for %s: %w", url, err))
	}

	if h.metrics != nil {
		h.metrics.Uploads.WithLabelValues(string(post.Type)).Inc()
	}
	logger.FromContext(ctx).Info("post created", "post_id", post.ID, "type", post.Type, "url", post.URL)

	return c.JSON(http.StatusCreated, models.UploadResponse{
		Message: "File uploaded successfully",
		URL:     url,
		Post:    post,
	})
}
