package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/media-share/backend/internal/models"
	"github.com/anonto42/media-share/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	transactional     bool
}

// NewCommentHandler creates a new CommentHandler. With transactional set the
// comment insert and counter increment commit together; otherwise they are two
// independent statements and an unknown post leaves an orphaned comment.
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, transactional bool) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		transactional:     transactional,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comment", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetCommentsByPostID)
}

// CreateComment adds a comment and returns the post's new comments count
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID, err := parsePostID(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "comment text is required")
	}

	ctx := c.Request().Context()
	comment := &models.Comment{PostID: postID, Text: req.Text}

	var count int
	if h.transactional {
		count, err = h.commentRepository.CreateCommentAndIncrement(ctx, comment)
	} else {
		if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
			return serverError(err)
		}
		count, err = h.postRepository.IncrementComments(ctx, postID)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		return serverError(err)
	}

	return c.JSON(http.StatusOK, models.CommentsResponse{Comments: count})
}

// GetCommentsByPostID lists a post's comments, newest first.
// The post is not required to exist.
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID, err := parsePostID(c)
	if err != nil {
		return err
	}

	comments, err := h.commentRepository.GetCommentsByPostID(c.Request().Context(), postID)
	if err != nil {
		return serverError(err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return c.JSON(http.StatusOK, comments)
}
