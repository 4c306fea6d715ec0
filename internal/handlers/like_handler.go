package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/media-share/backend/internal/models"
	"github.com/anonto42/media-share/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	postRepository repositories.PostRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(postRepo repositories.PostRepository) *LikeHandler {
	return &LikeHandler{postRepository: postRepo}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.LikePost)
}

// LikePost increments the post's likes counter in a single statement
func (h *LikeHandler) LikePost(c echo.Context) error {
	postID, err := parsePostID(c)
	if err != nil {
		return err
	}

	likes, err := h.postRepository.IncrementLikes(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		return serverError(err)
	}

	return c.JSON(http.StatusOK, models.LikesResponse{Likes: likes})
}
