package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/media-share/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrPostNotFound is returned when an operation targets a post id with no row
var ErrPostNotFound = errors.New("post not found")

const (
	likesColumn    = "likes"
	commentsColumn = "comments"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetAllPosts(ctx context.Context) ([]models.Post, error)
	IncrementLikes(ctx context.Context, postID uint) (int, error)
	IncrementComments(ctx context.Context, postID uint) (int, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost inserts a post with both counters at zero
func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.Likes = 0
	post.Comments = 0
	return r.db.WithContext(ctx).Create(post).Error
}

// GetAllPosts returns every post, newest id first
func (r *PostgresPostRepository) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// IncrementLikes bumps the likes counter and returns the new value
func (r *PostgresPostRepository) IncrementLikes(ctx context.Context, postID uint) (int, error) {
	return incrementCounter(r.db.WithContext(ctx), postID, likesColumn)
}

// IncrementComments bumps the comments counter and returns the new value
func (r *PostgresPostRepository) IncrementComments(ctx context.Context, postID uint) (int, error) {
	return incrementCounter(r.db.WithContext(ctx), postID, commentsColumn)
}

// incrementCounter runs a single UPDATE ... SET col = col + 1 ... RETURNING col,
// so concurrent callers never lose an increment.
func incrementCounter(tx *gorm.DB, postID uint, column string) (int, error) {
	var post models.Post
	res := tx.Model(&post).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: column}}}).
		Where("id = ?", postID).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return 0, fmt.Errorf("increment %s: %w", column, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrPostNotFound
	}

	if column == likesColumn {
		return post.Likes, nil
	}
	return post.Comments, nil
}
