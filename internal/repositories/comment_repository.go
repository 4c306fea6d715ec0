package repositories

import (
	"context"

	"github.com/anonto42/media-share/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	// CreateComment inserts the comment only; counters are left to the caller.
	CreateComment(ctx context.Context, comment *models.Comment) error
	// CreateCommentAndIncrement inserts the comment and bumps the post's
	// comments counter atomically. An unknown post leaves no comment behind.
	CreateCommentAndIncrement(ctx context.Context, comment *models.Comment) (int, error)
	GetCommentsByPostID(ctx context.Context, postID uint) ([]models.Comment, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *PostgresCommentRepository) CreateCommentAndIncrement(ctx context.Context, comment *models.Comment) (int, error) {
	var count int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		n, err := incrementCounter(tx, comment.PostID, commentsColumn)
		if err != nil {
			return err
		}
		count = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetCommentsByPostID retrieves all comments for a post, newest first
func (r *PostgresCommentRepository) GetCommentsByPostID(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
