package models

import "time"

// Comment represents a text comment on a post.
// PostID is indexed but carries no foreign key constraint.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"index;not null"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// CommentsResponse carries the updated comments counter
type CommentsResponse struct {
	Comments int `json:"comments"`
}
