package models

import (
	"strings"
	"time"
)

// MediaType classifies an uploaded asset
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// MediaTypeFromContentType derives the media type from a declared content type.
// Anything that is not image/* is treated as video.
func MediaTypeFromContentType(contentType string) MediaType {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image") {
		return MediaTypeImage
	}
	return MediaTypeVideo
}

// Post represents an uploaded media item stored in PostgreSQL
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	URL       string    `json:"url" gorm:"type:text;not null"`
	Type      MediaType `json:"type" gorm:"type:varchar(10);not null"`
	Likes     int       `json:"likes" gorm:"not null;default:0"`
	Comments  int       `json:"comments" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
}

// UploadResponse is returned after a successful upload
type UploadResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
	Post    *Post  `json:"post"`
}

// LikesResponse carries the updated likes counter
type LikesResponse struct {
	Likes int `json:"likes"`
}
