package repositories

import (
	"github.com/anonto42/media-share/backend/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the posts and comments tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Post{}, &models.Comment{})
}
