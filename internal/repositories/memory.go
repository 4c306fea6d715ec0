package repositories

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/anonto42/media-share/backend/internal/models"
)

// MemoryPostRepository keeps posts in process memory. Ids start at 1.
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts []models.Post
}

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{}
}

func (r *MemoryPostRepository) CreatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post.ID = uint(len(r.posts) + 1)
	post.Likes = 0
	post.Comments = 0
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	r.posts = append(r.posts, *post)
	return nil
}

func (r *MemoryPostRepository) GetAllPosts(_ context.Context) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Post, len(r.posts))
	copy(out, r.posts)
	slices.Reverse(out)
	return out, nil
}

func (r *MemoryPostRepository) IncrementLikes(_ context.Context, postID uint) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.lookup(postID)
	if !ok {
		return 0, ErrPostNotFound
	}
	p.Likes++
	return p.Likes, nil
}

func (r *MemoryPostRepository) IncrementComments(_ context.Context, postID uint) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.lookup(postID)
	if !ok {
		return 0, ErrPostNotFound
	}
	p.Comments++
	return p.Comments, nil
}

// lookup must be called with mu held.
func (r *MemoryPostRepository) lookup(postID uint) (*models.Post, bool) {
	if postID == 0 || int(postID) > len(r.posts) {
		return nil, false
	}
	return &r.posts[postID-1], true
}

// MemoryCommentRepository keeps comments in process memory
type MemoryCommentRepository struct {
	mu       sync.RWMutex
	comments []models.Comment
	posts    PostRepository
}

// NewMemoryCommentRepository creates a comment store that increments
// counters through posts.
func NewMemoryCommentRepository(posts PostRepository) *MemoryCommentRepository {
	return &MemoryCommentRepository{posts: posts}
}

func (r *MemoryCommentRepository) CreateComment(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.insert(comment)
	return nil
}

func (r *MemoryCommentRepository) CreateCommentAndIncrement(ctx context.Context, comment *models.Comment) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, err := r.posts.IncrementComments(ctx, comment.PostID)
	if err != nil {
		return 0, err
	}
	r.insert(comment)
	return n, nil
}

func (r *MemoryCommentRepository) GetCommentsByPostID(_ context.Context, postID uint) ([]models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Comment, 0)
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Comment) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return int(b.ID) - int(a.ID)
	})
	return out, nil
}

// insert must be called with mu held.
func (r *MemoryCommentRepository) insert(comment *models.Comment) {
	comment.ID = uint(len(r.comments) + 1)
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	r.comments = append(r.comments, *comment)
}
