package repositories

import (
	"context"

	"github.com/CTU-F-2025/forum-service/internal/models"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error

	// ListViewsByPost returns flat comment projections (author name joined
	// in) ordered by creation time ascending.
	ListViewsByPost(ctx context.Context, postID uint) ([]models.CommentView, error)

	// ListViewsByPosts batches the projection for the feed; the map key is
	// the post id.
	ListViewsByPosts(ctx context.Context, postIDs []uint) (map[uint][]models.CommentView, error)

	DeleteByPost(ctx context.Context, postID uint) error
}

type LikeRepository interface {
	// Create inserts a like row; a uniqueness violation on the composite key
	// surfaces as a duplicate-key error the caller must treat as benign.
	Create(ctx context.Context, like *models.Like) error

	// Delete removes the (user, post) like row and reports whether one existed.
	Delete(ctx context.Context, userID, postID uint) (bool, error)

	Exists(ctx context.Context, userID, postID uint) (bool, error)

	CountByPost(ctx context.Context, postID uint) (int64, error)
	CountByPosts(ctx context.Context, postIDs []uint) (map[uint]int64, error)

	// LikedPostIDs returns which of postIDs the user currently likes.
	LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error)

	DeleteByPost(ctx context.Context, postID uint) error
	DeleteByUser(ctx context.Context, userID uint) error
}
