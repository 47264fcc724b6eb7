package repositories

import (
	"context"

	"github.com/CTU-F-2025/forum-service/internal/models"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters PostFilters) ([]*models.Post, error)

	// UpdateStatusIfPending transitions the post's moderation status and
	// reports whether a row actually changed. The conditional update is what
	// guarantees exactly one of two concurrent moderation calls succeeds.
	UpdateStatusIfPending(ctx context.Context, id uint, status models.PostStatus) (bool, error)

	SetHidden(ctx context.Context, id uint, hidden bool) error

	CountByStatus(ctx context.Context) (*ModerationStats, error)
	ListReportRows(ctx context.Context) ([]PostReportRow, error)
}
