package repositories

import (
	"context"

	"github.com/CTU-F-2025/forum-service/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error

	// ListByUser returns the user's feed ordered by creation time descending.
	ListByUser(ctx context.Context, userID uint) ([]*models.Notification, error)

	// MarkRead flips the read flag for the recipient's own notification and
	// reports whether a row matched.
	MarkRead(ctx context.Context, id, userID uint) (bool, error)

	DeleteByUser(ctx context.Context, userID uint) error
}
