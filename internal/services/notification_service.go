package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CTU-F-2025/forum-service/internal/events"
	"github.com/CTU-F-2025/forum-service/internal/models"
	"github.com/CTU-F-2025/forum-service/internal/repositories"
)

const topicNotifications = "forum.notifications"

type notificationService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewNotificationService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) NotificationService {
	return &notificationService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Notify appends a notification through the given repository, which may be
// transaction-bound so the notification commits with the action that caused
// it. The broker publish is best-effort and happens outside that guarantee.
func (s *notificationService) Notify(ctx context.Context, repo repositories.Repository, userID uint, content string, postID *uint) error {
	notification := &models.Notification{
		UserID:  userID,
		Content: content,
		PostID:  postID,
	}

	if err := repo.Notification().Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if s.publisher != nil {
		event := events.NewEvent("notification.created", map[string]interface{}{
			"notification_id": notification.ID,
			"user_id":         userID,
			"content":         content,
		})
		if err := s.publisher.Publish(ctx, topicNotifications, event); err != nil {
			s.logger.Warn("Failed to publish notification event", "user_id", userID, "error", err)
		}
	}

	return nil
}

func (s *notificationService) ListForUser(ctx context.Context, userID uint) ([]models.NotificationView, error) {
	notifications, err := s.repo.Notification().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]models.NotificationView, len(notifications))
	for i, n := range notifications {
		views[i] = models.NotificationView{
			ID:        n.ID,
			Content:   n.Content,
			IsRead:    n.IsRead,
			PostID:    n.PostID,
			CreatedAt: n.CreatedAt,
		}
	}
	return views, nil
}

// MarkRead flips the read flag. Only the recipient can mark their own
// notifications; anything else looks like a missing notification.
func (s *notificationService) MarkRead(ctx context.Context, id, userID uint) error {
	matched, err := s.repo.Notification().MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotificationNotFound
	}
	return nil
}
