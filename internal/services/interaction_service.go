package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CTU-F-2025/forum-service/internal/auth"
	"github.com/CTU-F-2025/forum-service/internal/models"
	"github.com/CTU-F-2025/forum-service/internal/repositories"
	"github.com/CTU-F-2025/forum-service/internal/validator"
)

type interactionService struct {
	repo      repositories.Repository
	notifier  NotificationService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewInteractionService(repo repositories.Repository, notifier NotificationService, logger *slog.Logger, validator *validator.Validator) InteractionService {
	return &interactionService{
		repo:      repo,
		notifier:  notifier,
		logger:    logger,
		validator: validator,
	}
}

// ToggleLike flips the actor's like on an approved post. Calling it twice
// returns the post to its previous state; concurrent calls for the same
// pair settle on exactly one outcome thanks to the composite primary key.
func (s *interactionService) ToggleLike(ctx context.Context, postID uint, actor auth.Identity) (*ToggleLikeResponse, error) {
	var liked bool

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		post, err := tx.Post().GetByID(ctx, postID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrPostNotFound
			}
			return fmt.Errorf("failed to get post: %w", err)
		}
		if post.Status != models.StatusApproved {
			return ErrPostNotFound
		}

		removed, err := tx.Like().Delete(ctx, actor.UserID, postID)
		if err != nil {
			return err
		}
		if removed {
			liked = false
			return nil
		}

		err = tx.Like().Create(ctx, &models.Like{UserID: actor.UserID, PostID: postID})
		if err != nil {
			if repositories.IsDuplicateKeyError(err) {
				// A concurrent toggle inserted first; the like stands.
				liked = true
				return nil
			}
			return fmt.Errorf("failed to create like: %w", err)
		}
		liked = true

		content := fmt.Sprintf("%s liked your post '%s'.", actor.Username, post.Title)
		return s.notifier.Notify(ctx, tx, post.UserID, content, &post.ID)
	})
	if err != nil {
		return nil, err
	}

	count, err := s.repo.Like().CountByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Like toggled", "post_id", postID, "user_id", actor.UserID, "liked", liked)

	return &ToggleLikeResponse{
		Liked:     liked,
		LikeCount: count,
	}, nil
}

// AddComment appends a comment to an approved post and notifies the post's
// author. Comments are append-only; there is no edit or delete path.
func (s *interactionService) AddComment(ctx context.Context, postID uint, req *CreateCommentRequest, actor auth.Identity) (*models.CommentView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError(err)
	}

	var view models.CommentView
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		post, err := tx.Post().GetByID(ctx, postID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrPostNotFound
			}
			return fmt.Errorf("failed to get post: %w", err)
		}
		if post.Status != models.StatusApproved {
			return ErrPostNotFound
		}

		comment := &models.Comment{
			Content: req.Content,
			PostID:  postID,
			UserID:  actor.UserID,
		}
		if err := tx.Comment().Create(ctx, comment); err != nil {
			return err
		}

		author, err := tx.User().GetByID(ctx, actor.UserID)
		if err != nil {
			return fmt.Errorf("failed to get comment author: %w", err)
		}

		view = models.CommentView{
			ID:        comment.ID,
			Content:   comment.Content,
			Author:    author.FullName,
			CreatedAt: comment.CreatedAt,
		}

		content := fmt.Sprintf("%s commented on your post '%s'.", author.FullName, post.Title)
		return s.notifier.Notify(ctx, tx, post.UserID, content, &post.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Comment added", "post_id", postID, "user_id", actor.UserID, "comment_id", view.ID)
	return &view, nil
}

// ListComments returns a post's comments oldest-first. The post must be
// approved; the hidden flag does not gate comment reads.
func (s *interactionService) ListComments(ctx context.Context, postID uint) ([]models.CommentView, error) {
	post, err := s.repo.Post().GetByID(ctx, postID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post.Status != models.StatusApproved {
		return nil, ErrPostNotFound
	}

	return s.repo.Comment().ListViewsByPost(ctx, postID)
}
