package services

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/CTU-F-2025/forum-service/internal/auth"
	"github.com/CTU-F-2025/forum-service/internal/cache"
	"github.com/CTU-F-2025/forum-service/internal/events"
	"github.com/CTU-F-2025/forum-service/internal/models"
	"github.com/CTU-F-2025/forum-service/internal/repositories"
	"github.com/CTU-F-2025/forum-service/internal/storage"
	"github.com/CTU-F-2025/forum-service/internal/validator"
)

const (
	mediaUploadTTL = 15 * time.Minute

	topicPosts = "forum.posts"
)

type postService struct {
	repo         repositories.Repository
	media        storage.MediaStore
	notifier     NotificationService
	publisher    events.EventPublisher
	cacheManager *cache.CacheManager
	logger       *slog.Logger
	validator    *validator.Validator
}

func NewPostService(
	repo repositories.Repository,
	media storage.MediaStore,
	notifier NotificationService,
	publisher events.EventPublisher,
	cacheManager *cache.CacheManager,
	logger *slog.Logger,
	validator *validator.Validator,
) PostService {
	return &postService{
		repo:         repo,
		media:        media,
		notifier:     notifier,
		publisher:    publisher,
		cacheManager: cacheManager,
		logger:       logger,
		validator:    validator,
	}
}

// ===== WRITE OPERATIONS =====

// Create submits a post for moderation. Every post starts Pending, visible
// to its author and admins only.
func (s *postService) Create(ctx context.Context, req *CreatePostRequest, actor auth.Identity) (*models.Post, error) {
	s.logger.Info("Creating post", "user_id", actor.UserID, "title", req.Title)

	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError(err)
	}

	post := &models.Post{
		Title:     req.Title,
		Content:   req.Content,
		Type:      req.Type,
		Status:    models.StatusPending,
		UserID:    actor.UserID,
		MediaURL:  req.MediaURL,
		MediaMeta: req.MediaMeta,
	}

	if err := s.repo.Post().Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.publishPostEvent(ctx, "post.submitted", post)
	s.logger.Info("Post created", "post_id", post.ID, "user_id", actor.UserID)

	return post, nil
}

// Update edits an owned post. Moderation status is left untouched; an
// already approved post stays approved after an edit.
func (s *postService) Update(ctx context.Context, id uint, req *UpdatePostRequest, actor auth.Identity) (*models.Post, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError(err)
	}

	var updated *models.Post
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		post, err := tx.Post().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrPostNotFound
			}
			return fmt.Errorf("failed to get post: %w", err)
		}

		if post.UserID != actor.UserID {
			return NewPermissionError(actor.UserID, "post", id, "update", "not the author")
		}

		if req.Title != nil {
			post.Title = *req.Title
		}
		if req.Content != nil {
			post.Content = *req.Content
		}
		if req.Type != nil {
			post.Type = *req.Type
		}
		if req.MediaURL != nil {
			post.MediaURL = req.MediaURL
		}
		if req.MediaMeta != nil {
			post.MediaMeta = req.MediaMeta
		}

		now := time.Now()
		post.EditedAt = &now

		if err := tx.Post().Update(ctx, post); err != nil {
			return fmt.Errorf("failed to update post: %w", err)
		}

		updated = post
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Post updated", "post_id", id, "user_id", actor.UserID)
	return updated, nil
}

// Delete removes an owned post together with its comments and likes, then
// drops the media blob best-effort.
func (s *postService) Delete(ctx context.Context, id uint, actor auth.Identity) error {
	var mediaKey *string

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		post, err := tx.Post().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrPostNotFound
			}
			return fmt.Errorf("failed to get post: %w", err)
		}

		if post.UserID != actor.UserID {
			return NewPermissionError(actor.UserID, "post", id, "delete", "not the author")
		}

		mediaKey = post.MediaURL

		if err := tx.Comment().DeleteByPost(ctx, id); err != nil {
			return err
		}
		if err := tx.Like().DeleteByPost(ctx, id); err != nil {
			return err
		}
		return tx.Post().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if mediaKey != nil && s.media != nil {
		if err := s.media.Delete(ctx, *mediaKey); err != nil {
			s.logger.Warn("Failed to delete media for post", "post_id", id, "error", err)
		}
	}

	s.logger.Info("Post deleted", "post_id", id, "user_id", actor.UserID)
	return nil
}

// SetHidden toggles visibility without touching moderation status. The
// author or an admin may flip it.
func (s *postService) SetHidden(ctx context.Context, id uint, hidden bool, actor auth.Identity) error {
	post, err := s.repo.Post().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to get post: %w", err)
	}

	if post.UserID != actor.UserID && !actor.IsAdmin() {
		return NewPermissionError(actor.UserID, "post", id, "hide", "not the author or an admin")
	}

	if post.Hidden == hidden {
		return nil // idempotent
	}

	if err := s.repo.Post().SetHidden(ctx, id, hidden); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to update visibility: %w", err)
	}

	s.logger.Info("Post visibility changed", "post_id", id, "hidden", hidden, "user_id", actor.UserID)
	return nil
}

// ===== READ OPERATIONS =====

// GetByID applies the same visibility rule as the public feed: only an
// approved, not-hidden post is readable here, for authors and admins too.
// Authors reach their own posts through ListMine/ListMineHidden, admins
// through the pending queue.
func (s *postService) GetByID(ctx context.Context, id uint, viewer *auth.Identity) (*models.PostSummary, error) {
	post, err := s.repo.Post().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	if post.Status != models.StatusApproved || post.Hidden {
		// Invisible posts are indistinguishable from missing ones.
		return nil, ErrPostNotFound
	}

	summaries, err := s.buildSummaries(ctx, []*models.Post{post}, viewer)
	if err != nil {
		return nil, err
	}
	return summaries[0], nil
}

func (s *postService) ListApproved(ctx context.Context, filters FeedFilters, viewer *auth.Identity) (*PostListResponse, error) {
	hidden := false
	status := models.StatusApproved
	postFilters := repositories.PostFilters{
		Status:    &status,
		Hidden:    &hidden,
		Keyword:   filters.Keyword,
		SortBy:    filters.SortBy,
		SortOrder: filters.SortOrder,
	}

	// The anonymous default feed is the hot path; serve it cache-aside.
	if viewer == nil && filters == (FeedFilters{}) {
		var cached PostListResponse
		err := s.cacheManager.Feed.CacheOrExecute(ctx, "list:default", &cached, cache.FeedCacheConfig.TTL, func() (interface{}, error) {
			return s.assembleFeed(ctx, postFilters, nil)
		})
		if err != nil {
			return nil, err
		}
		return &cached, nil
	}

	return s.assembleFeed(ctx, postFilters, viewer)
}

// ListMine returns the caller's own approved, visible posts; ListMineHidden
// returns the approved posts the caller has hidden from the feed.
func (s *postService) ListMine(ctx context.Context, actor auth.Identity) (*PostListResponse, error) {
	return s.listOwn(ctx, actor, false)
}

func (s *postService) ListMineHidden(ctx context.Context, actor auth.Identity) (*PostListResponse, error) {
	return s.listOwn(ctx, actor, true)
}

func (s *postService) listOwn(ctx context.Context, actor auth.Identity, hidden bool) (*PostListResponse, error) {
	authorID := actor.UserID
	status := models.StatusApproved
	return s.assembleFeed(ctx, repositories.PostFilters{
		Status:   &status,
		Hidden:   &hidden,
		AuthorID: &authorID,
	}, &actor)
}

// ===== MODERATION =====

func (s *postService) Approve(ctx context.Context, id uint, actor auth.Identity) error {
	return s.moderate(ctx, id, models.StatusApproved, actor)
}

func (s *postService) Reject(ctx context.Context, id uint, actor auth.Identity) error {
	return s.moderate(ctx, id, models.StatusRejected, actor)
}

// moderate transitions a pending post exactly once. The conditional update
// means one of two racing moderation calls loses and sees not-found.
func (s *postService) moderate(ctx context.Context, id uint, status models.PostStatus, actor auth.Identity) error {
	if !actor.IsAdmin() {
		return NewPermissionError(actor.UserID, "post", id, "moderate", "admin role required")
	}

	verdict := "approved"
	if status == models.StatusRejected {
		verdict = "rejected"
	}

	var post *models.Post
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		post, err = tx.Post().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrPostNotFound
			}
			return fmt.Errorf("failed to get post: %w", err)
		}

		changed, err := tx.Post().UpdateStatusIfPending(ctx, id, status)
		if err != nil {
			return err
		}
		if !changed {
			// Already moderated; terminal states never transition again.
			return ErrPostNotFound
		}

		content := fmt.Sprintf("Your post '%s' has been %s.", post.Title, verdict)
		return s.notifier.Notify(ctx, tx, post.UserID, content, &post.ID)
	})
	if err != nil {
		return err
	}

	post.Status = status
	s.publishPostEvent(ctx, "post."+verdict, post)
	s.logger.Info("Post moderated", "post_id", id, "status", status, "admin_id", actor.UserID)

	return nil
}

func (s *postService) ListPending(ctx context.Context, actor auth.Identity) ([]models.PendingPostView, error) {
	if !actor.IsAdmin() {
		return nil, NewPermissionError(actor.UserID, "post", 0, "list pending", "admin role required")
	}

	status := models.StatusPending
	posts, err := s.repo.Post().List(ctx, repositories.PostFilters{
		Status:    &status,
		SortOrder: "asc", // oldest submissions first
	})
	if err != nil {
		return nil, err
	}

	names, err := s.authorNames(ctx, posts)
	if err != nil {
		return nil, err
	}

	views := make([]models.PendingPostView, len(posts))
	for i, post := range posts {
		views[i] = models.PendingPostView{
			ID:        post.ID,
			Title:     post.Title,
			Content:   post.Content,
			Type:      post.Type,
			Author:    authorName(names, post.UserID),
			CreatedAt: post.CreatedAt,
		}
	}
	return views, nil
}

// ===== MEDIA =====

func (s *postService) PresignMediaUpload(ctx context.Context, req *PresignUploadRequest, actor auth.Identity) (*MediaUploadTicket, error) {
	if s.media == nil {
		return nil, ErrMediaNotConfigured
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError(err)
	}

	key := fmt.Sprintf("posts/%d/%s%s", actor.UserID, uuid.NewString(), path.Ext(req.FileName))
	url, err := s.media.PresignUpload(ctx, key, req.ContentType, mediaUploadTTL)
	if err != nil {
		return nil, NewInternalError("failed to presign upload", err)
	}

	return &MediaUploadTicket{
		UploadURL: url,
		Key:       key,
		ExpiresAt: time.Now().Add(mediaUploadTTL),
	}, nil
}

// ===== HELPERS =====

func (s *postService) assembleFeed(ctx context.Context, filters repositories.PostFilters, viewer *auth.Identity) (*PostListResponse, error) {
	posts, err := s.repo.Post().List(ctx, filters)
	if err != nil {
		return nil, err
	}

	summaries, err := s.buildSummaries(ctx, posts, viewer)
	if err != nil {
		return nil, err
	}

	return &PostListResponse{
		Posts: summaries,
		Total: int64(len(summaries)),
	}, nil
}

// buildSummaries assembles flat post projections with batched lookups so a
// feed of N posts costs a constant number of queries.
func (s *postService) buildSummaries(ctx context.Context, posts []*models.Post, viewer *auth.Identity) ([]*models.PostSummary, error) {
	postIDs := make([]uint, len(posts))
	for i, post := range posts {
		postIDs[i] = post.ID
	}

	likeCounts, err := s.repo.Like().CountByPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.Comment().ListViewsByPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	names, err := s.authorNames(ctx, posts)
	if err != nil {
		return nil, err
	}

	var liked map[uint]bool
	if viewer != nil {
		liked, err = s.repo.Like().LikedPostIDs(ctx, viewer.UserID, postIDs)
		if err != nil {
			return nil, err
		}
	}

	summaries := make([]*models.PostSummary, len(posts))
	for i, post := range posts {
		postComments := comments[post.ID]
		if postComments == nil {
			postComments = []models.CommentView{}
		}

		summary := &models.PostSummary{
			ID:        post.ID,
			Title:     post.Title,
			Content:   post.Content,
			Type:      post.Type,
			Author:    authorName(names, post.UserID),
			MediaURL:  post.MediaURL,
			CreatedAt: post.CreatedAt,
			UpdatedAt: post.EditedAt,
			LikeCount: likeCounts[post.ID],
			Comments:  postComments,
		}
		if viewer != nil {
			summary.ViewerLiked = liked[post.ID]
			summary.IsAuthor = viewer.UserID == post.UserID
		}
		summaries[i] = summary
	}
	return summaries, nil
}

func (s *postService) authorNames(ctx context.Context, posts []*models.Post) (map[uint]string, error) {
	ids := make([]uint, 0, len(posts))
	seen := make(map[uint]bool, len(posts))
	for _, post := range posts {
		if !seen[post.UserID] {
			seen[post.UserID] = true
			ids = append(ids, post.UserID)
		}
	}

	names, err := s.repo.User().NamesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve author names: %w", err)
	}
	return names, nil
}

// authorName renders deleted accounts as "Unknown" instead of failing the
// whole feed.
func authorName(names map[uint]string, userID uint) string {
	if name, ok := names[userID]; ok {
		return name
	}
	return "Unknown"
}

func (s *postService) publishPostEvent(ctx context.Context, eventType string, post *models.Post) {
	if s.publisher == nil {
		return
	}

	event := events.NewEvent(eventType, map[string]interface{}{
		"post_id": post.ID,
		"user_id": post.UserID,
		"status":  post.Status,
	})
	if err := s.publisher.Publish(ctx, topicPosts, event); err != nil {
		s.logger.Warn("Failed to publish post event", "event_type", eventType, "post_id", post.ID, "error", err)
	}
}
