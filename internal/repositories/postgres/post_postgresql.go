package postgres

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/CTU-F-2025/forum-service/internal/cache"
	"github.com/CTU-F-2025/forum-service/internal/models"
	"github.com/CTU-F-2025/forum-service/internal/repositories"
)

type PostPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewPostPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.PostRepository {
	return &PostPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

func (r *PostPostgreSQL) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	cache.InvalidatePostCache(ctx, r.cacheManager, post.ID)
	return nil
}

func (r *PostPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostPostgreSQL) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	cache.InvalidatePostCache(ctx, r.cacheManager, post.ID)
	return nil
}

func (r *PostPostgreSQL) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	cache.InvalidatePostCache(ctx, r.cacheManager, id)
	return nil
}

func (r *PostPostgreSQL) List(ctx context.Context, filters repositories.PostFilters) ([]*models.Post, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{})
	query = applyPostFilters(query, filters)
	query = applyPostSorting(query, filters)

	var posts []*models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// UpdateStatusIfPending performs a conditional transition out of the pending
// state. RowsAffected tells us whether this call won the race; a second
// moderation attempt matches zero rows and reports false.
func (r *PostPostgreSQL) UpdateStatusIfPending(ctx context.Context, id uint, status models.PostStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Update("status", status)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update post status: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		cache.InvalidatePostCache(ctx, r.cacheManager, id)
		return true, nil
	}
	return false, nil
}

func (r *PostPostgreSQL) SetHidden(ctx context.Context, id uint, hidden bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Update("hidden", hidden)
	if result.Error != nil {
		return fmt.Errorf("failed to update post visibility: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	cache.InvalidatePostCache(ctx, r.cacheManager, id)
	return nil
}

func (r *PostPostgreSQL) CountByStatus(ctx context.Context) (*repositories.ModerationStats, error) {
	stats := &repositories.ModerationStats{}

	type statusCount struct {
		Status models.PostStatus
		Count  int64
	}
	var counts []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count posts by status: %w", err)
	}

	for _, c := range counts {
		stats.TotalPosts += c.Count
		switch c.Status {
		case models.StatusPending:
			stats.PendingPosts = c.Count
		case models.StatusApproved:
			stats.ApprovedPosts = c.Count
		case models.StatusRejected:
			stats.RejectedPosts = c.Count
		}
	}

	err = r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("hidden = ?", true).
		Count(&stats.HiddenPosts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count hidden posts: %w", err)
	}

	return stats, nil
}

func (r *PostPostgreSQL) ListReportRows(ctx context.Context) ([]repositories.PostReportRow, error) {
	var rows []repositories.PostReportRow
	err := r.db.WithContext(ctx).
		Table("posts").
		Select(`posts.id, posts.title, COALESCE(users.full_name, 'Unknown') as author,
			posts.status, posts.hidden,
			COUNT(likes.post_id) as like_count, posts.created_at`).
		Joins("LEFT JOIN users ON users.id = posts.user_id").
		Joins("LEFT JOIN likes ON likes.post_id = posts.id").
		Group("posts.id, users.full_name").
		Order("posts.created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to build post report: %w", err)
	}
	return rows, nil
}

// applyPostFilters applies the common post filters to a query.
func applyPostFilters(query *gorm.DB, filters repositories.PostFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Hidden != nil {
		query = query.Where("hidden = ?", *filters.Hidden)
	}
	if filters.AuthorID != nil {
		query = query.Where("user_id = ?", *filters.AuthorID)
	}
	if filters.Keyword != "" {
		pattern := "%" + filters.Keyword + "%"
		query = query.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
	}
	return query
}

// applyPostSorting applies sorting against a whitelist of columns so filter
// input can never reach the ORDER BY clause raw.
func applyPostSorting(query *gorm.DB, filters repositories.PostFilters) *gorm.DB {
	sortBy := "created_at"
	switch filters.SortBy {
	case "title":
		sortBy = "title"
	case "created_at", "":
	}

	sortOrder := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	return query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))
}
