package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/CTU-F-2025/forum-service/internal/models"
	"github.com/CTU-F-2025/forum-service/internal/repositories"
)

type LikePostgreSQL struct {
	db *gorm.DB
}

func NewLikePostgreSQL(db *gorm.DB) repositories.LikeRepository {
	return &LikePostgreSQL{db: db}
}

// Create inserts the like row. The composite primary key makes a concurrent
// double-like surface as a duplicate-key error, which callers handle.
func (r *LikePostgreSQL) Create(ctx context.Context, like *models.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *LikePostgreSQL) Delete(ctx context.Context, userID, postID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete like: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *LikePostgreSQL) Exists(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return count > 0, nil
}

func (r *LikePostgreSQL) CountByPost(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

func (r *LikePostgreSQL) CountByPosts(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	result := make(map[uint]int64, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	type likeCount struct {
		PostID uint
		Count  int64
	}
	var counts []likeCount
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Find(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count likes for posts: %w", err)
	}

	for _, c := range counts {
		result[c.PostID] = c.Count
	}
	return result, nil
}

func (r *LikePostgreSQL) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	var likedIDs []uint
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Select("post_id").
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Find(&likedIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up liked posts: %w", err)
	}

	for _, id := range likedIDs {
		result[id] = true
	}
	return result, nil
}

func (r *LikePostgreSQL) DeleteByPost(ctx context.Context, postID uint) error {
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&models.Like{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete likes for post: %w", err)
	}
	return nil
}

func (r *LikePostgreSQL) DeleteByUser(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Like{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete likes for user: %w", err)
	}
	return nil
}
