package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/CTU-F-2025/forum-service/internal/models"
	"github.com/CTU-F-2025/forum-service/internal/repositories"
)

type CommentPostgreSQL struct {
	db *gorm.DB
}

func NewCommentPostgreSQL(db *gorm.DB) repositories.CommentRepository {
	return &CommentPostgreSQL{db: db}
}

func (r *CommentPostgreSQL) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *CommentPostgreSQL) ListViewsByPost(ctx context.Context, postID uint) ([]models.CommentView, error) {
	views := []models.CommentView{}
	err := r.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.content, COALESCE(users.full_name, 'Unknown') as author, comments.created_at").
		Joins("LEFT JOIN users ON users.id = comments.user_id").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at ASC").
		Find(&views).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return views, nil
}

func (r *CommentPostgreSQL) ListViewsByPosts(ctx context.Context, postIDs []uint) (map[uint][]models.CommentView, error) {
	result := make(map[uint][]models.CommentView, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	type commentRow struct {
		models.CommentView
		PostID uint
	}
	var rows []commentRow
	err := r.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.post_id, comments.content, COALESCE(users.full_name, 'Unknown') as author, comments.created_at").
		Joins("LEFT JOIN users ON users.id = comments.user_id").
		Where("comments.post_id IN ?", postIDs).
		Order("comments.created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for posts: %w", err)
	}

	for _, row := range rows {
		result[row.PostID] = append(result[row.PostID], row.CommentView)
	}
	return result, nil
}

func (r *CommentPostgreSQL) DeleteByPost(ctx context.Context, postID uint) error {
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&models.Comment{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete comments for post: %w", err)
	}
	return nil
}
