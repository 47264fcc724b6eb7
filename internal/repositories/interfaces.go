package repositories

import (
	"time"

	"github.com/CTU-F-2025/forum-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type PostFilters struct {
	Status   *models.PostStatus `json:"status"`
	Hidden   *bool              `json:"hidden"`
	AuthorID *uint              `json:"author_id"`

	// Case-insensitive substring match against title or content.
	Keyword string `json:"keyword"`

	SortBy    string `json:"sort_by"`    // "created_at", "title"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

type UserFilters struct {
	Role   *models.UserRole `json:"role"`
	Query  string           `json:"query"` // matches full name or username
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// ===== SHARED PROJECTION STRUCTS =====

// PostReportRow is the flat row shape used by the admin moderation report.
type PostReportRow struct {
	ID        uint              `json:"id"`
	Title     string            `json:"title"`
	Author    string            `json:"author"`
	Status    models.PostStatus `json:"status"`
	Hidden    bool              `json:"hidden"`
	LikeCount int64             `json:"like_count"`
	CreatedAt time.Time         `json:"created_at"`
}

// ModerationStats summarizes the moderation pipeline for the admin report.
type ModerationStats struct {
	TotalPosts    int64 `json:"total_posts"`
	PendingPosts  int64 `json:"pending_posts"`
	ApprovedPosts int64 `json:"approved_posts"`
	RejectedPosts int64 `json:"rejected_posts"`
	HiddenPosts   int64 `json:"hidden_posts"`
}
