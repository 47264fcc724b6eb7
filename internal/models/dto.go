package models

import "time"

// ===== READ-SIDE PROJECTIONS =====
//
// Flat value snapshots returned by the read paths. Repositories populate
// them with explicit queries; no live object-graph references cross the
// service boundary.

type CommentView struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

type PostSummary struct {
	ID        uint          `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Type      PostType      `json:"type"`
	Author    string        `json:"author"`
	MediaURL  *string       `json:"media_url,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt *time.Time    `json:"updated_at,omitempty"`
	LikeCount int64         `json:"like_count"`
	Comments  []CommentView `json:"comments"`

	// Computed relative to the viewer; false for anonymous callers.
	ViewerLiked bool `json:"user_liked"`
	IsAuthor    bool `json:"is_author"`
}

type PendingPostView struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      PostType  `json:"type"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationView struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	PostID    *uint     `json:"post_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type UserProfile struct {
	ID          uint      `json:"id"`
	FullName    string    `json:"full_name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Contact     string    `json:"contact"`
	Role        UserRole  `json:"role"`
	Username    string    `json:"username"`
}
