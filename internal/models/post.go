package models

import (
	"time"

	"gorm.io/datatypes"
)

type PostStatus string

const (
	StatusPending  PostStatus = "Pending"
	StatusApproved PostStatus = "Approved"
	StatusRejected PostStatus = "Rejected"
)

type PostType string

const (
	PostTypeText  PostType = "Text"
	PostTypeImage PostType = "Image"
	PostTypeVideo PostType = "Video"
)

type Post struct {
	ID      uint       `json:"id" gorm:"primaryKey"`
	Title   string     `json:"title" gorm:"not null;size:200;index"`
	Content string     `json:"content" gorm:"type:text;not null"`
	Type    PostType   `json:"type" gorm:"size:20;default:Text"`
	Status  PostStatus `json:"status" gorm:"not null;default:Pending;size:20;index"`

	// Visibility toggle, independent of moderation status. Only an
	// Approved AND not-hidden post is publicly readable.
	Hidden bool `json:"hidden" gorm:"not null;default:false;index"`

	// Owning author; immutable after creation.
	UserID uint `json:"user_id" gorm:"not null;index"`

	// Optional media attachment stored in blob storage; MediaURL holds the
	// storage key, MediaMeta holds client-supplied metadata (mime type, size).
	MediaURL  *string        `json:"media_url" gorm:"size:500"`
	MediaMeta datatypes.JSON `json:"media_meta,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"updated_at" gorm:"column:updated_at"`

	// Relations (cascade on delete; see repository delete for like/comment cleanup)
	Comments []Comment `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Likes    []Like    `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

func (Post) TableName() string {
	return "posts"
}
