package models

import "time"

// Notification is a rendered human-readable message, not a structured event.
// Created only as a side effect of moderation and interaction events.
type Notification struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	UserID  uint   `json:"user_id" gorm:"not null;index"`
	Content string `json:"content" gorm:"type:text;not null"`
	IsRead  bool   `json:"is_read" gorm:"not null;default:false"`
	PostID  *uint  `json:"post_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
