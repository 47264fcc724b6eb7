package models

import "time"

// Like rows exist while the user currently likes the post. The composite
// primary key is the uniqueness backstop for the toggle under concurrency.
type Like struct {
	UserID uint `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	PostID uint `json:"post_id" gorm:"primaryKey;autoIncrement:false"`

	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}
