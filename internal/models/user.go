package models

import (
	"time"
)

type UserRole string

const (
	RoleStudent UserRole = "Student"
	RoleAdmin   UserRole = "Admin"
)

type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FullName    string    `json:"full_name" gorm:"not null;size:100"`
	DateOfBirth time.Time `json:"date_of_birth" gorm:"not null"`
	Contact     string    `json:"contact" gorm:"size:255"`
	Role        UserRole  `json:"role" gorm:"not null;default:Student;size:20;index"`
	Username    string    `json:"username" gorm:"uniqueIndex;not null;size:100"`

	// Never serialized; only the one-way hash is stored.
	PasswordHash string `json:"-" gorm:"not null;size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
