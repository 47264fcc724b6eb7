package validator

import (
	"time"

	"gorm.io/datatypes"

	"github.com/CTU-F-2025/forum-service/internal/models"
)

// RegisterRequest represents the request structure for account registration.
// Every account created through registration starts as a Student.
type RegisterRequest struct {
	FullName    string    `json:"full_name" validate:"required,max=200"`
	DateOfBirth time.Time `json:"date_of_birth" validate:"required,past_date"`
	Contact     string    `json:"contact" validate:"required,max=200"`
	Username    string    `json:"username" validate:"required,alphanum,min=3,max=50"`
	Password    string    `json:"password" validate:"required,min=6,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest updates descriptive fields; credentials change via
// UpdateLoginRequest which requires re-authentication.
type UpdateProfileRequest struct {
	FullName    *string    `json:"full_name" validate:"omitempty,max=200"`
	DateOfBirth *time.Time `json:"date_of_birth" validate:"omitempty,past_date"`
	Contact     *string    `json:"contact" validate:"omitempty,max=200"`
}

type UpdateLoginRequest struct {
	CurrentPassword string  `json:"current_password" validate:"required"`
	NewUsername     *string `json:"new_username" validate:"omitempty,alphanum,min=3,max=50"`
	NewPassword     *string `json:"new_password" validate:"omitempty,min=6,max=100"`
}

type CreatePostRequest struct {
	Title     string          `json:"title" validate:"required,max=200"`
	Content   string          `json:"content" validate:"required,max=10000"`
	Type      models.PostType `json:"type" validate:"required,oneof=Text Image Video"`
	MediaURL  *string         `json:"media_url" validate:"omitempty,url,max=2000"`
	MediaMeta datatypes.JSON  `json:"media_meta" validate:"omitempty"`
}

type UpdatePostRequest struct {
	Title     *string          `json:"title" validate:"omitempty,max=200"`
	Content   *string          `json:"content" validate:"omitempty,max=10000"`
	Type      *models.PostType `json:"type" validate:"omitempty,oneof=Text Image Video"`
	MediaURL  *string          `json:"media_url" validate:"omitempty,url,max=2000"`
	MediaMeta datatypes.JSON   `json:"media_meta" validate:"omitempty"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// AdminCreateUserRequest is the admin-only variant of registration that can
// set any role directly.
type AdminCreateUserRequest struct {
	FullName    string          `json:"full_name" validate:"required,max=200"`
	DateOfBirth time.Time       `json:"date_of_birth" validate:"required,past_date"`
	Contact     string          `json:"contact" validate:"required,max=200"`
	Username    string          `json:"username" validate:"required,alphanum,min=3,max=50"`
	Password    string          `json:"password" validate:"required,min=6,max=100"`
	Role        models.UserRole `json:"role" validate:"required,oneof=Student Admin"`
}

type AdminUpdateUserRequest struct {
	FullName    *string          `json:"full_name" validate:"omitempty,max=200"`
	DateOfBirth *time.Time       `json:"date_of_birth" validate:"omitempty,past_date"`
	Contact     *string          `json:"contact" validate:"omitempty,max=200"`
	Role        *models.UserRole `json:"role" validate:"omitempty,oneof=Student Admin"`
}

// PresignUploadRequest asks for a pre-signed URL to upload post media.
type PresignUploadRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required,max=100"`
}
