package services

import (
	"context"
	"time"

	"github.com/CTU-F-2025/forum-service/internal/auth"
	"github.com/CTU-F-2025/forum-service/internal/models"
	"github.com/CTU-F-2025/forum-service/internal/repositories"
	"github.com/CTU-F-2025/forum-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type UpdateProfileRequest = validator.UpdateProfileRequest
type UpdateLoginRequest = validator.UpdateLoginRequest
type CreatePostRequest = validator.CreatePostRequest
type UpdatePostRequest = validator.UpdatePostRequest
type CreateCommentRequest = validator.CreateCommentRequest
type AdminCreateUserRequest = validator.AdminCreateUserRequest
type AdminUpdateUserRequest = validator.AdminUpdateUserRequest
type PresignUploadRequest = validator.PresignUploadRequest

type AuthResponse struct {
	Token string             `json:"token"`
	User  models.UserProfile `json:"user"`
}

type ToggleLikeResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

type PostListResponse struct {
	Posts []*models.PostSummary `json:"posts"`
	Total int64                 `json:"total"`
}

type UserListResponse struct {
	Users []models.UserProfile `json:"users"`
	Total int64                `json:"total"`
}

// MediaUploadTicket is a pre-signed upload slot in blob storage. The client
// PUTs the file to UploadURL and submits Key as the post's media URL.
type MediaUploadTicket struct {
	UploadURL string    `json:"upload_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FeedFilters narrows the public feed; only approved, visible posts are
// ever considered regardless of these values.
type FeedFilters struct {
	Keyword   string `json:"keyword"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.UserProfile, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)

	GetProfile(ctx context.Context, userID uint) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*models.UserProfile, error)

	// UpdateLogin changes username and/or password after verifying the
	// current password.
	UpdateLogin(ctx context.Context, userID uint, req *UpdateLoginRequest) error

	// CheckUsername reports whether a username is still available.
	CheckUsername(ctx context.Context, username string) (bool, error)
}

type PostService interface {
	Create(ctx context.Context, req *CreatePostRequest, actor auth.Identity) (*models.Post, error)
	Update(ctx context.Context, id uint, req *UpdatePostRequest, actor auth.Identity) (*models.Post, error)
	Delete(ctx context.Context, id uint, actor auth.Identity) error

	// SetHidden toggles author-side visibility without touching moderation
	// status.
	SetHidden(ctx context.Context, id uint, hidden bool, actor auth.Identity) error

	// Read paths; viewer is nil for anonymous callers. GetByID applies the
	// same approved-and-visible filter as ListApproved for every caller.
	GetByID(ctx context.Context, id uint, viewer *auth.Identity) (*models.PostSummary, error)
	ListApproved(ctx context.Context, filters FeedFilters, viewer *auth.Identity) (*PostListResponse, error)

	// Own-post listings: ListMine is the caller's approved visible posts,
	// ListMineHidden the approved ones they have hidden.
	ListMine(ctx context.Context, actor auth.Identity) (*PostListResponse, error)
	ListMineHidden(ctx context.Context, actor auth.Identity) (*PostListResponse, error)

	// Moderation; admin only. Both transition Pending posts exactly once.
	Approve(ctx context.Context, id uint, actor auth.Identity) error
	Reject(ctx context.Context, id uint, actor auth.Identity) error
	ListPending(ctx context.Context, actor auth.Identity) ([]models.PendingPostView, error)

	// Media uploads via pre-signed blob storage URLs.
	PresignMediaUpload(ctx context.Context, req *PresignUploadRequest, actor auth.Identity) (*MediaUploadTicket, error)
}

type InteractionService interface {
	// ToggleLike likes the post if the actor has not liked it, unlikes it
	// otherwise. Safe to call concurrently for the same (actor, post) pair.
	ToggleLike(ctx context.Context, postID uint, actor auth.Identity) (*ToggleLikeResponse, error)

	AddComment(ctx context.Context, postID uint, req *CreateCommentRequest, actor auth.Identity) (*models.CommentView, error)
	ListComments(ctx context.Context, postID uint) ([]models.CommentView, error)
}

type NotificationService interface {
	Notify(ctx context.Context, repo repositories.Repository, userID uint, content string, postID *uint) error
	ListForUser(ctx context.Context, userID uint) ([]models.NotificationView, error)
	MarkRead(ctx context.Context, id, userID uint) error
}

type AdminService interface {
	CreateUser(ctx context.Context, req *AdminCreateUserRequest, actor auth.Identity) (*models.UserProfile, error)
	GetUser(ctx context.Context, id uint, actor auth.Identity) (*models.UserProfile, error)
	ListUsers(ctx context.Context, filters repositories.UserFilters, actor auth.Identity) (*UserListResponse, error)
	UpdateUser(ctx context.Context, id uint, req *AdminUpdateUserRequest, actor auth.Identity) (*models.UserProfile, error)
	DeleteUser(ctx context.Context, id uint, actor auth.Identity) error

	// ModerationStats summarizes the moderation pipeline.
	ModerationStats(ctx context.Context, actor auth.Identity) (*repositories.ModerationStats, error)

	// ModerationReport renders the full post report as an xlsx workbook.
	ModerationReport(ctx context.Context, actor auth.Identity) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	Post() PostService
	Interaction() InteractionService
	Notification() NotificationService
	Admin() AdminService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
