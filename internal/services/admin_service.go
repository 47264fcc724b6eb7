package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/CTU-F-2025/forum-service/internal/auth"
	"github.com/CTU-F-2025/forum-service/internal/cache"
	"github.com/CTU-F-2025/forum-service/internal/models"
	"github.com/CTU-F-2025/forum-service/internal/repositories"
	"github.com/CTU-F-2025/forum-service/internal/validator"
)

type adminService struct {
	repo         repositories.Repository
	cacheManager *cache.CacheManager
	logger       *slog.Logger
	validator    *validator.Validator
}

func NewAdminService(repo repositories.Repository, cacheManager *cache.CacheManager, logger *slog.Logger, validator *validator.Validator) AdminService {
	return &adminService{
		repo:         repo,
		cacheManager: cacheManager,
		logger:       logger,
		validator:    validator,
	}
}

// ===== USER MANAGEMENT =====

func (s *adminService) CreateUser(ctx context.Context, req *AdminCreateUserRequest, actor auth.Identity) (*models.UserProfile, error) {
	if !actor.IsAdmin() {
		return nil, NewPermissionError(actor.UserID, "user", 0, "create", "admin role required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewInternalError("failed to hash password", err)
	}

	user := &models.User{
		FullName:     req.FullName,
		DateOfBirth:  req.DateOfBirth,
		Contact:      req.Contact,
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		taken, err := tx.User().ExistsByUsername(ctx, req.Username, 0)
		if err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return ErrUsernameTaken
		}
		return tx.User().Create(ctx, user)
	})
	if err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.logger.Info("User created by admin", "user_id", user.ID, "role", user.Role, "admin_id", actor.UserID)

	profile := buildUserProfile(user)
	return &profile, nil
}

func (s *adminService) GetUser(ctx context.Context, id uint, actor auth.Identity) (*models.UserProfile, error) {
	if !actor.IsAdmin() {
		return nil, NewPermissionError(actor.UserID, "user", id, "read", "admin role required")
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	profile := buildUserProfile(user)
	return &profile, nil
}

func (s *adminService) ListUsers(ctx context.Context, filters repositories.UserFilters, actor auth.Identity) (*UserListResponse, error) {
	if !actor.IsAdmin() {
		return nil, NewPermissionError(actor.UserID, "user", 0, "list", "admin role required")
	}

	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.UserProfile, len(users))
	for i, user := range users {
		profiles[i] = buildUserProfile(user)
	}

	return &UserListResponse{Users: profiles, Total: total}, nil
}

func (s *adminService) UpdateUser(ctx context.Context, id uint, req *AdminUpdateUserRequest, actor auth.Identity) (*models.UserProfile, error) {
	if !actor.IsAdmin() {
		return nil, NewPermissionError(actor.UserID, "user", id, "update", "admin role required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError(err)
	}

	var updated *models.User
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		user, err := tx.User().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		if req.Role != nil && user.Role == models.RoleAdmin && *req.Role != models.RoleAdmin {
			admins, err := tx.User().CountByRole(ctx, models.RoleAdmin)
			if err != nil {
				return fmt.Errorf("failed to count admins: %w", err)
			}
			if admins <= 1 {
				return ErrLastAdmin
			}
		}

		if req.FullName != nil {
			user.FullName = *req.FullName
		}
		if req.DateOfBirth != nil {
			user.DateOfBirth = *req.DateOfBirth
		}
		if req.Contact != nil {
			user.Contact = *req.Contact
		}
		if req.Role != nil {
			user.Role = *req.Role
		}

		if err := tx.User().Update(ctx, user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User updated by admin", "user_id", id, "admin_id", actor.UserID)

	profile := buildUserProfile(updated)
	return &profile, nil
}

// DeleteUser removes the account plus its likes and notifications. Posts
// and comments survive and render with an "Unknown" author.
func (s *adminService) DeleteUser(ctx context.Context, id uint, actor auth.Identity) error {
	if !actor.IsAdmin() {
		return NewPermissionError(actor.UserID, "user", id, "delete", "admin role required")
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		user, err := tx.User().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		if user.Role == models.RoleAdmin {
			admins, err := tx.User().CountByRole(ctx, models.RoleAdmin)
			if err != nil {
				return fmt.Errorf("failed to count admins: %w", err)
			}
			if admins <= 1 {
				return ErrLastAdmin
			}
		}

		if err := tx.Like().DeleteByUser(ctx, id); err != nil {
			return err
		}
		if err := tx.Notification().DeleteByUser(ctx, id); err != nil {
			return err
		}
		return tx.User().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("User deleted by admin", "user_id", id, "admin_id", actor.UserID)
	return nil
}

// ===== MODERATION REPORTING =====

func (s *adminService) ModerationStats(ctx context.Context, actor auth.Identity) (*repositories.ModerationStats, error) {
	if !actor.IsAdmin() {
		return nil, NewPermissionError(actor.UserID, "report", 0, "read", "admin role required")
	}

	var stats repositories.ModerationStats
	err := s.cacheManager.Stats.CacheOrExecute(ctx, "moderation", &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return s.repo.Post().CountByStatus(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// ModerationReport renders every post with its moderation state and like
// count as an xlsx workbook for offline review.
func (s *adminService) ModerationReport(ctx context.Context, actor auth.Identity) ([]byte, error) {
	if !actor.IsAdmin() {
		return nil, NewPermissionError(actor.UserID, "report", 0, "export", "admin role required")
	}

	rows, err := s.repo.Post().ListReportRows(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Posts"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Title", "Author", "Status", "Hidden", "Likes", "Created At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, NewInternalError("failed to build report", err)
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.ID,
			row.Title,
			row.Author,
			string(row.Status),
			row.Hidden,
			row.LikeCount,
			row.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, NewInternalError("failed to build report", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, NewInternalError("failed to render report", err)
	}

	s.logger.Info("Moderation report exported", "rows", len(rows), "admin_id", actor.UserID)
	return buf.Bytes(), nil
}
