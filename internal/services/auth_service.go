package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/CTU-F-2025/forum-service/internal/auth"
	"github.com/CTU-F-2025/forum-service/internal/models"
	"github.com/CTU-F-2025/forum-service/internal/repositories"
	"github.com/CTU-F-2025/forum-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	tokens    *auth.TokenManager
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAuthService(repo repositories.Repository, tokens *auth.TokenManager, logger *slog.Logger, validator *validator.Validator) AuthService {
	return &authService{
		repo:      repo,
		tokens:    tokens,
		logger:    logger,
		validator: validator,
	}
}

// Register creates a Student account. Admin accounts are only ever created
// through the admin user management API.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.UserProfile, error) {
	s.logger.Info("Registering user", "username", req.Username)

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
		Role:         models.RoleStudent,
	}

	// The uniqueness check and insert run in one transaction; the unique
	// index on username backstops the race.
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

	s.logger.Info("User registered", "user_id", user.ID, "username", user.Username)

	profile := buildUserProfile(user)
	return &profile, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError(err)
	}

	user, err := s.repo.User().GetByUsername(ctx, req.Username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, NewInternalError("failed to issue token", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID, "username", user.Username)

	return &AuthResponse{
		Token: token,
		User:  buildUserProfile(user),
	}, nil
}

func (s *authService) GetProfile(ctx context.Context, userID uint) (*models.UserProfile, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	profile := buildUserProfile(user)
	return &profile, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*models.UserProfile, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError(err)
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
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

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("Profile updated", "user_id", userID)

	profile := buildUserProfile(user)
	return &profile, nil
}

// UpdateLogin changes credentials after re-verifying the current password.
func (s *authService) UpdateLogin(ctx context.Context, userID uint, req *UpdateLoginRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return NewValidationError(err)
	}
	if req.NewUsername == nil && req.NewPassword == nil {
		return NewValidationError(fmt.Errorf("nothing to update"))
	}

	return s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		user, err := tx.User().GetByID(ctx, userID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
			return ErrInvalidCredentials
		}

		if req.NewUsername != nil && *req.NewUsername != user.Username {
			taken, err := tx.User().ExistsByUsername(ctx, *req.NewUsername, userID)
			if err != nil {
				return fmt.Errorf("failed to check username: %w", err)
			}
			if taken {
				return ErrUsernameTaken
			}
			user.Username = *req.NewUsername
		}

		if req.NewPassword != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.NewPassword), bcrypt.DefaultCost)
			if err != nil {
				return NewInternalError("failed to hash password", err)
			}
			user.PasswordHash = string(hash)
		}

		if err := tx.User().Update(ctx, user); err != nil {
			if repositories.IsDuplicateKeyError(err) {
				return ErrUsernameTaken
			}
			return fmt.Errorf("failed to update credentials: %w", err)
		}

		s.logger.Info("Credentials updated", "user_id", userID)
		return nil
	})
}

func (s *authService) CheckUsername(ctx context.Context, username string) (bool, error) {
	taken, err := s.repo.User().ExistsByUsername(ctx, username, 0)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return !taken, nil
}

func buildUserProfile(user *models.User) models.UserProfile {
	return models.UserProfile{
		ID:          user.ID,
		FullName:    user.FullName,
		DateOfBirth: user.DateOfBirth,
		Contact:     user.Contact,
		Role:        user.Role,
		Username:    user.Username,
	}
}
