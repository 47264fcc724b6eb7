package repositories

import (
	"context"

	"github.com/CTU-F-2025/forum-service/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)

	// ExistsByUsername reports whether another user (id != excludeID) already
	// holds the username; excludeID 0 checks all users.
	ExistsByUsername(ctx context.Context, username string, excludeID uint) (bool, error)

	CountByRole(ctx context.Context, role models.UserRole) (int64, error)

	// NamesByIDs resolves display names for a batch of user ids; absent ids
	// are simply missing from the result map.
	NamesByIDs(ctx context.Context, ids []uint) (map[uint]string, error)
}
