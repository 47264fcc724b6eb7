package repositories

import "context"

// Repository aggregates all per-entity repositories.
type Repository interface {
	User() UserRepository
	Post() PostRepository
	Comment() CommentRepository
	Like() LikeRepository
	Notification() NotificationRepository

	// WithTransaction runs fn against a repository bound to a single
	// database transaction; all mutations inside commit or roll back
	// together.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
