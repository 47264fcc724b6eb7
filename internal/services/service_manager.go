package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/CTU-F-2025/forum-service/internal/auth"
	"github.com/CTU-F-2025/forum-service/internal/cache"
	"github.com/CTU-F-2025/forum-service/internal/events"
	"github.com/CTU-F-2025/forum-service/internal/repositories"
	"github.com/CTU-F-2025/forum-service/internal/storage"
	"github.com/CTU-F-2025/forum-service/internal/validator"
)

// ServiceManagerConfig holds the shared dependencies every service is
// built from. Media and Publisher are optional; services degrade when
// they are absent.
type ServiceManagerConfig struct {
	Repo         repositories.Repository
	Tokens       *auth.TokenManager
	Media        storage.MediaStore
	Publisher    events.EventPublisher
	CacheManager *cache.CacheManager
	Logger       *slog.Logger
	Validator    *validator.Validator
}

// serviceManager implements ServiceManager
type serviceManager struct {
	config ServiceManagerConfig
	logger *slog.Logger

	authService         AuthService
	postService         PostService
	interactionService  InteractionService
	notificationService NotificationService
	adminService        AdminService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

func NewServiceManager(config ServiceManagerConfig) (ServiceManager, error) {
	if config.Repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if config.Tokens == nil {
		return nil, fmt.Errorf("token manager is required")
	}
	if config.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if config.Validator == nil {
		return nil, fmt.Errorf("validator is required")
	}
	if config.CacheManager == nil {
		config.CacheManager = cache.NewCacheManager(nil)
	}

	return &serviceManager{
		config: config,
		logger: config.Logger,
	}, nil
}

// Initialize wires up all services against the shared dependencies.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.notificationService = NewNotificationService(sm.config.Repo, sm.config.Publisher, sm.logger)
	sm.authService = NewAuthService(sm.config.Repo, sm.config.Tokens, sm.logger, sm.config.Validator)
	sm.postService = NewPostService(
		sm.config.Repo,
		sm.config.Media,
		sm.notificationService,
		sm.config.Publisher,
		sm.config.CacheManager,
		sm.logger,
		sm.config.Validator,
	)
	sm.interactionService = NewInteractionService(sm.config.Repo, sm.notificationService, sm.logger, sm.config.Validator)
	sm.adminService = NewAdminService(sm.config.Repo, sm.config.CacheManager, sm.logger, sm.config.Validator)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.authService
}

func (sm *serviceManager) Post() PostService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.postService
}

func (sm *serviceManager) Interaction() InteractionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.interactionService
}

func (sm *serviceManager) Notification() NotificationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.notificationService
}

func (sm *serviceManager) Admin() AdminService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.adminService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.config.Repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.config.Publisher != nil {
		if err := sm.config.Publisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if err := sm.config.Repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
