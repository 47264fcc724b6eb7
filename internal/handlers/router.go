package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/CTU-F-2025/forum-service/internal/auth"
	"github.com/CTU-F-2025/forum-service/internal/models"
	"github.com/CTU-F-2025/forum-service/internal/services"
	"github.com/CTU-F-2025/forum-service/internal/utils"
)

type HandlerManager struct {
	authHandler         *AuthHandler
	userHandler         *UserHandler
	postHandler         *PostHandler
	interactionHandler  *InteractionHandler
	notificationHandler *NotificationHandler
	adminHandler        *AdminHandler
	authMiddleware      *JWTAuthMiddleware
	serviceManager      services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	tokens *auth.TokenManager,
	logger utils.Logger,
) *HandlerManager {
	authMiddleware := NewJWTAuthMiddleware(tokens)

	return &HandlerManager{
		authHandler:         NewAuthHandler(serviceManager.Auth(), logger),
		userHandler:         NewUserHandler(serviceManager.Auth(), logger),
		postHandler:         NewPostHandler(serviceManager.Post(), logger),
		interactionHandler:  NewInteractionHandler(serviceManager.Interaction(), logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
		adminHandler:        NewAdminHandler(serviceManager.Admin(), serviceManager.Post(), logger),
		authMiddleware:      authMiddleware,
		serviceManager:      serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Public auth routes
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", hm.authHandler.Register)
			authRoutes.POST("/login", hm.authHandler.Login)
			authRoutes.GET("/info", hm.authMiddleware.AuthMiddleware(), hm.authHandler.AuthInfo)
		}

		// Post routes; reads work anonymously, writes require a session
		posts := v1.Group("/posts")
		{
			posts.GET("", hm.authMiddleware.OptionalAuthMiddleware(), hm.postHandler.ListPosts)
			posts.GET("/:id", hm.authMiddleware.OptionalAuthMiddleware(), hm.postHandler.GetPost)
			posts.GET("/:id/comments", hm.interactionHandler.ListComments)

			authed := posts.Group("")
			authed.Use(hm.authMiddleware.AuthMiddleware())
			{
				authed.POST("", hm.postHandler.CreatePost)
				authed.GET("/user", hm.postHandler.MyPosts)
				authed.GET("/user/hidden", hm.postHandler.MyHiddenPosts)
				authed.PUT("/:id", hm.postHandler.UpdatePost)
				authed.DELETE("/:id", hm.postHandler.DeletePost)
				authed.PUT("/:id/hide", hm.postHandler.HidePost)
				authed.PUT("/:id/unhide", hm.postHandler.UnhidePost)

				authed.POST("/:id/like", hm.interactionHandler.ToggleLike)
				authed.POST("/:id/comments", hm.interactionHandler.AddComment)

				authed.POST("/media/presign", hm.postHandler.PresignMediaUpload)
			}
		}

		// User self-service routes
		users := v1.Group("/users")
		{
			users.GET("/check-username", hm.userHandler.CheckUsername)

			authed := users.Group("")
			authed.Use(hm.authMiddleware.AuthMiddleware())
			{
				authed.PUT("/profile", hm.userHandler.UpdateProfile)
				authed.PUT("/login", hm.userHandler.UpdateLogin)
			}
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		notifications.Use(hm.authMiddleware.AuthMiddleware())
		{
			notifications.GET("", hm.notificationHandler.ListNotifications)
			notifications.PUT("/:id/read", hm.notificationHandler.MarkRead)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.GET("/posts/pending", hm.adminHandler.ListPendingPosts)
			admin.PUT("/posts/:id/approve", hm.adminHandler.ApprovePost)
			admin.PUT("/posts/:id/reject", hm.adminHandler.RejectPost)

			admin.GET("/reports/stats", hm.adminHandler.ModerationStats)
			admin.GET("/reports/posts", hm.adminHandler.ExportPostReport)

			admin.POST("/users", hm.adminHandler.CreateUser)
			admin.GET("/users", hm.adminHandler.ListUsers)
			admin.GET("/users/:id", hm.adminHandler.GetUser)
			admin.PUT("/users/:id", hm.adminHandler.UpdateUser)
			admin.DELETE("/users/:id", hm.adminHandler.DeleteUser)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "forum-service",
		})
	})
}
