package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CTU-F-2025/forum-service/internal/services"
	"github.com/CTU-F-2025/forum-service/internal/utils"
)

type UserHandler struct {
	BaseHandler
	authService services.AuthService
}

func NewUserHandler(authService services.AuthService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
	}
}

// UpdateProfile updates the caller's descriptive fields
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body services.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.UserProfile
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Updating profile", "user_id", identity.UserID)

	profile, err := h.authService.UpdateProfile(c.Request.Context(), identity.UserID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateLogin changes username and/or password. The current password must
// be supplied; a new token has to be obtained afterwards if the username
// changed.
func (h *UserHandler) UpdateLogin(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req services.UpdateLoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Updating credentials", "user_id", identity.UserID)

	if err := h.authService.UpdateLogin(c.Request.Context(), identity.UserID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "credentials updated"})
}

// CheckUsername reports whether a username is still available.
func (h *UserHandler) CheckUsername(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Query parameter 'username' is required",
		})
		return
	}

	available, err := h.authService.CheckUsername(c.Request.Context(), username)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": username, "available": available})
}
