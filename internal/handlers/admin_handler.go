package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CTU-F-2025/forum-service/internal/models"
	"github.com/CTU-F-2025/forum-service/internal/repositories"
	"github.com/CTU-F-2025/forum-service/internal/services"
	"github.com/CTU-F-2025/forum-service/internal/utils"
)

type AdminHandler struct {
	BaseHandler
	adminService services.AdminService
	postService  services.PostService
}

func NewAdminHandler(adminService services.AdminService, postService services.PostService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  NewBaseHandler(logger),
		adminService: adminService,
		postService:  postService,
	}
}

// ===== MODERATION =====

// ApprovePost approves a pending post
// @Summary Approve a post
// @Description Transition a Pending post to Approved; already moderated posts return 404
// @Tags admin
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse "Post missing or not pending"
// @Router /admin/posts/{id}/approve [put]
func (h *AdminHandler) ApprovePost(c *gin.Context) {
	h.moderate(c, models.StatusApproved)
}

// RejectPost rejects a pending post.
func (h *AdminHandler) RejectPost(c *gin.Context) {
	h.moderate(c, models.StatusRejected)
}

func (h *AdminHandler) moderate(c *gin.Context, status models.PostStatus) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var err error
	if status == models.StatusApproved {
		err = h.postService.Approve(c.Request.Context(), id, *identity)
	} else {
		err = h.postService.Reject(c.Request.Context(), id, *identity)
	}
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}

// ListPendingPosts returns the moderation queue oldest-first.
func (h *AdminHandler) ListPendingPosts(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	views, err := h.postService.ListPending(c.Request.Context(), *identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// ===== REPORTING =====

// ModerationStats summarizes post counts by moderation state.
func (h *AdminHandler) ModerationStats(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	stats, err := h.adminService.ModerationStats(c.Request.Context(), *identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportPostReport streams the moderation report as an xlsx download.
func (h *AdminHandler) ExportPostReport(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting moderation report", "admin_id", identity.UserID)

	data, err := h.adminService.ModerationReport(c.Request.Context(), *identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("post-report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ===== USER MANAGEMENT =====

func (h *AdminHandler) CreateUser(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req services.AdminCreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	profile, err := h.adminService.CreateUser(c.Request.Context(), &req, *identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	profile, err := h.adminService.GetUser(c.Request.Context(), id, *identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	response, err := h.adminService.ListUsers(c.Request.Context(), h.parseUserFilters(c), *identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AdminUpdateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	profile, err := h.adminService.UpdateUser(c.Request.Context(), id, &req, *identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), id, *identity); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== HELPER METHODS =====

func (h *AdminHandler) parseUserFilters(c *gin.Context) repositories.UserFilters {
	page := 1
	size := 20

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if sizeStr := c.Query("size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
			size = s
		}
	}

	filters := repositories.UserFilters{
		Limit:  size,
		Offset: (page - 1) * size,
		Query:  c.Query("q"),
	}

	if roleStr := c.Query("role"); roleStr != "" {
		role := models.UserRole(roleStr)
		if role == models.RoleStudent || role == models.RoleAdmin {
			filters.Role = &role
		}
	}

	return filters
}
