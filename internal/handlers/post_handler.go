package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CTU-F-2025/forum-service/internal/services"
	"github.com/CTU-F-2025/forum-service/internal/utils"
)

type PostHandler struct {
	BaseHandler
	postService services.PostService
}

func NewPostHandler(postService services.PostService, logger utils.Logger) *PostHandler {
	return &PostHandler{
		BaseHandler: NewBaseHandler(logger),
		postService: postService,
	}
}

// CreatePost submits a post for moderation
// @Summary Create a post
// @Description Create a post; it stays Pending until an admin moderates it
// @Tags posts
// @Accept json
// @Produce json
// @Param request body services.CreatePostRequest true "Post content"
// @Success 201 {object} models.Post
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Router /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req services.CreatePostRequest
	if !h.BindJSON(c, &req) {
		return
	}

	post, err := h.postService.Create(c.Request.Context(), &req, *identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// UpdatePost edits an owned post without resetting its moderation status.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdatePostRequest
	if !h.BindJSON(c, &req) {
		return
	}

	post, err := h.postService.Update(c.Request.Context(), id, &req, *identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost removes an owned post with its comments, likes and media.
func (h *PostHandler) DeletePost(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.postService.Delete(c.Request.Context(), id, *identity); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// HidePost hides the post from the public feed.
func (h *PostHandler) HidePost(c *gin.Context) {
	h.setHidden(c, true)
}

// UnhidePost returns the post to the public feed; an Approved post becomes
// readable again immediately.
func (h *PostHandler) UnhidePost(c *gin.Context) {
	h.setHidden(c, false)
}

func (h *PostHandler) setHidden(c *gin.Context, hidden bool) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.postService.SetHidden(c.Request.Context(), id, hidden, *identity); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "hidden": hidden})
}

// GetPost returns one post if it is publicly visible
// @Summary Get a post
// @Description Returns the post when it is approved and not hidden; anything else reads as not found
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.PostSummary
// @Failure 404 {object} ErrorResponse "Not found or not visible"
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	viewer, _ := GetIdentityFromContext(c)

	summary, err := h.postService.GetByID(c.Request.Context(), id, viewer)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListPosts returns the public feed of approved, visible posts.
func (h *PostHandler) ListPosts(c *gin.Context) {
	viewer, _ := GetIdentityFromContext(c)

	filters := services.FeedFilters{
		Keyword:   c.Query("keyword"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	response, err := h.postService.ListApproved(c.Request.Context(), filters, viewer)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// MyPosts returns the caller's approved, visible posts.
func (h *PostHandler) MyPosts(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	response, err := h.postService.ListMine(c.Request.Context(), *identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// MyHiddenPosts returns the caller's approved posts currently hidden from
// the public feed.
func (h *PostHandler) MyHiddenPosts(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	response, err := h.postService.ListMineHidden(c.Request.Context(), *identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// PresignMediaUpload issues a pre-signed blob storage upload URL.
func (h *PostHandler) PresignMediaUpload(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	var req services.PresignUploadRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ticket, err := h.postService.PresignMediaUpload(c.Request.Context(), &req, *identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}
