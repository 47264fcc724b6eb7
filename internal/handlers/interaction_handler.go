package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CTU-F-2025/forum-service/internal/services"
	"github.com/CTU-F-2025/forum-service/internal/utils"
)

type InteractionHandler struct {
	BaseHandler
	interactionService services.InteractionService
}

func NewInteractionHandler(interactionService services.InteractionService, logger utils.Logger) *InteractionHandler {
	return &InteractionHandler{
		BaseHandler:        NewBaseHandler(logger),
		interactionService: interactionService,
	}
}

// ToggleLike likes or unlikes a post
// @Summary Toggle a like
// @Description Likes the post if not yet liked by the caller, removes the like otherwise
// @Tags interactions
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} services.ToggleLikeResponse
// @Failure 404 {object} ErrorResponse "Post not found or not approved"
// @Router /posts/{id}/like [post]
func (h *InteractionHandler) ToggleLike(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	response, err := h.interactionService.ToggleLike(c.Request.Context(), id, *identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// AddComment appends a comment to an approved post.
func (h *InteractionHandler) AddComment(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateCommentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	view, err := h.interactionService.AddComment(c.Request.Context(), id, &req, *identity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// ListComments returns a post's comments oldest-first.
func (h *InteractionHandler) ListComments(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	views, err := h.interactionService.ListComments(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}
