package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CTU-F-2025/forum-service/internal/services"
	"github.com/CTU-F-2025/forum-service/internal/utils"
	"github.com/CTU-F-2025/forum-service/internal/validator"
)

// ErrorResponse is the uniform error payload returned by every endpoint.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler carries the pieces shared by all handlers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	utils.FromContext(c).Error(msg, append(args, "error", err)...)
}

// HandleServiceError maps the service error taxonomy onto HTTP statuses.
// Internal details never leak into responses for 5xx failures.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: ve,
		})
		return
	}

	switch services.KindOf(err) {
	case services.KindValidation:
		details := interface{}(nil)
		var inner *services.ServiceError
		if errors.As(err, &inner) && inner.Err != nil {
			var fieldErrors validator.ValidationErrors
			if errors.As(inner.Err, &fieldErrors) {
				details = fieldErrors
			}
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: details,
		})
	case services.KindUnauthenticated:
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: err.Error()})
	case services.KindForbidden:
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions"})
	case services.KindNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})
	case services.KindConflict:
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}

// ParseIDParam reads a positive integer path parameter.
func (h *BaseHandler) ParseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
		})
		return 0, false
	}
	return uint(id), true
}

// BindJSON binds the request body and reports a uniform 400 on failure.
func (h *BaseHandler) BindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return false
	}
	return true
}
