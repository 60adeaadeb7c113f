package users

import (
	"net/http"

	"reservly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) ListUsers(ctx *gin.Context) {
	list, err := c.service.ListUsers(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list users", err.Error())
		return
	}
	response.Success(ctx, http.StatusOK, "Users retrieved", list)
}

func (c *Controller) GetUser(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	user, err := c.service.GetUser(ctx.Request.Context(), id)
	if err != nil {
		response.Error(ctx, http.StatusNotFound, "User not found", nil)
		return
	}
	response.Success(ctx, http.StatusOK, "User retrieved", user)
}

// SetActiveRequest toggles an account's active flag.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

func (c *Controller) SetUserActive(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	var req SetActiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	user, err := c.service.SetActive(ctx.Request.Context(), id, *req.IsActive)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Failed to update user", err.Error())
		return
	}
	response.Success(ctx, http.StatusOK, "User updated", user)
}
