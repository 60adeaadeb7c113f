package blockeddates

import (
	"fmt"
	"net/http"

	"reservly/internal/audit"
	"reservly/internal/shared/middleware"
	"reservly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service  Service
	auditLog audit.Service
}

func NewController(service Service, auditLog audit.Service) *Controller {
	return &Controller{service: service, auditLog: auditLog}
}

func (c *Controller) ListBlockedDates(ctx *gin.Context) {
	blocks, err := c.service.ListBlockedDates(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list blocked dates", err.Error())
		return
	}
	response.Success(ctx, http.StatusOK, "Blocked dates retrieved", blocks)
}

func (c *Controller) BlockDate(ctx *gin.Context) {
	var req BlockDateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	block, err := c.service.BlockDate(ctx.Request.Context(), &req)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Failed to block date", err.Error())
		return
	}

	c.logAction(ctx, fmt.Sprintf("blocked date %s", req.Date))
	response.Success(ctx, http.StatusCreated, "Date blocked", block)
}

func (c *Controller) UnblockDate(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid block ID", nil)
		return
	}

	block, err := c.service.UnblockDate(ctx.Request.Context(), id)
	if err != nil {
		response.Error(ctx, http.StatusNotFound, "Failed to unblock date", err.Error())
		return
	}

	c.logAction(ctx, fmt.Sprintf("unblocked date %s", block.Date.Format("2006-01-02")))
	response.Success(ctx, http.StatusOK, "Block removed", block)
}

func (c *Controller) logAction(ctx *gin.Context, action string) {
	raw, exists := ctx.Get(middleware.ContextUserID)
	if !exists {
		return
	}
	idStr, ok := raw.(string)
	if !ok {
		return
	}
	actorID, err := uuid.Parse(idStr)
	if err != nil {
		return
	}
	c.auditLog.Log(ctx.Request.Context(), actorID, action)
}
