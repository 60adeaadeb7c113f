package audit

import (
	"net/http"
	"strconv"

	"reservly/internal/shared/config"
	"reservly/internal/shared/middleware"
	"reservly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) ListRecent(ctx *gin.Context) {
	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(ctx, http.StatusBadRequest, "Invalid limit", nil)
			return
		}
		limit = parsed
	}

	entries, err := c.service.ListRecent(ctx.Request.Context(), limit)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list audit entries", err.Error())
		return
	}
	response.Success(ctx, http.StatusOK, "Audit entries retrieved", entries)
}

func SetupAuditRoutes(router *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	admin := router.Group("/admin/audit")
	admin.Use(middleware.JWTAuth(cfg), middleware.RequireSuperAdmin())
	{
		admin.GET("", controller.ListRecent)
	}
}
