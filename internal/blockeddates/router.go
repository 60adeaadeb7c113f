package blockeddates

import (
	"reservly/internal/shared/config"
	"reservly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBlockedDateRoutes(router *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	admin := router.Group("/admin/blocked-dates")
	admin.Use(middleware.JWTAuth(cfg), middleware.RequireStaff())
	{
		admin.GET("", controller.ListBlockedDates)
		admin.POST("", controller.BlockDate)
		admin.DELETE("/:id", controller.UnblockDate)
	}
}
