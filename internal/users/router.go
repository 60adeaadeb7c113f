package users

import (
	"reservly/internal/shared/config"
	"reservly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupUserRoutes(router *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	// Account administration is reserved for super admins
	admin := router.Group("/admin/users")
	admin.Use(middleware.JWTAuth(cfg), middleware.RequireSuperAdmin())
	{
		admin.GET("", controller.ListUsers)
		admin.GET("/:id", controller.GetUser)
		admin.PATCH("/:id/active", controller.SetUserActive)
	}
}
