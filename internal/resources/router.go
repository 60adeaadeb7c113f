package resources

import (
	"reservly/internal/shared/config"
	"reservly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupResourceRoutes(router *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	// Public routes - anyone can browse the catalog
	public := router.Group("/resources")
	{
		public.GET("", controller.ListResources)
		public.GET("/:id", controller.GetResource)
	}

	// Admin routes - staff manage the catalog
	admin := router.Group("/admin/resources")
	admin.Use(middleware.JWTAuth(cfg), middleware.RequireStaff())
	{
		admin.POST("", controller.CreateResource)
		admin.PUT("/:id", controller.UpdateResource)
	}
}
