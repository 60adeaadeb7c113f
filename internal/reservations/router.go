package reservations

import (
	"reservly/internal/shared/config"
	"reservly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupReservationRoutes(router *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	// Availability is public so requesters can pick a slot before signing in
	router.GET("/resources/:id/unavailable-dates", controller.GetUnavailableDates)

	// Requester routes
	authed := router.Group("/reservations")
	authed.Use(middleware.JWTAuth(cfg))
	{
		authed.POST("", controller.SubmitReservation)
		authed.GET("/mine", controller.ListMyReservations)
		authed.GET("/:id", controller.GetReservation)
		authed.GET("/:id/queue-position", controller.GetQueuePosition)
		authed.POST("/:id/withdraw", controller.WithdrawReservation)
		authed.POST("/:id/reschedule", controller.RescheduleReservation)
	}

	// Staff decision routes
	admin := router.Group("/admin/reservations")
	admin.Use(middleware.JWTAuth(cfg), middleware.RequireStaff())
	{
		admin.GET("", controller.ListReservationsAdmin)
		admin.POST("/:id/approve", controller.ApproveReservation)
		admin.POST("/:id/decline", controller.DeclineReservation)
	}
}
