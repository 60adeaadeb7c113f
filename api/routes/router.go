package routes

import (
	"net/http"
	"time"

	"reservly/internal/audit"
	"reservly/internal/blockeddates"
	"reservly/internal/notifications"
	"reservly/internal/reservations"
	"reservly/internal/resources"
	"reservly/internal/shared/config"
	"reservly/internal/shared/database"
	"reservly/internal/users"
	"reservly/pkg/cache"
	"reservly/pkg/calendar"
	"reservly/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	producer notifications.Producer

	// Sweep is the background expiry processor, started by the server after
	// routes are wired.
	Sweep *reservations.SweepProcessor
}

// NewRouter creates a new router instance. The producer may be nil; the
// engine then runs without outbound notifications.
func NewRouter(cfg *config.Config, db *database.DB, producer notifications.Producer) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		producer: producer,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupDomainRoutes(api)
	}
}

func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "reservly",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "reservly",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// setupDomainRoutes wires every domain package. The reservation engine sits
// in the middle; users, resources and blocked dates feed it.
func (r *Router) setupDomainRoutes(api *gin.RouterGroup) {
	pg := r.db.PostgreSQL

	usersService := users.NewService(users.NewRepository(pg))
	auditService := audit.NewService(pg, logger.GetDefault())

	resourceService := resources.NewService(resources.NewRepository(pg))
	resourceController := resources.NewController(resourceService)
	resources.SetupResourceRoutes(api, resourceController, r.config)

	blockedService := blockeddates.NewService(blockeddates.NewRepository(pg))
	blockedController := blockeddates.NewController(blockedService, auditService)
	blockeddates.SetupBlockedDateRoutes(api, blockedController, r.config)

	var dispatcher reservations.Dispatcher
	if r.producer != nil {
		dispatcher = notifications.NewEffectDispatcher(r.producer, usersService)
	}

	cal := calendar.New(r.parseHolidays()...)
	reservationService := reservations.NewService(
		reservations.NewRepository(pg),
		cal,
		blockedService,
		resourceService,
		dispatcher,
		notifications.NewAdminDirectory(usersService),
	)

	cacheService := cache.NewService(r.db.Redis)
	reservationController := reservations.NewController(
		reservationService, usersService, auditService, cacheService, r.config.Redis.CacheTTL)
	reservations.SetupReservationRoutes(api, reservationController, r.config)

	usersController := users.NewController(usersService)
	users.SetupUserRoutes(api, usersController, r.config)

	auditController := audit.NewController(auditService)
	audit.SetupAuditRoutes(api, auditController, r.config)

	r.Sweep = reservations.NewSweepProcessor(reservationService, r.config.Engine.SweepInterval)
}

// parseHolidays converts the configured holiday strings into dates, skipping
// anything malformed.
func (r *Router) parseHolidays() []time.Time {
	var holidays []time.Time
	for _, raw := range r.config.Engine.Holidays {
		d, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			logger.GetDefault().WithFields(map[string]interface{}{"holiday": raw}).
				Warn("skipping malformed holiday date")
			continue
		}
		holidays = append(holidays, d)
	}
	return holidays
}
