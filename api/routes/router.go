// api/routes/router.go
package routes

import (
	"busline/internal/fleet"
	"busline/internal/notifications"
	"busline/internal/shared/config"
	"busline/internal/shared/database"
	"busline/internal/tickets"
	"busline/internal/trips"
	"busline/pkg/cache"
	"busline/pkg/logger"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	cache     cache.Service
	log       *logger.Logger
	publisher notifications.Producer

	// Cross-module services, built once and injected where needed
	fleetService fleet.Service
	tripService  trips.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, cacheService cache.Service, log *logger.Logger, publisher notifications.Producer) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		cache:     cacheService,
		log:       log,
		publisher: publisher,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Fleet before trips before tickets: each layer injects into the next
		r.setupFleetRoutes(api)
		r.setupTripRoutes(api)
		r.setupTicketRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		// Perform health checks
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "busline-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "busline-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupFleetRoutes configures bus and seat catalog routes
func (r *Router) setupFleetRoutes(rg *gin.RouterGroup) {
	fleetRepo := fleet.NewRepository(r.db.GetPostgreSQL())
	r.fleetService = fleet.NewService(fleetRepo, r.cache)
	fleetController := fleet.NewController(r.fleetService)

	fleet.SetupFleetRoutes(rg, fleetController)
}

// setupTripRoutes configures trip schedule routes
func (r *Router) setupTripRoutes(rg *gin.RouterGroup) {
	tripRepo := trips.NewRepository(r.db.GetPostgreSQL())
	r.tripService = trips.NewService(tripRepo, r.fleetService, r.cache)
	tripController := trips.NewController(r.tripService)

	trips.SetupTripRoutes(rg, tripController)
}

// setupTicketRoutes configures reservation and lifecycle routes
func (r *Router) setupTicketRoutes(rg *gin.RouterGroup) {
	ticketRepo := tickets.NewRepository(r.db.GetPostgreSQL())
	resolver := tickets.NewResolver(ticketRepo, r.cache)
	ticketService := tickets.NewService(
		ticketRepo,
		resolver,
		r.tripService,
		r.fleetService,
		r.publisher,
		r.cache,
		r.log,
		tickets.Config{
			RetryBackoff:      r.config.Booking.RetryBackoff,
			MaxSeatsPerTicket: r.config.Booking.MaxSeatsPerTicket,
		},
	)
	ticketController := tickets.NewController(ticketService)

	tickets.SetupTicketRoutes(rg, ticketController)
}
