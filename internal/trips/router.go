package trips

import (
	"busline/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupTripRoutes configures all trip schedule routes
func SetupTripRoutes(rg *gin.RouterGroup, controller *Controller) {
	trips := rg.Group("/trips")
	{
		trips.GET("", controller.ListTrips)    // GET /api/v1/trips
		trips.GET("/:id", controller.GetTrip)  // GET /api/v1/trips/:id
	}

	admin := rg.Group("/admin/trips")
	admin.Use(middleware.JWTAuth(), middleware.RequireRoles("ADMIN"))
	{
		admin.POST("", controller.CreateTrip)     // POST /api/v1/admin/trips
		admin.PUT("/:id", controller.UpdateTrip)  // PUT /api/v1/admin/trips/:id
	}
}
