package fleet

import (
	"busline/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupFleetRoutes configures all bus/seat-catalog routes
func SetupFleetRoutes(rg *gin.RouterGroup, controller *Controller) {
	buses := rg.Group("/buses")
	{
		buses.GET("", controller.ListBuses)              // GET /api/v1/buses
		buses.GET("/:id", controller.GetBus)             // GET /api/v1/buses/:id
		buses.GET("/:id/layout", controller.GetSeatLayout) // GET /api/v1/buses/:id/layout
	}

	admin := rg.Group("/admin/buses")
	admin.Use(middleware.JWTAuth(), middleware.RequireRoles("ADMIN"))
	{
		admin.POST("", controller.CreateBus) // POST /api/v1/admin/buses
	}
}
