package tickets

import (
	"busline/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupTicketRoutes configures reservation, lifecycle and availability routes
func SetupTicketRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Availability is public: the seat map is browsed before login. The
	// editing overlay names a ticket's own seats, so that variant needs a
	// token for the ownership check.
	rg.GET("/trips/:id/availability", authWhenEditing(), controller.GetAvailability)

	tickets := rg.Group("/tickets")
	tickets.Use(middleware.JWTAuth())
	{
		tickets.POST("/reserve", controller.Reserve)      // POST /api/v1/tickets/reserve
		tickets.GET("", controller.ListMyTickets)         // GET /api/v1/tickets
		tickets.GET("/:id", controller.GetTicket)         // GET /api/v1/tickets/:id
		tickets.PUT("/:id", controller.Update)            // PUT /api/v1/tickets/:id
		tickets.POST("/:id/cancel", controller.Cancel)    // POST /api/v1/tickets/:id/cancel
		tickets.POST("/:id/pay", controller.Pay)          // POST /api/v1/tickets/:id/pay
	}

	admin := rg.Group("/admin/tickets")
	admin.Use(middleware.JWTAuth(), middleware.RequireRoles("ADMIN"))
	{
		admin.GET("", controller.ListTripTickets)                  // GET /api/v1/admin/tickets
		admin.PUT("/:id/deadline", controller.OverrideDeadline)    // PUT /api/v1/admin/tickets/:id/deadline
		admin.POST("/:id/cancel", controller.Cancel)               // POST /api/v1/admin/tickets/:id/cancel
		admin.POST("/:id/pay", controller.Pay)                     // POST /api/v1/admin/tickets/:id/pay
	}
}

// authWhenEditing authenticates the request only when the editing query
// parameter is present; plain availability reads stay anonymous.
func authWhenEditing() gin.HandlerFunc {
	authed := middleware.JWTAuth()
	return func(c *gin.Context) {
		if c.Query("editing") == "" {
			c.Next()
			return
		}
		authed(c)
	}
}
