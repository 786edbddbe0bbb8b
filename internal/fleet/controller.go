package fleet

import (
	"net/http"

	"busline/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateBus handles POST /api/v1/admin/buses
func (c *Controller) CreateBus(ctx *gin.Context) {
	var req CreateBusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	bus, err := c.service.CreateBus(ctx.Request.Context(), req)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Failed to create bus", err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "Bus created successfully", bus.ToResponse())
}

// GetBus handles GET /api/v1/buses/:id
func (c *Controller) GetBus(ctx *gin.Context) {
	busID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid bus ID", nil)
		return
	}

	bus, err := c.service.GetBus(ctx.Request.Context(), busID)
	if err != nil {
		response.Error(ctx, http.StatusNotFound, "Bus not found", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Bus retrieved successfully", bus.ToResponse())
}

// ListBuses handles GET /api/v1/buses
func (c *Controller) ListBuses(ctx *gin.Context) {
	activeOnly := ctx.DefaultQuery("active", "true") == "true"

	buses, err := c.service.ListBuses(ctx.Request.Context(), activeOnly)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list buses", err.Error())
		return
	}

	resp := make([]BusResponse, 0, len(buses))
	for i := range buses {
		resp = append(resp, buses[i].ToResponse())
	}

	response.Success(ctx, http.StatusOK, "Buses retrieved successfully", resp)
}

// GetSeatLayout handles GET /api/v1/buses/:id/layout
func (c *Controller) GetSeatLayout(ctx *gin.Context) {
	busID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid bus ID", nil)
		return
	}

	seats, err := c.service.GetSeatLayout(ctx.Request.Context(), busID)
	if err != nil {
		response.Error(ctx, http.StatusNotFound, "Seat layout not found", nil)
		return
	}

	resp := make([]SeatResponse, 0, len(seats))
	for _, seat := range seats {
		resp = append(resp, SeatResponse{
			Label: seat.Label,
			Row:   seat.Row,
			Col:   seat.Col,
			Type:  string(seat.Type),
		})
	}

	response.Success(ctx, http.StatusOK, "Seat layout retrieved successfully", resp)
}
