package trips

import (
	"errors"
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

// CreateTrip handles POST /api/v1/admin/trips
func (c *Controller) CreateTrip(ctx *gin.Context) {
	var req CreateTripRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	trip, err := c.service.CreateTrip(ctx.Request.Context(), req)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Failed to create trip", err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "Trip created successfully", trip.ToResponse())
}

// GetTrip handles GET /api/v1/trips/:id
func (c *Controller) GetTrip(ctx *gin.Context) {
	tripID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid trip ID", nil)
		return
	}

	trip, err := c.service.GetTrip(ctx.Request.Context(), tripID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			response.Error(ctx, http.StatusNotFound, "Trip not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to retrieve trip", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Trip retrieved successfully", trip.ToResponse())
}

// ListTrips handles GET /api/v1/trips
func (c *Controller) ListTrips(ctx *gin.Context) {
	var query TripListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	result, err := c.service.ListTrips(ctx.Request.Context(), query)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list trips", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Trips retrieved successfully", result)
}

// UpdateTrip handles PUT /api/v1/admin/trips/:id
func (c *Controller) UpdateTrip(ctx *gin.Context) {
	tripID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid trip ID", nil)
		return
	}

	var req UpdateTripRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	trip, err := c.service.UpdateTrip(ctx.Request.Context(), tripID, req)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			response.Error(ctx, http.StatusNotFound, "Trip not found", nil)
			return
		}
		response.Error(ctx, http.StatusBadRequest, "Failed to update trip", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Trip updated successfully", trip.ToResponse())
}
