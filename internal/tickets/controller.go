package tickets

import (
	"errors"
	"net/http"

	"busline/internal/shared/utils/response"
	"busline/internal/trips"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Reserve handles POST /api/v1/tickets/reserve
func (c *Controller) Reserve(ctx *gin.Context) {
	var req ReserveTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if !isAdmin(ctx) {
		req.PriceOverride = nil
	}

	ticket, err := c.service.Reserve(ctx.Request.Context(), currentUserID(ctx), req)
	if err != nil {
		respondTicketError(ctx, err, "Failed to reserve ticket")
		return
	}

	response.Success(ctx, http.StatusCreated, "Ticket reserved successfully", ticket.ToResponse())
}

// Update handles PUT /api/v1/tickets/:id
func (c *Controller) Update(ctx *gin.Context) {
	ticketID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid ticket ID", nil)
		return
	}

	var req UpdateTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if !isAdmin(ctx) {
		req.PriceOverride = nil
	}

	ticket, err := c.service.Update(ctx.Request.Context(), effectiveUserID(ctx), ticketID, req)
	if err != nil {
		respondTicketError(ctx, err, "Failed to update ticket")
		return
	}

	response.Success(ctx, http.StatusOK, "Ticket updated successfully", ticket.ToResponse())
}

// Cancel handles POST /api/v1/tickets/:id/cancel
func (c *Controller) Cancel(ctx *gin.Context) {
	ticketID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid ticket ID", nil)
		return
	}

	if err := c.service.Cancel(ctx.Request.Context(), effectiveUserID(ctx), ticketID); err != nil {
		respondTicketError(ctx, err, "Failed to cancel ticket")
		return
	}

	response.Success(ctx, http.StatusOK, "Ticket cancelled successfully", nil)
}

// Pay handles POST /api/v1/tickets/:id/pay
func (c *Controller) Pay(ctx *gin.Context) {
	ticketID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid ticket ID", nil)
		return
	}

	if err := c.service.Pay(ctx.Request.Context(), effectiveUserID(ctx), ticketID); err != nil {
		respondTicketError(ctx, err, "Failed to record payment")
		return
	}

	response.Success(ctx, http.StatusOK, "Ticket paid successfully", nil)
}

// GetTicket handles GET /api/v1/tickets/:id
func (c *Controller) GetTicket(ctx *gin.Context) {
	ticketID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid ticket ID", nil)
		return
	}

	ticket, err := c.service.GetTicket(ctx.Request.Context(), ticketID)
	if err != nil {
		respondTicketError(ctx, err, "Failed to retrieve ticket")
		return
	}

	if userID := effectiveUserID(ctx); userID != "" && ticket.BookedBy != userID {
		response.Error(ctx, http.StatusForbidden, "Ticket does not belong to user", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Ticket retrieved successfully", ticket.ToResponse())
}

// ListMyTickets handles GET /api/v1/tickets
func (c *Controller) ListMyTickets(ctx *gin.Context) {
	var query TicketListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	tickets, totalCount, err := c.service.ListUserTickets(ctx.Request.Context(), currentUserID(ctx), query)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list tickets", err.Error())
		return
	}

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	resp := TicketListResponse{
		Tickets:    make([]TicketResponse, 0, len(tickets)),
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
	}
	for i := range tickets {
		resp.Tickets = append(resp.Tickets, tickets[i].ToResponse())
	}

	response.Success(ctx, http.StatusOK, "Tickets retrieved successfully", resp)
}

// GetAvailability handles GET /api/v1/trips/:id/availability
func (c *Controller) GetAvailability(ctx *gin.Context) {
	tripID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid trip ID", nil)
		return
	}

	var query AvailabilityQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	travelDate, err := parseTravelDate(query.Date)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid travel date", err.Error())
		return
	}

	var editing *uuid.UUID
	if query.Editing != "" {
		editingID, err := uuid.Parse(query.Editing)
		if err != nil {
			response.Error(ctx, http.StatusBadRequest, "Invalid editing ticket ID", nil)
			return
		}
		editing = &editingID
	}

	availability, err := c.service.GetAvailability(ctx.Request.Context(), effectiveUserID(ctx), tripID, travelDate, editing)
	if err != nil {
		respondTicketError(ctx, err, "Failed to resolve availability")
		return
	}

	response.Success(ctx, http.StatusOK, "Availability retrieved successfully", availability)
}

// ListTripTickets handles GET /api/v1/admin/tickets
func (c *Controller) ListTripTickets(ctx *gin.Context) {
	tripID, err := uuid.Parse(ctx.Query("trip_id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid trip ID", nil)
		return
	}
	travelDate, err := parseTravelDate(ctx.Query("date"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid travel date", err.Error())
		return
	}

	tickets, err := c.service.ListTripTickets(ctx.Request.Context(), tripID, travelDate)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list tickets", err.Error())
		return
	}

	resp := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		resp = append(resp, tickets[i].ToResponse())
	}

	response.Success(ctx, http.StatusOK, "Tickets retrieved successfully", resp)
}

// OverrideDeadline handles PUT /api/v1/admin/tickets/:id/deadline
func (c *Controller) OverrideDeadline(ctx *gin.Context) {
	ticketID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid ticket ID", nil)
		return
	}

	var req DeadlineOverrideRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	ticket, err := c.service.OverrideDeadline(ctx.Request.Context(), ticketID, req.Deadline)
	if err != nil {
		respondTicketError(ctx, err, "Failed to override deadline")
		return
	}

	response.Success(ctx, http.StatusOK, "Payment deadline updated", ticket.ToResponse())
}

// currentUserID returns the authenticated user ID
func currentUserID(ctx *gin.Context) string {
	if userID, exists := ctx.Get("user_id"); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}

func isAdmin(ctx *gin.Context) bool {
	if role, exists := ctx.Get("user_role"); exists {
		if r, ok := role.(string); ok && r == "ADMIN" {
			return true
		}
	}
	return false
}

// effectiveUserID returns the caller for ownership checks. Admins act on any
// ticket, expressed as an empty owner.
func effectiveUserID(ctx *gin.Context) string {
	if isAdmin(ctx) {
		return ""
	}
	return currentUserID(ctx)
}

// respondTicketError maps domain errors onto HTTP status codes
func respondTicketError(ctx *gin.Context, err error, fallbackMsg string) {
	if conflict, ok := IsSeatConflict(err); ok {
		response.Error(ctx, http.StatusConflict, "Seats already taken", conflict.Seats)
		return
	}

	var unknown *UnknownSeatError
	if errors.As(err, &unknown) {
		response.Error(ctx, http.StatusBadRequest, "Unknown or unbookable seats", unknown.Seats)
		return
	}

	switch {
	case errors.Is(err, ErrTicketNotFound), errors.Is(err, trips.ErrTripNotFound):
		response.Error(ctx, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ErrNotTicketOwner):
		response.Error(ctx, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, ErrEmptySelection),
		errors.Is(err, ErrTooManySeats),
		errors.Is(err, ErrInactiveTrip),
		errors.Is(err, ErrTripNotRunning),
		errors.Is(err, ErrDepartureInPast):
		response.Error(ctx, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ErrTicketImmutable),
		errors.Is(err, ErrAlreadyPaid),
		errors.Is(err, ErrAlreadyCancelled),
		errors.Is(err, ErrDeadlinePassed):
		response.Error(ctx, http.StatusConflict, err.Error(), nil)
	default:
		response.Error(ctx, http.StatusInternalServerError, fallbackMsg, err.Error())
	}
}
