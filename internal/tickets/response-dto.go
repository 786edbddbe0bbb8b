package tickets

import (
	"time"

	"github.com/google/uuid"
)

type TicketResponse struct {
	ID              uuid.UUID  `json:"id"`
	TicketNumber    string     `json:"ticket_number"`
	TripID          uuid.UUID  `json:"trip_id"`
	RouteName       string     `json:"route_name,omitempty"`
	TravelDate      string     `json:"travel_date"`
	Seats           []string   `json:"seats"`
	PassengerName   string     `json:"passenger_name"`
	PassengerPhone  string     `json:"passenger_phone,omitempty"`
	PricePerSeat    float64    `json:"price_per_seat"`
	TotalPrice      float64    `json:"total_price"`
	Status          Status     `json:"status"`
	PaymentDeadline *time.Time `json:"payment_deadline,omitempty"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type TicketListResponse struct {
	Tickets    []TicketResponse `json:"tickets"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}

// ToResponse projects the ticket with its lifecycle state derived as of now
func (t *Ticket) ToResponse() TicketResponse {
	resp := TicketResponse{
		ID:              t.ID,
		TicketNumber:    t.TicketNumber,
		TripID:          t.TripID,
		TravelDate:      t.TravelDate.Format("2006-01-02"),
		Seats:           t.SeatLabels(),
		PassengerName:   t.PassengerName,
		PassengerPhone:  t.PassengerPhone,
		PricePerSeat:    t.PricePerSeat,
		TotalPrice:      t.TotalPrice,
		Status:          t.StatusAt(time.Now()),
		PaymentDeadline: t.PaymentDeadline,
		PaidAt:          t.PaidAt,
		CancelledAt:     t.CancelledAt,
		CreatedAt:       t.CreatedAt,
	}
	if t.Trip != nil {
		resp.RouteName = t.Trip.RouteName
	}
	return resp
}
