package trips

import (
	"time"

	"github.com/google/uuid"
)

type TripResponse struct {
	ID            uuid.UUID `json:"id"`
	RouteName     string    `json:"route_name"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	BusID         uuid.UUID `json:"bus_id"`
	BusName       string    `json:"bus_name,omitempty"`
	DepartureTime string    `json:"departure_time"`
	Weekdays      string    `json:"weekdays"`
	PricePerSeat  float64   `json:"price_per_seat"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type TripListResponse struct {
	Trips      []TripResponse `json:"trips"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
}

func (t *Trip) ToResponse() TripResponse {
	resp := TripResponse{
		ID:            t.ID,
		RouteName:     t.RouteName,
		Origin:        t.Origin,
		Destination:   t.Destination,
		BusID:         t.BusID,
		DepartureTime: t.DepartureTime,
		Weekdays:      t.Weekdays,
		PricePerSeat:  t.PricePerSeat,
		IsActive:      t.IsActive,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	if t.Bus != nil {
		resp.BusName = t.Bus.Name
	}
	return resp
}
