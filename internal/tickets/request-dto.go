package tickets

type ReserveTicketRequest struct {
	TripID         string   `json:"trip_id" binding:"required,uuid"`
	TravelDate     string   `json:"travel_date" binding:"required"`
	Seats          []string `json:"seats"`
	PassengerName  string   `json:"passenger_name" binding:"required,min=2,max=255"`
	PassengerPhone string   `json:"passenger_phone" binding:"omitempty,max=20"`

	// Per-seat price override; when unset the trip's base price applies.
	PriceOverride *float64 `json:"price_override,omitempty" binding:"omitempty,gt=0"`
}

type UpdateTicketRequest struct {
	TripID         *string  `json:"trip_id,omitempty" binding:"omitempty,uuid"`
	TravelDate     *string  `json:"travel_date,omitempty"`
	Seats          []string `json:"seats,omitempty"`
	PassengerName  *string  `json:"passenger_name,omitempty" binding:"omitempty,min=2,max=255"`
	PassengerPhone *string  `json:"passenger_phone,omitempty" binding:"omitempty,max=20"`
	PriceOverride  *float64 `json:"price_override,omitempty" binding:"omitempty,gt=0"`
}

type DeadlineOverrideRequest struct {
	Deadline string `json:"deadline" binding:"required"`
}

type TicketListQuery struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}

type AvailabilityQuery struct {
	Date    string `form:"date" binding:"required"`
	Editing string `form:"editing"`
}
