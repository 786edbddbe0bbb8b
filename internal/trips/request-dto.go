package trips

type CreateTripRequest struct {
	RouteName     string  `json:"route_name" binding:"required,min=3,max=255"`
	Origin        string  `json:"origin" binding:"required,min=2,max=255"`
	Destination   string  `json:"destination" binding:"required,min=2,max=255"`
	BusID         string  `json:"bus_id" binding:"required,uuid"`
	DepartureTime string  `json:"departure_time" binding:"required,len=5"`
	Weekdays      string  `json:"weekdays"`
	PricePerSeat  float64 `json:"price_per_seat" binding:"required,gt=0"`
}

type UpdateTripRequest struct {
	RouteName     *string  `json:"route_name,omitempty" binding:"omitempty,min=3,max=255"`
	DepartureTime *string  `json:"departure_time,omitempty" binding:"omitempty,len=5"`
	Weekdays      *string  `json:"weekdays,omitempty"`
	PricePerSeat  *float64 `json:"price_per_seat,omitempty" binding:"omitempty,gt=0"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

type TripListQuery struct {
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
	Origin      string `form:"origin"`
	Destination string `form:"destination"`
	ActiveOnly  bool   `form:"active_only"`
}
