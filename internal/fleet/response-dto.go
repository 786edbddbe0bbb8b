package fleet

import "time"

type BusResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	PlateNumber string         `json:"plate_number"`
	Rows        int            `json:"rows"`
	Cols        int            `json:"cols"`
	IsActive    bool           `json:"is_active"`
	Seats       []SeatResponse `json:"seats,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

type SeatResponse struct {
	Label string `json:"label"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Type  string `json:"type"`
}

// ToResponse converts a Bus (with or without seats loaded) to its API shape
func (b *Bus) ToResponse() BusResponse {
	resp := BusResponse{
		ID:          b.ID.String(),
		Name:        b.Name,
		PlateNumber: b.PlateNumber,
		Rows:        b.Rows,
		Cols:        b.Cols,
		IsActive:    b.IsActive,
		CreatedAt:   b.CreatedAt,
	}
	for _, seat := range b.Seats {
		resp.Seats = append(resp.Seats, SeatResponse{
			Label: seat.Label,
			Row:   seat.Row,
			Col:   seat.Col,
			Type:  string(seat.Type),
		})
	}
	return resp
}
