package fleet

type CreateBusRequest struct {
	Name        string     `json:"name" binding:"required"`
	PlateNumber string     `json:"plate_number" binding:"required"`
	Layout      [][]string `json:"layout" binding:"required,min=1"`
}

type UpdateBusRequest struct {
	Name     *string `json:"name" binding:"omitempty"`
	IsActive *bool   `json:"is_active" binding:"omitempty"`
}
