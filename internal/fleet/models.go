package fleet

import (
	"time"

	"github.com/google/uuid"
)

// SeatType classifies a cell in the bus floor plan
type SeatType string

const (
	SeatTypeSeat   SeatType = "seat"
	SeatTypeDriver SeatType = "driver"
	SeatTypeDoor   SeatType = "door"
	SeatTypeWC     SeatType = "wc"
)

// IsValid checks if the seat type is a known value
func (t SeatType) IsValid() bool {
	switch t {
	case SeatTypeSeat, SeatTypeDriver, SeatTypeDoor, SeatTypeWC:
		return true
	}
	return false
}

// IsBookable reports whether passengers can reserve this cell
func (t SeatType) IsBookable() bool {
	return t == SeatTypeSeat
}

// Bus defines a vehicle and owns its seat catalog
type Bus struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	PlateNumber string    `gorm:"unique;not null" json:"plate_number"`
	Rows        int       `gorm:"not null" json:"rows"`
	Cols        int       `gorm:"not null" json:"cols"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Seats []Seat `json:"seats,omitempty" gorm:"foreignKey:BusID;constraint:OnDelete:CASCADE;"`
}

// Seat defines one cell of a bus floor plan. Identity within a bus is the
// label; only cells with type "seat" are bookable.
type Seat struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BusID     uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_bus_seat_label" json:"bus_id"`
	Label     string    `gorm:"not null;uniqueIndex:idx_bus_seat_label" json:"label"`
	Row       int       `gorm:"not null" json:"row"`
	Col       int       `gorm:"not null" json:"col"`
	Type      SeatType  `gorm:"type:varchar(10);check:type IN ('seat', 'driver', 'door', 'wc');default:'seat'" json:"type"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Bus *Bus `json:"bus,omitempty" gorm:"foreignKey:BusID;constraint:OnDelete:CASCADE;"`
}

// TableName sets the table name for Bus
func (Bus) TableName() string {
	return "buses"
}

// TableName sets the table name for Seat
func (Seat) TableName() string {
	return "seats"
}

// IsBookable reports whether this cell can be reserved
func (s *Seat) IsBookable() bool {
	return s.Type.IsBookable()
}

// BookableLabels returns the labels of every bookable seat on the bus
func (b *Bus) BookableLabels() []string {
	var labels []string
	for _, seat := range b.Seats {
		if seat.IsBookable() {
			labels = append(labels, seat.Label)
		}
	}
	return labels
}
