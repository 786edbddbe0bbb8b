package trips

import (
	"fmt"
	"time"

	"busline/internal/fleet"

	"github.com/google/uuid"
)

// Trip defines a scheduled service: a route, the bus operating it, a
// departure time-of-day and a recurrence rule. Immutable from the point of
// view of a booking transaction.
type Trip struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RouteName   string    `gorm:"not null" json:"route_name"`
	Origin      string    `gorm:"not null" json:"origin"`
	Destination string    `gorm:"not null" json:"destination"`
	BusID       uuid.UUID `gorm:"type:uuid;index;not null" json:"bus_id"`

	// Departure time-of-day in "15:04" format; combined with a travel date
	// to produce the full departure timestamp.
	DepartureTime string `gorm:"type:varchar(5);not null" json:"departure_time"`

	// Recurrence: empty means the trip runs daily, otherwise a comma
	// separated weekday list ("Mon,Tue,Fri").
	Weekdays string `gorm:"type:varchar(30)" json:"weekdays"`

	PricePerSeat float64   `gorm:"not null" json:"price_per_seat"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	Bus *fleet.Bus `json:"bus,omitempty" gorm:"foreignKey:BusID;constraint:OnDelete:RESTRICT;"`
}

// TableName sets the table name for Trip
func (Trip) TableName() string {
	return "trips"
}

// DepartureOn combines the trip's time-of-day with a travel date. The travel
// date's location is preserved.
func (t *Trip) DepartureOn(date time.Time) (time.Time, error) {
	tod, err := time.Parse("15:04", t.DepartureTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid departure time %q: %w", t.DepartureTime, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		tod.Hour(), tod.Minute(), 0, 0, date.Location()), nil
}

// IsRunningOn reports whether the recurrence rule includes the given date
func (t *Trip) IsRunningOn(date time.Time) bool {
	rule, err := ParseRecurrence(t.Weekdays)
	if err != nil {
		return false
	}
	return rule.RunsOn(date)
}
