package tickets

import (
	"time"

	"busline/internal/trips"

	"github.com/google/uuid"
)

// Ticket is the ledger record of a reservation. Tickets are never deleted;
// cancellation and expiry are recorded (or derived) in place so the booking
// history stays complete.
type Ticket struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TicketNumber string    `gorm:"uniqueIndex;not null" json:"ticket_number"`

	TripID uuid.UUID `gorm:"type:uuid;index;not null" json:"trip_id"`

	// TravelDate is normalized to midnight UTC so equality comparisons and
	// the seat uniqueness constraint behave regardless of request timezone.
	TravelDate time.Time `gorm:"type:date;not null" json:"travel_date"`

	PassengerName  string `gorm:"not null" json:"passenger_name"`
	PassengerPhone string `json:"passenger_phone"`
	BookedBy       string `gorm:"index" json:"booked_by"`

	// Price per seat is snapshotted at reservation time so later fare
	// changes never reprice an existing ticket.
	PricePerSeat float64 `gorm:"not null" json:"price_per_seat"`
	TotalPrice   float64 `gorm:"not null" json:"total_price"`

	IsPaid      bool `gorm:"default:false" json:"is_paid"`
	IsCancelled bool `gorm:"default:false" json:"is_cancelled"`

	// PaymentDeadline is nil once the ticket is paid.
	PaymentDeadline *time.Time `json:"payment_deadline,omitempty"`

	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Trip  *trips.Trip  `json:"trip,omitempty" gorm:"foreignKey:TripID;constraint:OnDelete:RESTRICT;"`
	Seats []TicketSeat `json:"seats,omitempty" gorm:"foreignKey:TicketID"`
}

// TableName sets the table name for Ticket
func (Ticket) TableName() string {
	return "tickets"
}

// TicketSeat is one seat claim of a ticket. Trip and travel date are
// denormalized from the ticket so the partial unique index on
// (trip_id, travel_date, seat_label) WHERE released_at IS NULL can arbitrate
// concurrent claims at row level.
type TicketSeat struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TicketID uuid.UUID `gorm:"type:uuid;index;not null" json:"ticket_id"`

	TripID     uuid.UUID `gorm:"type:uuid;not null" json:"trip_id"`
	TravelDate time.Time `gorm:"type:date;not null" json:"travel_date"`
	SeatLabel  string    `gorm:"type:varchar(5);not null" json:"seat_label"`

	// ReleasedAt marks a claim that no longer occupies the seat: set when
	// a ticket is cancelled, reseated, or its expired hold is reclaimed.
	ReleasedAt *time.Time `json:"released_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name for TicketSeat
func (TicketSeat) TableName() string {
	return "ticket_seats"
}

// SeatLabels returns the labels of the ticket's live claims, in stored order
func (t *Ticket) SeatLabels() []string {
	labels := make([]string, 0, len(t.Seats))
	for i := range t.Seats {
		if t.Seats[i].ReleasedAt == nil {
			labels = append(labels, t.Seats[i].SeatLabel)
		}
	}
	return labels
}

// NormalizeTravelDate truncates a travel date to midnight UTC
func NormalizeTravelDate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}
