package notifications

import (
	"encoding/json"
	"time"
)

// Ticket lifecycle event types published to Kafka
const (
	EventTicketReserved  = "TICKET_RESERVED"
	EventTicketUpdated   = "TICKET_UPDATED"
	EventTicketPaid      = "TICKET_PAID"
	EventTicketCancelled = "TICKET_CANCELLED"
)

// TicketEvent is the wire format of a ticket lifecycle event. Downstream
// consumers (SMS gateway, reporting) key on TicketNumber.
type TicketEvent struct {
	Type         string    `json:"type"`
	TicketID     string    `json:"ticket_id"`
	TicketNumber string    `json:"ticket_number"`
	TripID       string    `json:"trip_id"`
	TravelDate   string    `json:"travel_date"`
	Seats        []string  `json:"seats"`
	TotalPrice   float64   `json:"total_price"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// ToJSON serializes the event for the Kafka payload
func (e *TicketEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// GetPartitionKey returns the Kafka partition key. Events of one trip and
// date land on the same partition so per-departure ordering is preserved.
func (e *TicketEvent) GetPartitionKey() string {
	return e.TripID + ":" + e.TravelDate
}
