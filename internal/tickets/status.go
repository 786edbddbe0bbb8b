package tickets

import "time"

// Status is the lifecycle state of a ticket. EXPIRED is never written to the
// database: it is derived at read time from an unpaid ticket whose payment
// deadline has passed, and the expired hold is reclaimed lazily by the next
// reservation that wants the seats.
type Status string

const (
	StatusReserved  Status = "RESERVED"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
	StatusExpired   Status = "EXPIRED"
)

// StatusAt derives the ticket's lifecycle state as of the given instant
func (t *Ticket) StatusAt(now time.Time) Status {
	switch {
	case t.IsCancelled:
		return StatusCancelled
	case t.IsPaid:
		return StatusPaid
	case t.PaymentDeadline != nil && !t.PaymentDeadline.After(now):
		return StatusExpired
	default:
		return StatusReserved
	}
}

// IsExpiredAt reports whether the unpaid hold has lapsed by the given instant
func (t *Ticket) IsExpiredAt(now time.Time) bool {
	return t.StatusAt(now) == StatusExpired
}

// CanBePaidAt reports whether the ticket may transition to PAID
func (t *Ticket) CanBePaidAt(now time.Time) bool {
	return t.StatusAt(now) == StatusReserved
}

// CanBeCancelled reports whether the ticket may transition to CANCELLED.
// Both unpaid holds and paid tickets can be cancelled; a cancelled ticket
// stays cancelled.
func (t *Ticket) CanBeCancelled() bool {
	return !t.IsCancelled
}

// CanBeEdited reports whether seats or schedule may still be changed. Paid
// and cancelled tickets are immutable on the seating side. An expired hold
// can still be edited: the update recomputes the deadline and its seats are
// re-arbitrated like any other reservation.
func (t *Ticket) CanBeEdited() bool {
	return !t.IsPaid && !t.IsCancelled
}
