package tickets

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrEmptySelection   = errors.New("no seats selected")
	ErrTooManySeats     = errors.New("too many seats requested")
	ErrInactiveTrip     = errors.New("trip is not active")
	ErrTripNotRunning   = errors.New("trip does not run on the requested date")
	ErrDepartureInPast  = errors.New("departure is in the past")
	ErrTicketImmutable  = errors.New("ticket can no longer be modified")
	ErrAlreadyPaid      = errors.New("ticket is already paid")
	ErrAlreadyCancelled = errors.New("ticket is already cancelled")
	ErrDeadlinePassed   = errors.New("payment deadline has passed")
	ErrNotTicketOwner   = errors.New("ticket does not belong to user")

	// errSeatRace is returned when the seat uniqueness index rejects an
	// insert, meaning a competing transaction claimed a seat between our
	// conflict check and commit. Retryable.
	errSeatRace = errors.New("seat claim lost a concurrent race")
)

// SeatConflictError reports a reservation that could not be honored in full.
// The whole request is rejected and every losing seat is named.
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats already taken: %s", strings.Join(e.Seats, ", "))
}

// IsSeatConflict reports whether err is a seat conflict and returns it
func IsSeatConflict(err error) (*SeatConflictError, bool) {
	var conflict *SeatConflictError
	if errors.As(err, &conflict) {
		return conflict, true
	}
	return nil, false
}

// UnknownSeatError reports requested labels that are not bookable seats of
// the trip's bus.
type UnknownSeatError struct {
	Seats []string
}

func (e *UnknownSeatError) Error() string {
	return fmt.Sprintf("unknown or unbookable seats: %s", strings.Join(e.Seats, ", "))
}

// isRetryable reports whether a reservation error is worth one retry
func isRetryable(err error) bool {
	return errors.Is(err, errSeatRace)
}
