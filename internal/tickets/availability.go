package tickets

import (
	"context"
	"fmt"
	"time"

	"busline/internal/fleet"
	"busline/internal/shared/constants"
	"busline/pkg/cache"

	"github.com/google/uuid"
)

// SeatStatus is the availability classification of one seat on one departure
type SeatStatus string

const (
	SeatAvailable      SeatStatus = "available"
	SeatBooked         SeatStatus = "booked"
	SeatReservedUnpaid SeatStatus = "reserved-unpaid"

	// SeatCurrentTicket marks seats held by the ticket currently being
	// edited, so the client can render them as the caller's own selection.
	SeatCurrentTicket SeatStatus = "current-ticket"
)

// SeatAvailability is one cell of the availability projection
type SeatAvailability struct {
	Label  string     `json:"label"`
	Row    int        `json:"row"`
	Col    int        `json:"col"`
	Type   string     `json:"type"`
	Status SeatStatus `json:"status,omitempty"`
}

// Availability is the full seat map of one departure
type Availability struct {
	TripID         uuid.UUID          `json:"trip_id"`
	TravelDate     string             `json:"travel_date"`
	Seats          []SeatAvailability `json:"seats"`
	AvailableCount int                `json:"available_count"`
	BookableCount  int                `json:"bookable_count"`
}

// Resolver derives seat availability from the bus layout and the live claim
// ledger. Reading never mutates the ledger: expired holds simply classify as
// available and are reclaimed by the next reservation that wants them.
type Resolver struct {
	repo  Repository
	cache cache.Service
}

func NewResolver(repo Repository, cacheService cache.Service) *Resolver {
	return &Resolver{repo: repo, cache: cacheService}
}

// Resolve builds the availability map for one departure. When editing is set
// the caller is reworking an existing ticket: that ticket's own claims are
// shown as current-ticket, and the result bypasses the cache because it is
// caller-specific.
func (r *Resolver) Resolve(ctx context.Context, tripID uuid.UUID, travelDate time.Time, layout []fleet.Seat, editing *uuid.UUID) (*Availability, error) {
	if r.cache == nil || editing != nil {
		return r.resolve(ctx, tripID, travelDate, layout, editing)
	}

	var availability Availability
	key := constants.BuildAvailabilityKey(tripID.String(), travelDate.Format("2006-01-02"))
	err := r.cache.GetOrSet(ctx, key, constants.TTL_AVAILABILITY, func() (interface{}, error) {
		return r.resolve(ctx, tripID, travelDate, layout, nil)
	}, &availability)
	if err != nil {
		return nil, err
	}
	return &availability, nil
}

func (r *Resolver) resolve(ctx context.Context, tripID uuid.UUID, travelDate time.Time, layout []fleet.Seat, editing *uuid.UUID) (*Availability, error) {
	claims, err := r.repo.LiveSeatClaims(ctx, tripID, travelDate)
	if err != nil {
		return nil, fmt.Errorf("failed to read seat claims: %w", err)
	}

	now := time.Now()
	statusByLabel := make(map[string]SeatStatus, len(claims))
	for i := range claims {
		statusByLabel[claims[i].SeatLabel] = classifyClaim(&claims[i], now, editing)
	}

	availability := &Availability{
		TripID:     tripID,
		TravelDate: travelDate.Format("2006-01-02"),
		Seats:      make([]SeatAvailability, 0, len(layout)),
	}
	for i := range layout {
		seat := SeatAvailability{
			Label: layout[i].Label,
			Row:   layout[i].Row,
			Col:   layout[i].Col,
			Type:  string(layout[i].Type),
		}
		if layout[i].Type.IsBookable() {
			availability.BookableCount++
			seat.Status = SeatAvailable
			if status, held := statusByLabel[layout[i].Label]; held {
				seat.Status = status
			}
			if seat.Status == SeatAvailable {
				availability.AvailableCount++
			}
		}
		availability.Seats = append(availability.Seats, seat)
	}
	return availability, nil
}

// classifyClaim maps one live claim to a seat status. An expired unpaid hold
// no longer blocks the seat.
func classifyClaim(claim *SeatClaim, now time.Time, editing *uuid.UUID) SeatStatus {
	if editing != nil && claim.TicketID == *editing {
		return SeatCurrentTicket
	}
	if claim.IsPaid {
		return SeatBooked
	}
	if claim.Expired(now) {
		return SeatAvailable
	}
	return SeatReservedUnpaid
}
