package tickets

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeatClaim is a live ticket_seats row joined with the lifecycle fields of
// its ticket, as needed to classify a seat's availability.
type SeatClaim struct {
	ClaimID         uuid.UUID  `gorm:"column:claim_id"`
	TicketID        uuid.UUID  `gorm:"column:ticket_id"`
	SeatLabel       string     `gorm:"column:seat_label"`
	IsPaid          bool       `gorm:"column:is_paid"`
	PaymentDeadline *time.Time `gorm:"column:payment_deadline"`
}

// Expired reports whether the claim is an unpaid hold past its deadline
func (c *SeatClaim) Expired(now time.Time) bool {
	return !c.IsPaid && c.PaymentDeadline != nil && !c.PaymentDeadline.After(now)
}

type Repository interface {
	// ReserveTicket creates the ticket and its seat claims atomically. Seat
	// conflicts are detected by an in-transaction ledger read, with the
	// partial unique index on live claims as the serialization backstop.
	ReserveTicket(ctx context.Context, ticket *Ticket) error

	// ReseatTicket atomically releases the ticket's live claims, claims the
	// new seat set and updates the ticket's schedule and price fields.
	ReseatTicket(ctx context.Context, ticket *Ticket, newSeats []TicketSeat) error

	LiveSeatClaims(ctx context.Context, tripID uuid.UUID, travelDate time.Time) ([]SeatClaim, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	GetByNumber(ctx context.Context, ticketNumber string) (*Ticket, error)
	ListByTripDate(ctx context.Context, tripID uuid.UUID, travelDate time.Time) ([]Ticket, error)
	ListByUser(ctx context.Context, bookedBy string, query TicketListQuery) ([]Ticket, int64, error)

	MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error
	Cancel(ctx context.Context, id uuid.UUID, cancelledAt time.Time) error
	SetPaymentDeadline(ctx context.Context, id uuid.UUID, deadline time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ReserveTicket(ctx context.Context, ticket *Ticket) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.arbitrateSeats(tx, ticket.TripID, ticket.TravelDate, ticket.Seats, nil); err != nil {
			return err
		}

		if err := tx.Create(ticket).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errSeatRace
			}
			return fmt.Errorf("failed to create ticket: %w", err)
		}
		return nil
	})
}

func (r *repository) ReseatTicket(ctx context.Context, ticket *Ticket, newSeats []TicketSeat) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(newSeats) > 0 {
			if err := r.arbitrateSeats(tx, ticket.TripID, ticket.TravelDate, newSeats, &ticket.ID); err != nil {
				return err
			}
		}

		// Release every prior live claim of this ticket before inserting the
		// replacement set, so the uniqueness index never sees the ticket
		// competing with itself.
		now := time.Now()
		err := tx.Model(&TicketSeat{}).
			Where("ticket_id = ? AND released_at IS NULL", ticket.ID).
			Update("released_at", now).Error
		if err != nil {
			return fmt.Errorf("failed to release prior seat claims: %w", err)
		}

		if len(newSeats) > 0 {
			if err := tx.Create(&newSeats).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return errSeatRace
				}
				return fmt.Errorf("failed to claim seats: %w", err)
			}
		}

		updates := map[string]interface{}{
			"trip_id":          ticket.TripID,
			"travel_date":      ticket.TravelDate,
			"passenger_name":   ticket.PassengerName,
			"passenger_phone":  ticket.PassengerPhone,
			"price_per_seat":   ticket.PricePerSeat,
			"total_price":      ticket.TotalPrice,
			"payment_deadline": ticket.PaymentDeadline,
			"updated_at":       now,
		}
		if err := tx.Model(&Ticket{}).Where("id = ?", ticket.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update ticket: %w", err)
		}
		return nil
	})
}

// arbitrateSeats re-reads the live claims for the requested labels inside
// the reservation transaction. Claims of the ticket being reseated are
// ignored, expired holds are reclaimed in place, and anything else is a
// conflict; the whole request fails naming every losing seat.
func (r *repository) arbitrateSeats(tx *gorm.DB, tripID uuid.UUID, travelDate time.Time, seats []TicketSeat, reseating *uuid.UUID) error {
	labels := make([]string, len(seats))
	for i := range seats {
		labels[i] = seats[i].SeatLabel
	}

	var claims []SeatClaim
	err := tx.Table("ticket_seats").
		Select("ticket_seats.id AS claim_id, ticket_seats.ticket_id, ticket_seats.seat_label, tickets.is_paid, tickets.payment_deadline").
		Joins("JOIN tickets ON tickets.id = ticket_seats.ticket_id").
		Where("ticket_seats.trip_id = ? AND ticket_seats.travel_date = ? AND ticket_seats.seat_label IN ? AND ticket_seats.released_at IS NULL",
			tripID, travelDate, labels).
		Find(&claims).Error
	if err != nil {
		return fmt.Errorf("failed to read seat claims: %w", err)
	}

	now := time.Now()
	var conflicts []string
	var reclaimable []uuid.UUID
	for i := range claims {
		if reseating != nil && claims[i].TicketID == *reseating {
			continue
		}
		if claims[i].Expired(now) {
			reclaimable = append(reclaimable, claims[i].ClaimID)
			continue
		}
		conflicts = append(conflicts, claims[i].SeatLabel)
	}

	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return &SeatConflictError{Seats: conflicts}
	}

	if len(reclaimable) > 0 {
		err := tx.Model(&TicketSeat{}).
			Where("id IN ?", reclaimable).
			Update("released_at", now).Error
		if err != nil {
			return fmt.Errorf("failed to reclaim expired holds: %w", err)
		}
	}
	return nil
}

func (r *repository) LiveSeatClaims(ctx context.Context, tripID uuid.UUID, travelDate time.Time) ([]SeatClaim, error) {
	var claims []SeatClaim
	err := r.db.WithContext(ctx).
		Table("ticket_seats").
		Select("ticket_seats.id AS claim_id, ticket_seats.ticket_id, ticket_seats.seat_label, tickets.is_paid, tickets.payment_deadline").
		Joins("JOIN tickets ON tickets.id = ticket_seats.ticket_id").
		Where("ticket_seats.trip_id = ? AND ticket_seats.travel_date = ? AND ticket_seats.released_at IS NULL",
			tripID, travelDate).
		Find(&claims).Error
	return claims, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).
		Preload("Seats", "released_at IS NULL").
		Preload("Trip").
		First(&ticket, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) GetByNumber(ctx context.Context, ticketNumber string) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).
		Preload("Seats", "released_at IS NULL").
		Preload("Trip").
		First(&ticket, "ticket_number = ?", ticketNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) ListByTripDate(ctx context.Context, tripID uuid.UUID, travelDate time.Time) ([]Ticket, error) {
	var tickets []Ticket
	err := r.db.WithContext(ctx).
		Preload("Seats", "released_at IS NULL").
		Where("trip_id = ? AND travel_date = ?", tripID, travelDate).
		Order("created_at ASC").
		Find(&tickets).Error
	return tickets, err
}

func (r *repository) ListByUser(ctx context.Context, bookedBy string, query TicketListQuery) ([]Ticket, int64, error) {
	var tickets []Ticket
	var totalCount int64

	// Set defaults
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("booked_by = ?", bookedBy)

	if query.DateFrom != "" {
		if dateFrom, err := time.Parse("2006-01-02", query.DateFrom); err == nil {
			baseQuery = baseQuery.Where("travel_date >= ?", NormalizeTravelDate(dateFrom))
		}
	}
	if query.DateTo != "" {
		if dateTo, err := time.Parse("2006-01-02", query.DateTo); err == nil {
			baseQuery = baseQuery.Where("travel_date <= ?", NormalizeTravelDate(dateTo))
		}
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("Seats", "released_at IS NULL").
		Preload("Trip").
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&tickets).Error

	return tickets, totalCount, err
}

func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_paid":          true,
			"paid_at":          paidAt,
			"payment_deadline": nil,
			"updated_at":       paidAt,
		}).Error
}

func (r *repository) Cancel(ctx context.Context, id uuid.UUID, cancelledAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&Ticket{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"is_cancelled": true,
				"cancelled_at": cancelledAt,
				"updated_at":   cancelledAt,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to cancel ticket: %w", err)
		}

		// Cancellation frees the seats immediately.
		err = tx.Model(&TicketSeat{}).
			Where("ticket_id = ? AND released_at IS NULL", id).
			Update("released_at", cancelledAt).Error
		if err != nil {
			return fmt.Errorf("failed to release seat claims: %w", err)
		}
		return nil
	})
}

func (r *repository) SetPaymentDeadline(ctx context.Context, id uuid.UUID, deadline time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_deadline": deadline,
			"updated_at":       time.Now(),
		}).Error
}
