package tickets

import (
	"context"
	"fmt"
	"sort"
	"time"

	"busline/internal/fleet"
	"busline/internal/notifications"
	"busline/internal/shared/constants"
	"busline/internal/trips"
	"busline/pkg/cache"
	"busline/pkg/logger"

	"github.com/google/uuid"
)

// TripLookup is the slice of the trips service this package needs.
// Defined locally to avoid a package cycle.
type TripLookup interface {
	GetTrip(ctx context.Context, id uuid.UUID) (*trips.Trip, error)
}

// SeatCatalog is the slice of the fleet service this package needs
type SeatCatalog interface {
	GetSeatLayout(ctx context.Context, busID uuid.UUID) ([]fleet.Seat, error)
}

// EventPublisher publishes ticket lifecycle events. Publishing is best
// effort: a broker outage never fails a booking.
type EventPublisher interface {
	PublishTicketEvent(ctx context.Context, event *notifications.TicketEvent) error
}

// Config carries the reservation tuning knobs
type Config struct {
	RetryBackoff      time.Duration
	MaxSeatsPerTicket int
}

// Service interface defines the contract for ticket business logic
type Service interface {
	Reserve(ctx context.Context, userID string, req ReserveTicketRequest) (*Ticket, error)
	Update(ctx context.Context, userID string, ticketID uuid.UUID, req UpdateTicketRequest) (*Ticket, error)
	Cancel(ctx context.Context, userID string, ticketID uuid.UUID) error
	Pay(ctx context.Context, userID string, ticketID uuid.UUID) error

	GetTicket(ctx context.Context, ticketID uuid.UUID) (*Ticket, error)
	ListUserTickets(ctx context.Context, userID string, query TicketListQuery) ([]Ticket, int64, error)

	GetAvailability(ctx context.Context, userID string, tripID uuid.UUID, travelDate time.Time, editing *uuid.UUID) (*Availability, error)

	// Admin operations
	ListTripTickets(ctx context.Context, tripID uuid.UUID, travelDate time.Time) ([]Ticket, error)
	OverrideDeadline(ctx context.Context, ticketID uuid.UUID, raw string) (*Ticket, error)
}

type service struct {
	repo      Repository
	resolver  *Resolver
	trips     TripLookup
	catalog   SeatCatalog
	publisher EventPublisher
	cache     cache.Service
	log       *logger.Logger
	cfg       Config
}

// NewService creates a new ticket service instance
func NewService(repo Repository, resolver *Resolver, tripLookup TripLookup, catalog SeatCatalog, publisher EventPublisher, cacheService cache.Service, log *logger.Logger, cfg Config) Service {
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 100 * time.Millisecond
	}
	if cfg.MaxSeatsPerTicket <= 0 {
		cfg.MaxSeatsPerTicket = 10
	}
	return &service{
		repo:      repo,
		resolver:  resolver,
		trips:     tripLookup,
		catalog:   catalog,
		publisher: publisher,
		cache:     cacheService,
		log:       log,
		cfg:       cfg,
	}
}

func (s *service) Reserve(ctx context.Context, userID string, req ReserveTicketRequest) (*Ticket, error) {
	labels := dedupeLabels(req.Seats)
	if len(labels) == 0 {
		return nil, ErrEmptySelection
	}
	if len(labels) > s.cfg.MaxSeatsPerTicket {
		return nil, fmt.Errorf("%w: at most %d per ticket, requested %d", ErrTooManySeats, s.cfg.MaxSeatsPerTicket, len(labels))
	}

	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, fmt.Errorf("invalid trip id: %w", err)
	}
	travelDate, err := parseTravelDate(req.TravelDate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	trip, departure, err := s.validateDeparture(ctx, tripID, travelDate, now)
	if err != nil {
		return nil, err
	}

	layout, err := s.catalog.GetSeatLayout(ctx, trip.BusID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seat layout: %w", err)
	}
	if err := validateSelection(labels, layout); err != nil {
		return nil, err
	}

	ticketNumber, err := generateTicketNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ticket number: %w", err)
	}

	pricePerSeat := trip.PricePerSeat
	if req.PriceOverride != nil {
		pricePerSeat = *req.PriceOverride
	}

	deadline := ComputeDeadline(now, departure)
	ticket := &Ticket{
		ID:              uuid.New(),
		TicketNumber:    ticketNumber,
		TripID:          tripID,
		TravelDate:      travelDate,
		PassengerName:   req.PassengerName,
		PassengerPhone:  req.PassengerPhone,
		BookedBy:        userID,
		PricePerSeat:    pricePerSeat,
		TotalPrice:      pricePerSeat * float64(len(labels)),
		PaymentDeadline: &deadline,
	}
	ticket.Seats = buildSeatClaims(ticket.ID, tripID, travelDate, labels)

	err = s.withSeatRaceRetry(ctx, tripID, travelDate, labels, nil, func() error {
		return s.repo.ReserveTicket(ctx, ticket)
	})
	if err != nil {
		if conflict, ok := IsSeatConflict(err); ok {
			s.log.LogSeatConflict(ctx, tripID.String(), req.TravelDate, conflict.Seats)
		}
		return nil, err
	}

	s.invalidateAvailability(ctx, tripID, travelDate)
	s.log.LogTicketReserved(ctx, ticket.TicketNumber, tripID.String(), req.TravelDate, labels)
	s.publish(ctx, notifications.EventTicketReserved, ticket, labels)

	return ticket, nil
}

func (s *service) Update(ctx context.Context, userID string, ticketID uuid.UUID, req UpdateTicketRequest) (*Ticket, error) {
	ticket, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(ticket, userID); err != nil {
		return nil, err
	}
	if !ticket.CanBeEdited() {
		return nil, ErrTicketImmutable
	}

	oldTripID, oldDate := ticket.TripID, ticket.TravelDate

	newTripID := ticket.TripID
	if req.TripID != nil {
		newTripID, err = uuid.Parse(*req.TripID)
		if err != nil {
			return nil, fmt.Errorf("invalid trip id: %w", err)
		}
	}
	newDate := ticket.TravelDate
	if req.TravelDate != nil {
		newDate, err = parseTravelDate(*req.TravelDate)
		if err != nil {
			return nil, err
		}
	}
	scheduleChanged := newTripID != oldTripID || !newDate.Equal(oldDate)

	now := time.Now()
	trip, departure, err := s.validateDeparture(ctx, newTripID, newDate, now)
	if err != nil {
		return nil, err
	}

	// Moving the ticket to another departure releases the old holds even
	// when no new seats were chosen yet: the old seats belong to a
	// departure this ticket no longer covers.
	var labels []string
	switch {
	case len(req.Seats) > 0:
		labels = dedupeLabels(req.Seats)
	case scheduleChanged:
		labels = nil
	default:
		labels = ticket.SeatLabels()
	}

	if len(labels) > s.cfg.MaxSeatsPerTicket {
		return nil, fmt.Errorf("%w: at most %d per ticket, requested %d", ErrTooManySeats, s.cfg.MaxSeatsPerTicket, len(labels))
	}
	if len(labels) > 0 {
		layout, err := s.catalog.GetSeatLayout(ctx, trip.BusID)
		if err != nil {
			return nil, fmt.Errorf("failed to load seat layout: %w", err)
		}
		if err := validateSelection(labels, layout); err != nil {
			return nil, err
		}
	}

	if req.PassengerName != nil {
		ticket.PassengerName = *req.PassengerName
	}
	if req.PassengerPhone != nil {
		ticket.PassengerPhone = *req.PassengerPhone
	}

	// An override sticks across date changes; moving to a different trip
	// re-snapshots that trip's base price unless a new override is given.
	pricePerSeat := ticket.PricePerSeat
	switch {
	case req.PriceOverride != nil:
		pricePerSeat = *req.PriceOverride
	case newTripID != oldTripID:
		pricePerSeat = trip.PricePerSeat
	}

	deadline := ComputeDeadline(now, departure)
	ticket.TripID = newTripID
	ticket.TravelDate = newDate
	ticket.PricePerSeat = pricePerSeat
	ticket.TotalPrice = pricePerSeat * float64(len(labels))
	ticket.PaymentDeadline = &deadline

	newSeats := buildSeatClaims(ticket.ID, newTripID, newDate, labels)
	err = s.withSeatRaceRetry(ctx, newTripID, newDate, labels, &ticket.ID, func() error {
		return s.repo.ReseatTicket(ctx, ticket, newSeats)
	})
	if err != nil {
		if conflict, ok := IsSeatConflict(err); ok {
			s.log.LogSeatConflict(ctx, newTripID.String(), newDate.Format("2006-01-02"), conflict.Seats)
		}
		return nil, err
	}

	s.invalidateAvailability(ctx, oldTripID, oldDate)
	if scheduleChanged {
		s.invalidateAvailability(ctx, newTripID, newDate)
	}
	s.publish(ctx, notifications.EventTicketUpdated, ticket, labels)

	return s.repo.GetByID(ctx, ticketID)
}

func (s *service) Cancel(ctx context.Context, userID string, ticketID uuid.UUID) error {
	ticket, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}
	if err := checkOwnership(ticket, userID); err != nil {
		return err
	}
	if ticket.IsCancelled {
		return ErrAlreadyCancelled
	}

	now := time.Now()
	if err := s.repo.Cancel(ctx, ticketID, now); err != nil {
		return err
	}

	s.invalidateAvailability(ctx, ticket.TripID, ticket.TravelDate)
	s.log.LogTicketCancelled(ctx, ticket.TicketNumber)
	s.publish(ctx, notifications.EventTicketCancelled, ticket, ticket.SeatLabels())

	return nil
}

func (s *service) Pay(ctx context.Context, userID string, ticketID uuid.UUID) error {
	ticket, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}
	if err := checkOwnership(ticket, userID); err != nil {
		return err
	}

	now := time.Now()
	switch ticket.StatusAt(now) {
	case StatusCancelled:
		return ErrAlreadyCancelled
	case StatusPaid:
		return ErrAlreadyPaid
	case StatusExpired:
		return ErrDeadlinePassed
	}

	if err := s.repo.MarkPaid(ctx, ticketID, now); err != nil {
		return err
	}

	s.invalidateAvailability(ctx, ticket.TripID, ticket.TravelDate)
	s.log.LogTicketPaid(ctx, ticket.TicketNumber)
	s.publish(ctx, notifications.EventTicketPaid, ticket, ticket.SeatLabels())

	return nil
}

func (s *service) GetTicket(ctx context.Context, ticketID uuid.UUID) (*Ticket, error) {
	return s.repo.GetByID(ctx, ticketID)
}

func (s *service) ListUserTickets(ctx context.Context, userID string, query TicketListQuery) ([]Ticket, int64, error) {
	return s.repo.ListByUser(ctx, userID, query)
}

func (s *service) GetAvailability(ctx context.Context, userID string, tripID uuid.UUID, travelDate time.Time, editing *uuid.UUID) (*Availability, error) {
	// The editing overlay reveals which seats belong to a specific ticket,
	// so only that ticket's owner (or an admin) may request it.
	if editing != nil {
		ticket, err := s.repo.GetByID(ctx, *editing)
		if err != nil {
			return nil, err
		}
		if err := checkOwnership(ticket, userID); err != nil {
			return nil, err
		}
	}

	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	layout, err := s.catalog.GetSeatLayout(ctx, trip.BusID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seat layout: %w", err)
	}
	return s.resolver.Resolve(ctx, tripID, NormalizeTravelDate(travelDate), layout, editing)
}

func (s *service) ListTripTickets(ctx context.Context, tripID uuid.UUID, travelDate time.Time) ([]Ticket, error) {
	return s.repo.ListByTripDate(ctx, tripID, NormalizeTravelDate(travelDate))
}

func (s *service) OverrideDeadline(ctx context.Context, ticketID uuid.UUID, raw string) (*Ticket, error) {
	ticket, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.IsCancelled {
		return nil, ErrAlreadyCancelled
	}
	if ticket.IsPaid {
		return nil, ErrAlreadyPaid
	}

	deadline := ParseDeadlineOverride(raw, time.Now())
	if err := s.repo.SetPaymentDeadline(ctx, ticketID, deadline); err != nil {
		return nil, err
	}

	// A moved deadline can flip seats between reserved and available.
	s.invalidateAvailability(ctx, ticket.TripID, ticket.TravelDate)

	return s.repo.GetByID(ctx, ticketID)
}

// validateDeparture loads the trip and checks it can carry a reservation on
// the given date.
func (s *service) validateDeparture(ctx context.Context, tripID uuid.UUID, travelDate time.Time, now time.Time) (*trips.Trip, time.Time, error) {
	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		return nil, time.Time{}, err
	}
	if !trip.IsActive {
		return nil, time.Time{}, ErrInactiveTrip
	}
	if !trip.IsRunningOn(travelDate) {
		return nil, time.Time{}, ErrTripNotRunning
	}
	departure, err := trip.DepartureOn(travelDate)
	if err != nil {
		return nil, time.Time{}, err
	}
	if !departure.After(now) {
		return nil, time.Time{}, ErrDepartureInPast
	}
	return trip, departure, nil
}

// withSeatRaceRetry runs a reservation attempt and retries once when the
// uniqueness index rejected it. If the retry loses again, the ledger is
// re-read to name the seats that were taken.
func (s *service) withSeatRaceRetry(ctx context.Context, tripID uuid.UUID, travelDate time.Time, labels []string, own *uuid.UUID, attempt func() error) error {
	err := attempt()
	if !isRetryable(err) {
		return err
	}

	select {
	case <-time.After(s.cfg.RetryBackoff):
	case <-ctx.Done():
		return ctx.Err()
	}

	err = attempt()
	if !isRetryable(err) {
		return err
	}
	return s.nameConflicts(ctx, tripID, travelDate, labels, own)
}

// nameConflicts re-reads the ledger after a lost race so the caller learns
// which of the requested seats are occupied.
func (s *service) nameConflicts(ctx context.Context, tripID uuid.UUID, travelDate time.Time, labels []string, own *uuid.UUID) error {
	claims, err := s.repo.LiveSeatClaims(ctx, tripID, travelDate)
	if err != nil {
		return &SeatConflictError{Seats: labels}
	}

	requested := make(map[string]bool, len(labels))
	for _, label := range labels {
		requested[label] = true
	}

	now := time.Now()
	var conflicts []string
	for i := range claims {
		if !requested[claims[i].SeatLabel] {
			continue
		}
		if own != nil && claims[i].TicketID == *own {
			continue
		}
		if claims[i].Expired(now) {
			continue
		}
		conflicts = append(conflicts, claims[i].SeatLabel)
	}
	if len(conflicts) == 0 {
		conflicts = labels
	}
	sort.Strings(conflicts)
	return &SeatConflictError{Seats: conflicts}
}

func (s *service) invalidateAvailability(ctx context.Context, tripID uuid.UUID, travelDate time.Time) {
	if s.cache == nil {
		return
	}
	key := constants.BuildAvailabilityKey(tripID.String(), travelDate.Format("2006-01-02"))
	_ = s.cache.Delete(ctx, key)
}

func (s *service) publish(ctx context.Context, eventType string, ticket *Ticket, labels []string) {
	if s.publisher == nil {
		return
	}
	event := &notifications.TicketEvent{
		Type:         eventType,
		TicketID:     ticket.ID.String(),
		TicketNumber: ticket.TicketNumber,
		TripID:       ticket.TripID.String(),
		TravelDate:   ticket.TravelDate.Format("2006-01-02"),
		Seats:        labels,
		TotalPrice:   ticket.TotalPrice,
		OccurredAt:   time.Now(),
	}
	if err := s.publisher.PublishTicketEvent(ctx, event); err != nil {
		s.log.WithError(err).Warn("failed to publish ticket event", "type", eventType, "ticket_number", ticket.TicketNumber)
	}
}

// checkOwnership enforces that a caller only touches their own tickets.
// An empty userID is an admin acting on any ticket.
func checkOwnership(ticket *Ticket, userID string) error {
	if userID == "" {
		return nil
	}
	if ticket.BookedBy != userID {
		return ErrNotTicketOwner
	}
	return nil
}

func parseTravelDate(raw string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid travel date %q: expected YYYY-MM-DD", raw)
	}
	return NormalizeTravelDate(date), nil
}
