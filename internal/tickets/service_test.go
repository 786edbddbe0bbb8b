package tickets

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"busline/internal/fleet"
	"busline/internal/notifications"
	"busline/internal/trips"
	"busline/pkg/logger"

	"github.com/google/uuid"
)

// fakeRepo is an in-memory Repository for service tests. Reservation
// outcomes are scripted through reserveErrs/reseatErrs so races and
// conflicts can be simulated without a database.
type fakeRepo struct {
	claims  []SeatClaim
	tickets map[uuid.UUID]*Ticket

	reserveErrs  []error
	reserveCalls int
	reserved     *Ticket

	reseatErrs  []error
	reseatCalls int
	reseated    *Ticket
	reseatSeats []TicketSeat

	cancelled []uuid.UUID
	paid      []uuid.UUID
	deadlines map[uuid.UUID]time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tickets:   make(map[uuid.UUID]*Ticket),
		deadlines: make(map[uuid.UUID]time.Time),
	}
}

func (f *fakeRepo) nextErr(errs []error, call int) error {
	if call < len(errs) {
		return errs[call]
	}
	return nil
}

func (f *fakeRepo) ReserveTicket(ctx context.Context, ticket *Ticket) error {
	err := f.nextErr(f.reserveErrs, f.reserveCalls)
	f.reserveCalls++
	if err != nil {
		return err
	}
	f.reserved = ticket
	f.tickets[ticket.ID] = ticket
	return nil
}

func (f *fakeRepo) ReseatTicket(ctx context.Context, ticket *Ticket, newSeats []TicketSeat) error {
	err := f.nextErr(f.reseatErrs, f.reseatCalls)
	f.reseatCalls++
	if err != nil {
		return err
	}
	f.reseated = ticket
	f.reseatSeats = newSeats
	ticket.Seats = newSeats
	f.tickets[ticket.ID] = ticket
	return nil
}

func (f *fakeRepo) LiveSeatClaims(ctx context.Context, tripID uuid.UUID, travelDate time.Time) ([]SeatClaim, error) {
	return f.claims, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, ErrTicketNotFound
	}
	return ticket, nil
}

func (f *fakeRepo) GetByNumber(ctx context.Context, ticketNumber string) (*Ticket, error) {
	for _, ticket := range f.tickets {
		if ticket.TicketNumber == ticketNumber {
			return ticket, nil
		}
	}
	return nil, ErrTicketNotFound
}

func (f *fakeRepo) ListByTripDate(ctx context.Context, tripID uuid.UUID, travelDate time.Time) ([]Ticket, error) {
	return nil, nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, bookedBy string, query TicketListQuery) ([]Ticket, int64, error) {
	return nil, 0, nil
}

func (f *fakeRepo) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error {
	f.paid = append(f.paid, id)
	if ticket, ok := f.tickets[id]; ok {
		ticket.IsPaid = true
		ticket.PaidAt = &paidAt
		ticket.PaymentDeadline = nil
	}
	return nil
}

func (f *fakeRepo) Cancel(ctx context.Context, id uuid.UUID, cancelledAt time.Time) error {
	f.cancelled = append(f.cancelled, id)
	if ticket, ok := f.tickets[id]; ok {
		ticket.IsCancelled = true
		ticket.CancelledAt = &cancelledAt
	}
	return nil
}

func (f *fakeRepo) SetPaymentDeadline(ctx context.Context, id uuid.UUID, deadline time.Time) error {
	f.deadlines[id] = deadline
	if ticket, ok := f.tickets[id]; ok {
		ticket.PaymentDeadline = &deadline
	}
	return nil
}

type fakeTrips struct {
	trips map[uuid.UUID]*trips.Trip
}

func (f *fakeTrips) GetTrip(ctx context.Context, id uuid.UUID) (*trips.Trip, error) {
	trip, ok := f.trips[id]
	if !ok {
		return nil, trips.ErrTripNotFound
	}
	return trip, nil
}

type fakeCatalog struct {
	layout []fleet.Seat
}

func (f *fakeCatalog) GetSeatLayout(ctx context.Context, busID uuid.UUID) ([]fleet.Seat, error) {
	return f.layout, nil
}

type fakePublisher struct {
	events []*notifications.TicketEvent
}

func (f *fakePublisher) PublishTicketEvent(ctx context.Context, event *notifications.TicketEvent) error {
	f.events = append(f.events, event)
	return nil
}

func makeLayout(labels ...string) []fleet.Seat {
	seats := []fleet.Seat{{Label: "D", Type: fleet.SeatTypeDriver}}
	for _, label := range labels {
		seats = append(seats, fleet.Seat{Label: label, Type: fleet.SeatTypeSeat})
	}
	return seats
}

type serviceFixture struct {
	svc       Service
	repo      *fakeRepo
	trip      *trips.Trip
	publisher *fakePublisher
	date      string
}

func newServiceFixture(t *testing.T, seats ...string) *serviceFixture {
	t.Helper()

	trip := &trips.Trip{
		ID:            uuid.New(),
		RouteName:     "Capital Express",
		BusID:         uuid.New(),
		DepartureTime: "12:00",
		Weekdays:      "",
		PricePerSeat:  20,
		IsActive:      true,
	}

	repo := newFakeRepo()
	publisher := &fakePublisher{}
	svc := NewService(
		repo,
		NewResolver(repo, nil),
		&fakeTrips{trips: map[uuid.UUID]*trips.Trip{trip.ID: trip}},
		&fakeCatalog{layout: makeLayout(seats...)},
		publisher,
		nil,
		logger.GetDefault(),
		Config{RetryBackoff: time.Millisecond, MaxSeatsPerTicket: 4},
	)

	return &serviceFixture{
		svc:       svc,
		repo:      repo,
		trip:      trip,
		publisher: publisher,
		date:      time.Now().AddDate(0, 0, 5).Format("2006-01-02"),
	}
}

func (fx *serviceFixture) reserveReq(seats ...string) ReserveTicketRequest {
	return ReserveTicketRequest{
		TripID:        fx.trip.ID.String(),
		TravelDate:    fx.date,
		Seats:         seats,
		PassengerName: "Ilze Berzina",
	}
}

func TestReserveEmptySelection(t *testing.T) {
	fx := newServiceFixture(t, "A1", "A2")

	_, err := fx.svc.Reserve(context.Background(), "user-1", fx.reserveReq())
	if !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("err = %v, want ErrEmptySelection", err)
	}
	if fx.repo.reserveCalls != 0 {
		t.Error("repository should not be touched for an empty selection")
	}
}

func TestReserveSuccess(t *testing.T) {
	fx := newServiceFixture(t, "A1", "A2", "B1")

	ticket, err := fx.svc.Reserve(context.Background(), "user-1", fx.reserveReq("A2", "A1", "A2"))
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	if !strings.HasPrefix(ticket.TicketNumber, "BUS-") {
		t.Errorf("ticket number %q missing BUS- prefix", ticket.TicketNumber)
	}
	if len(ticket.Seats) != 2 {
		t.Fatalf("seat count = %d, want 2 (duplicates dropped)", len(ticket.Seats))
	}
	if ticket.TotalPrice != 40 {
		t.Errorf("total price = %v, want 40", ticket.TotalPrice)
	}
	if ticket.PricePerSeat != 20 {
		t.Errorf("price per seat = %v, want 20", ticket.PricePerSeat)
	}
	if ticket.PaymentDeadline == nil {
		t.Fatal("payment deadline not set")
	}
	if ticket.BookedBy != "user-1" {
		t.Errorf("booked by = %q, want user-1", ticket.BookedBy)
	}
	for _, seat := range ticket.Seats {
		if seat.TripID != fx.trip.ID {
			t.Error("seat claim missing trip denormalization")
		}
		if seat.TravelDate.IsZero() {
			t.Error("seat claim missing travel date denormalization")
		}
	}

	if len(fx.publisher.events) != 1 || fx.publisher.events[0].Type != notifications.EventTicketReserved {
		t.Errorf("expected one %s event, got %+v", notifications.EventTicketReserved, fx.publisher.events)
	}
}

func TestReserveInactiveTrip(t *testing.T) {
	fx := newServiceFixture(t, "A1")
	fx.trip.IsActive = false

	_, err := fx.svc.Reserve(context.Background(), "user-1", fx.reserveReq("A1"))
	if !errors.Is(err, ErrInactiveTrip) {
		t.Fatalf("err = %v, want ErrInactiveTrip", err)
	}
}

func TestReserveTripNotRunningOnDate(t *testing.T) {
	fx := newServiceFixture(t, "A1")

	// Restrict the trip to a weekday other than the travel date's.
	travelDate, _ := time.Parse("2006-01-02", fx.date)
	otherDay := travelDate.AddDate(0, 0, 1).Weekday().String()[:3]
	fx.trip.Weekdays = otherDay

	_, err := fx.svc.Reserve(context.Background(), "user-1", fx.reserveReq("A1"))
	if !errors.Is(err, ErrTripNotRunning) {
		t.Fatalf("err = %v, want ErrTripNotRunning", err)
	}
}

func TestReserveDepartureInPast(t *testing.T) {
	fx := newServiceFixture(t, "A1")
	fx.date = time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	_, err := fx.svc.Reserve(context.Background(), "user-1", fx.reserveReq("A1"))
	if !errors.Is(err, ErrDepartureInPast) {
		t.Fatalf("err = %v, want ErrDepartureInPast", err)
	}
}

func TestReserveUnknownSeats(t *testing.T) {
	fx := newServiceFixture(t, "A1", "A2")

	_, err := fx.svc.Reserve(context.Background(), "user-1", fx.reserveReq("A1", "Z9", "D"))
	var unknown *UnknownSeatError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownSeatError", err)
	}
	// The driver cell exists but is not bookable; both bad labels are named.
	if len(unknown.Seats) != 2 || unknown.Seats[0] != "D" || unknown.Seats[1] != "Z9" {
		t.Errorf("unknown seats = %v, want [D Z9]", unknown.Seats)
	}
}

func TestReserveTooManySeats(t *testing.T) {
	fx := newServiceFixture(t, "A1", "A2", "B1", "B2", "C1")

	_, err := fx.svc.Reserve(context.Background(), "user-1", fx.reserveReq("A1", "A2", "B1", "B2", "C1"))
	if !errors.Is(err, ErrTooManySeats) {
		t.Fatalf("err = %v, want ErrTooManySeats", err)
	}
	if fx.repo.reserveCalls != 0 {
		t.Error("repository should not be touched for an oversized selection")
	}
}

func TestReserveConflictNamesAllLosingSeats(t *testing.T) {
	fx := newServiceFixture(t, "A1", "A2", "B1")
	fx.repo.reserveErrs = []error{&SeatConflictError{Seats: []string{"A1", "B1"}}}

	_, err := fx.svc.Reserve(context.Background(), "user-1", fx.reserveReq("A1", "A2", "B1"))
	conflict, ok := IsSeatConflict(err)
	if !ok {
		t.Fatalf("err = %v, want SeatConflictError", err)
	}
	if len(conflict.Seats) != 2 || conflict.Seats[0] != "A1" || conflict.Seats[1] != "B1" {
		t.Errorf("conflict seats = %v, want [A1 B1]", conflict.Seats)
	}
	if fx.repo.reserveCalls != 1 {
		t.Errorf("reserve calls = %d, conflicts must not be retried", fx.repo.reserveCalls)
	}
}

func TestReserveRetriesOnceAfterLostRace(t *testing.T) {
	fx := newServiceFixture(t, "A1")
	fx.repo.reserveErrs = []error{errSeatRace, nil}

	ticket, err := fx.svc.Reserve(context.Background(), "user-1", fx.reserveReq("A1"))
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if ticket == nil {
		t.Fatal("expected ticket after successful retry")
	}
	if fx.repo.reserveCalls != 2 {
		t.Errorf("reserve calls = %d, want 2", fx.repo.reserveCalls)
	}
}

func TestReserveNamesConflictsAfterSecondLostRace(t *testing.T) {
	fx := newServiceFixture(t, "A1", "A2")
	fx.repo.reserveErrs = []error{errSeatRace, errSeatRace}

	future := time.Now().Add(time.Hour)
	fx.repo.claims = []SeatClaim{
		{TicketID: uuid.New(), SeatLabel: "A1", PaymentDeadline: &future},
	}

	_, err := fx.svc.Reserve(context.Background(), "user-1", fx.reserveReq("A1", "A2"))
	conflict, ok := IsSeatConflict(err)
	if !ok {
		t.Fatalf("err = %v, want SeatConflictError", err)
	}
	if len(conflict.Seats) != 1 || conflict.Seats[0] != "A1" {
		t.Errorf("conflict seats = %v, want [A1]", conflict.Seats)
	}
	if fx.repo.reserveCalls != 2 {
		t.Errorf("reserve calls = %d, want exactly 2", fx.repo.reserveCalls)
	}
}

func TestUpdateScheduleChangeWithoutSeatsReleasesHolds(t *testing.T) {
	fx := newServiceFixture(t, "A1", "A2")

	ticket, err := fx.svc.Reserve(context.Background(), "user-1", fx.reserveReq("A1", "A2"))
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	newDate := time.Now().AddDate(0, 0, 9).Format("2006-01-02")
	updated, err := fx.svc.Update(context.Background(), "user-1", ticket.ID, UpdateTicketRequest{
		TravelDate: &newDate,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if len(fx.repo.reseatSeats) != 0 {
		t.Errorf("expected all holds released on schedule change, kept %v", fx.repo.reseatSeats)
	}
	if updated.TotalPrice != 0 {
		t.Errorf("total price = %v, want 0 with no seats held", updated.TotalPrice)
	}
}

func TestUpdateSameScheduleKeepsSeats(t *testing.T) {
	fx := newServiceFixture(t, "A1", "A2")

	ticket, err := fx.svc.Reserve(context.Background(), "user-1", fx.reserveReq("A1", "A2"))
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	name := "Janis Ozols"
	updated, err := fx.svc.Update(context.Background(), "user-1", ticket.ID, UpdateTicketRequest{
		PassengerName: &name,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if len(fx.repo.reseatSeats) != 2 {
		t.Errorf("seat claims = %d, want 2 preserved", len(fx.repo.reseatSeats))
	}
	if updated.PassengerName != name {
		t.Errorf("passenger name = %q, want %q", updated.PassengerName, name)
	}
	if updated.TotalPrice != 40 {
		t.Errorf("total price = %v, want 40", updated.TotalPrice)
	}
}

func TestUpdateRejectsForeignTicket(t *testing.T) {
	fx := newServiceFixture(t, "A1")

	ticket, err := fx.svc.Reserve(context.Background(), "user-1", fx.reserveReq("A1"))
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	_, err = fx.svc.Update(context.Background(), "user-2", ticket.ID, UpdateTicketRequest{})
	if !errors.Is(err, ErrNotTicketOwner) {
		t.Fatalf("err = %v, want ErrNotTicketOwner", err)
	}
}

func TestUpdateRejectsPaidTicket(t *testing.T) {
	fx := newServiceFixture(t, "A1")

	ticket, err := fx.svc.Reserve(context.Background(), "user-1", fx.reserveReq("A1"))
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if err := fx.svc.Pay(context.Background(), "user-1", ticket.ID); err != nil {
		t.Fatalf("Pay failed: %v", err)
	}

	_, err = fx.svc.Update(context.Background(), "user-1", ticket.ID, UpdateTicketRequest{})
	if !errors.Is(err, ErrTicketImmutable) {
		t.Fatalf("err = %v, want ErrTicketImmutable", err)
	}
}

func TestPayLifecycle(t *testing.T) {
	fx := newServiceFixture(t, "A1")

	ticket, err := fx.svc.Reserve(context.Background(), "user-1", fx.reserveReq("A1"))
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	if err := fx.svc.Pay(context.Background(), "user-1", ticket.ID); err != nil {
		t.Fatalf("Pay failed: %v", err)
	}
	if ticket.PaymentDeadline != nil {
		t.Error("deadline should be cleared once paid")
	}

	if err := fx.svc.Pay(context.Background(), "user-1", ticket.ID); !errors.Is(err, ErrAlreadyPaid) {
		t.Errorf("second pay: err = %v, want ErrAlreadyPaid", err)
	}

	events := fx.publisher.events
	if len(events) != 2 || events[1].Type != notifications.EventTicketPaid {
		t.Errorf("expected reserved+paid events, got %+v", events)
	}
}

func TestPayAfterDeadlineFails(t *testing.T) {
	fx := newServiceFixture(t, "A1")

	ticket, err := fx.svc.Reserve(context.Background(), "user-1", fx.reserveReq("A1"))
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	past := time.Now().Add(-time.Minute)
	ticket.PaymentDeadline = &past

	if err := fx.svc.Pay(context.Background(), "user-1", ticket.ID); !errors.Is(err, ErrDeadlinePassed) {
		t.Fatalf("err = %v, want ErrDeadlinePassed", err)
	}
}

func TestCancelLifecycle(t *testing.T) {
	fx := newServiceFixture(t, "A1")

	ticket, err := fx.svc.Reserve(context.Background(), "user-1", fx.reserveReq("A1"))
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	if err := fx.svc.Cancel(context.Background(), "user-1", ticket.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if len(fx.repo.cancelled) != 1 || fx.repo.cancelled[0] != ticket.ID {
		t.Errorf("cancelled = %v, want [%v]", fx.repo.cancelled, ticket.ID)
	}

	if err := fx.svc.Cancel(context.Background(), "user-1", ticket.ID); !errors.Is(err, ErrAlreadyCancelled) {
		t.Errorf("second cancel: err = %v, want ErrAlreadyCancelled", err)
	}

	// Cancelled tickets stay in the ledger.
	if _, err := fx.svc.GetTicket(context.Background(), ticket.ID); err != nil {
		t.Errorf("cancelled ticket should remain readable: %v", err)
	}
}

func TestOverrideDeadline(t *testing.T) {
	fx := newServiceFixture(t, "A1")

	ticket, err := fx.svc.Reserve(context.Background(), "user-1", fx.reserveReq("A1"))
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	updated, err := fx.svc.OverrideDeadline(context.Background(), ticket.ID, "2026-06-01T12:00:00Z")
	if err != nil {
		t.Fatalf("OverrideDeadline failed: %v", err)
	}
	want := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	if updated.PaymentDeadline == nil || !updated.PaymentDeadline.Equal(want) {
		t.Errorf("deadline = %v, want %v", updated.PaymentDeadline, want)
	}

	// Garbage falls back to a day from now instead of failing.
	updated, err = fx.svc.OverrideDeadline(context.Background(), ticket.ID, "whenever")
	if err != nil {
		t.Fatalf("OverrideDeadline fallback failed: %v", err)
	}
	if updated.PaymentDeadline == nil || time.Until(*updated.PaymentDeadline) < 23*time.Hour {
		t.Errorf("fallback deadline = %v, want roughly a day out", updated.PaymentDeadline)
	}
}

func TestReservePriceOverride(t *testing.T) {
	fx := newServiceFixture(t, "A1", "A2")

	req := fx.reserveReq("A1", "A2")
	override := 12.5
	req.PriceOverride = &override

	ticket, err := fx.svc.Reserve(context.Background(), "user-1", req)
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if ticket.PricePerSeat != 12.5 {
		t.Errorf("price per seat = %v, want override 12.5", ticket.PricePerSeat)
	}
	if ticket.TotalPrice != 25 {
		t.Errorf("total price = %v, want 25", ticket.TotalPrice)
	}
}

func TestUpdatePriceOverrideSticksAcrossDateChange(t *testing.T) {
	fx := newServiceFixture(t, "A1", "A2")

	req := fx.reserveReq("A1", "A2")
	override := 15.0
	req.PriceOverride = &override

	ticket, err := fx.svc.Reserve(context.Background(), "user-1", req)
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	// Date moves on the same trip; the overridden price is kept, not
	// re-snapshotted from the trip's base price.
	newDate := time.Now().AddDate(0, 0, 9).Format("2006-01-02")
	updated, err := fx.svc.Update(context.Background(), "user-1", ticket.ID, UpdateTicketRequest{
		TravelDate: &newDate,
		Seats:      []string{"A1", "A2"},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.PricePerSeat != 15 {
		t.Errorf("price per seat = %v, want sticky override 15", updated.PricePerSeat)
	}
	if updated.TotalPrice != 30 {
		t.Errorf("total price = %v, want 30", updated.TotalPrice)
	}

	// A fresh override replaces the old one.
	newOverride := 18.0
	updated, err = fx.svc.Update(context.Background(), "user-1", ticket.ID, UpdateTicketRequest{
		PriceOverride: &newOverride,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.PricePerSeat != 18 || updated.TotalPrice != 36 {
		t.Errorf("price = %v/%v, want 18/36", updated.PricePerSeat, updated.TotalPrice)
	}
}

func TestAvailabilityEditingRequiresOwnership(t *testing.T) {
	fx := newServiceFixture(t, "A1", "A2")

	ticket, err := fx.svc.Reserve(context.Background(), "user-1", fx.reserveReq("A1"))
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	date, err := parseTravelDate(fx.date)
	if err != nil {
		t.Fatalf("parseTravelDate failed: %v", err)
	}

	// Someone else's ticket id must not unlock the editing overlay.
	_, err = fx.svc.GetAvailability(context.Background(), "user-2", fx.trip.ID, date, &ticket.ID)
	if !errors.Is(err, ErrNotTicketOwner) {
		t.Fatalf("err = %v, want ErrNotTicketOwner", err)
	}

	// The owner and an admin both may.
	if _, err := fx.svc.GetAvailability(context.Background(), "user-1", fx.trip.ID, date, &ticket.ID); err != nil {
		t.Errorf("owner overlay failed: %v", err)
	}
	if _, err := fx.svc.GetAvailability(context.Background(), "", fx.trip.ID, date, &ticket.ID); err != nil {
		t.Errorf("admin overlay failed: %v", err)
	}

	// A plain read needs no identity at all.
	if _, err := fx.svc.GetAvailability(context.Background(), "", fx.trip.ID, date, nil); err != nil {
		t.Errorf("anonymous availability failed: %v", err)
	}
}
