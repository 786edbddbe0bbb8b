package tickets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm open error: %v", err)
	}

	return NewRepository(gdb), mock
}

func claimColumns() []string {
	return []string{"claim_id", "ticket_id", "seat_label", "is_paid", "payment_deadline"}
}

func TestLiveSeatClaimsMapsJoinedRows(t *testing.T) {
	repo, mock := newMockRepo(t)

	ticketID := uuid.New()
	deadline := time.Now().Add(time.Hour)
	rows := sqlmock.NewRows(claimColumns()).
		AddRow(uuid.New().String(), ticketID.String(), "A1", false, deadline).
		AddRow(uuid.New().String(), uuid.New().String(), "B2", true, nil)

	mock.ExpectQuery(`SELECT ticket_seats\.id AS claim_id.+FROM "ticket_seats" JOIN tickets`).
		WillReturnRows(rows)

	claims, err := repo.LiveSeatClaims(context.Background(), uuid.New(), NormalizeTravelDate(time.Now()))
	if err != nil {
		t.Fatalf("LiveSeatClaims failed: %v", err)
	}
	if len(claims) != 2 {
		t.Fatalf("claim count = %d, want 2", len(claims))
	}
	if claims[0].TicketID != ticketID || claims[0].SeatLabel != "A1" || claims[0].IsPaid {
		t.Errorf("first claim mapped wrong: %+v", claims[0])
	}
	if claims[0].PaymentDeadline == nil {
		t.Error("first claim lost its deadline")
	}
	if !claims[1].IsPaid || claims[1].PaymentDeadline != nil {
		t.Errorf("second claim mapped wrong: %+v", claims[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReserveTicketConflictRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	future := time.Now().Add(time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT ticket_seats\.id AS claim_id.+FROM "ticket_seats" JOIN tickets`).
		WillReturnRows(sqlmock.NewRows(claimColumns()).
			AddRow(uuid.New().String(), uuid.New().String(), "A1", false, future).
			AddRow(uuid.New().String(), uuid.New().String(), "B1", true, nil))
	mock.ExpectRollback()

	tripID := uuid.New()
	travelDate := NormalizeTravelDate(time.Now().AddDate(0, 0, 3))
	ticket := &Ticket{
		ID:         uuid.New(),
		TripID:     tripID,
		TravelDate: travelDate,
	}
	ticket.Seats = buildSeatClaims(ticket.ID, tripID, travelDate, []string{"A1", "B1", "C1"})

	err := repo.ReserveTicket(context.Background(), ticket)
	conflict, ok := IsSeatConflict(err)
	if !ok {
		t.Fatalf("err = %v, want SeatConflictError", err)
	}
	// Both occupied seats are named, the free one is not.
	if len(conflict.Seats) != 2 || conflict.Seats[0] != "A1" || conflict.Seats[1] != "B1" {
		t.Errorf("conflict seats = %v, want [A1 B1]", conflict.Seats)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReserveTicketReclaimsExpiredHold(t *testing.T) {
	repo, mock := newMockRepo(t)

	past := time.Now().Add(-time.Hour)
	expiredClaimID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT ticket_seats\.id AS claim_id.+FROM "ticket_seats" JOIN tickets`).
		WillReturnRows(sqlmock.NewRows(claimColumns()).
			AddRow(expiredClaimID.String(), uuid.New().String(), "A1", false, past))
	// The expired hold on A1 is released inside the same transaction.
	mock.ExpectExec(`UPDATE "ticket_seats" SET "released_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "tickets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectQuery(`INSERT INTO "ticket_seats"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	tripID := uuid.New()
	travelDate := NormalizeTravelDate(time.Now().AddDate(0, 0, 3))
	ticket := &Ticket{
		ID:           uuid.New(),
		TicketNumber: "BUS-20260301-ABCDEF",
		TripID:       tripID,
		TravelDate:   travelDate,
	}
	ticket.Seats = buildSeatClaims(ticket.ID, tripID, travelDate, []string{"A1"})

	if err := repo.ReserveTicket(context.Background(), ticket); err != nil {
		t.Fatalf("ReserveTicket failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReserveTicketTranslatesUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT ticket_seats\.id AS claim_id.+FROM "ticket_seats" JOIN tickets`).
		WillReturnRows(sqlmock.NewRows(claimColumns()))
	// A competing transaction slipped in between the ledger read and our
	// insert; the partial unique index rejects the claim.
	mock.ExpectQuery(`INSERT INTO "tickets"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	tripID := uuid.New()
	travelDate := NormalizeTravelDate(time.Now().AddDate(0, 0, 3))
	ticket := &Ticket{
		ID:         uuid.New(),
		TripID:     tripID,
		TravelDate: travelDate,
	}
	ticket.Seats = buildSeatClaims(ticket.ID, tripID, travelDate, []string{"A1"})

	err := repo.ReserveTicket(context.Background(), ticket)
	if !errors.Is(err, errSeatRace) {
		t.Fatalf("err = %v, want errSeatRace", err)
	}
	if !isRetryable(err) {
		t.Error("lost race must be retryable")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMarkPaidClearsDeadline(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tickets" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.MarkPaid(context.Background(), uuid.New(), time.Now()); err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCancelReleasesClaimsInOneTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tickets" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "ticket_seats" SET "released_at"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	if err := repo.Cancel(context.Background(), uuid.New(), time.Now()); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
