package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// Partial unique index: at most one live (unreleased) claim per seat on a
	// given trip and travel date. Concurrent reservations racing for the same
	// seat lose here with a unique-violation, which the ticket repository
	// translates into a seat-conflict error.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_live_seat_per_departure
		ON ticket_seats (trip_id, travel_date, seat_label)
		WHERE released_at IS NULL;
	`).Error
	if err != nil {
		return err
	}

	// Index for ledger reads by trip and travel date
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_ticket_seats_trip_date
		ON ticket_seats (trip_id, travel_date);
	`).Error
	if err != nil {
		return err
	}

	// Index for ticket history queries by trip and travel date
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tickets_trip_date
		ON tickets (trip_id, travel_date);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
