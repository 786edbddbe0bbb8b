package database

import (
	"busline/internal/fleet"
	"busline/internal/tickets"
	"busline/internal/trips"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&fleet.Bus{},
		&fleet.Seat{},
		&trips.Trip{},
		&tickets.Ticket{},
		&tickets.TicketSeat{},
	)
}
