package main

import (
	"fmt"
	"log"

	"busline/internal/fleet"
	"busline/internal/shared/config"
	"busline/internal/shared/database"
	"busline/internal/trips"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Busline Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Delete in reverse dependency order
	tables := []string{
		"ticket_seats",
		"tickets",
		"trips",
		"seats",
		"buses",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds buses with their seat catalogs and the trips operating them
func (s *Seeder) SeedAll() error {
	buses, err := s.seedBuses()
	if err != nil {
		return fmt.Errorf("failed to seed buses: %w", err)
	}

	if err := s.seedTrips(buses); err != nil {
		return fmt.Errorf("failed to seed trips: %w", err)
	}

	return nil
}

// busSpec describes one bus to seed: a grid of cell codes where "s" is a
// bookable seat, "d" the driver, "x" a door, "w" a toilet and "" floor space.
type busSpec struct {
	name   string
	plate  string
	layout [][]string
}

func (s *Seeder) seedBuses() (map[string]*fleet.Bus, error) {
	specs := []busSpec{
		{
			name:  "Scania Touring 49",
			plate: "BL-1001",
			layout: [][]string{
				{"d", "", "", "s", "s"},
				{"x", "", "", "s", "s"},
				{"s", "s", "", "s", "s"},
				{"s", "s", "", "s", "s"},
				{"s", "s", "", "s", "s"},
				{"s", "s", "", "s", "s"},
				{"s", "s", "", "s", "s"},
				{"s", "s", "x", "s", "s"},
				{"s", "s", "", "s", "s"},
				{"s", "s", "", "s", "s"},
				{"s", "s", "w", "s", "s"},
				{"s", "s", "s", "s", "s"},
			},
		},
		{
			name:  "Sprinter Minibus 16",
			plate: "BL-2002",
			layout: [][]string{
				{"d", "", "s"},
				{"x", "", "s"},
				{"s", "", "s"},
				{"s", "", "s"},
				{"s", "", "s"},
				{"s", "s", "s"},
				{"s", "s", "s"},
			},
		},
	}

	buses := make(map[string]*fleet.Bus, len(specs))
	for _, spec := range specs {
		bus := &fleet.Bus{
			Name:        spec.name,
			PlateNumber: spec.plate,
			Rows:        len(spec.layout),
			Cols:        len(spec.layout[0]),
			IsActive:    true,
		}

		seats, err := fleet.BuildSeats(bus.ID, spec.layout)
		if err != nil {
			return nil, fmt.Errorf("invalid layout for %s: %w", spec.name, err)
		}
		bus.Seats = seats

		if err := s.db.PostgreSQL.Create(bus).Error; err != nil {
			return nil, err
		}

		fmt.Printf("  Created bus: %s (%d seats)\n", bus.Name, len(bus.BookableLabels()))
		buses[spec.plate] = bus
	}

	return buses, nil
}

func (s *Seeder) seedTrips(buses map[string]*fleet.Bus) error {
	specs := []trips.Trip{
		{
			RouteName:     "Capital Express",
			Origin:        "Riga",
			Destination:   "Vilnius",
			BusID:         buses["BL-1001"].ID,
			DepartureTime: "08:30",
			Weekdays:      "", // daily
			PricePerSeat:  24.50,
			IsActive:      true,
		},
		{
			RouteName:     "Capital Express",
			Origin:        "Vilnius",
			Destination:   "Riga",
			BusID:         buses["BL-1001"].ID,
			DepartureTime: "17:15",
			Weekdays:      "", // daily
			PricePerSeat:  24.50,
			IsActive:      true,
		},
		{
			RouteName:     "Coast Shuttle",
			Origin:        "Riga",
			Destination:   "Liepaja",
			BusID:         buses["BL-2002"].ID,
			DepartureTime: "10:00",
			Weekdays:      "Mon,Wed,Fri,Sun",
			PricePerSeat:  12.00,
			IsActive:      true,
		},
		{
			RouteName:     "Coast Shuttle",
			Origin:        "Liepaja",
			Destination:   "Riga",
			BusID:         buses["BL-2002"].ID,
			DepartureTime: "16:30",
			Weekdays:      "Mon,Wed,Fri,Sun",
			PricePerSeat:  12.00,
			IsActive:      true,
		},
	}

	for i := range specs {
		if err := s.db.PostgreSQL.Create(&specs[i]).Error; err != nil {
			return err
		}
		fmt.Printf("  Created trip: %s %s → %s at %s\n",
			specs[i].RouteName, specs[i].Origin, specs[i].Destination, specs[i].DepartureTime)
	}

	return nil
}
