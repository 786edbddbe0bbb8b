package tickets

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"time"

	"busline/internal/fleet"

	"github.com/google/uuid"
)

// generateTicketNumber generates a unique human-readable ticket number
func generateTicketNumber() (string, error) {
	timestamp := time.Now().Format("20060102")

	// Generate 6 random uppercase letters
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)

	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("BUS-%s-%s", timestamp, string(randomPart)), nil
}

// dedupeLabels drops repeated labels while keeping first-seen order
func dedupeLabels(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		if seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}

// validateSelection checks every requested label against the bus layout.
// All unknown or unbookable labels are reported together.
func validateSelection(labels []string, layout []fleet.Seat) error {
	bookable := make(map[string]bool, len(layout))
	for i := range layout {
		if layout[i].Type.IsBookable() {
			bookable[layout[i].Label] = true
		}
	}

	var unknown []string
	for _, label := range labels {
		if !bookable[label] {
			unknown = append(unknown, label)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &UnknownSeatError{Seats: unknown}
	}
	return nil
}

// buildSeatClaims materializes the seat rows for one reservation. Trip and
// travel date are stamped on every row for the uniqueness index.
func buildSeatClaims(ticketID uuid.UUID, tripID uuid.UUID, travelDate time.Time, labels []string) []TicketSeat {
	seats := make([]TicketSeat, 0, len(labels))
	for _, label := range labels {
		seats = append(seats, TicketSeat{
			TicketID:   ticketID,
			TripID:     tripID,
			TravelDate: travelDate,
			SeatLabel:  label,
		})
	}
	return seats
}
