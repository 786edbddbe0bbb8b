package fleet

import (
	"fmt"

	"github.com/google/uuid"
)

// Grid cell codes accepted in layout templates
const (
	cellEmpty  = ""
	cellSeat   = "s"
	cellDriver = "d"
	cellDoor   = "x"
	cellWC     = "w"
)

var cellTypes = map[string]SeatType{
	cellSeat:   SeatTypeSeat,
	cellDriver: SeatTypeDriver,
	cellDoor:   SeatTypeDoor,
	cellWC:     SeatTypeWC,
}

// rowLetter converts a zero-based row index to its label letter (A, B, ... Z, AA, ...)
func rowLetter(row int) string {
	letter := ""
	for {
		letter = string(rune('A'+row%26)) + letter
		row = row/26 - 1
		if row < 0 {
			break
		}
	}
	return letter
}

// SeatLabel builds the canonical label for a grid position (A1, A2, B1, ...)
func SeatLabel(row, col int) string {
	return fmt.Sprintf("%s%d", rowLetter(row), col+1)
}

// BuildSeats expands a layout grid into seat records for a bus. Each cell is
// one of "" (aisle/empty), "s" (seat), "d" (driver), "x" (door), "w" (wc).
// Bookable seats get grid-derived labels; non-seat cells keep a label too so
// the client can render the full floor plan.
func BuildSeats(busID uuid.UUID, grid [][]string) ([]Seat, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("layout grid cannot be empty")
	}

	width := len(grid[0])
	var seats []Seat

	for r, row := range grid {
		if len(row) != width {
			return nil, fmt.Errorf("layout grid row %d has %d cells, expected %d", r+1, len(row), width)
		}
		for c, cell := range row {
			if cell == cellEmpty {
				continue
			}
			seatType, ok := cellTypes[cell]
			if !ok {
				return nil, fmt.Errorf("unknown layout cell %q at row %d col %d", cell, r+1, c+1)
			}
			seats = append(seats, Seat{
				BusID: busID,
				Label: SeatLabel(r, c),
				Row:   r + 1,
				Col:   c + 1,
				Type:  seatType,
			})
		}
	}

	if len(seats) == 0 {
		return nil, fmt.Errorf("layout grid contains no cells")
	}

	bookable := 0
	for _, s := range seats {
		if s.IsBookable() {
			bookable++
		}
	}
	if bookable == 0 {
		return nil, fmt.Errorf("layout grid contains no bookable seats")
	}

	return seats, nil
}
