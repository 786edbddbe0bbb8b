package tickets

import (
	"testing"
	"time"
)

func TestStatusAtLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	cases := []struct {
		name   string
		ticket Ticket
		want   Status
	}{
		{
			name:   "fresh reservation",
			ticket: Ticket{PaymentDeadline: &future},
			want:   StatusReserved,
		},
		{
			name:   "unpaid past deadline",
			ticket: Ticket{PaymentDeadline: &past},
			want:   StatusExpired,
		},
		{
			name:   "paid",
			ticket: Ticket{IsPaid: true},
			want:   StatusPaid,
		},
		{
			name: "paid overrides stale deadline",
			// Deadline should be nil once paid, but even a stale value
			// must not surface as expired.
			ticket: Ticket{IsPaid: true, PaymentDeadline: &past},
			want:   StatusPaid,
		},
		{
			name:   "cancelled",
			ticket: Ticket{IsCancelled: true, PaymentDeadline: &future},
			want:   StatusCancelled,
		},
		{
			name:   "cancelled wins over paid",
			ticket: Ticket{IsCancelled: true, IsPaid: true},
			want:   StatusCancelled,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.ticket.StatusAt(now); got != tc.want {
				t.Errorf("StatusAt = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExpiryIsDerivedNotStored(t *testing.T) {
	// The same ticket reads as reserved before the deadline and expired
	// after it, with no write in between.
	deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ticket := Ticket{PaymentDeadline: &deadline}

	before := deadline.Add(-time.Minute)
	after := deadline.Add(time.Minute)

	if got := ticket.StatusAt(before); got != StatusReserved {
		t.Errorf("before deadline: status = %v, want %v", got, StatusReserved)
	}
	if got := ticket.StatusAt(after); got != StatusExpired {
		t.Errorf("after deadline: status = %v, want %v", got, StatusExpired)
	}
	if got := ticket.StatusAt(deadline); got != StatusExpired {
		t.Errorf("at deadline: status = %v, want %v", got, StatusExpired)
	}
}

func TestTransitionGuards(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	reserved := Ticket{PaymentDeadline: &future}
	if !reserved.CanBePaidAt(now) {
		t.Error("reserved ticket should be payable")
	}
	if !reserved.CanBeCancelled() {
		t.Error("reserved ticket should be cancellable")
	}
	if !reserved.CanBeEdited() {
		t.Error("reserved ticket should be editable")
	}

	expired := Ticket{PaymentDeadline: &past}
	if expired.CanBePaidAt(now) {
		t.Error("expired ticket should not be payable")
	}
	if !expired.CanBeEdited() {
		t.Error("expired ticket should still be editable")
	}

	paid := Ticket{IsPaid: true}
	if paid.CanBePaidAt(now) {
		t.Error("paid ticket should not be payable again")
	}
	if !paid.CanBeCancelled() {
		t.Error("paid ticket should be cancellable")
	}
	if paid.CanBeEdited() {
		t.Error("paid ticket should not be editable")
	}

	cancelled := Ticket{IsCancelled: true}
	if cancelled.CanBePaidAt(now) {
		t.Error("cancelled ticket should not be payable")
	}
	if cancelled.CanBeCancelled() {
		t.Error("cancelled ticket should not be cancellable again")
	}
	if cancelled.CanBeEdited() {
		t.Error("cancelled ticket should not be editable")
	}
}

func TestSeatLabelsSkipsReleased(t *testing.T) {
	released := time.Now()
	ticket := Ticket{
		Seats: []TicketSeat{
			{SeatLabel: "A1"},
			{SeatLabel: "A2", ReleasedAt: &released},
			{SeatLabel: "B1"},
		},
	}

	got := ticket.SeatLabels()
	want := []string{"A1", "B1"}
	if len(got) != len(want) {
		t.Fatalf("SeatLabels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SeatLabels[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
