package tickets

import (
	"testing"
	"time"
)

func TestComputeDeadlineFarAhead(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	departure := now.Add(10 * 24 * time.Hour)

	got := ComputeDeadline(now, departure)
	want := now.Add(48 * time.Hour)
	if !got.Equal(want) {
		t.Errorf("deadline = %v, want %v", got, want)
	}
}

func TestComputeDeadlineNearAhead(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	departure := now.Add(3 * 24 * time.Hour)

	got := ComputeDeadline(now, departure)
	want := now.Add(24 * time.Hour)
	if !got.Equal(want) {
		t.Errorf("deadline = %v, want %v", got, want)
	}
}

func TestComputeDeadlineSameDay(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	departure := now.Add(8 * time.Hour)

	got := ComputeDeadline(now, departure)
	want := departure.Add(-2 * time.Hour)
	if !got.Equal(want) {
		t.Errorf("deadline = %v, want %v", got, want)
	}
}

func TestComputeDeadlineCloseToDeparture(t *testing.T) {
	// Departure in 90 minutes: the two-hour cutoff is already behind us,
	// so the booking gets a half-hour window instead.
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	departure := now.Add(90 * time.Minute)

	got := ComputeDeadline(now, departure)
	want := now.Add(30 * time.Minute)
	if !got.Equal(want) {
		t.Errorf("deadline = %v, want %v", got, want)
	}
}

func TestComputeDeadlineImminentDeparture(t *testing.T) {
	// Departure in 20 minutes: even the half-hour window would end after
	// the bus has left, so the deadline tightens to the floor.
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	departure := now.Add(20 * time.Minute)

	got := ComputeDeadline(now, departure)
	want := now.Add(15 * time.Minute)
	if !got.Equal(want) {
		t.Errorf("deadline = %v, want %v", got, want)
	}
}

func TestComputeDeadlineFloor(t *testing.T) {
	// Departure in 2h10m: departure minus two hours would leave only ten
	// minutes, below the floor.
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	departure := now.Add(2*time.Hour + 10*time.Minute)

	got := ComputeDeadline(now, departure)
	want := now.Add(15 * time.Minute)
	if !got.Equal(want) {
		t.Errorf("deadline = %v, want %v", got, want)
	}
}

func TestComputeDeadlineNeverBeforeFloor(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	floor := now.Add(15 * time.Minute)

	for _, until := range []time.Duration{
		20 * time.Minute,
		2 * time.Hour,
		25 * time.Hour,
		8 * 24 * time.Hour,
		60 * 24 * time.Hour,
	} {
		got := ComputeDeadline(now, now.Add(until))
		if got.Before(floor) {
			t.Errorf("departure in %v: deadline %v is before floor %v", until, got, floor)
		}
		if !got.After(now) {
			t.Errorf("departure in %v: deadline %v is not in the future", until, got)
		}
	}
}

func TestComputeDeadlineMonotonicInDeparture(t *testing.T) {
	// A later departure never yields an earlier deadline.
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	var prev time.Time
	for hours := 1; hours <= 24*14; hours++ {
		got := ComputeDeadline(now, now.Add(time.Duration(hours)*time.Hour))
		if !prev.IsZero() && got.Before(prev) {
			t.Fatalf("deadline regressed at departure +%dh: %v < %v", hours, got, prev)
		}
		prev = got
	}
}

func TestParseDeadlineOverrideVerbatim(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	raw := "2026-03-05T18:00:00Z"
	got := ParseDeadlineOverride(raw, now)
	want := time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("override = %v, want %v", got, want)
	}

	// A past timestamp is accepted as-is: the admin may intentionally
	// expire a hold.
	raw = "2026-02-01 09:00"
	got = ParseDeadlineOverride(raw, now)
	want = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("override = %v, want %v", got, want)
	}
}

func TestParseDeadlineOverrideGarbage(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	got := ParseDeadlineOverride("next tuesday-ish", now)
	want := now.Add(24 * time.Hour)
	if !got.Equal(want) {
		t.Errorf("override fallback = %v, want %v", got, want)
	}
}
