package tickets

import "time"

// Payment deadline policy. The grace window scales with how far out the
// departure is: plenty of time for early bookings, a tight window close to
// departure, and never less than the floor so a booking made at the counter
// does not expire mid-checkout.
const (
	farAheadWindow  = 7 * 24 * time.Hour
	nearAheadWindow = 24 * time.Hour

	farGrace  = 48 * time.Hour
	nearGrace = 24 * time.Hour

	closeCutoff   = 2 * time.Hour
	closeFallback = 30 * time.Minute

	deadlineFloor = 15 * time.Minute

	overrideFallbackGrace = 24 * time.Hour
)

// ComputeDeadline returns the payment deadline for a reservation made at
// `now` for a trip departing at `departure`.
func ComputeDeadline(now, departure time.Time) time.Time {
	until := departure.Sub(now)

	var deadline time.Time
	switch {
	case until > farAheadWindow:
		deadline = now.Add(farGrace)
	case until > nearAheadWindow:
		deadline = now.Add(nearGrace)
	default:
		// Close to departure: pay up to two hours before the bus leaves.
		deadline = departure.Add(-closeCutoff)
		if !deadline.After(now) {
			deadline = now.Add(closeFallback)
			// With the bus leaving inside that half hour, tighten to the
			// floor instead of a deadline past departure.
			if deadline.After(departure) {
				deadline = now.Add(deadlineFloor)
			}
		}
	}

	if floor := now.Add(deadlineFloor); deadline.Before(floor) {
		deadline = floor
	}
	return deadline
}

// ParseDeadlineOverride interprets an admin-supplied deadline. A parseable
// timestamp is accepted verbatim, even when it is already in the past; an
// unparseable value falls back to a day from now rather than rejecting the
// request.
func ParseDeadlineOverride(raw string, now time.Time) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return now.Add(overrideFallbackGrace)
}
