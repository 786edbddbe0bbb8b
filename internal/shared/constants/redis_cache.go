package constants

import (
	"time"
)

// Redis cache keys and TTL values for the busline application.
// Pattern: busline:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_STATIC_LONG   = 24 * time.Hour // bus seat layouts
	TTL_STATIC_MEDIUM = 12 * time.Hour // trip schedules
	TTL_STATIC_SHORT  = 6 * time.Hour  // route listings
)

const (
	TTL_DYNAMIC_MEDIUM = 10 * time.Minute // ticket history pages
	TTL_DYNAMIC_SHORT  = 5 * time.Minute  // per-trip ticket lists
)

// Seat availability is the hottest and most staleness-sensitive projection;
// the client always revalidates through the reserve path anyway.
const (
	TTL_AVAILABILITY = 30 * time.Second
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "busline"
)

// ================== FLEET MODULE ==================

const (
	CACHE_KEY_BUS_LAYOUT = CACHE_PREFIX + ":fleet:layout:uuid:" // + bus-id
	CACHE_KEY_BUS_LIST   = CACHE_PREFIX + ":fleet:list"
)

const (
	TTL_BUS_LAYOUT = TTL_STATIC_LONG
	TTL_BUS_LIST   = TTL_STATIC_MEDIUM
)

// ================== TRIPS MODULE ==================

const (
	CACHE_KEY_TRIP_DETAIL = CACHE_PREFIX + ":trips:detail:uuid:" // + trip-id
	CACHE_KEY_TRIP_LIST   = CACHE_PREFIX + ":trips:list"
)

const (
	TTL_TRIP_DETAIL = TTL_STATIC_MEDIUM
	TTL_TRIP_LIST   = TTL_STATIC_SHORT
)

// ================== TICKETS MODULE ==================

const (
	// Availability projection, keyed by trip and travel date
	CACHE_KEY_AVAILABILITY = CACHE_PREFIX + ":tickets:availability:" // + trip-id:date:YYYY-MM-DD

	CACHE_KEY_TICKET_DETAIL = CACHE_PREFIX + ":tickets:detail:uuid:" // + ticket-id
)

const (
	TTL_TICKET_DETAIL = TTL_DYNAMIC_MEDIUM
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_FLEET_ALL = CACHE_PREFIX + ":fleet:*"
	PATTERN_INVALIDATE_TRIPS_ALL = CACHE_PREFIX + ":trips:*"
)

// ================== HELPER FUNCTIONS ==================

func BuildAvailabilityKey(tripID, travelDate string) string {
	return CACHE_KEY_AVAILABILITY + tripID + ":date:" + travelDate
}

func BuildBusLayoutKey(busID string) string {
	return CACHE_KEY_BUS_LAYOUT + busID
}

func BuildTripDetailKey(tripID string) string {
	return CACHE_KEY_TRIP_DETAIL + tripID
}

func BuildTicketDetailKey(ticketID string) string {
	return CACHE_KEY_TICKET_DETAIL + ticketID
}
