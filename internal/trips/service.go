package trips

import (
	"context"
	"errors"
	"fmt"
	"time"

	"busline/internal/shared/constants"
	"busline/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTripNotFound = errors.New("trip not found")

// BusLookup is the slice of the fleet service this package needs.
// Defined locally to avoid a package cycle.
type BusLookup interface {
	BusExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service interface defines the contract for trip business logic
type Service interface {
	CreateTrip(ctx context.Context, req CreateTripRequest) (*Trip, error)
	GetTrip(ctx context.Context, id uuid.UUID) (*Trip, error)
	ListTrips(ctx context.Context, query TripListQuery) (*TripListResponse, error)
	UpdateTrip(ctx context.Context, id uuid.UUID, req UpdateTripRequest) (*Trip, error)
}

type service struct {
	repo  Repository
	buses BusLookup
	cache cache.Service
}

// NewService creates a new trips service instance
func NewService(repo Repository, buses BusLookup, cacheService cache.Service) Service {
	return &service{
		repo:  repo,
		buses: buses,
		cache: cacheService,
	}
}

func (s *service) CreateTrip(ctx context.Context, req CreateTripRequest) (*Trip, error) {
	if _, err := time.Parse("15:04", req.DepartureTime); err != nil {
		return nil, fmt.Errorf("invalid departure time %q: expected HH:MM", req.DepartureTime)
	}
	if _, err := ParseRecurrence(req.Weekdays); err != nil {
		return nil, fmt.Errorf("invalid weekdays: %w", err)
	}

	busID, err := uuid.Parse(req.BusID)
	if err != nil {
		return nil, fmt.Errorf("invalid bus id: %w", err)
	}
	exists, err := s.buses.BusExists(ctx, busID)
	if err != nil {
		return nil, fmt.Errorf("failed to check bus: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bus %s not found", req.BusID)
	}

	trip := &Trip{
		RouteName:     req.RouteName,
		Origin:        req.Origin,
		Destination:   req.Destination,
		BusID:         busID,
		DepartureTime: req.DepartureTime,
		Weekdays:      req.Weekdays,
		PricePerSeat:  req.PricePerSeat,
		IsActive:      true,
	}

	if err := s.repo.CreateTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_TRIPS_ALL)
	}

	return trip, nil
}

func (s *service) GetTrip(ctx context.Context, id uuid.UUID) (*Trip, error) {
	if s.cache == nil {
		return s.getTripFromDB(ctx, id)
	}

	var trip Trip
	key := constants.BuildTripDetailKey(id.String())
	err := s.cache.GetOrSet(ctx, key, constants.TTL_TRIP_DETAIL, func() (interface{}, error) {
		return s.getTripFromDB(ctx, id)
	}, &trip)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to load trip: %w", err)
	}
	return &trip, nil
}

func (s *service) getTripFromDB(ctx context.Context, id uuid.UUID) (*Trip, error) {
	trip, err := s.repo.GetTripByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return trip, nil
}

func (s *service) ListTrips(ctx context.Context, query TripListQuery) (*TripListResponse, error) {
	trips, totalCount, err := s.repo.ListTrips(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	responses := make([]TripResponse, len(trips))
	for i := range trips {
		responses[i] = trips[i].ToResponse()
	}

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	return &TripListResponse{
		Trips:      responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
	}, nil
}

func (s *service) UpdateTrip(ctx context.Context, id uuid.UUID, req UpdateTripRequest) (*Trip, error) {
	updates := make(map[string]interface{})
	if req.RouteName != nil {
		updates["route_name"] = *req.RouteName
	}
	if req.DepartureTime != nil {
		if _, err := time.Parse("15:04", *req.DepartureTime); err != nil {
			return nil, fmt.Errorf("invalid departure time %q: expected HH:MM", *req.DepartureTime)
		}
		updates["departure_time"] = *req.DepartureTime
	}
	if req.Weekdays != nil {
		if _, err := ParseRecurrence(*req.Weekdays); err != nil {
			return nil, fmt.Errorf("invalid weekdays: %w", err)
		}
		updates["weekdays"] = *req.Weekdays
	}
	if req.PricePerSeat != nil {
		updates["price_per_seat"] = *req.PricePerSeat
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return s.getTripFromDB(ctx, id)
	}

	if err := s.repo.UpdateTrip(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_TRIPS_ALL)
	}

	return s.getTripFromDB(ctx, id)
}
