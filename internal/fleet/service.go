package fleet

import (
	"context"
	"errors"
	"fmt"

	"busline/internal/shared/constants"
	"busline/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service interface defines the contract for fleet business logic
type Service interface {
	CreateBus(ctx context.Context, req CreateBusRequest) (*Bus, error)
	GetBus(ctx context.Context, id uuid.UUID) (*Bus, error)
	ListBuses(ctx context.Context, activeOnly bool) ([]Bus, error)
	BusExists(ctx context.Context, id uuid.UUID) (bool, error)

	// GetSeatLayout returns the full seat catalog of a bus, cached. This is
	// the outbound seat-catalog contract consumed by the ticket engine.
	GetSeatLayout(ctx context.Context, busID uuid.UUID) ([]Seat, error)
}

type service struct {
	repo  Repository
	cache cache.Service
}

// NewService creates a new fleet service instance
func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
	}
}

func (s *service) CreateBus(ctx context.Context, req CreateBusRequest) (*Bus, error) {
	bus := &Bus{
		Name:        req.Name,
		PlateNumber: req.PlateNumber,
		Rows:        len(req.Layout),
		IsActive:    true,
	}
	if len(req.Layout) > 0 {
		bus.Cols = len(req.Layout[0])
	}

	seats, err := BuildSeats(bus.ID, req.Layout)
	if err != nil {
		return nil, fmt.Errorf("invalid seat layout: %w", err)
	}
	bus.Seats = seats

	if err := s.repo.CreateBus(ctx, bus); err != nil {
		return nil, fmt.Errorf("failed to create bus: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_FLEET_ALL)
	}

	return bus, nil
}

func (s *service) GetBus(ctx context.Context, id uuid.UUID) (*Bus, error) {
	return s.repo.GetBusWithSeats(ctx, id)
}

func (s *service) ListBuses(ctx context.Context, activeOnly bool) ([]Bus, error) {
	return s.repo.ListBuses(ctx, activeOnly)
}

func (s *service) BusExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.repo.GetBusByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *service) GetSeatLayout(ctx context.Context, busID uuid.UUID) ([]Seat, error) {
	if s.cache == nil {
		return s.repo.GetSeatsByBusID(ctx, busID)
	}

	var seats []Seat
	key := constants.BuildBusLayoutKey(busID.String())
	err := s.cache.GetOrSet(ctx, key, constants.TTL_BUS_LAYOUT, func() (interface{}, error) {
		return s.repo.GetSeatsByBusID(ctx, busID)
	}, &seats)
	if err != nil {
		return nil, fmt.Errorf("failed to load seat layout: %w", err)
	}
	return seats, nil
}
