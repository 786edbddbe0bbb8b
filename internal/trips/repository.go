package trips

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateTrip(ctx context.Context, trip *Trip) error
	GetTripByID(ctx context.Context, id uuid.UUID) (*Trip, error)
	ListTrips(ctx context.Context, query TripListQuery) ([]Trip, int64, error)
	UpdateTrip(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTrip(ctx context.Context, trip *Trip) error {
	return r.db.WithContext(ctx).Create(trip).Error
}

func (r *repository) GetTripByID(ctx context.Context, id uuid.UUID) (*Trip, error) {
	var trip Trip
	err := r.db.WithContext(ctx).Preload("Bus").First(&trip, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *repository) ListTrips(ctx context.Context, query TripListQuery) ([]Trip, int64, error) {
	var trips []Trip
	var totalCount int64

	// Set defaults
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).Model(&Trip{})

	if query.ActiveOnly {
		baseQuery = baseQuery.Where("is_active = ?", true)
	}
	if query.Origin != "" {
		baseQuery = baseQuery.Where("origin ILIKE ?", query.Origin)
	}
	if query.Destination != "" {
		baseQuery = baseQuery.Where("destination ILIKE ?", query.Destination)
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("Bus").
		Order("route_name ASC, departure_time ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&trips).Error

	return trips, totalCount, err
}

func (r *repository) UpdateTrip(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&Trip{}).Where("id = ?", id).Updates(updates).Error
}
