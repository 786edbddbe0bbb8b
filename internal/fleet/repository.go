package fleet

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateBus(ctx context.Context, bus *Bus) error
	GetBusByID(ctx context.Context, id uuid.UUID) (*Bus, error)
	GetBusWithSeats(ctx context.Context, id uuid.UUID) (*Bus, error)
	GetSeatsByBusID(ctx context.Context, busID uuid.UUID) ([]Seat, error)
	ListBuses(ctx context.Context, activeOnly bool) ([]Bus, error)
	UpdateBus(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBus(ctx context.Context, bus *Bus) error {
	// Bus and its seat catalog are created together
	return r.db.WithContext(ctx).Create(bus).Error
}

func (r *repository) GetBusByID(ctx context.Context, id uuid.UUID) (*Bus, error) {
	var bus Bus
	err := r.db.WithContext(ctx).First(&bus, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &bus, nil
}

func (r *repository) GetBusWithSeats(ctx context.Context, id uuid.UUID) (*Bus, error) {
	var bus Bus
	err := r.db.WithContext(ctx).
		Preload("Seats", func(db *gorm.DB) *gorm.DB {
			return db.Order("row ASC, col ASC")
		}).
		First(&bus, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &bus, nil
}

func (r *repository) GetSeatsByBusID(ctx context.Context, busID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("bus_id = ?", busID).
		Order("row ASC, col ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) ListBuses(ctx context.Context, activeOnly bool) ([]Bus, error) {
	var buses []Bus
	query := r.db.WithContext(ctx).Model(&Bus{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("name ASC").Find(&buses).Error
	return buses, err
}

func (r *repository) UpdateBus(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&Bus{}).Where("id = ?", id).Updates(updates).Error
}
