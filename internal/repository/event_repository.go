package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/grooming-booking/internal/model"
)

// EventRepository — журнал событий бронирований, только добавление.
type EventRepository interface {
	Append(ctx context.Context, event *model.BookingEvent) error
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]model.BookingEvent, error)
}

type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) Append(ctx context.Context, event *model.BookingEvent) error {
	return r.db.WithContext(ctx).Omit("Booking").Create(event).Error
}

func (r *GormEventRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]model.BookingEvent, error) {
	var events []model.BookingEvent
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
