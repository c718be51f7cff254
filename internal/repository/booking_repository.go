package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Leganyst/grooming-booking/internal/model"
)

type BookingRepository interface {
	// Создать новое бронирование.
	Create(ctx context.Context, booking *model.Booking) error
	// Сохранить все поля существующего бронирования.
	Save(ctx context.Context, booking *model.Booking) error
	// Получить бронирование по ID вместе с услугами.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	// Обновить статус бронирования (отмена, завершение).
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error
	// Неотменённые брони на (date, time), кроме excludeID.
	FindActiveAt(ctx context.Context, date time.Time, tod string, excludeID *uuid.UUID) ([]model.Booking, error)
	// Времена начала неотменённых броней на дату.
	TakenTimes(ctx context.Context, date time.Time) ([]string, error)
	// Брони клиента с заданными статусами.
	ListByCustomer(ctx context.Context, customerID uuid.UUID, statuses []model.BookingStatus, newestFirst bool) ([]model.Booking, error)
	// Брони с заданными статусами с пагинацией.
	ListByStatus(ctx context.Context, statuses []model.BookingStatus, newestFirst bool, limit, offset int) ([]model.Booking, int64, error)
	// Заполнить пустые снапшоты имени у броней услуги.
	FillNameSnapshots(ctx context.Context, serviceID uuid.UUID, name string) (int64, error)
	// Отвязать брони от услуги перед её удалением.
	DetachService(ctx context.Context, serviceID uuid.UUID) error
	// Количество броней услуги в статусе.
	CountByServiceAndStatus(ctx context.Context, serviceID uuid.UUID, status model.BookingStatus) (int64, error)
}

// Реализация на GORM.
type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(booking).Error
}

func (r *GormBookingRepository) Save(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(booking).Error
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	err := r.db.WithContext(ctx).
		Preload("Service").Preload("Customer").
		Preload("OriginalService").
		First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

func (r *GormBookingRepository) FindActiveAt(
	ctx context.Context,
	date time.Time,
	tod string,
	excludeID *uuid.UUID,
) ([]model.Booking, error) {
	q := r.db.WithContext(ctx).
		Where(map[string]any{"date": datatypes.Date(date), "time": tod}).
		Where("status <> ?", model.BookingStatusCancelled)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var bookings []model.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) TakenTimes(ctx context.Context, date time.Time) ([]string, error) {
	var times []string
	err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where(map[string]any{"date": datatypes.Date(date)}).
		Where("status <> ?", model.BookingStatusCancelled).
		Pluck("time", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

func (r *GormBookingRepository) ListByCustomer(
	ctx context.Context,
	customerID uuid.UUID,
	statuses []model.BookingStatus,
	newestFirst bool,
) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Preload("Service").
		Where("customer_id = ?", customerID).
		Where("status IN ?", statuses).
		Order(dateTimeOrder(newestFirst)).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) ListByStatus(
	ctx context.Context,
	statuses []model.BookingStatus,
	newestFirst bool,
	limit, offset int,
) ([]model.Booking, int64, error) {
	var (
		bookings []model.Booking
		total    int64
	)

	q := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("status IN ?", statuses)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	err := q.Preload("Service").Preload("Customer").
		Order(dateTimeOrder(newestFirst)).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *GormBookingRepository) FillNameSnapshots(ctx context.Context, serviceID uuid.UUID, name string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("service_id = ? OR original_service_id = ?", serviceID, serviceID).
		Where("service_name_snapshot = ?", "").
		Update("service_name_snapshot", name)
	return res.RowsAffected, res.Error
}

func (r *GormBookingRepository) DetachService(ctx context.Context, serviceID uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Booking{}).
		Where("service_id = ?", serviceID).
		Update("service_id", nil).Error; err != nil {
		return err
	}
	return db.Model(&model.Booking{}).
		Where("original_service_id = ?", serviceID).
		Update("original_service_id", nil).Error
}

func (r *GormBookingRepository) CountByServiceAndStatus(
	ctx context.Context,
	serviceID uuid.UUID,
	status model.BookingStatus,
) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("service_id = ? AND status = ?", serviceID, status).
		Count(&n).Error
	return n, err
}

// date и time — зарезервированные слова, поэтому колонки квотируются через clause.
func dateTimeOrder(desc bool) clause.OrderBy {
	return clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: "date"}, Desc: desc},
		{Column: clause.Column{Name: "time"}, Desc: desc},
	}}
}
