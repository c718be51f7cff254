package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/grooming-booking/internal/model"
)

type ServiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Service, error)
	FindByName(ctx context.Context, name string) (*model.Service, error)
	Create(ctx context.Context, service *model.Service) error
	Save(ctx context.Context, service *model.Service) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context) ([]model.Service, error)
	ListWithConfirmedCounts(ctx context.Context) ([]ServiceWithCount, error)
}

// Услуга и число подтверждённых броней на неё.
type ServiceWithCount struct {
	model.Service
	ConfirmedCount int64
}

type GormServiceRepository struct {
	db *gorm.DB
}

func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

func (r *GormServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	var s model.Service
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByName ищет услугу по имени без учёта регистра.
func (r *GormServiceRepository) FindByName(ctx context.Context, name string) (*model.Service, error) {
	var s model.Service
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormServiceRepository) Create(ctx context.Context, service *model.Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}

func (r *GormServiceRepository) Save(ctx context.Context, service *model.Service) error {
	return r.db.WithContext(ctx).Save(service).Error
}

func (r *GormServiceRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&model.Service{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Service{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListActive — витрина: по цене за маленькую породу, затем по имени.
func (r *GormServiceRepository) ListActive(ctx context.Context) ([]model.Service, error) {
	var services []model.Service
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price_small ASC").
		Order("name ASC").
		Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *GormServiceRepository) ListWithConfirmedCounts(ctx context.Context) ([]ServiceWithCount, error) {
	var services []model.Service
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&services).Error; err != nil {
		return nil, err
	}

	type row struct {
		ServiceID uuid.UUID
		N         int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Select("service_id, COUNT(*) AS n").
		Where("status = ? AND service_id IS NOT NULL", model.BookingStatusConfirmed).
		Group("service_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, rw := range rows {
		counts[rw.ServiceID] = rw.N
	}

	out := make([]ServiceWithCount, 0, len(services))
	for _, s := range services {
		out = append(out, ServiceWithCount{Service: s, ConfirmedCount: counts[s.ID]})
	}
	return out, nil
}
