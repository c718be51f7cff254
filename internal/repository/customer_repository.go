package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/grooming-booking/internal/model"
)

type CustomerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	GetByEmail(ctx context.Context, email string) (*model.Customer, error)
	EnsureByEmail(ctx context.Context, email, firstName, lastName string) (*model.Customer, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *GormCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormCustomerRepository) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	var c model.Customer
	if err := r.db.WithContext(ctx).First(&c, "email = ?", normalizeEmail(email)).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// EnsureByEmail возвращает клиента по email, создавая активного при отсутствии.
func (r *GormCustomerRepository) EnsureByEmail(ctx context.Context, email, firstName, lastName string) (*model.Customer, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, gorm.ErrRecordNotFound
	}

	c, err := r.GetByEmail(ctx, email)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	c = &model.Customer{
		Email:     email,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		IsActive:  true,
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (r *GormCustomerRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&model.Customer{}).
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
