package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/grooming-booking/internal/model"
)

// Источник данных о клиентах.
// В реале это репозиторий поверх БД, в тестах — мок.
type CustomerStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
}

// ValidateCustomer:
//   - проверяет корректность идентификатора;
//   - вытаскивает клиента из хранилища;
//   - проверяет, что клиент активен.
func ValidateCustomer(ctx context.Context, store CustomerStore, id uuid.UUID) (*model.Customer, error) {
	if id == uuid.Nil {
		return nil, ErrInvalidCustomerID
	}

	c, err := store.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && c == nil) {
		return nil, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}

	if !c.IsActive {
		return nil, ErrCustomerInactive
	}
	return c, nil
}
