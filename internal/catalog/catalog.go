package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Leganyst/grooming-booking/internal/booking"
	"github.com/Leganyst/grooming-booking/internal/model"
	"github.com/Leganyst/grooming-booking/internal/repository"
)

var ErrServiceInUse = errors.New("cannot delete: service must be inactive and have no confirmed bookings")

const (
	maxNameLen = 120
	// decimal(7,2)
	maxPriceDigits = 5
)

const (
	FieldDescription = "description"
	FieldIncludes    = "includes"
	FieldPriceSmall  = "price_small"
	FieldPriceMedium = "price_medium"
	FieldPriceLarge  = "price_large"
)

type ServiceInput struct {
	Name        string
	Description string
	Includes    string
	PriceSmall  decimal.Decimal
	PriceMedium decimal.Decimal
	PriceLarge  decimal.Decimal
	IsActive    bool
}

// Catalog — каталог услуг. Для движка бронирования только чтение,
// изменение — операции персонала.
type Catalog struct {
	db  *gorm.DB
	log *logrus.Entry
}

func New(db *gorm.DB, log *logrus.Entry) *Catalog {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Catalog{db: db, log: log.WithField("component", "catalog")}
}

// ActiveServices — активные услуги, дешёвые первыми.
func (c *Catalog) ActiveServices(ctx context.Context) ([]model.Service, error) {
	services, err := repository.NewGormServiceRepository(c.db).ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active services: %w", err)
	}
	return services, nil
}

// ServiceByID возвращает услугу независимо от активности.
func (c *Catalog) ServiceByID(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	svc, err := repository.NewGormServiceRepository(c.db).GetByID(ctx, id)
	if err != nil {
		return nil, booking.MapNotFound(err, "service", id)
	}
	return svc, nil
}

// ListServices — все услуги по имени с числом подтверждённых броней.
func (c *Catalog) ListServices(ctx context.Context) ([]repository.ServiceWithCount, error) {
	services, err := repository.NewGormServiceRepository(c.db).ListWithConfirmedCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

func (c *Catalog) CreateService(ctx context.Context, in ServiceInput) (*model.Service, error) {
	in.Name = strings.TrimSpace(in.Name)

	svc := &model.Service{}
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		services := repository.NewGormServiceRepository(tx)
		if err := validateInput(ctx, services, in, uuid.Nil); err != nil {
			return err
		}
		in.apply(svc)
		if err := services.Create(ctx, svc); err != nil {
			return translateNameConflict(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{"service_id": svc.ID, "name": svc.Name}).Info("service created")
	return svc, nil
}

func (c *Catalog) UpdateService(ctx context.Context, id uuid.UUID, in ServiceInput) (*model.Service, error) {
	in.Name = strings.TrimSpace(in.Name)

	var svc *model.Service
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		services := repository.NewGormServiceRepository(tx)

		var err error
		svc, err = services.GetByID(ctx, id)
		if err != nil {
			return booking.MapNotFound(err, "service", id)
		}
		if err := validateInput(ctx, services, in, id); err != nil {
			return err
		}
		in.apply(svc)
		if err := services.Save(ctx, svc); err != nil {
			return translateNameConflict(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.log.WithField("service_id", svc.ID).Info("service updated")
	return svc, nil
}

// SetActive включает или выключает услугу. Существующие брони не трогаются.
func (c *Catalog) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := repository.NewGormServiceRepository(c.db).SetActive(ctx, id, active); err != nil {
		return booking.MapNotFound(err, "service", id)
	}
	c.log.WithFields(logrus.Fields{"service_id": id, "active": active}).Info("service activation changed")
	return nil
}

// DeleteService удаляет неактивную услугу без подтверждённых броней.
// Перед удалением пустые снапшоты имени у связанных броней заполняются,
// а ссылки на услугу обнуляются.
func (c *Catalog) DeleteService(ctx context.Context, id uuid.UUID) error {
	var name string
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		services := repository.NewGormServiceRepository(tx)
		bookings := repository.NewGormBookingRepository(tx)

		svc, err := services.GetByID(ctx, id)
		if err != nil {
			return booking.MapNotFound(err, "service", id)
		}
		name = svc.Name

		confirmed, err := bookings.CountByServiceAndStatus(ctx, id, model.BookingStatusConfirmed)
		if err != nil {
			return err
		}
		if svc.IsActive || confirmed > 0 {
			return ErrServiceInUse
		}

		if _, err := bookings.FillNameSnapshots(ctx, id, svc.Name); err != nil {
			return fmt.Errorf("fill name snapshots: %w", err)
		}
		if err := bookings.DetachService(ctx, id); err != nil {
			return fmt.Errorf("detach bookings: %w", err)
		}
		return services.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	c.log.WithFields(logrus.Fields{"service_id": id, "name": name}).Info("service deleted")
	return nil
}

func (in ServiceInput) apply(svc *model.Service) {
	svc.Name = in.Name
	svc.Description = in.Description
	svc.Includes = in.Includes
	svc.PriceSmall = in.PriceSmall.Round(2)
	svc.PriceMedium = in.PriceMedium.Round(2)
	svc.PriceLarge = in.PriceLarge.Round(2)
	svc.IsActive = in.IsActive
}

func validateInput(ctx context.Context, services repository.ServiceRepository, in ServiceInput, selfID uuid.UUID) error {
	verr := &booking.ValidationError{}

	switch {
	case in.Name == "":
		verr.Add(booking.FieldName, booking.MsgRequired)
	case len([]rune(in.Name)) > maxNameLen:
		verr.Add(booking.FieldName, fmt.Sprintf("Ensure this value has at most %d characters.", maxNameLen))
	default:
		existing, err := services.FindByName(ctx, in.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil && existing.ID != selfID {
			verr.Add(booking.FieldName, booking.MsgServiceNameDuplicate)
		}
	}

	if strings.TrimSpace(in.Description) == "" {
		verr.Add(FieldDescription, booking.MsgRequired)
	}
	if strings.TrimSpace(in.Includes) == "" {
		verr.Add(FieldIncludes, booking.MsgRequired)
	}

	prices := []struct {
		field string
		value decimal.Decimal
	}{
		{FieldPriceSmall, in.PriceSmall},
		{FieldPriceMedium, in.PriceMedium},
		{FieldPriceLarge, in.PriceLarge},
	}
	for _, p := range prices {
		if msg := checkPrice(p.value); msg != "" {
			verr.Add(p.field, msg)
		}
	}

	if len(verr.Errors) > 0 {
		return verr
	}
	return nil
}

func checkPrice(p decimal.Decimal) string {
	if p.IsNegative() {
		return "Ensure this value is greater than or equal to 0.00."
	}
	if !p.Equal(p.Round(2)) {
		return "Ensure that there are no more than 2 decimal places."
	}
	if len(p.Truncate(0).String()) > maxPriceDigits {
		return "Ensure that there are no more than 5 digits before the decimal point."
	}
	return ""
}

func translateNameConflict(err error) error {
	if booking.IsUniqueViolation(err) {
		return booking.NewFieldError(booking.FieldName, booking.MsgServiceNameDuplicate)
	}
	return err
}
