package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Leganyst/grooming-booking/internal/calendar"
	"github.com/Leganyst/grooming-booking/internal/model"
)

// ClashFinder ищет неотменённые брони на (date, time). Должен работать
// в той же транзакции, что и последующая запись.
type ClashFinder interface {
	FindActiveAt(ctx context.Context, date time.Time, tod string, excludeID *uuid.UUID) ([]model.Booking, error)
}

type Validator struct {
	slots *calendar.SlotSet
	clock calendar.Clock
}

func NewValidator(slots *calendar.SlotSet, clock calendar.Clock) *Validator {
	if slots == nil {
		slots = calendar.DefaultSlots
	}
	return &Validator{slots: slots, clock: clock}
}

// Validate проверяет предлагаемое состояние брони next относительно
// сохранённого prev (nil для новой). svc — услуга, на которую указывает next.
//
// Все нарушения собираются в один *ValidationError. Прочие ошибки
// (например, от ClashFinder) возвращаются как есть. При успехе next.Time
// нормализуется к виду "HH:MM".
func (v *Validator) Validate(
	ctx context.Context,
	clashes ClashFinder,
	prev, next *model.Booking,
	svc *model.Service,
) error {
	verr := &ValidationError{}

	// выбор значений полей
	if !next.BreedSize.Valid() {
		verr.Add(FieldBreedSize, MsgBreedSizeInvalid)
	}
	date := calendar.DateOf(time.Time(next.Date))
	hasDate := !time.Time(next.Date).IsZero()
	if !hasDate {
		verr.Add(FieldDate, MsgRequired)
	}

	// активность услуги
	if next.ServiceID != nil && svc != nil {
		if prev == nil {
			if !svc.IsActive {
				verr.Add(FieldService, MsgServiceInactiveNew)
			}
		} else if !sameID(prev.ServiceID, next.ServiceID) {
			revert := sameID(prev.OriginalServiceID, next.ServiceID)
			if !svc.IsActive && !revert {
				verr.Add(FieldService, MsgServiceInactiveEdit)
			}
		}
	}

	// допустимость времени
	var (
		tod     calendar.TimeOfDay
		todOK   bool
		timeErr bool
	)
	if next.Time == "" {
		verr.Add(FieldTime, MsgRequired)
		timeErr = true
	} else if parsed, err := calendar.ParseTimeOfDay(next.Time); err != nil || !v.slots.Contains(parsed) {
		verr.Add(FieldTime, MsgTimeNotChoice)
		timeErr = true
	} else {
		tod, todOK = parsed, true
	}

	// пересечение с другими бронями
	if todOK && hasDate {
		var exclude *uuid.UUID
		if next.ID != uuid.Nil {
			id := next.ID
			exclude = &id
		}
		found, err := clashes.FindActiveAt(ctx, date, tod.String(), exclude)
		if err != nil {
			return fmt.Errorf("find clashes: %w", err)
		}
		if len(found) > 0 {
			verr.Add(FieldTime, MsgTimeClash)
			timeErr = true
		}
	}

	// не в прошлом: только для новой брони или при смене даты/времени
	if todOK && hasDate && !timeErr && slotChanged(prev, date, tod) {
		now := v.clock.Now()
		start := calendar.StartsAt(date, tod, now.Location())
		if start.Before(now.Add(calendar.SlotDuration)) {
			verr.Add(FieldTime, MsgTimePassed)
		}
	}

	if err := verr.errOrNil(); err != nil {
		return err
	}

	if todOK {
		next.Time = tod.String()
	}
	next.Date = datatypes.Date(date)
	return nil
}

// ApplySnapshots вызывается только при первом сохранении: фиксирует
// original_service и снапшот имени. Повторный вызов ничего не меняет.
func ApplySnapshots(b *model.Booking, svc *model.Service) {
	if b.OriginalServiceID == nil && b.ServiceID != nil {
		id := *b.ServiceID
		b.OriginalServiceID = &id
	}
	FillNameSnapshot(b, svc)
}

// FillNameSnapshot дописывает пустой снапшот имени при любом сохранении.
// original_service здесь не трогается: после удаления услуги он остаётся пустым.
func FillNameSnapshot(b *model.Booking, svc *model.Service) {
	if b.ServiceNameSnapshot == "" && svc != nil {
		b.ServiceNameSnapshot = svc.Name
	}
}

func slotChanged(prev *model.Booking, date time.Time, tod calendar.TimeOfDay) bool {
	if prev == nil {
		return true
	}
	if !calendar.DateOf(time.Time(prev.Date)).Equal(date) {
		return true
	}
	prevTod, err := calendar.ParseTimeOfDay(prev.Time)
	return err != nil || prevTod != tod
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
