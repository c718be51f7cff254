package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/grooming-booking/internal/calendar"
	"github.com/Leganyst/grooming-booking/internal/model"
	"github.com/Leganyst/grooming-booking/internal/repository"
)

// ServiceCatalog — источник услуг. Движок только читает его.
type ServiceCatalog interface {
	ServiceByID(ctx context.Context, id uuid.UUID) (*model.Service, error)
}

// SlotCache хранит занятые времена по дате. Промах или ошибка кэша
// не мешают работе: данные берутся из БД.
//
// Get возвращает текущую версию даты, Set пишет под версией, прочитанной
// до запроса в БД. Invalidate поднимает версию, поэтому запись читателя,
// начавшего до коммита, больше не отдаётся.
type SlotCache interface {
	Get(ctx context.Context, date time.Time) (taken []string, version int64, ok bool, err error)
	Set(ctx context.Context, date time.Time, version int64, taken []string) error
	Invalidate(ctx context.Context, date time.Time) error
}

// Notifier получает события после фиксации транзакции.
type Notifier interface {
	Publish(ctx context.Context, event model.BookingEvent) error
}

type CreateRequest struct {
	CustomerID uuid.UUID
	ServiceID  uuid.UUID
	Date       time.Time
	Time       string
	BreedSize  model.BreedSize
	Notes      string
}

// UpdateRequest — дата и время при редактировании не меняются.
type UpdateRequest struct {
	BookingID  uuid.UUID
	CustomerID uuid.UUID
	ServiceID  uuid.UUID
	BreedSize  model.BreedSize
	Notes      string
}

type Engine struct {
	db        *gorm.DB
	catalog   ServiceCatalog
	customers CustomerStore
	clock     calendar.Clock
	slots     *calendar.SlotSet
	validator *Validator
	cache     SlotCache
	notifier  Notifier
	log       *logrus.Entry
}

type Option func(*Engine)

func WithSlotCache(c SlotCache) Option { return func(e *Engine) { e.cache = c } }

func WithNotifier(n Notifier) Option { return func(e *Engine) { e.notifier = n } }

func WithLogger(l *logrus.Entry) Option { return func(e *Engine) { e.log = l } }

func WithSlots(s *calendar.SlotSet) Option { return func(e *Engine) { e.slots = s } }

func NewEngine(
	db *gorm.DB,
	catalog ServiceCatalog,
	customers CustomerStore,
	clock calendar.Clock,
	opts ...Option,
) *Engine {
	e := &Engine{
		db:        db,
		catalog:   catalog,
		customers: customers,
		clock:     clock,
		slots:     calendar.DefaultSlots,
		log:       logrus.NewEntry(logrus.StandardLogger()).WithField("component", "booking"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.validator = NewValidator(e.slots, clock)
	return e
}

func (e *Engine) Clock() calendar.Clock { return e.clock }

func (e *Engine) Slots() *calendar.SlotSet { return e.slots }

// CreateBooking создаёт подтверждённую бронь. Проверка и вставка идут
// в одной транзакции, уникальный индекс по (date, time) страхует от гонок.
func (e *Engine) CreateBooking(ctx context.Context, req CreateRequest) (*model.Booking, error) {
	if _, err := ValidateCustomer(ctx, e.customers, req.CustomerID); err != nil {
		return nil, err
	}

	svc, err := e.resolveService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	b := &model.Booking{
		CustomerID: req.CustomerID,
		Time:       req.Time,
		BreedSize:  req.BreedSize,
		Notes:      req.Notes,
		Status:     model.BookingStatusConfirmed,
	}
	if req.ServiceID != uuid.Nil {
		id := req.ServiceID
		b.ServiceID = &id
	}
	if !req.Date.IsZero() {
		b.Date = datatypes.Date(calendar.DateOf(req.Date))
	}

	var event model.BookingEvent
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings := repository.NewGormBookingRepository(tx)

		if err := e.validator.Validate(ctx, bookings, nil, b, svc); err != nil {
			return err
		}
		ApplySnapshots(b, svc)

		if err := bookings.Create(ctx, b); err != nil {
			return translateSlotConflict(err)
		}

		event, err = e.appendEvent(ctx, tx, model.EventTypeBookingCreated, b, map[string]any{
			"date":    b.DateValue().Format(time.DateOnly),
			"time":    b.Time,
			"service": b.ServiceNameSnapshot,
		})
		return err
	})
	if err != nil {
		return nil, e.wrap("create booking", err)
	}

	b.Service = svc
	e.afterCommit(ctx, b, event)
	e.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"date":       b.DateValue().Format(time.DateOnly),
		"time":       b.Time,
	}).Info("booking created")
	return b, nil
}

// UpdateBooking меняет услугу, размер породы и заметки. Дата и время не трогаются,
// поэтому проверки пересечения и времени для неё пустые.
func (e *Engine) UpdateBooking(ctx context.Context, req UpdateRequest) (*model.Booking, error) {
	svc, err := e.resolveService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	var (
		next  model.Booking
		event model.BookingEvent
	)
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings := repository.NewGormBookingRepository(tx)

		prev, err := e.ownedBooking(ctx, bookings, req.BookingID, req.CustomerID)
		if err != nil {
			return err
		}
		past, err := e.IsPast(prev)
		if err != nil {
			return err
		}
		if past {
			return fmt.Errorf("%w and cannot be edited", ErrBookingPast)
		}

		next = *prev
		next.ServiceID = nil
		if req.ServiceID != uuid.Nil {
			id := req.ServiceID
			next.ServiceID = &id
		}
		next.BreedSize = req.BreedSize
		next.Notes = req.Notes

		if err := e.validator.Validate(ctx, bookings, prev, &next, svc); err != nil {
			return err
		}
		FillNameSnapshot(&next, svc)

		if err := bookings.Save(ctx, &next); err != nil {
			return translateSlotConflict(err)
		}

		event, err = e.appendEvent(ctx, tx, model.EventTypeBookingUpdated, &next, changes(prev, &next))
		return err
	})
	if err != nil {
		return nil, e.wrap("update booking", err)
	}

	next.Service = svc
	e.afterCommit(ctx, &next, event)
	e.log.WithField("booking_id", next.ID).Info("booking updated")
	return &next, nil
}

// CancelBooking отменяет бронь клиента, если она ещё не прошла. Строка остаётся.
func (e *Engine) CancelBooking(ctx context.Context, bookingID, customerID uuid.UUID) (*model.Booking, error) {
	var (
		b     *model.Booking
		event model.BookingEvent
	)
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings := repository.NewGormBookingRepository(tx)

		var err error
		b, err = e.ownedBooking(ctx, bookings, bookingID, customerID)
		if err != nil {
			return err
		}
		past, err := e.IsPast(b)
		if err != nil {
			return err
		}
		if past {
			return fmt.Errorf("%w and cannot be cancelled", ErrBookingPast)
		}

		event, err = e.setStatus(ctx, tx, bookings, b, model.BookingStatusCancelled, "customer")
		return err
	})
	if err != nil {
		return nil, e.wrap("cancel booking", err)
	}

	e.afterCommit(ctx, b, event)
	e.log.WithField("booking_id", b.ID).Info("booking cancelled")
	return b, nil
}

// MarkCompleted — действие персонала, доступно в любой момент.
func (e *Engine) MarkCompleted(ctx context.Context, bookingID uuid.UUID) (*model.Booking, error) {
	return e.staffSetStatus(ctx, bookingID, model.BookingStatusCompleted)
}

// MarkCancelled — отмена персоналом, без проверки времени.
func (e *Engine) MarkCancelled(ctx context.Context, bookingID uuid.UUID) (*model.Booking, error) {
	return e.staffSetStatus(ctx, bookingID, model.BookingStatusCancelled)
}

func (e *Engine) staffSetStatus(ctx context.Context, bookingID uuid.UUID, status model.BookingStatus) (*model.Booking, error) {
	var (
		b     *model.Booking
		event model.BookingEvent
	)
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings := repository.NewGormBookingRepository(tx)

		var err error
		b, err = bookings.GetByID(ctx, bookingID)
		if err != nil {
			return MapNotFound(err, "booking", bookingID)
		}

		event, err = e.setStatus(ctx, tx, bookings, b, status, "staff")
		return err
	})
	if err != nil {
		return nil, e.wrap("set booking status", err)
	}

	e.afterCommit(ctx, b, event)
	e.log.WithFields(logrus.Fields{"booking_id": b.ID, "status": status}).Info("booking status changed by staff")
	return b, nil
}

// setStatus меняет статус, повторная установка того же статуса ничего не делает.
// Возврат отменённой брони в работу упирается
// в уникальный индекс, если слот уже занят.
func (e *Engine) setStatus(
	ctx context.Context,
	tx *gorm.DB,
	bookings *repository.GormBookingRepository,
	b *model.Booking,
	status model.BookingStatus,
	actor string,
) (model.BookingEvent, error) {
	from := b.Status
	if from == status {
		return model.BookingEvent{}, nil
	}
	if err := bookings.UpdateStatus(ctx, b.ID, status); err != nil {
		return model.BookingEvent{}, translateSlotConflict(err)
	}
	b.Status = status

	eventType := model.EventTypeBookingCancelled
	if status == model.BookingStatusCompleted {
		eventType = model.EventTypeBookingCompleted
	}
	return e.appendEvent(ctx, tx, eventType, b, map[string]any{
		"from":  from,
		"to":    status,
		"actor": actor,
	})
}

// ListAvailableSlots — свободные слоты на дату. Чтение без блокировок:
// устаревшие данные дадут отказ при сохранении, а не двойную бронь.
func (e *Engine) ListAvailableSlots(ctx context.Context, date time.Time) ([]calendar.Slot, error) {
	day := calendar.DateOf(date)

	taken, err := e.takenTimes(ctx, day)
	if err != nil {
		return nil, e.wrap("list available slots", err)
	}

	tods := make([]calendar.TimeOfDay, 0, len(taken))
	for _, s := range taken {
		tod, err := calendar.ParseTimeOfDay(s)
		if err != nil {
			e.log.WithError(err).WithField("time", s).Warn("skip malformed booking time")
			continue
		}
		tods = append(tods, tod)
	}

	return calendar.AvailableSlots(day, e.slots.Slots(), tods, e.clock.Now()), nil
}

func (e *Engine) takenTimes(ctx context.Context, day time.Time) ([]string, error) {
	var (
		version   int64
		cacheable bool
	)
	if e.cache != nil {
		taken, v, ok, err := e.cache.Get(ctx, day)
		switch {
		case err != nil:
			e.log.WithError(err).Warn("slot cache get failed")
		case ok:
			return taken, nil
		default:
			version, cacheable = v, true
		}
	}

	taken, err := repository.NewGormBookingRepository(e.db).TakenTimes(ctx, day)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := e.cache.Set(ctx, day, version, taken); err != nil {
			e.log.WithError(err).Warn("slot cache set failed")
		}
	}
	return taken, nil
}

// GetBooking возвращает бронь клиента.
func (e *Engine) GetBooking(ctx context.Context, bookingID, customerID uuid.UUID) (*model.Booking, error) {
	b, err := e.ownedBooking(ctx, repository.NewGormBookingRepository(e.db), bookingID, customerID)
	if err != nil {
		return nil, e.wrap("get booking", err)
	}
	return b, nil
}

// BookingStart — момент начала брони в таймзоне салона.
func (e *Engine) BookingStart(b *model.Booking) (time.Time, error) {
	tod, err := calendar.ParseTimeOfDay(b.Time)
	if err != nil {
		return time.Time{}, err
	}
	return calendar.StartsAt(b.DateValue(), tod, e.clock.Now().Location()), nil
}

// IsPast: бронь прошла, когда закончился её часовой слот.
func (e *Engine) IsPast(b *model.Booking) (bool, error) {
	start, err := e.BookingStart(b)
	if err != nil {
		return false, err
	}
	return !e.clock.Now().Before(start.Add(calendar.SlotDuration)), nil
}

func (e *Engine) ownedBooking(
	ctx context.Context,
	bookings repository.BookingRepository,
	bookingID, customerID uuid.UUID,
) (*model.Booking, error) {
	b, err := bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, MapNotFound(err, "booking", bookingID)
	}
	if b.CustomerID != customerID {
		return nil, ErrPermissionDenied
	}
	return b, nil
}

func (e *Engine) resolveService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	svc, err := e.catalog.ServiceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func (e *Engine) appendEvent(
	ctx context.Context,
	tx *gorm.DB,
	eventType model.EventType,
	b *model.Booking,
	details map[string]any,
) (model.BookingEvent, error) {
	raw, err := json.Marshal(details)
	if err != nil {
		return model.BookingEvent{}, fmt.Errorf("marshal event details: %w", err)
	}
	customerID := b.CustomerID
	ev := model.BookingEvent{
		EventType:  eventType,
		BookingID:  b.ID,
		CustomerID: &customerID,
		Details:    datatypes.JSON(raw),
	}
	if err := repository.NewGormEventRepository(tx).Append(ctx, &ev); err != nil {
		return model.BookingEvent{}, fmt.Errorf("append event: %w", err)
	}
	return ev, nil
}

// afterCommit сбрасывает кэш даты и публикует событие. Ошибки только логируются.
func (e *Engine) afterCommit(ctx context.Context, b *model.Booking, event model.BookingEvent) {
	if e.cache != nil {
		if err := e.cache.Invalidate(ctx, b.DateValue()); err != nil {
			e.log.WithError(err).Warn("slot cache invalidate failed")
		}
	}
	if e.notifier != nil && event.ID != uuid.Nil {
		if err := e.notifier.Publish(ctx, event); err != nil {
			e.log.WithError(err).WithField("event", event.EventType).Warn("publish booking event failed")
		}
	}
}

// ошибки предметной области отдаются как есть, остальные — с контекстом
func (e *Engine) wrap(op string, err error) error {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrBookingPast),
		errors.Is(err, ErrCustomerInactive),
		errors.Is(err, ErrInvalidCustomerID):
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func changes(prev, next *model.Booking) map[string]any {
	out := map[string]any{}
	if !sameID(prev.ServiceID, next.ServiceID) {
		out["service_id"] = next.ServiceID
	}
	if prev.BreedSize != next.BreedSize {
		out["breed_size"] = next.BreedSize
	}
	if prev.Notes != next.Notes {
		out["notes_changed"] = true
	}
	return out
}
