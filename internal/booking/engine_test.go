package booking_test

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/grooming-booking/internal/booking"
	"github.com/Leganyst/grooming-booking/internal/calendar"
	"github.com/Leganyst/grooming-booking/internal/catalog"
	"github.com/Leganyst/grooming-booking/internal/db"
	"github.com/Leganyst/grooming-booking/internal/model"
	"github.com/Leganyst/grooming-booking/internal/repository"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

type cachedDay struct {
	version int64
	taken   []string
}

// fakeCache повторяет версионную схему redis-кэша: запись под устаревшей
// версией отбрасывается.
type fakeCache struct {
	versions    map[string]int64
	data        map[string]cachedDay
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{versions: map[string]int64{}, data: map[string]cachedDay{}}
}

func (c *fakeCache) Get(_ context.Context, date time.Time) ([]string, int64, bool, error) {
	key := date.Format(time.DateOnly)
	v := c.versions[key]
	d, ok := c.data[key]
	if !ok || d.version != v {
		return nil, v, false, nil
	}
	return d.taken, v, true, nil
}

func (c *fakeCache) Set(_ context.Context, date time.Time, version int64, taken []string) error {
	key := date.Format(time.DateOnly)
	if version != c.versions[key] {
		return nil
	}
	c.data[key] = cachedDay{version: version, taken: taken}
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, date time.Time) error {
	key := date.Format(time.DateOnly)
	c.versions[key]++
	delete(c.data, key)
	c.invalidated = append(c.invalidated, key)
	return nil
}

type recordingNotifier struct {
	events []model.BookingEvent
}

func (n *recordingNotifier) Publish(_ context.Context, ev model.BookingEvent) error {
	n.events = append(n.events, ev)
	return nil
}

func (n *recordingNotifier) types() []model.EventType {
	out := make([]model.EventType, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.EventType)
	}
	return out
}

type fixture struct {
	t       *testing.T
	ctx     context.Context
	db      *gorm.DB
	clock   *testClock
	catalog *catalog.Catalog
	engine  *booking.Engine
	cache   *fakeCache
	events  *recordingNotifier
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// newFixture: салон в Europe/London, сейчас четверг 15.10.2026 09:30.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	gdb, err := db.NewTestDB(model.AutoMigrate)
	require.NoError(t, err)

	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	f := &fixture{
		t:      t,
		ctx:    context.Background(),
		db:     gdb,
		clock:  &testClock{now: time.Date(2026, 10, 15, 9, 30, 0, 0, loc)},
		cache:  newFakeCache(),
		events: &recordingNotifier{},
	}
	f.catalog = catalog.New(gdb, quietLogger())
	f.engine = booking.NewEngine(
		gdb,
		f.catalog,
		repository.NewGormCustomerRepository(gdb),
		f.clock,
		booking.WithSlotCache(f.cache),
		booking.WithNotifier(f.events),
		booking.WithLogger(quietLogger()),
	)
	return f
}

func (f *fixture) customer(email string) *model.Customer {
	f.t.Helper()
	c, err := repository.NewGormCustomerRepository(f.db).EnsureByEmail(f.ctx, email, "Test", "Customer")
	require.NoError(f.t, err)
	return c
}

func (f *fixture) service(name string, active bool) *model.Service {
	f.t.Helper()
	svc, err := f.catalog.CreateService(f.ctx, catalog.ServiceInput{
		Name:        name,
		Description: name + " description",
		Includes:    "Bath\nBrush",
		PriceSmall:  decimal.RequireFromString("30.00"),
		PriceMedium: decimal.RequireFromString("40.00"),
		PriceLarge:  decimal.RequireFromString("50.00"),
		IsActive:    active,
	})
	require.NoError(f.t, err)
	return svc
}

func (f *fixture) deactivate(svc *model.Service) {
	f.t.Helper()
	require.NoError(f.t, f.catalog.SetActive(f.ctx, svc.ID, false))
}

func (f *fixture) today() time.Time { return calendar.DateOf(f.clock.now) }

func (f *fixture) tomorrow() time.Time { return f.today().AddDate(0, 0, 1) }

func (f *fixture) create(c *model.Customer, svc *model.Service, date time.Time, tod string) (*model.Booking, error) {
	return f.engine.CreateBooking(f.ctx, booking.CreateRequest{
		CustomerID: c.ID,
		ServiceID:  svc.ID,
		Date:       date,
		Time:       tod,
		BreedSize:  model.BreedSizeMedium,
		Notes:      "friendly",
	})
}

func (f *fixture) update(b *model.Booking, svc *model.Service, notes string) (*model.Booking, error) {
	return f.engine.UpdateBooking(f.ctx, booking.UpdateRequest{
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		ServiceID:  svc.ID,
		BreedSize:  b.BreedSize,
		Notes:      notes,
	})
}

func (f *fixture) reload(id uuid.UUID) *model.Booking {
	f.t.Helper()
	b, err := f.engine.StaffBooking(f.ctx, id)
	require.NoError(f.t, err)
	return b
}

func requireFieldError(t *testing.T, err error, field, msg string) {
	t.Helper()
	require.Error(t, err)
	var verr *booking.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages(field), msg, "errors: %v", verr.ByField())
}

func TestScenario_DoubleBookingCancelAndRebook(t *testing.T) {
	f := newFixture(t)
	fullGroom := f.service("Full Groom", true)
	userA := f.customer("a@example.com")
	userB := f.customer("b@example.com")

	first, err := f.create(userA, fullGroom, f.tomorrow(), "10:00")
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, first.Status)

	_, err = f.create(userB, fullGroom, f.tomorrow(), "10:00")
	requireFieldError(t, err, booking.FieldTime, booking.MsgTimeClash)

	cancelled, err := f.engine.CancelBooking(f.ctx, first.ID, userA.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, model.BookingStatusCancelled, f.reload(first.ID).Status, "row must be kept")

	second, err := f.create(userB, fullGroom, f.tomorrow(), "10:00")
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, second.Status)
}

func TestCreate_ServiceActivation(t *testing.T) {
	f := newFixture(t)
	c := f.customer("c@example.com")
	active := f.service("Bath & Brush", true)
	inactive := f.service("Hand Strip", false)

	_, err := f.create(c, inactive, f.tomorrow(), "11:00")
	requireFieldError(t, err, booking.FieldService, booking.MsgServiceInactiveNew)

	b, err := f.create(c, active, f.tomorrow(), "11:00")
	require.NoError(t, err)
	require.NotNil(t, b.ServiceID)
	assert.Equal(t, active.ID, *b.ServiceID)
}

func TestCreate_TodayWithinOneHourRejected(t *testing.T) {
	f := newFixture(t)
	c := f.customer("c@example.com")
	svc := f.service("Full Groom", true)

	// 10:00 ещё показывается в списке (сравнение по часу), но при сохранении отклоняется
	slots, err := f.engine.ListAvailableSlots(f.ctx, f.today())
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, "10:00", slots[0].Label)

	_, err = f.create(c, svc, f.today(), "10:00")
	requireFieldError(t, err, booking.FieldTime, booking.MsgTimePassed)

	_, err = f.create(c, svc, f.today(), "11:00")
	require.NoError(t, err)
}

func TestCreate_PastDateRejected(t *testing.T) {
	f := newFixture(t)
	c := f.customer("c@example.com")
	svc := f.service("Full Groom", true)

	_, err := f.create(c, svc, f.today().AddDate(0, 0, -1), "15:00")
	requireFieldError(t, err, booking.FieldTime, booking.MsgTimePassed)
}

func TestCreate_TimeOutsideSlotSet(t *testing.T) {
	f := newFixture(t)
	c := f.customer("c@example.com")
	svc := f.service("Full Groom", true)

	for _, tod := range []string{"05:00", "10:30", "20:00", "noon"} {
		_, err := f.create(c, svc, f.tomorrow(), tod)
		requireFieldError(t, err, booking.FieldTime, booking.MsgTimeNotChoice)
	}
}

func TestCreate_ErrorsAreAggregated(t *testing.T) {
	f := newFixture(t)
	c := f.customer("c@example.com")
	inactive := f.service("Hand Strip", false)

	_, err := f.engine.CreateBooking(f.ctx, booking.CreateRequest{
		CustomerID: c.ID,
		ServiceID:  inactive.ID,
		Date:       f.tomorrow(),
		Time:       "21:00",
		BreedSize:  model.BreedSize("giant"),
	})
	var verr *booking.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has(booking.FieldService))
	assert.True(t, verr.Has(booking.FieldTime))
	assert.True(t, verr.Has(booking.FieldBreedSize))
}

func TestCreate_WithoutServiceAndUnknownService(t *testing.T) {
	f := newFixture(t)
	c := f.customer("c@example.com")

	b, err := f.engine.CreateBooking(f.ctx, booking.CreateRequest{
		CustomerID: c.ID,
		Date:       f.tomorrow(),
		Time:       "10:00",
		BreedSize:  model.BreedSizeSmall,
	})
	require.NoError(t, err)
	assert.Nil(t, b.ServiceID)
	assert.Nil(t, b.OriginalServiceID)
	assert.Equal(t, model.DeletedServiceName, b.ServiceDisplayName())

	_, err = f.engine.CreateBooking(f.ctx, booking.CreateRequest{
		CustomerID: c.ID,
		ServiceID:  uuid.New(),
		Date:       f.tomorrow(),
		Time:       "11:00",
		BreedSize:  model.BreedSizeSmall,
	})
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestUpdate_NotesOnlyOnDetachedBooking(t *testing.T) {
	f := newFixture(t)
	c := f.customer("c@example.com")
	svc := f.service("Puppy Intro", true)

	b, err := f.create(c, svc, f.tomorrow(), "10:00")
	require.NoError(t, err)
	_, err = f.engine.CancelBooking(f.ctx, b.ID, c.ID)
	require.NoError(t, err)

	f.deactivate(svc)
	require.NoError(t, f.catalog.DeleteService(f.ctx, svc.ID))

	updated, err := f.engine.UpdateBooking(f.ctx, booking.UpdateRequest{
		BookingID:  b.ID,
		CustomerID: c.ID,
		BreedSize:  b.BreedSize,
		Notes:      "new notes",
	})
	require.NoError(t, err)
	assert.Equal(t, "new notes", updated.Notes)
	assert.Nil(t, updated.ServiceID)
	assert.Equal(t, "Puppy Intro", updated.ServiceDisplayName())
}

func TestCreate_InactiveCustomer(t *testing.T) {
	f := newFixture(t)
	c := f.customer("c@example.com")
	svc := f.service("Full Groom", true)
	require.NoError(t, repository.NewGormCustomerRepository(f.db).SetActive(f.ctx, c.ID, false))

	_, err := f.create(c, svc, f.tomorrow(), "10:00")
	assert.ErrorIs(t, err, booking.ErrCustomerInactive)
}

func TestScenario_DeactivatedServiceEdits(t *testing.T) {
	f := newFixture(t)
	c := f.customer("c@example.com")
	original := f.service("Full Groom", true)
	otherInactive := f.service("Puppy Intro", true)
	active := f.service("Bath & Brush", true)

	b, err := f.create(c, original, f.tomorrow(), "12:00")
	require.NoError(t, err)

	f.deactivate(original)
	f.deactivate(otherInactive)

	// только заметки — услуга не меняется
	b, err = f.update(b, original, "nervous around dryers")
	require.NoError(t, err)
	assert.Equal(t, "nervous around dryers", b.Notes)

	b, err = f.update(b, active, "switching")
	require.NoError(t, err)

	_, err = f.update(b, otherInactive, "try another inactive")
	requireFieldError(t, err, booking.FieldService, booking.MsgServiceInactiveEdit)

	b, err = f.update(b, original, "back to original")
	require.NoError(t, err)
	require.NotNil(t, b.ServiceID)
	assert.Equal(t, original.ID, *b.ServiceID)
}

func TestSnapshots_SetOnceAndNeverOverwritten(t *testing.T) {
	f := newFixture(t)
	c := f.customer("c@example.com")
	first := f.service("Full Groom", true)
	second := f.service("Bath & Brush", true)

	b, err := f.create(c, first, f.tomorrow(), "13:00")
	require.NoError(t, err)
	require.NotNil(t, b.OriginalServiceID)
	assert.Equal(t, first.ID, *b.OriginalServiceID)
	assert.Equal(t, "Full Groom", b.ServiceNameSnapshot)

	_, err = f.catalog.UpdateService(f.ctx, first.ID, catalog.ServiceInput{
		Name:        "Full Groom Deluxe",
		Description: "renamed",
		Includes:    "Bath",
		PriceSmall:  decimal.RequireFromString("35"),
		PriceMedium: decimal.RequireFromString("45"),
		PriceLarge:  decimal.RequireFromString("55"),
		IsActive:    true,
	})
	require.NoError(t, err)

	_, err = f.update(b, second, "changed")
	require.NoError(t, err)

	got := f.reload(b.ID)
	require.NotNil(t, got.OriginalServiceID)
	assert.Equal(t, first.ID, *got.OriginalServiceID)
	assert.Equal(t, "Full Groom", got.ServiceNameSnapshot)
	require.NotNil(t, got.ServiceID)
	assert.Equal(t, second.ID, *got.ServiceID)
	assert.Equal(t, "Bath & Brush", got.ServiceDisplayName())
}

func TestOriginalService_NotReassignedAfterServiceDeleted(t *testing.T) {
	f := newFixture(t)
	c := f.customer("c@example.com")
	first := f.service("Full Groom", true)
	second := f.service("Bath & Brush", true)
	third := f.service("Nail Trim", true)

	b, err := f.create(c, first, f.tomorrow(), "11:00")
	require.NoError(t, err)
	b, err = f.update(b, second, "switch")
	require.NoError(t, err)

	f.deactivate(first)
	require.NoError(t, f.catalog.DeleteService(f.ctx, first.ID))
	assert.Nil(t, f.reload(b.ID).OriginalServiceID)

	b, err = f.update(f.reload(b.ID), second, "notes only")
	require.NoError(t, err)
	assert.Nil(t, b.OriginalServiceID)
	assert.Nil(t, f.reload(b.ID).OriginalServiceID)
	assert.Equal(t, "Full Groom", b.ServiceNameSnapshot)

	f.deactivate(second)
	b, err = f.update(b, third, "to third")
	require.NoError(t, err)

	// second никогда не был исходной услугой, возврат к нему не разрешён
	_, err = f.update(b, second, "back to inactive")
	requireFieldError(t, err, booking.FieldService, booking.MsgServiceInactiveEdit)
}

func TestFillNameSnapshot_LeavesOriginalService(t *testing.T) {
	svc := &model.Service{ID: uuid.New(), Name: "A"}
	b := &model.Booking{ServiceID: &svc.ID}

	booking.FillNameSnapshot(b, svc)

	assert.Nil(t, b.OriginalServiceID)
	assert.Equal(t, "A", b.ServiceNameSnapshot)
}

func TestApplySnapshots_Idempotent(t *testing.T) {
	svcA := &model.Service{ID: uuid.New(), Name: "A"}
	svcB := &model.Service{ID: uuid.New(), Name: "B"}
	b := &model.Booking{ServiceID: &svcA.ID}

	booking.ApplySnapshots(b, svcA)
	b.ServiceID = &svcB.ID
	booking.ApplySnapshots(b, svcB)

	assert.Equal(t, svcA.ID, *b.OriginalServiceID)
	assert.Equal(t, "A", b.ServiceNameSnapshot)
}

func TestUpdateAndCancel_PastBookingRejected(t *testing.T) {
	f := newFixture(t)
	c := f.customer("c@example.com")
	svc := f.service("Full Groom", true)

	b, err := f.create(c, svc, f.today(), "14:00")
	require.NoError(t, err)

	// в 14:30 бронь ещё идёт
	f.clock.now = time.Date(2026, 10, 15, 14, 30, 0, 0, f.clock.now.Location())
	_, err = f.update(b, svc, "still running")
	require.NoError(t, err)

	// в 15:00 слот закончился
	f.clock.now = time.Date(2026, 10, 15, 15, 0, 0, 0, f.clock.now.Location())
	_, err = f.update(b, svc, "too late")
	assert.ErrorIs(t, err, booking.ErrBookingPast)

	_, err = f.engine.CancelBooking(f.ctx, b.ID, c.ID)
	assert.ErrorIs(t, err, booking.ErrBookingPast)
	assert.Equal(t, model.BookingStatusConfirmed, f.reload(b.ID).Status)
}

func TestCancel_OwnershipAndNotFound(t *testing.T) {
	f := newFixture(t)
	owner := f.customer("owner@example.com")
	other := f.customer("other@example.com")
	svc := f.service("Full Groom", true)

	b, err := f.create(owner, svc, f.tomorrow(), "09:00")
	require.NoError(t, err)

	_, err = f.engine.CancelBooking(f.ctx, b.ID, other.ID)
	assert.ErrorIs(t, err, booking.ErrPermissionDenied)

	_, err = f.engine.UpdateBooking(f.ctx, booking.UpdateRequest{
		BookingID:  b.ID,
		CustomerID: other.ID,
		ServiceID:  svc.ID,
		BreedSize:  model.BreedSizeLarge,
	})
	assert.ErrorIs(t, err, booking.ErrPermissionDenied)

	_, err = f.engine.CancelBooking(f.ctx, uuid.New(), owner.ID)
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestListAvailableSlots(t *testing.T) {
	f := newFixture(t)
	c := f.customer("c@example.com")
	svc := f.service("Full Groom", true)

	past, err := f.engine.ListAvailableSlots(f.ctx, f.today().AddDate(0, 0, -3))
	require.NoError(t, err)
	assert.Empty(t, past)

	// сегодня в 09:30: порог — час (09:30 + 1h) = 10
	today, err := f.engine.ListAvailableSlots(f.ctx, f.today())
	require.NoError(t, err)
	assert.Len(t, today, 10)
	for _, s := range today {
		assert.GreaterOrEqual(t, s.Time.Hour, 10)
	}

	_, err = f.create(c, svc, f.tomorrow(), "08:00")
	require.NoError(t, err)
	cancelled, err := f.create(c, svc, f.tomorrow(), "09:00")
	require.NoError(t, err)
	_, err = f.engine.CancelBooking(f.ctx, cancelled.ID, c.ID)
	require.NoError(t, err)

	future, err := f.engine.ListAvailableSlots(f.ctx, f.tomorrow())
	require.NoError(t, err)
	assert.Len(t, future, calendar.DefaultSlots.Len()-1)
	labels := make([]string, 0, len(future))
	for _, s := range future {
		labels = append(labels, s.Label)
	}
	assert.NotContains(t, labels, "08:00")
	assert.Contains(t, labels, "09:00", "cancelled bookings free the slot")
}

func TestListAvailableSlots_UsesAndInvalidatesCache(t *testing.T) {
	f := newFixture(t)
	c := f.customer("c@example.com")
	svc := f.service("Full Groom", true)
	key := f.tomorrow().Format(time.DateOnly)

	_, err := f.engine.ListAvailableSlots(f.ctx, f.tomorrow())
	require.NoError(t, err)
	require.Contains(t, f.cache.data, key)

	_, err = f.create(c, svc, f.tomorrow(), "10:00")
	require.NoError(t, err)
	assert.NotContains(t, f.cache.data, key)
	assert.Contains(t, f.cache.invalidated, key)

	slots, err := f.engine.ListAvailableSlots(f.ctx, f.tomorrow())
	require.NoError(t, err)
	assert.Len(t, slots, calendar.DefaultSlots.Len()-1)
	assert.Equal(t, []string{"10:00"}, f.cache.data[key].taken)
}

func TestListAvailableSlots_StaleCacheWriteIsDropped(t *testing.T) {
	f := newFixture(t)
	c := f.customer("c@example.com")
	svc := f.service("Full Groom", true)
	key := f.tomorrow().Format(time.DateOnly)

	b, err := f.create(c, svc, f.tomorrow(), "10:00")
	require.NoError(t, err)

	// читатель увидел версию и занятое 10:00 до отмены
	_, readerVersion, _, err := f.cache.Get(f.ctx, f.tomorrow())
	require.NoError(t, err)

	_, err = f.engine.CancelBooking(f.ctx, b.ID, c.ID)
	require.NoError(t, err)

	require.NoError(t, f.cache.Set(f.ctx, f.tomorrow(), readerVersion, []string{"10:00"}))

	slots, err := f.engine.ListAvailableSlots(f.ctx, f.tomorrow())
	require.NoError(t, err)
	assert.Len(t, slots, calendar.DefaultSlots.Len(), "cancelled slot is listed again")
	assert.Empty(t, f.cache.data[key].taken)
}

func TestStaffStatusChanges(t *testing.T) {
	f := newFixture(t)
	a := f.customer("a@example.com")
	b := f.customer("b@example.com")
	svc := f.service("Full Groom", true)

	first, err := f.create(a, svc, f.tomorrow(), "16:00")
	require.NoError(t, err)
	_, err = f.engine.CancelBooking(f.ctx, first.ID, a.ID)
	require.NoError(t, err)

	second, err := f.create(b, svc, f.tomorrow(), "16:00")
	require.NoError(t, err)

	// вернуть отменённую бронь в слот, который уже занят, нельзя
	_, err = f.engine.MarkCompleted(f.ctx, first.ID)
	requireFieldError(t, err, booking.FieldTime, booking.MsgTimeClash)
	assert.Equal(t, model.BookingStatusCancelled, f.reload(first.ID).Status)

	done, err := f.engine.MarkCompleted(f.ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCompleted, done.Status)

	// персонал может отменить и прошедшую бронь
	f.clock.now = f.clock.now.AddDate(0, 0, 5)
	cancelled, err := f.engine.MarkCancelled(f.ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCancelled, cancelled.Status)

	_, err = f.engine.MarkCompleted(f.ctx, uuid.New())
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestEventsRecordedAndPublished(t *testing.T) {
	f := newFixture(t)
	c := f.customer("c@example.com")
	svc := f.service("Full Groom", true)

	b, err := f.create(c, svc, f.tomorrow(), "10:00")
	require.NoError(t, err)
	_, err = f.update(b, svc, "new notes")
	require.NoError(t, err)
	_, err = f.engine.CancelBooking(f.ctx, b.ID, c.ID)
	require.NoError(t, err)
	// повторная отмена ничего не публикует
	_, err = f.engine.MarkCancelled(f.ctx, b.ID)
	require.NoError(t, err)

	want := []model.EventType{
		model.EventTypeBookingCreated,
		model.EventTypeBookingUpdated,
		model.EventTypeBookingCancelled,
	}
	assert.Equal(t, want, f.events.types())

	stored, err := repository.NewGormEventRepository(f.db).ListByBooking(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, stored, len(want))
}

func TestStorage_PartialUniqueIndex(t *testing.T) {
	f := newFixture(t)
	c := f.customer("c@example.com")
	repo := repository.NewGormBookingRepository(f.db)
	date := datatypes.Date(f.tomorrow())

	mk := func(status model.BookingStatus) *model.Booking {
		return &model.Booking{
			CustomerID: c.ID,
			Date:       date,
			Time:       "10:00",
			BreedSize:  model.BreedSizeSmall,
			Status:     status,
		}
	}

	require.NoError(t, repo.Create(f.ctx, mk(model.BookingStatusCancelled)))
	require.NoError(t, repo.Create(f.ctx, mk(model.BookingStatusCancelled)))
	require.NoError(t, repo.Create(f.ctx, mk(model.BookingStatusConfirmed)))

	err := repo.Create(f.ctx, mk(model.BookingStatusCompleted))
	require.Error(t, err)
	assert.True(t, booking.IsUniqueViolation(err), "got %v", err)
}

func TestProperty_NoTwoActiveBookingsShareASlot(t *testing.T) {
	f := newFixture(t)
	svc := f.service("Full Groom", true)
	customers := []*model.Customer{
		f.customer("p1@example.com"),
		f.customer("p2@example.com"),
		f.customer("p3@example.com"),
	}
	slots := calendar.DefaultSlots.Slots()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 120; i++ {
		c := customers[rng.Intn(len(customers))]
		date := f.tomorrow().AddDate(0, 0, rng.Intn(3))
		slot := slots[rng.Intn(len(slots))]

		b, err := f.create(c, svc, date, slot.Time.String())
		if err != nil {
			require.True(t, booking.HasFieldError(err, booking.FieldTime), "unexpected error: %v", err)
			continue
		}
		if rng.Intn(3) == 0 {
			_, err := f.engine.CancelBooking(f.ctx, b.ID, c.ID)
			require.NoError(t, err)
		}
	}

	var all []model.Booking
	require.NoError(t, f.db.Where("status <> ?", model.BookingStatusCancelled).Find(&all).Error)
	seen := map[string]bool{}
	for _, b := range all {
		key := fmt.Sprintf("%s %s", b.DateValue().Format(time.DateOnly), b.Time)
		require.False(t, seen[key], "slot %s booked twice", key)
		seen[key] = true
	}
}

func TestCustomerBookingsAndDashboard(t *testing.T) {
	f := newFixture(t)
	c := f.customer("c@example.com")
	svc := f.service("Full Groom", true)

	later, err := f.create(c, svc, f.tomorrow().AddDate(0, 0, 1), "10:00")
	require.NoError(t, err)
	sooner, err := f.create(c, svc, f.tomorrow(), "10:00")
	require.NoError(t, err)
	today, err := f.create(c, svc, f.today(), "12:00")
	require.NoError(t, err)
	cancelled, err := f.create(c, svc, f.tomorrow(), "15:00")
	require.NoError(t, err)
	_, err = f.engine.CancelBooking(f.ctx, cancelled.ID, c.ID)
	require.NoError(t, err)

	// сегодняшняя бронь закончилась в 13:00
	f.clock.now = time.Date(2026, 10, 15, 13, 0, 0, 0, f.clock.now.Location())

	upcoming, previous, err := f.engine.CustomerBookings(f.ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, sooner.ID, upcoming[0].ID)
	assert.Equal(t, later.ID, upcoming[1].ID)
	require.Len(t, previous, 1)
	assert.Equal(t, cancelled.ID, previous[0].ID)

	page, err := f.engine.UpcomingPage(f.ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.True(t, page.HasNext)
	require.Len(t, page.Items, 2)
	assert.Equal(t, today.ID, page.Items[0].ID)

	prevPage, err := f.engine.PreviousPage(f.ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, prevPage.Total)
	assert.Equal(t, calendar.DefaultPageSize, prevPage.PageSize)
}
