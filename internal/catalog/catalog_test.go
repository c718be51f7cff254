package catalog

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/grooming-booking/internal/booking"
	"github.com/Leganyst/grooming-booking/internal/calendar"
	"github.com/Leganyst/grooming-booking/internal/db"
	"github.com/Leganyst/grooming-booking/internal/model"
	"github.com/Leganyst/grooming-booking/internal/repository"
)

func newTestCatalog(t *testing.T) (*Catalog, *gorm.DB) {
	t.Helper()
	gdb, err := db.NewTestDB(model.AutoMigrate)
	require.NoError(t, err)

	l := logrus.New()
	l.SetOutput(io.Discard)
	return New(gdb, logrus.NewEntry(l)), gdb
}

func input(name, small string, active bool) ServiceInput {
	return ServiceInput{
		Name:        name,
		Description: "desc",
		Includes:    "Bath\n  Brush  \n\nNails",
		PriceSmall:  decimal.RequireFromString(small),
		PriceMedium: decimal.RequireFromString("40"),
		PriceLarge:  decimal.RequireFromString("50"),
		IsActive:    active,
	}
}

func TestActiveServices_OrderedByPriceThenName(t *testing.T) {
	c, _ := newTestCatalog(t)
	ctx := context.Background()

	for _, in := range []ServiceInput{
		input("Zoomies Wash", "20", true),
		input("Full Groom", "45.50", true),
		input("Bath & Brush", "20", true),
		input("Hand Strip", "10", false),
	} {
		_, err := c.CreateService(ctx, in)
		require.NoError(t, err)
	}

	services, err := c.ActiveServices(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(services))
	for _, s := range services {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Bath & Brush", "Zoomies Wash", "Full Groom"}, names)
	assert.Equal(t, []string{"Bath", "Brush", "Nails"}, services[0].IncludesList())

	price, ok := services[2].PriceFor(model.BreedSizeSmall)
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.RequireFromString("45.50")))
}

func TestServiceByID(t *testing.T) {
	c, _ := newTestCatalog(t)
	ctx := context.Background()

	svc, err := c.CreateService(ctx, input("Full Groom", "30", false))
	require.NoError(t, err)

	got, err := c.ServiceByID(ctx, svc.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive, "inactive services are still resolvable")

	_, err = c.ServiceByID(ctx, uuid.New())
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestCreateService_Validation(t *testing.T) {
	c, _ := newTestCatalog(t)
	ctx := context.Background()

	_, err := c.CreateService(ctx, input("Full Groom", "30", true))
	require.NoError(t, err)

	_, err = c.CreateService(ctx, input("  full groom ", "30", true))
	var verr *booking.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{booking.MsgServiceNameDuplicate}, verr.Messages(booking.FieldName))

	bad := input("", "-1", true)
	bad.PriceMedium = decimal.RequireFromString("123456")
	bad.PriceLarge = decimal.RequireFromString("1.234")
	bad.Description = " "
	_, err = c.CreateService(ctx, bad)
	require.ErrorAs(t, err, &verr)
	fields := verr.ByField()
	for _, f := range []string{booking.FieldName, FieldDescription, FieldPriceSmall, FieldPriceMedium, FieldPriceLarge} {
		assert.Contains(t, fields, f)
	}
}

func TestUpdateService_KeepsOwnName(t *testing.T) {
	c, _ := newTestCatalog(t)
	ctx := context.Background()

	svc, err := c.CreateService(ctx, input("Full Groom", "30", true))
	require.NoError(t, err)
	_, err = c.CreateService(ctx, input("Bath & Brush", "20", true))
	require.NoError(t, err)

	updated, err := c.UpdateService(ctx, svc.ID, input("Full Groom", "32.50", false))
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.True(t, updated.PriceSmall.Equal(decimal.RequireFromString("32.5")))

	_, err = c.UpdateService(ctx, svc.ID, input("bath & brush", "30", true))
	assert.True(t, booking.HasFieldError(err, booking.FieldName))

	_, err = c.UpdateService(ctx, uuid.New(), input("Other", "30", true))
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	require.NoError(t, err)
	return d
}

func seedBooking(t *testing.T, gdb *gorm.DB, svc *model.Service, status model.BookingStatus, tod, snapshot string) *model.Booking {
	t.Helper()
	ctx := context.Background()

	cust, err := repository.NewGormCustomerRepository(gdb).EnsureByEmail(ctx, "owner@example.com", "Dog", "Owner")
	require.NoError(t, err)

	b := &model.Booking{
		CustomerID:          cust.ID,
		ServiceID:           &svc.ID,
		OriginalServiceID:   &svc.ID,
		ServiceNameSnapshot: snapshot,
		Date:                datatypes.Date(calendar.DateOf(mustDate(t, "2026-11-02"))),
		Time:                tod,
		BreedSize:           model.BreedSizeLarge,
		Status:              status,
	}
	require.NoError(t, repository.NewGormBookingRepository(gdb).Create(ctx, b))
	return b
}

func TestDeleteService_Rules(t *testing.T) {
	c, gdb := newTestCatalog(t)
	ctx := context.Background()

	svc, err := c.CreateService(ctx, input("Full Groom", "30", true))
	require.NoError(t, err)
	confirmed := seedBooking(t, gdb, svc, model.BookingStatusConfirmed, "10:00", "Full Groom")

	// активная услуга
	assert.ErrorIs(t, c.DeleteService(ctx, svc.ID), ErrServiceInUse)

	// неактивная, но с подтверждённой бронью
	require.NoError(t, c.SetActive(ctx, svc.ID, false))
	assert.ErrorIs(t, c.DeleteService(ctx, svc.ID), ErrServiceInUse)

	require.NoError(t, repository.NewGormBookingRepository(gdb).UpdateStatus(ctx, confirmed.ID, model.BookingStatusCompleted))
	require.NoError(t, c.DeleteService(ctx, svc.ID))

	_, err = c.ServiceByID(ctx, svc.ID)
	assert.ErrorIs(t, err, booking.ErrNotFound)
	assert.True(t, errors.Is(c.DeleteService(ctx, svc.ID), booking.ErrNotFound))
}

func TestDeleteService_FillsSnapshotsAndDetaches(t *testing.T) {
	c, gdb := newTestCatalog(t)
	ctx := context.Background()

	svc, err := c.CreateService(ctx, input("Puppy Intro", "25", false))
	require.NoError(t, err)
	empty := seedBooking(t, gdb, svc, model.BookingStatusCompleted, "10:00", "")
	kept := seedBooking(t, gdb, svc, model.BookingStatusCancelled, "11:00", "Puppy Intro (old)")

	require.NoError(t, c.DeleteService(ctx, svc.ID))

	repo := repository.NewGormBookingRepository(gdb)
	got, err := repo.GetByID(ctx, empty.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ServiceID)
	assert.Nil(t, got.OriginalServiceID)
	assert.Equal(t, "Puppy Intro", got.ServiceNameSnapshot)
	assert.Equal(t, "Puppy Intro", got.ServiceDisplayName())

	got, err = repo.GetByID(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, "Puppy Intro (old)", got.ServiceNameSnapshot)
}

func TestListServices_ConfirmedCounts(t *testing.T) {
	c, gdb := newTestCatalog(t)
	ctx := context.Background()

	groom, err := c.CreateService(ctx, input("Full Groom", "30", true))
	require.NoError(t, err)
	bath, err := c.CreateService(ctx, input("Bath & Brush", "20", true))
	require.NoError(t, err)

	seedBooking(t, gdb, groom, model.BookingStatusConfirmed, "10:00", "Full Groom")
	seedBooking(t, gdb, groom, model.BookingStatusConfirmed, "11:00", "Full Groom")
	seedBooking(t, gdb, groom, model.BookingStatusCancelled, "12:00", "Full Groom")
	seedBooking(t, gdb, bath, model.BookingStatusCompleted, "13:00", "Bath & Brush")

	list, err := c.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bath & Brush", list[0].Name)
	assert.Equal(t, int64(0), list[0].ConfirmedCount)
	assert.Equal(t, "Full Groom", list[1].Name)
	assert.Equal(t, int64(2), list[1].ConfirmedCount)
}
