package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Leganyst/grooming-booking/internal/calendar"
	"github.com/Leganyst/grooming-booking/internal/model"
	"github.com/Leganyst/grooming-booking/internal/repository"
)

var previousStatuses = []model.BookingStatus{model.BookingStatusCompleted, model.BookingStatusCancelled}

// CustomerBookings делит брони клиента на предстоящие (подтверждённые и ещё
// не прошедшие, по возрастанию) и прошлые (завершённые и отменённые, новые первыми).
func (e *Engine) CustomerBookings(ctx context.Context, customerID uuid.UUID) (upcoming, previous []model.Booking, err error) {
	bookings := repository.NewGormBookingRepository(e.db)

	confirmed, err := bookings.ListByCustomer(ctx, customerID, []model.BookingStatus{model.BookingStatusConfirmed}, false)
	if err != nil {
		return nil, nil, fmt.Errorf("list upcoming bookings: %w", err)
	}
	upcoming = make([]model.Booking, 0, len(confirmed))
	for i := range confirmed {
		past, err := e.IsPast(&confirmed[i])
		if err != nil || past {
			continue
		}
		upcoming = append(upcoming, confirmed[i])
	}

	previous, err = bookings.ListByCustomer(ctx, customerID, previousStatuses, true)
	if err != nil {
		return nil, nil, fmt.Errorf("list previous bookings: %w", err)
	}
	return upcoming, previous, nil
}

// UpcomingPage — подтверждённые брони для панели персонала, по возрастанию даты.
func (e *Engine) UpcomingPage(ctx context.Context, page, pageSize int) (calendar.Page[model.Booking], error) {
	return e.statusPage(ctx, []model.BookingStatus{model.BookingStatusConfirmed}, false, page, pageSize)
}

// PreviousPage — завершённые и отменённые брони, новые первыми.
func (e *Engine) PreviousPage(ctx context.Context, page, pageSize int) (calendar.Page[model.Booking], error) {
	return e.statusPage(ctx, previousStatuses, true, page, pageSize)
}

func (e *Engine) statusPage(
	ctx context.Context,
	statuses []model.BookingStatus,
	newestFirst bool,
	page, pageSize int,
) (calendar.Page[model.Booking], error) {
	page, pageSize, offset := calendar.NormalizePage(page, pageSize)

	items, total, err := repository.NewGormBookingRepository(e.db).ListByStatus(ctx, statuses, newestFirst, pageSize, offset)
	if err != nil {
		return calendar.Page[model.Booking]{}, fmt.Errorf("list bookings: %w", err)
	}
	return calendar.PageOf(items, int(total), page, pageSize), nil
}

// StaffBooking — бронь по ID без проверки владельца.
func (e *Engine) StaffBooking(ctx context.Context, bookingID uuid.UUID) (*model.Booking, error) {
	b, err := repository.NewGormBookingRepository(e.db).GetByID(ctx, bookingID)
	if err != nil {
		return nil, e.wrap("get booking", MapNotFound(err, "booking", bookingID))
	}
	return b, nil
}
