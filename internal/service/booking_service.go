package service

import (
	"context"

	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/types/known/structpb"

	bookingpb "github.com/Leganyst/grooming-booking/internal/api/booking/v1"
	"github.com/Leganyst/grooming-booking/internal/booking"
	"github.com/Leganyst/grooming-booking/internal/model"
)

type BookingService struct {
	bookingpb.UnimplementedBookingServiceServer

	engine *booking.Engine
	log    *logrus.Entry
}

func NewBookingService(engine *booking.Engine, log *logrus.Entry) *BookingService {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &BookingService{engine: engine, log: log.WithField("component", "grpc")}
}

func (s *BookingService) CreateBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	customerID, err := requiredUUID(req, "customer_id")
	if err != nil {
		return nil, err
	}
	serviceID, err := optionalUUID(req, "service_id")
	if err != nil {
		return nil, err
	}
	date, err := requiredDate(req, "date")
	if err != nil {
		return nil, err
	}

	b, err := s.engine.CreateBooking(ctx, booking.CreateRequest{
		CustomerID: customerID,
		ServiceID:  serviceID,
		Date:       date,
		Time:       str(req, "time"),
		BreedSize:  model.BreedSize(str(req, "breed_size")),
		Notes:      str(req, "notes"),
	})
	if err != nil {
		return nil, s.fail("create booking", err)
	}
	return s.bookingResponse(b)
}

func (s *BookingService) UpdateBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	bookingID, err := requiredUUID(req, "booking_id")
	if err != nil {
		return nil, err
	}
	customerID, err := requiredUUID(req, "customer_id")
	if err != nil {
		return nil, err
	}
	serviceID, err := optionalUUID(req, "service_id")
	if err != nil {
		return nil, err
	}

	b, err := s.engine.UpdateBooking(ctx, booking.UpdateRequest{
		BookingID:  bookingID,
		CustomerID: customerID,
		ServiceID:  serviceID,
		BreedSize:  model.BreedSize(str(req, "breed_size")),
		Notes:      str(req, "notes"),
	})
	if err != nil {
		return nil, s.fail("update booking", err)
	}
	return s.bookingResponse(b)
}

func (s *BookingService) CancelBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	bookingID, err := requiredUUID(req, "booking_id")
	if err != nil {
		return nil, err
	}
	customerID, err := requiredUUID(req, "customer_id")
	if err != nil {
		return nil, err
	}

	b, err := s.engine.CancelBooking(ctx, bookingID, customerID)
	if err != nil {
		return nil, s.fail("cancel booking", err)
	}
	return s.bookingResponse(b)
}

func (s *BookingService) ListAvailableSlots(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	date, err := requiredDate(req, "date")
	if err != nil {
		return nil, err
	}

	slots, err := s.engine.ListAvailableSlots(ctx, date)
	if err != nil {
		return nil, s.fail("list available slots", err)
	}

	items := make([]any, 0, len(slots))
	for _, slot := range slots {
		items = append(items, map[string]any{
			"time":  slot.Time.String(),
			"label": slot.Label,
		})
	}
	return toStruct(map[string]any{
		"date":  date.Format("2006-01-02"),
		"slots": items,
	})
}

func (s *BookingService) ListCustomerBookings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	customerID, err := requiredUUID(req, "customer_id")
	if err != nil {
		return nil, err
	}

	upcoming, previous, err := s.engine.CustomerBookings(ctx, customerID)
	if err != nil {
		return nil, s.fail("list customer bookings", err)
	}
	loc := s.engine.Clock().Now().Location()
	return toStruct(map[string]any{
		"upcoming": bookingList(upcoming, loc),
		"previous": bookingList(previous, loc),
	})
}

func (s *BookingService) CompleteBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	bookingID, err := requiredUUID(req, "booking_id")
	if err != nil {
		return nil, err
	}
	b, err := s.engine.MarkCompleted(ctx, bookingID)
	if err != nil {
		return nil, s.fail("complete booking", err)
	}
	return s.bookingResponse(b)
}

func (s *BookingService) StaffCancelBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	bookingID, err := requiredUUID(req, "booking_id")
	if err != nil {
		return nil, err
	}
	b, err := s.engine.MarkCancelled(ctx, bookingID)
	if err != nil {
		return nil, s.fail("staff cancel booking", err)
	}
	return s.bookingResponse(b)
}

func (s *BookingService) bookingResponse(b *model.Booking) (*structpb.Struct, error) {
	return toStruct(bookingFields(b, s.engine.Clock().Now().Location()))
}

func (s *BookingService) fail(op string, err error) error {
	st := toStatus(op, err)
	s.log.WithError(err).WithField("op", op).Debug("request rejected")
	return st
}
