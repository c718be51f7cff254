package service

import (
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Leganyst/grooming-booking/internal/booking"
	"github.com/Leganyst/grooming-booking/internal/catalog"
)

// toStatus переводит ошибки ядра в gRPC-статусы. Ошибки валидации
// уходят как InvalidArgument с BadRequest.FieldViolations.
func toStatus(op string, err error) error {
	var verr *booking.ValidationError
	switch {
	case errors.As(err, &verr):
		st := status.New(codes.InvalidArgument, verr.Error())
		br := &errdetails.BadRequest{}
		for _, fe := range verr.Errors {
			br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       fe.Field,
				Description: fe.Message,
			})
		}
		if detailed, derr := st.WithDetails(br); derr == nil {
			return detailed.Err()
		}
		return st.Err()
	case errors.Is(err, booking.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, booking.ErrPermissionDenied),
		errors.Is(err, booking.ErrCustomerInactive):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, booking.ErrInvalidCustomerID):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, booking.ErrBookingPast),
		errors.Is(err, catalog.ErrServiceInUse):
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	return status.Errorf(codes.Internal, "%s: %v", op, err)
}

// FieldViolations достаёт нарушения полей из gRPC-ошибки (для клиентов и тестов).
func FieldViolations(err error) map[string][]string {
	out := map[string][]string{}
	st, ok := status.FromError(err)
	if !ok {
		return out
	}
	for _, d := range st.Details() {
		br, ok := d.(*errdetails.BadRequest)
		if !ok {
			continue
		}
		for _, v := range br.GetFieldViolations() {
			out[v.GetField()] = append(out[v.GetField()], v.GetDescription())
		}
	}
	return out
}
