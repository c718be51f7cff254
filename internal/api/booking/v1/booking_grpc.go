// Package bookingv1 описывает gRPC-сервисы booking.v1. Сообщения передаются
// как google.protobuf.Struct, поэтому сервисы описаны вручную, без protoc.
package bookingv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	BookingServiceName = "booking.v1.BookingService"
	CatalogServiceName = "booking.v1.CatalogService"
)

// Методы BookingService.
const (
	MethodCreateBooking        = "CreateBooking"
	MethodUpdateBooking        = "UpdateBooking"
	MethodCancelBooking        = "CancelBooking"
	MethodListAvailableSlots   = "ListAvailableSlots"
	MethodListCustomerBookings = "ListCustomerBookings"
	MethodCompleteBooking      = "CompleteBooking"
	MethodStaffCancelBooking   = "StaffCancelBooking"
)

// Методы CatalogService.
const (
	MethodListActiveServices = "ListActiveServices"
	MethodGetService         = "GetService"
)

type BookingServiceServer interface {
	CreateBooking(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateBooking(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CancelBooking(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAvailableSlots(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCustomerBookings(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CompleteBooking(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StaffCancelBooking(context.Context, *structpb.Struct) (*structpb.Struct, error)
	mustEmbedUnimplementedBookingServiceServer()
}

// UnimplementedBookingServiceServer встраивается в реализации для совместимости вперёд.
type UnimplementedBookingServiceServer struct{}

func (UnimplementedBookingServiceServer) CreateBooking(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodCreateBooking)
}

func (UnimplementedBookingServiceServer) UpdateBooking(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodUpdateBooking)
}

func (UnimplementedBookingServiceServer) CancelBooking(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodCancelBooking)
}

func (UnimplementedBookingServiceServer) ListAvailableSlots(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodListAvailableSlots)
}

func (UnimplementedBookingServiceServer) ListCustomerBookings(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodListCustomerBookings)
}

func (UnimplementedBookingServiceServer) CompleteBooking(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodCompleteBooking)
}

func (UnimplementedBookingServiceServer) StaffCancelBooking(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodStaffCancelBooking)
}

func (UnimplementedBookingServiceServer) mustEmbedUnimplementedBookingServiceServer() {}

type CatalogServiceServer interface {
	ListActiveServices(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetService(context.Context, *structpb.Struct) (*structpb.Struct, error)
	mustEmbedUnimplementedCatalogServiceServer()
}

type UnimplementedCatalogServiceServer struct{}

func (UnimplementedCatalogServiceServer) ListActiveServices(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodListActiveServices)
}

func (UnimplementedCatalogServiceServer) GetService(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodGetService)
}

func (UnimplementedCatalogServiceServer) mustEmbedUnimplementedCatalogServiceServer() {}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

type structCall func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

// unaryHandler повторяет то, что protoc-gen-go-grpc генерирует для каждого метода.
func unaryHandler(service, method string, call structCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv, ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + service + "/" + method,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv, ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var BookingService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: BookingServiceName,
	HandlerType: (*BookingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler(BookingServiceName, MethodCreateBooking, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(BookingServiceServer).CreateBooking(ctx, in)
		}),
		unaryHandler(BookingServiceName, MethodUpdateBooking, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(BookingServiceServer).UpdateBooking(ctx, in)
		}),
		unaryHandler(BookingServiceName, MethodCancelBooking, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(BookingServiceServer).CancelBooking(ctx, in)
		}),
		unaryHandler(BookingServiceName, MethodListAvailableSlots, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(BookingServiceServer).ListAvailableSlots(ctx, in)
		}),
		unaryHandler(BookingServiceName, MethodListCustomerBookings, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(BookingServiceServer).ListCustomerBookings(ctx, in)
		}),
		unaryHandler(BookingServiceName, MethodCompleteBooking, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(BookingServiceServer).CompleteBooking(ctx, in)
		}),
		unaryHandler(BookingServiceName, MethodStaffCancelBooking, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(BookingServiceServer).StaffCancelBooking(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "booking/v1/booking.proto",
}

var CatalogService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: CatalogServiceName,
	HandlerType: (*CatalogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler(CatalogServiceName, MethodListActiveServices, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(CatalogServiceServer).ListActiveServices(ctx, in)
		}),
		unaryHandler(CatalogServiceName, MethodGetService, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(CatalogServiceServer).GetService(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "booking/v1/booking.proto",
}

func RegisterBookingServiceServer(s grpc.ServiceRegistrar, srv BookingServiceServer) {
	s.RegisterService(&BookingService_ServiceDesc, srv)
}

func RegisterCatalogServiceServer(s grpc.ServiceRegistrar, srv CatalogServiceServer) {
	s.RegisterService(&CatalogService_ServiceDesc, srv)
}
