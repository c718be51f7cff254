package bookingv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// StructClient вызывает любой метод сервисов booking.v1.
type StructClient struct {
	cc      grpc.ClientConnInterface
	service string
}

func NewBookingServiceClient(cc grpc.ClientConnInterface) *StructClient {
	return &StructClient{cc: cc, service: BookingServiceName}
}

func NewCatalogServiceClient(cc grpc.ClientConnInterface) *StructClient {
	return &StructClient{cc: cc, service: CatalogServiceName}
}

// Call отправляет fields как Struct и возвращает ответ.
func (c *StructClient) Call(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+c.service+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
