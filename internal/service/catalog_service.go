package service

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	bookingpb "github.com/Leganyst/grooming-booking/internal/api/booking/v1"
	"github.com/Leganyst/grooming-booking/internal/catalog"
)

type CatalogService struct {
	bookingpb.UnimplementedCatalogServiceServer

	catalog *catalog.Catalog
}

func NewCatalogService(c *catalog.Catalog) *CatalogService {
	return &CatalogService{catalog: c}
}

// ListActiveServices — витрина услуг, доступных для новой брони.
func (s *CatalogService) ListActiveServices(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	services, err := s.catalog.ActiveServices(ctx)
	if err != nil {
		return nil, toStatus("list active services", err)
	}

	items := make([]any, 0, len(services))
	for i := range services {
		items = append(items, serviceFields(&services[i]))
	}
	return toStruct(map[string]any{"services": items})
}

func (s *CatalogService) GetService(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredUUID(req, "service_id")
	if err != nil {
		return nil, err
	}
	svc, err := s.catalog.ServiceByID(ctx, id)
	if err != nil {
		return nil, toStatus("get service", err)
	}
	return toStruct(serviceFields(svc))
}
