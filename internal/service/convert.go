package service

import (
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Leganyst/grooming-booking/internal/calendar"
	"github.com/Leganyst/grooming-booking/internal/model"
)

func str(in *structpb.Struct, key string) string {
	return in.GetFields()[key].GetStringValue()
}

// requiredUUID читает обязательный идентификатор из запроса.
func requiredUUID(in *structpb.Struct, key string) (uuid.UUID, error) {
	raw := str(in, key)
	if raw == "" {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s must be a UUID", key)
	}
	return id, nil
}

// optionalUUID: пустая строка — uuid.Nil, дальше решает ядро.
func optionalUUID(in *structpb.Struct, key string) (uuid.UUID, error) {
	if str(in, key) == "" {
		return uuid.Nil, nil
	}
	return requiredUUID(in, key)
}

func requiredDate(in *structpb.Struct, key string) (time.Time, error) {
	raw := str(in, key)
	if raw == "" {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "%s must be YYYY-MM-DD", key)
	}
	return d, nil
}

func uuidOrNil(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func bookingFields(b *model.Booking, loc *time.Location) map[string]any {
	fields := map[string]any{
		"id":                    b.ID.String(),
		"customer_id":           b.CustomerID.String(),
		"service_id":            uuidOrNil(b.ServiceID),
		"original_service_id":   uuidOrNil(b.OriginalServiceID),
		"service_name":          b.ServiceDisplayName(),
		"service_name_snapshot": b.ServiceNameSnapshot,
		"date":                  b.DateValue().Format(time.DateOnly),
		"time":                  b.Time,
		"breed_size":            string(b.BreedSize),
		"notes":                 b.Notes,
		"status":                string(b.Status),
		"created_at":            b.CreatedAt.UTC().Format(time.RFC3339),
	}
	if tod, err := calendar.ParseTimeOfDay(b.Time); err == nil {
		tr := calendar.SlotRange(b.DateValue(), tod, loc)
		fields["starts_at"] = tr.Start.Format(time.RFC3339)
		fields["label"] = calendar.FormatSlot(tr, loc)
	}
	return fields
}

func bookingList(items []model.Booking, loc *time.Location) []any {
	out := make([]any, 0, len(items))
	for i := range items {
		out = append(out, bookingFields(&items[i], loc))
	}
	return out
}

func serviceFields(s *model.Service) map[string]any {
	includes := make([]any, 0)
	for _, item := range s.IncludesList() {
		includes = append(includes, item)
	}
	return map[string]any{
		"id":           s.ID.String(),
		"name":         s.Name,
		"description":  s.Description,
		"includes":     includes,
		"price_small":  s.PriceSmall.StringFixed(2),
		"price_medium": s.PriceMedium.StringFixed(2),
		"price_large":  s.PriceLarge.StringFixed(2),
		"is_active":    s.IsActive,
	}
}

func toStruct(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}
