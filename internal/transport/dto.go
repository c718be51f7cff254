package transport

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Leganyst/grooming-booking/internal/calendar"
	"github.com/Leganyst/grooming-booking/internal/model"
	"github.com/Leganyst/grooming-booking/internal/repository"
)

type CreateBookingRequest struct {
	ServiceID string `json:"service_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	BreedSize string `json:"breed_size"`
	Notes     string `json:"notes"`
}

type UpdateBookingRequest struct {
	ServiceID string `json:"service_id"`
	BreedSize string `json:"breed_size"`
	Notes     string `json:"notes"`
}

type ServiceRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Includes    string          `json:"includes"`
	PriceSmall  decimal.Decimal `json:"price_small"`
	PriceMedium decimal.Decimal `json:"price_medium"`
	PriceLarge  decimal.Decimal `json:"price_large"`
	IsActive    bool            `json:"is_active"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type BookingResponse struct {
	ID                  string  `json:"id"`
	CustomerID          string  `json:"customer_id"`
	ServiceID           *string `json:"service_id"`
	OriginalServiceID   *string `json:"original_service_id"`
	ServiceName         string  `json:"service_name"`
	ServiceNameSnapshot string  `json:"service_name_snapshot"`
	Date                string  `json:"date"`
	Time                string  `json:"time"`
	StartsAt            string  `json:"starts_at,omitempty"`
	Label               string  `json:"label,omitempty"`
	BreedSize           string  `json:"breed_size"`
	Notes               string  `json:"notes"`
	Status              string  `json:"status"`
	CustomerEmail       string  `json:"customer_email,omitempty"`
	CreatedAt           string  `json:"created_at"`
}

type ServiceResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Includes       []string `json:"includes"`
	PriceSmall     string   `json:"price_small"`
	PriceMedium    string   `json:"price_medium"`
	PriceLarge     string   `json:"price_large"`
	IsActive       bool     `json:"is_active"`
	ConfirmedCount *int64   `json:"confirmed_count,omitempty"`
}

type SlotResponse struct {
	Time  string `json:"time"`
	Label string `json:"label"`
}

type PageResponse[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalPages int  `json:"total_pages"`
	Total      int  `json:"total"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

func idString[T interface{ String() string }](id *T) *string {
	if id == nil {
		return nil
	}
	s := (*id).String()
	return &s
}

func toBookingResponse(b *model.Booking, loc *time.Location) BookingResponse {
	resp := BookingResponse{
		ID:                  b.ID.String(),
		CustomerID:          b.CustomerID.String(),
		ServiceID:           idString(b.ServiceID),
		OriginalServiceID:   idString(b.OriginalServiceID),
		ServiceName:         b.ServiceDisplayName(),
		ServiceNameSnapshot: b.ServiceNameSnapshot,
		Date:                b.DateValue().Format(time.DateOnly),
		Time:                b.Time,
		BreedSize:           string(b.BreedSize),
		Notes:               b.Notes,
		Status:              string(b.Status),
		CreatedAt:           b.CreatedAt.UTC().Format(time.RFC3339),
	}
	if b.Customer != nil {
		resp.CustomerEmail = b.Customer.Email
	}
	if tod, err := calendar.ParseTimeOfDay(b.Time); err == nil {
		tr := calendar.SlotRange(b.DateValue(), tod, loc)
		resp.StartsAt = tr.Start.Format(time.RFC3339)
		resp.Label = calendar.FormatSlot(tr, loc)
	}
	return resp
}

func toBookingList(items []model.Booking, loc *time.Location) []BookingResponse {
	out := make([]BookingResponse, 0, len(items))
	for i := range items {
		out = append(out, toBookingResponse(&items[i], loc))
	}
	return out
}

func toServiceResponse(s *model.Service) ServiceResponse {
	includes := s.IncludesList()
	if includes == nil {
		includes = []string{}
	}
	return ServiceResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		Description: s.Description,
		Includes:    includes,
		PriceSmall:  s.PriceSmall.StringFixed(2),
		PriceMedium: s.PriceMedium.StringFixed(2),
		PriceLarge:  s.PriceLarge.StringFixed(2),
		IsActive:    s.IsActive,
	}
}

func toServiceWithCount(s repository.ServiceWithCount) ServiceResponse {
	resp := toServiceResponse(&s.Service)
	n := s.ConfirmedCount
	resp.ConfirmedCount = &n
	return resp
}

func toPageResponse(p calendar.Page[model.Booking], loc *time.Location) PageResponse[BookingResponse] {
	return PageResponse[BookingResponse]{
		Items:      toBookingList(p.Items, loc),
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		Total:      p.Total,
		HasNext:    p.HasNext,
		HasPrev:    p.HasPrev,
	}
}
