package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Тип события аудита.
type EventType string

const (
	EventTypeBookingCreated   EventType = "booking_created"
	EventTypeBookingUpdated   EventType = "booking_updated"
	EventTypeBookingCancelled EventType = "booking_cancelled"
	EventTypeBookingCompleted EventType = "booking_completed"
)

// booking_events — история изменений бронирований. Строки брони не удаляются,
// а каждый переход статуса оставляет здесь запись.
type BookingEvent struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	EventType EventType `gorm:"type:varchar(64);not null;index"`

	CreatedAt time.Time `gorm:"not null;index"`

	BookingID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`

	Details datatypes.JSON

	Booking *Booking `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (e *BookingEvent) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
