package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// ActiveBookingStatuses — статусы, которые занимают слот.
var ActiveBookingStatuses = []BookingStatus{BookingStatusConfirmed, BookingStatusCompleted}

type BreedSize string

const (
	BreedSizeSmall  BreedSize = "small"
	BreedSizeMedium BreedSize = "medium"
	BreedSizeLarge  BreedSize = "large"
)

func (s BreedSize) Valid() bool {
	switch s {
	case BreedSizeSmall, BreedSizeMedium, BreedSizeLarge:
		return true
	}
	return false
}

// DeletedServiceName показывается, когда услуга удалена, а снапшот пуст.
const DeletedServiceName = "Service (deleted)"

// bookings
//
// Уникальность (date, time) среди confirmed/completed обеспечивается частичным
// индексом uniq_active_booking_per_date_time; отменённые записи слот не занимают.
type Booking struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Текущая услуга. Обнуляется при удалении услуги.
	ServiceID *uuid.UUID `gorm:"type:uuid;index"`
	// Услуга, выбранная при создании. Пишется один раз.
	OriginalServiceID *uuid.UUID `gorm:"type:uuid;index"`
	// Название услуги на момент первого сохранения. Переживает удаление услуги.
	ServiceNameSnapshot string `gorm:"type:varchar(120);not null;default:''"`

	Date datatypes.Date `gorm:"type:date;not null;index:idx_bookings_date_time,priority:1;uniqueIndex:uniq_active_booking_per_date_time,priority:1,where:status <> 'cancelled'"`
	// Время начала в формате "HH:MM".
	Time string `gorm:"type:varchar(5);not null;index:idx_bookings_date_time,priority:2;uniqueIndex:uniq_active_booking_per_date_time,priority:2,where:status <> 'cancelled'"`

	BreedSize BreedSize     `gorm:"type:varchar(10);not null"`
	Notes     string        `gorm:"type:text"`
	Status    BookingStatus `gorm:"type:varchar(10);not null;default:'confirmed';index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Customer        *Customer `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Service         *Service  `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	OriginalService *Service  `gorm:"foreignKey:OriginalServiceID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (b *Booking) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// DateValue возвращает дату брони как time.Time (полночь UTC).
func (b *Booking) DateValue() time.Time {
	y, m, d := time.Time(b.Date).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ServiceDisplayName — безопасное имя услуги: живое имя, затем снапшот.
func (b *Booking) ServiceDisplayName() string {
	if b.ServiceID != nil && b.Service != nil {
		return b.Service.Name
	}
	if b.ServiceNameSnapshot != "" {
		return b.ServiceNameSnapshot
	}
	return DeletedServiceName
}
