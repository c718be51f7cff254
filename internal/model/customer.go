package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// customers — владельцы бронирований. Регистрация и вход живут снаружи,
// ядру нужны только идентификатор и признак активности.
type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Email     string `gorm:"type:varchar(254);not null;uniqueIndex"`
	FirstName string `gorm:"type:varchar(35);not null"`
	LastName  string `gorm:"type:varchar(35);not null"`

	IsActive bool `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
