package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// services — каталог услуг салона. Бронирования ссылаются на услугу слабо.
type Service struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name        string `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description string `gorm:"type:text;not null"`
	// Что входит в услугу, по одному пункту на строку.
	Includes string `gorm:"type:text;not null"`

	PriceSmall  decimal.Decimal `gorm:"type:decimal(7,2);not null;index"`
	PriceMedium decimal.Decimal `gorm:"type:decimal(7,2);not null"`
	PriceLarge  decimal.Decimal `gorm:"type:decimal(7,2);not null"`

	IsActive bool `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (s *Service) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// IncludesList возвращает непустые строки Includes без пробелов по краям.
func (s *Service) IncludesList() []string {
	var items []string
	for _, line := range strings.Split(strings.ReplaceAll(s.Includes, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}
	return items
}

// PriceFor возвращает цену для размера породы.
func (s *Service) PriceFor(size BreedSize) (decimal.Decimal, bool) {
	switch size {
	case BreedSizeSmall:
		return s.PriceSmall, true
	case BreedSizeMedium:
		return s.PriceMedium, true
	case BreedSizeLarge:
		return s.PriceLarge, true
	}
	return decimal.Zero, false
}
