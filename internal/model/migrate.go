package model

import "gorm.io/gorm"

// AutoMigrate выполняет миграцию всех сущностей ядра бронирования,
// включая частичный уникальный индекс по (date, time).
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Customer{},
		&Service{},
		&Booking{},
		&BookingEvent{},
	)
}
