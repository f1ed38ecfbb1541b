package boot

import (
	"log"

	"mbs/src/db"
	"mbs/src/models"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Booking{},
		&models.BookingStatusHistory{},
		&models.Transaction{},
		&models.Commission{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}
