package db

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/theukno/ecomproject/internal/models"
)

func Open(dsn string) (*gorm.DB, error) {
	// TranslateError maps driver duplicate-key errors onto
	// gorm.ErrDuplicatedKey, which the store layer relies on.
	database, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(
		&models.User{},
		&models.OTPChallenge{},
	); err != nil {
		return nil, err
	}

	return database, nil
}
