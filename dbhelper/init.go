package dbhelper

import (
	"fmt"
	"os"
	"time"

	"fashionapi/models"
	"fashionapi/services"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupDB() *gorm.DB {
	db, err := gorm.Open(postgres.Open(
		fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s",
			services.GetEnv("DB_USERNAME", ""),
			services.GetEnv("DB_PASSWORD", ""),
			services.GetEnv("DB_HOST", ""),
			services.GetEnv("DB_PORT", ""),
			services.GetEnv("DB_NAME", ""),
		),
	), &gorm.Config{TranslateError: true})
	if err != nil {
		panic(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(300)
	sqlDB.SetConnMaxLifetime(time.Minute * 5)
	if services.GetEnv("ENV", "dev") != "production" {
		db.Logger = db.Logger.LogMode(logger.Info)
	}

	Migrate(db, &models.UserAccount{})
	Migrate(db, &models.UserPushToken{})
	Migrate(db, &models.Product{})
	Migrate(db, &models.Collection{})
	Migrate(db, &models.Cart{})
	Migrate(db, &models.CartItem{})
	Migrate(db, &models.WishlistItem{})
	Migrate(db, &models.Order{})
	Migrate(db, &models.OrderItem{})
	Migrate(db, &models.PaymentMethod{})
	Migrate(db, &models.Outfit{})
	Migrate(db, &models.OutfitItem{})

	return db
}

func SetupTestDB() *gorm.DB {
	os.Setenv("DB_USERNAME", "fashion")
	os.Setenv("DB_PASSWORD", "fashion")
	os.Setenv("DB_HOST", "localhost")
	os.Setenv("DB_NAME", "fashion_test")
	os.Setenv("DB_PORT", "5432")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("ROOT_PASSWORD", "root-test")
	os.Setenv("ENV", "test")
	return SetupDB()
}
