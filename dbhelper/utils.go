package dbhelper

import (
	"log"

	"fashionapi/models"

	"gorm.io/gorm"
)

// SetupCleaner wipes every table, children first.
func SetupCleaner(db *gorm.DB) func() {
	return func() {
		session := db.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []interface{}{
			&models.OutfitItem{},
			&models.Outfit{},
			&models.PaymentMethod{},
			&models.OrderItem{},
			&models.Order{},
			&models.WishlistItem{},
			&models.CartItem{},
			&models.Cart{},
			&models.Collection{},
			&models.Product{},
			&models.UserPushToken{},
			&models.UserAccount{},
		} {
			if err := session.Unscoped().Delete(model).Error; err != nil {
				log.Printf("[Cleaner] failed to clean %T: %v", model, err)
			}
		}
	}
}

func Migrate(db *gorm.DB, model interface{}) {
	err := db.AutoMigrate(model)
	if err != nil {
		log.Printf("Error while migrating %T", model)
		log.Fatal(err)
	}
}
