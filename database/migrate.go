package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/readyvery/foodie-order/models"
	"github.com/readyvery/foodie-order/utils"
)

// Migrate creates or updates every table the service owns. Parents are
// listed before the tables that reference them.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Store{},
		&models.FoodieCategory{},
		&models.Foodie{},
		&models.FoodieOptionCategory{},
		&models.FoodieOption{},
		&models.Cart{},
		&models.CartItem{},
		&models.CartOption{},
		&models.Order{},
		&models.Receipt{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
