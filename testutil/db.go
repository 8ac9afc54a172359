// Package testutil holds database fixtures shared by package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/readyvery/foodie-order/database"
	"github.com/readyvery/foodie-order/models"
)

// NewTestDB returns a migrated in-memory SQLite database private to t.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Menu is a seeded store with one foodie:
// Americano, 10000 dine-in / 9000 takeout, with a required "Size"
// category (Regular +0, Large +500) and an optional "Extra" category
// (Shot +500, Syrup +300).
type Menu struct {
	User     models.User
	Store    models.Store
	Foodie   models.Foodie
	Regular  models.FoodieOption
	Large    models.FoodieOption
	Shot     models.FoodieOption
	Syrup    models.FoodieOption
	Required models.FoodieOptionCategory
	Optional models.FoodieOptionCategory
}

func SeedMenu(t *testing.T, db *gorm.DB) *Menu {
	t.Helper()

	m := &Menu{}
	m.User = models.User{Email: "user@readyvery.com", NickName: "tester", Role: "USER"}
	require.NoError(t, db.Create(&m.User).Error)

	m.Store = SeedStore(t, db, "Cafe A")
	category := models.FoodieCategory{StoreID: m.Store.ID, Name: "Coffee"}
	require.NoError(t, db.Create(&category).Error)

	m.Foodie = models.Foodie{FoodieCategoryID: category.ID, Name: "Americano", Price: 10000, TakeoutPrice: 9000}
	require.NoError(t, db.Create(&m.Foodie).Error)

	m.Required = models.FoodieOptionCategory{FoodieID: m.Foodie.ID, Name: "Size", Required: true}
	require.NoError(t, db.Create(&m.Required).Error)
	m.Optional = models.FoodieOptionCategory{FoodieID: m.Foodie.ID, Name: "Extra"}
	require.NoError(t, db.Create(&m.Optional).Error)

	m.Regular = SeedOption(t, db, m.Required.ID, "Regular", 0)
	m.Large = SeedOption(t, db, m.Required.ID, "Large", 500)
	m.Shot = SeedOption(t, db, m.Optional.ID, "Shot", 500)
	m.Syrup = SeedOption(t, db, m.Optional.ID, "Syrup", 300)

	return m
}

func SeedStore(t *testing.T, db *gorm.DB, name string) models.Store {
	t.Helper()
	store := models.Store{Name: name}
	require.NoError(t, db.Create(&store).Error)
	return store
}

// SeedFoodie adds a foodie without options to a new category of store.
func SeedFoodie(t *testing.T, db *gorm.DB, storeID uint, name string, price int64) models.Foodie {
	t.Helper()
	category := models.FoodieCategory{StoreID: storeID, Name: name + " category"}
	require.NoError(t, db.Create(&category).Error)

	foodie := models.Foodie{FoodieCategoryID: category.ID, Name: name, Price: price, TakeoutPrice: price}
	require.NoError(t, db.Create(&foodie).Error)
	return foodie
}

func SeedOption(t *testing.T, db *gorm.DB, categoryID uint, name string, price int64) models.FoodieOption {
	t.Helper()
	option := models.FoodieOption{FoodieOptionCategoryID: categoryID, Name: name, Price: price}
	require.NoError(t, db.Create(&option).Error)
	return option
}
