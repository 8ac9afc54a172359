package models

import "time"

// Foodie is a purchasable menu item. Price is the dine-in base price,
// TakeoutPrice the base price for takeout orders.
type Foodie struct {
	ID               uint                   `gorm:"primaryKey" json:"id"`
	FoodieCategoryID uint                   `gorm:"not null;index" json:"foodie_category_id"`
	FoodieCategory   FoodieCategory         `gorm:"foreignKey:FoodieCategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Name             string                 `gorm:"type:varchar(255);not null" json:"name"`
	Description      string                 `gorm:"type:text" json:"description"`
	ImgURL           string                 `gorm:"type:varchar(255)" json:"img_url"`
	Price            int64                  `gorm:"not null" json:"price"`
	TakeoutPrice     int64                  `gorm:"not null" json:"takeout_price"`
	IsSoldOut        bool                   `gorm:"not null;default:false" json:"is_sold_out"`
	OptionCategories []FoodieOptionCategory `gorm:"foreignKey:FoodieID" json:"option_categories,omitempty"`
	CreatedAt        time.Time              `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time              `gorm:"not null" json:"updated_at"`
}

// StoreID returns the store the foodie is sold in. FoodieCategory must be loaded.
func (f *Foodie) StoreID() uint {
	return f.FoodieCategory.StoreID
}

type FoodieOptionCategory struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FoodieID  uint           `gorm:"not null;index" json:"foodie_id"`
	Name      string         `gorm:"type:varchar(100);not null" json:"name"`
	Required  bool           `gorm:"not null;default:false" json:"required"`
	Options   []FoodieOption `gorm:"foreignKey:FoodieOptionCategoryID" json:"options,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

type FoodieOption struct {
	ID                     uint      `gorm:"primaryKey" json:"id"`
	FoodieOptionCategoryID uint      `gorm:"not null;index" json:"foodie_option_category_id"`
	Name                   string    `gorm:"type:varchar(100);not null" json:"name"`
	Price                  int64     `gorm:"not null;default:0" json:"price"`
	CreatedAt              time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt              time.Time `gorm:"not null" json:"updated_at"`
}
