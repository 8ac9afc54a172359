package models

import "time"

type CartStatus string

const (
	CartStatusActive  CartStatus = "ACTIVE"
	CartStatusOrdered CartStatus = "ORDERED"
	CartStatusDeleted CartStatus = "DELETED"
)

type CartItemStatus string

const (
	CartItemStatusActive  CartItemStatus = "ACTIVE"
	CartItemStatusDeleted CartItemStatus = "DELETED"
)

// Cart is a user's basket for a single store. Only one cart per user is
// expected to be ACTIVE at a time.
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index:idx_cart_user_status" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	StoreID   uint       `gorm:"not null" json:"store_id"`
	Store     Store      `gorm:"foreignKey:StoreID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Status    CartStatus `gorm:"type:varchar(10);not null;default:'ACTIVE';index:idx_cart_user_status" json:"status"`
	Items     []CartItem `gorm:"foreignKey:CartID" json:"items"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

// ActiveItems returns the items that have not been removed from the cart.
func (c *Cart) ActiveItems() []CartItem {
	items := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.Status == CartItemStatusActive {
			items = append(items, item)
		}
	}
	return items
}

type CartItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CartID    uint           `gorm:"not null;index" json:"cart_id"`
	Cart      *Cart          `gorm:"foreignKey:CartID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	FoodieID  uint           `gorm:"not null" json:"foodie_id"`
	Foodie    Foodie         `gorm:"foreignKey:FoodieID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"foodie"`
	Count     int64          `gorm:"not null" json:"count"`
	Status    CartItemStatus `gorm:"type:varchar(10);not null;default:'ACTIVE'" json:"status"`
	Options   []CartOption   `gorm:"foreignKey:CartItemID" json:"options"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

type CartOption struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	CartItemID     uint         `gorm:"not null;index" json:"cart_item_id"`
	FoodieOptionID uint         `gorm:"not null" json:"foodie_option_id"`
	FoodieOption   FoodieOption `gorm:"foreignKey:FoodieOptionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"foodie_option"`
	CreatedAt      time.Time    `gorm:"not null" json:"created_at"`
}
