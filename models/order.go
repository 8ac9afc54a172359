package models

import (
	"time"
)

type Progress string

const (
	// ProgressRequest is set when the order is created from a cart and is
	// waiting for the payment provider.
	ProgressRequest Progress = "REQUEST"
	// ProgressOrder is set once the provider has confirmed the payment.
	ProgressOrder Progress = "ORDER"
)

type Order struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"order_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID;references:ID" json:"-"`
	StoreID     uint      `gorm:"not null;index" json:"store_id"`
	Store       Store     `gorm:"foreignKey:StoreID;references:ID" json:"-"`
	CartID      uint      `gorm:"not null" json:"cart_id"`
	OrderName   string    `gorm:"type:varchar(255);not null" json:"order_name"`
	Inout       int64     `gorm:"not null" json:"inout"`
	Amount      int64     `gorm:"not null" json:"amount"`
	TotalAmount int64     `gorm:"not null" json:"total_amount"`
	PaymentKey  *string   `gorm:"type:varchar(200)" json:"payment_key,omitempty"`
	Method      string    `gorm:"type:varchar(30)" json:"method,omitempty"`
	OrderNumber *string   `gorm:"type:varchar(30)" json:"order_number,omitempty"`
	Progress    Progress  `gorm:"type:varchar(10);not null;default:'REQUEST'" json:"progress"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
