package models

import "time"

// Roles carried in access tokens.
const (
	RoleUser  = "USER"
	RoleStore = "STORE"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Email       string `gorm:"type:varchar(255)" json:"email"`
	NickName    string `gorm:"type:varchar(100)" json:"nick_name"`
	PhoneNumber string `gorm:"type:varchar(30)" json:"phone_number"`
	Role        string `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	// StoreID binds a STORE account to the store it works for.
	StoreID   *uint     `gorm:"index" json:"store_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
