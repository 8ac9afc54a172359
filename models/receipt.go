package models

import "time"

// Receipt keeps the details the payment provider returned when it confirmed
// the charge for an order.
type Receipt struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	OrderID uint  `gorm:"not null;uniqueIndex" json:"order_id"`
	Order   Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`

	PaymentKey     string `gorm:"type:varchar(200);not null" json:"payment_key"`
	Type           string `gorm:"type:varchar(20)" json:"type"`
	MID            string `gorm:"type:varchar(30)" json:"mid"`
	Currency       string `gorm:"type:varchar(10)" json:"currency"`
	TotalAmount    int64  `gorm:"not null" json:"total_amount"`
	BalanceAmount  int64  `json:"balance_amount"`
	SuppliedAmount int64  `json:"supplied_amount"`
	Vat            int64  `json:"vat"`
	Status         string `gorm:"type:varchar(30)" json:"status"`
	Method         string `gorm:"type:varchar(30)" json:"method"`
	RequestedAt    string `gorm:"type:varchar(40)" json:"requested_at"`
	ApprovedAt     string `gorm:"type:varchar(40)" json:"approved_at"`

	// Card and easy pay details are only filled for the matching method.
	CardIssuerCode  string `gorm:"type:varchar(10)" json:"card_issuer_code,omitempty"`
	CardNumber      string `gorm:"type:varchar(30)" json:"card_number,omitempty"`
	CardApproveNo   string `gorm:"type:varchar(20)" json:"card_approve_no,omitempty"`
	EasyPayProvider string `gorm:"type:varchar(30)" json:"easy_pay_provider,omitempty"`
	ReceiptURL      string `gorm:"type:varchar(255)" json:"receipt_url,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
