package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WithdrawalStatus string

const (
	WithdrawalPending   WithdrawalStatus = "pending"
	WithdrawalCompleted WithdrawalStatus = "completed"
)

type Profile struct {
	gorm.Model
	UserID                 string          `gorm:"uniqueIndex;size:64;not null" json:"user_id"`
	FullName               string          `gorm:"size:100;not null" json:"full_name"`
	Email                  string          `gorm:"size:255" json:"email"`
	AccountNumber          string          `gorm:"uniqueIndex;size:16;not null" json:"account_number"`
	ReferralCode           string          `gorm:"size:16" json:"referral_code"`
	Wallet                 decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"wallet"`
	WithdrawableCommission decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"withdrawable_commission"`
}

type WithdrawalRequest struct {
	gorm.Model
	UserID           string           `gorm:"index;size:64;not null" json:"user_id"`
	Amount           decimal.Decimal  `gorm:"type:numeric(18,2);not null" json:"amount"`
	Status           WithdrawalStatus `gorm:"size:16;index;not null" json:"status"`
	FullName         string           `gorm:"size:100" json:"full_name"`
	PaymentMethod    string           `gorm:"size:50" json:"payment_method"`
	RecipientDetails string           `gorm:"size:255" json:"recipient_details"`
	Reference        string           `gorm:"size:64" json:"reference"`
}

type Product struct {
	gorm.Model
	Name  string          `gorm:"size:255;not null" json:"product_name"`
	Price decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"product_price"`
	Image string          `gorm:"size:512" json:"product_image"`
}

type UserTask struct {
	gorm.Model
	UserID       string          `gorm:"index;size:64;not null" json:"user_id"`
	ProductID    uint            `gorm:"index" json:"product_id"`
	ProductName  string          `gorm:"size:255;not null" json:"product_name"`
	ProductPrice decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"product_price"`
	ProductImage string          `gorm:"size:512" json:"product_image"`
}
