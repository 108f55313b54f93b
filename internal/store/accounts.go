package store

import (
	"context"

	"github.com/asospay/rewards_platform/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Accounts struct {
	db *gorm.DB
}

func NewAccounts(db *gorm.DB) *Accounts {
	return &Accounts{db: db}
}

func (a *Accounts) Create(ctx context.Context, p *models.Profile) error {
	return conn(ctx, a.db).Create(p).Error
}

func (a *Accounts) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	if err := conn(ctx, a.db).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByAccountNumber resolves a referral code case-insensitively. Account
// numbers carry a unique index, but pre-existing duplicates still resolve
// deterministically to the earliest-created profile.
func (a *Accounts) GetByAccountNumber(ctx context.Context, accountNumber string) (*models.Profile, error) {
	var p models.Profile
	err := conn(ctx, a.db).
		Where("LOWER(account_number) = LOWER(?)", accountNumber).
		Order("created_at ASC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (a *Accounts) List(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := conn(ctx, a.db).Order("created_at DESC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// SwapWallet writes newBalance only if the wallet still holds the value read
// by the caller. Returns false when a concurrent writer got there first.
func (a *Accounts) SwapWallet(ctx context.Context, userID string, old, newBalance decimal.Decimal) (bool, error) {
	res := conn(ctx, a.db).Model(&models.Profile{}).
		Where("user_id = ? AND wallet = ?", userID, old).
		Update("wallet", newBalance)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (a *Accounts) SwapCommission(ctx context.Context, userID string, old, newBalance decimal.Decimal) (bool, error) {
	res := conn(ctx, a.db).Model(&models.Profile{}).
		Where("user_id = ? AND withdrawable_commission = ?", userID, old).
		Update("withdrawable_commission", newBalance)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
