package store

import (
	"context"

	"github.com/asospay/rewards_platform/internal/models"
	"gorm.io/gorm"
)

type Withdrawals struct {
	db *gorm.DB
}

func NewWithdrawals(db *gorm.DB) *Withdrawals {
	return &Withdrawals{db: db}
}

func (s *Withdrawals) Insert(ctx context.Context, w *models.WithdrawalRequest) error {
	return conn(ctx, s.db).Create(w).Error
}

func (s *Withdrawals) GetByID(ctx context.Context, id uint) (*models.WithdrawalRequest, error) {
	var w models.WithdrawalRequest
	if err := conn(ctx, s.db).First(&w, id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Withdrawals) ListByUser(ctx context.Context, userID string) ([]models.WithdrawalRequest, error) {
	var ws []models.WithdrawalRequest
	err := conn(ctx, s.db).Where("user_id = ?", userID).Order("created_at DESC").Find(&ws).Error
	if err != nil {
		return nil, err
	}
	return ws, nil
}

func (s *Withdrawals) ListAll(ctx context.Context) ([]models.WithdrawalRequest, error) {
	var ws []models.WithdrawalRequest
	if err := conn(ctx, s.db).Order("created_at DESC").Find(&ws).Error; err != nil {
		return nil, err
	}
	return ws, nil
}

// MarkCompleted flips status pending -> completed. A zero row count means
// the request was not pending anymore (or does not exist), which is the
// exactly-once guard against double approval.
func (s *Withdrawals) MarkCompleted(ctx context.Context, id uint) (bool, error) {
	res := conn(ctx, s.db).Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status = ?", id, models.WithdrawalPending).
		Update("status", models.WithdrawalCompleted)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Transact runs fn inside a database transaction; repository calls made with
// the derived context join it.
func (s *Withdrawals) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}
