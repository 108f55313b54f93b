package referral

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/asospay/rewards_platform/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BonusRate is the fixed share of every top-up credited to the referrer.
var BonusRate = decimal.RequireFromString("0.08")

type AccountDirectory interface {
	GetByAccountNumber(ctx context.Context, accountNumber string) (*models.Profile, error)
}

type Ledger interface {
	CreditCommission(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error)
}

// Resolver locates the referring account for a referral code and credits it
// the top-up bonus. A code that resolves to nothing is a silent no-op: the
// user topping up is never punished for a stale or mistyped code.
type Resolver struct {
	accounts AccountDirectory
	ledger   Ledger
	log      *zap.Logger
}

func NewResolver(accounts AccountDirectory, ledger Ledger, log *zap.Logger) *Resolver {
	return &Resolver{accounts: accounts, ledger: ledger, log: log}
}

func (r *Resolver) CreditBonus(ctx context.Context, referringAccountNumber string, topUpAmount decimal.Decimal) error {
	code := strings.TrimSpace(referringAccountNumber)
	if code == "" {
		return nil
	}

	referrer, err := r.accounts.GetByAccountNumber(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve referrer %q: %w", code, err)
	}

	bonus := topUpAmount.Mul(BonusRate).Round(2)
	newBalance, err := r.ledger.CreditCommission(ctx, referrer.UserID, bonus)
	if err != nil {
		return fmt.Errorf("credit referrer %s: %w", referrer.UserID, err)
	}

	r.log.Info("referral bonus credited",
		zap.String("referrer_id", referrer.UserID),
		zap.String("bonus", bonus.String()),
		zap.String("new_commission", newBalance.String()))
	return nil
}
