package ledger

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

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// AccountStore is the durable-record capability the engine mutates balances
// through. Swap* writes commit only when the field still holds the value the
// engine read, so two concurrent increments are both reflected, never lost.
type AccountStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	SwapWallet(ctx context.Context, userID string, old, newBalance decimal.Decimal) (bool, error)
	SwapCommission(ctx context.Context, userID string, old, newBalance decimal.Decimal) (bool, error)
}

// BonusCrediter is notified after every successful wallet top-up. Its
// failures are logged and swallowed; the top-up itself never rolls back.
type BonusCrediter interface {
	CreditBonus(ctx context.Context, referringAccountNumber string, topUpAmount decimal.Decimal) error
}

// Engine applies all balance-changing operations. It holds no balance state
// between calls: every operation re-reads the row immediately before the
// conditional write and retries on contention until the context expires.
type Engine struct {
	accounts  AccountStore
	referrals BonusCrediter
	log       *zap.Logger
}

func NewEngine(accounts AccountStore, log *zap.Logger) *Engine {
	return &Engine{accounts: accounts, log: log}
}

// SetReferrals wires the referral resolver once at startup. The resolver
// credits bonuses through this engine, so it cannot be a constructor arg.
func (e *Engine) SetReferrals(rc BonusCrediter) {
	e.referrals = rc
}

func (e *Engine) TopUpWallet(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	var (
		newBalance   decimal.Decimal
		referralCode string
	)
	for {
		if err := ctx.Err(); err != nil {
			return decimal.Zero, fmt.Errorf("top up wallet: %w", err)
		}

		profile, err := e.accounts.GetByUserID(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, ErrAccountNotFound
		}
		if err != nil {
			return decimal.Zero, fmt.Errorf("read account %s: %w", userID, err)
		}

		newBalance = profile.Wallet.Add(amount)
		ok, err := e.accounts.SwapWallet(ctx, userID, profile.Wallet, newBalance)
		if err != nil {
			return decimal.Zero, fmt.Errorf("write wallet %s: %w", userID, err)
		}
		if ok {
			referralCode = strings.TrimSpace(profile.ReferralCode)
			break
		}
		// lost the race, re-read and retry
	}

	if e.referrals != nil && referralCode != "" {
		if err := e.referrals.CreditBonus(ctx, referralCode, amount); err != nil {
			e.log.Error("referral bonus failed",
				zap.String("user_id", userID),
				zap.String("referral_code", referralCode),
				zap.Error(err))
		}
	}

	return newBalance, nil
}

func (e *Engine) CreditCommission(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	for {
		if err := ctx.Err(); err != nil {
			return decimal.Zero, fmt.Errorf("credit commission: %w", err)
		}

		profile, err := e.accounts.GetByUserID(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, ErrAccountNotFound
		}
		if err != nil {
			return decimal.Zero, fmt.Errorf("read account %s: %w", userID, err)
		}

		newBalance := profile.WithdrawableCommission.Add(amount)
		ok, err := e.accounts.SwapCommission(ctx, userID, profile.WithdrawableCommission, newBalance)
		if err != nil {
			return decimal.Zero, fmt.Errorf("write commission %s: %w", userID, err)
		}
		if ok {
			return newBalance, nil
		}
	}
}

// DebitCommission never lets the balance go negative: the sufficiency check
// runs against the same value the conditional write compares on, so a
// concurrent debit cannot sneak the balance below zero.
func (e *Engine) DebitCommission(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	for {
		if err := ctx.Err(); err != nil {
			return decimal.Zero, fmt.Errorf("debit commission: %w", err)
		}

		profile, err := e.accounts.GetByUserID(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, ErrAccountNotFound
		}
		if err != nil {
			return decimal.Zero, fmt.Errorf("read account %s: %w", userID, err)
		}

		newBalance := profile.WithdrawableCommission.Sub(amount)
		if newBalance.IsNegative() {
			return decimal.Zero, ErrInsufficientFunds
		}

		ok, err := e.accounts.SwapCommission(ctx, userID, profile.WithdrawableCommission, newBalance)
		if err != nil {
			return decimal.Zero, fmt.Errorf("write commission %s: %w", userID, err)
		}
		if ok {
			return newBalance, nil
		}
	}
}
