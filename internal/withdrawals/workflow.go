package withdrawals

import (
	"context"
	"errors"
	"fmt"

	"github.com/asospay/rewards_platform/internal/ledger"
	"github.com/asospay/rewards_platform/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MinWithdrawal is the smallest commission balance (GHS) a user must hold
// before any withdrawal request is accepted.
var MinWithdrawal = decimal.RequireFromString("165")

var (
	ErrBelowMinimumThreshold = errors.New("commission balance below minimum withdrawal threshold")
	ErrExceedsBalance        = errors.New("requested amount exceeds withdrawable balance")
	ErrAlreadyCompleted      = errors.New("withdrawal request already completed")
	ErrRequestNotFound       = errors.New("withdrawal request not found")
	ErrRequestMismatch       = errors.New("withdrawal request does not match supplied user or amount")
)

type AccountReader interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
}

type RequestStore interface {
	Insert(ctx context.Context, w *models.WithdrawalRequest) error
	GetByID(ctx context.Context, id uint) (*models.WithdrawalRequest, error)
	ListByUser(ctx context.Context, userID string) ([]models.WithdrawalRequest, error)
	ListAll(ctx context.Context) ([]models.WithdrawalRequest, error)
	MarkCompleted(ctx context.Context, id uint) (bool, error)
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
}

type Ledger interface {
	DebitCommission(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error)
}

// Payout is the opaque payout metadata captured at submission.
type Payout struct {
	FullName         string
	Method           string
	RecipientDetails string
}

// Workflow drives a withdrawal request from submission to completion.
// Requests are permanent audit records; the only transition is
// pending -> completed, and the commission debit happens exactly once, at
// approval.
type Workflow struct {
	requests RequestStore
	accounts AccountReader
	ledger   Ledger
	log      *zap.Logger
}

func NewWorkflow(requests RequestStore, accounts AccountReader, l Ledger, log *zap.Logger) *Workflow {
	return &Workflow{requests: requests, accounts: accounts, ledger: l, log: log}
}

// Submit records the intent to cash out. Nothing is debited or reserved
// here: a user may hold several pending requests that jointly exceed the
// balance, and sufficiency is enforced per request at approval time,
// first approved first served.
func (w *Workflow) Submit(ctx context.Context, userID string, amount decimal.Decimal, payout Payout) (*models.WithdrawalRequest, error) {
	if !amount.IsPositive() {
		return nil, ledger.ErrInvalidAmount
	}

	profile, err := w.accounts.GetByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read account %s: %w", userID, err)
	}

	if profile.WithdrawableCommission.Cmp(MinWithdrawal) < 0 {
		return nil, ErrBelowMinimumThreshold
	}
	if amount.Cmp(profile.WithdrawableCommission) > 0 {
		return nil, ErrExceedsBalance
	}

	req := &models.WithdrawalRequest{
		UserID:           userID,
		Amount:           amount,
		Status:           models.WithdrawalPending,
		FullName:         payout.FullName,
		PaymentMethod:    payout.Method,
		RecipientDetails: payout.RecipientDetails,
		Reference:        uuid.NewString(),
	}
	if err := w.requests.Insert(ctx, req); err != nil {
		return nil, fmt.Errorf("insert withdrawal request: %w", err)
	}

	w.log.Info("withdrawal requested",
		zap.String("user_id", userID),
		zap.String("amount", amount.String()),
		zap.Uint("request_id", req.ID))
	return req, nil
}

// Approve flips the request to completed and debits the owner's commission,
// both inside one store transaction. The conditional status flip is the
// exactly-once guard: a second approval finds no pending row and fails with
// ErrAlreadyCompleted. A failed debit aborts the transaction, leaving the
// request pending and the balance untouched.
func (w *Workflow) Approve(ctx context.Context, withdrawalID uint, userID string, amount decimal.Decimal) (*models.WithdrawalRequest, decimal.Decimal, error) {
	var (
		req        *models.WithdrawalRequest
		newBalance decimal.Decimal
	)

	err := w.requests.Transact(ctx, func(ctx context.Context) error {
		stored, err := w.requests.GetByID(ctx, withdrawalID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		if err != nil {
			return fmt.Errorf("read withdrawal %d: %w", withdrawalID, err)
		}

		if stored.UserID != userID || !stored.Amount.Equal(amount) {
			return ErrRequestMismatch
		}

		ok, err := w.requests.MarkCompleted(ctx, withdrawalID)
		if err != nil {
			return fmt.Errorf("complete withdrawal %d: %w", withdrawalID, err)
		}
		if !ok {
			return ErrAlreadyCompleted
		}

		balance, err := w.ledger.DebitCommission(ctx, userID, amount)
		if err != nil {
			return err
		}

		stored.Status = models.WithdrawalCompleted
		req = stored
		newBalance = balance
		return nil
	})
	if err != nil {
		return nil, decimal.Zero, err
	}

	w.log.Info("withdrawal approved",
		zap.Uint("request_id", withdrawalID),
		zap.String("user_id", userID),
		zap.String("amount", amount.String()),
		zap.String("new_commission", newBalance.String()))
	return req, newBalance, nil
}

func (w *Workflow) ListByUser(ctx context.Context, userID string) ([]models.WithdrawalRequest, error) {
	return w.requests.ListByUser(ctx, userID)
}

func (w *Workflow) ListAll(ctx context.Context) ([]models.WithdrawalRequest, error) {
	return w.requests.ListAll(ctx)
}
