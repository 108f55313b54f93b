package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/asospay/rewards_platform/internal/httputil"
	"github.com/asospay/rewards_platform/internal/ledger"
	"github.com/asospay/rewards_platform/internal/logger"
	"github.com/asospay/rewards_platform/internal/models"
	"github.com/asospay/rewards_platform/internal/withdrawals"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type AccountStore interface {
	Create(ctx context.Context, p *models.Profile) error
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
}

type LedgerEngine interface {
	TopUpWallet(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error)
	CreditCommission(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error)
}

type WithdrawalWorkflow interface {
	Submit(ctx context.Context, userID string, amount decimal.Decimal, payout withdrawals.Payout) (*models.WithdrawalRequest, error)
	Approve(ctx context.Context, withdrawalID uint, userID string, amount decimal.Decimal) (*models.WithdrawalRequest, decimal.Decimal, error)
	ListByUser(ctx context.Context, userID string) ([]models.WithdrawalRequest, error)
	ListAll(ctx context.Context) ([]models.WithdrawalRequest, error)
}

type TaskStore interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]models.UserTask, error)
	InsertTasks(ctx context.Context, tasks []models.UserTask) error
	DeleteByUser(ctx context.Context, userID string) error
}

type API struct {
	accounts    AccountStore
	ledger      LedgerEngine
	withdrawals WithdrawalWorkflow
	tasks       TaskStore
	validate    *validator.Validate
}

func NewAPI(accounts AccountStore, l LedgerEngine, w WithdrawalWorkflow, tasks TaskStore) *API {
	return &API{
		accounts:    accounts,
		ledger:      l,
		withdrawals: w,
		tasks:       tasks,
		validate:    validator.New(),
	}
}

// writeDomainError maps domain errors to HTTP statuses: validation 400,
// funds checks 403, double approval and mismatches 409, everything else a
// generic 500 so internals never leak to clients.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		httputil.WriteError(w, http.StatusBadRequest, "Invalid amount")
	case errors.Is(err, withdrawals.ErrBelowMinimumThreshold):
		httputil.WriteError(w, http.StatusForbidden, "Insufficient funds for withdrawal (min GHS 165 required)")
	case errors.Is(err, withdrawals.ErrExceedsBalance):
		httputil.WriteError(w, http.StatusForbidden, "Requested amount exceeds withdrawable balance")
	case errors.Is(err, ledger.ErrInsufficientFunds):
		httputil.WriteError(w, http.StatusForbidden, "Insufficient withdrawable commission")
	case errors.Is(err, withdrawals.ErrAlreadyCompleted):
		httputil.WriteError(w, http.StatusConflict, "Withdrawal request already completed")
	case errors.Is(err, withdrawals.ErrRequestMismatch):
		httputil.WriteError(w, http.StatusConflict, "Withdrawal details do not match the stored request")
	default:
		logger.Log.Error("request failed", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Server error")
	}
}
