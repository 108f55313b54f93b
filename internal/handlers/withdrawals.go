package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/asospay/rewards_platform/internal/httputil"
	"github.com/asospay/rewards_platform/internal/logger"
	"github.com/asospay/rewards_platform/internal/middleware"
	"github.com/asospay/rewards_platform/internal/models"
	"github.com/asospay/rewards_platform/internal/withdrawals"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type WithdrawalSubmitRequest struct {
	Amount           decimal.Decimal `json:"amount"`
	Method           string          `json:"method" validate:"required"`
	RecipientDetails string          `json:"recipientDetails" validate:"required"`
	FullName         string          `json:"fullName" validate:"required"`
}

type WithdrawalApproveRequest struct {
	WithdrawalID uint            `json:"withdrawalId" validate:"required"`
	UserID       string          `json:"userId" validate:"required"`
	Amount       decimal.Decimal `json:"amount"`
}

func (a *API) SubmitWithdrawal(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	var req WithdrawalSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Missing required withdrawal details")
		return
	}

	payout := withdrawals.Payout{
		FullName:         req.FullName,
		Method:           req.Method,
		RecipientDetails: req.RecipientDetails,
	}
	request, err := a.withdrawals.Submit(r.Context(), identity.UserID, req.Amount, payout)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":    "Withdrawal request submitted successfully",
		"withdrawal": request,
	})
}

func (a *API) UserWithdrawals(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	list, err := a.withdrawals.ListByUser(r.Context(), identity.UserID)
	if err != nil {
		logger.Log.Error("failed to fetch withdrawal requests", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to fetch withdrawal requests")
		return
	}
	if list == nil {
		list = []models.WithdrawalRequest{}
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"withdrawals": list})
}

func (a *API) AdminWithdrawals(w http.ResponseWriter, r *http.Request) {
	list, err := a.withdrawals.ListAll(r.Context())
	if err != nil {
		logger.Log.Error("failed to fetch withdrawal requests", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to fetch withdrawal requests")
		return
	}
	if list == nil {
		list = []models.WithdrawalRequest{}
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"withdrawals": list})
}

func (a *API) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req WithdrawalApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Missing required approval details")
		return
	}

	request, newBalance, err := a.withdrawals.Approve(r.Context(), req.WithdrawalID, req.UserID, req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":       "Withdrawal approved successfully",
		"withdrawal":    request,
		"newCommission": newBalance,
	})
}
