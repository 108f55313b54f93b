package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/asospay/rewards_platform/internal/httputil"
	"github.com/asospay/rewards_platform/internal/middleware"
	"github.com/shopspring/decimal"
)

type TopUpRequest struct {
	UserID string          `json:"userId" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
}

type UpdateCommissionRequest struct {
	CommissionAmount decimal.Decimal `json:"commissionAmount"`
}

// TopUpWallet is admin-only: it credits any user's wallet and lets the
// ledger trigger the referral bonus for the account's stored referral code.
func (a *API) TopUpWallet(w http.ResponseWriter, r *http.Request) {
	var req TopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid userId or amount")
		return
	}

	newBalance, err := a.ledger.TopUpWallet(r.Context(), req.UserID, req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":    "Wallet topped up successfully, referral processed",
		"newBalance": newBalance,
	})
}

func (a *API) UpdateCommission(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	var req UpdateCommissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	newBalance, err := a.ledger.CreditCommission(r.Context(), identity.UserID, req.CommissionAmount)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":       "Commission updated successfully",
		"newCommission": newBalance,
	})
}
