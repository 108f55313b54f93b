package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"

	"github.com/asospay/rewards_platform/internal/httputil"
	"github.com/asospay/rewards_platform/internal/logger"
	"github.com/asospay/rewards_platform/internal/middleware"
	"github.com/asospay/rewards_platform/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Sign-up credit granted to every new wallet.
var initialWalletCredit = decimal.RequireFromString("56")

const accountNumberAttempts = 5

type CreateProfileRequest struct {
	FullName     string `json:"fullName" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	ReferralCode string `json:"referralCode"`
}

// generateAccountNumber builds ACCT + six random digits + the first three
// letters of the name, uppercased and padded with X for short names.
func generateAccountNumber(fullName string) string {
	namePart := strings.ToUpper(strings.TrimSpace(fullName))
	runes := []rune(namePart)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	namePart = string(runes)
	for len([]rune(namePart)) < 3 {
		namePart += "X"
	}
	return fmt.Sprintf("ACCT%d%s", 100000+rand.Intn(900000), namePart)
}

func (a *API) CreateProfile(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Missing required profile details")
		return
	}

	if _, err := a.accounts.GetByUserID(r.Context(), identity.UserID); err == nil {
		httputil.WriteError(w, http.StatusConflict, "Profile already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		writeDomainError(w, err)
		return
	}

	profile := &models.Profile{
		UserID:                 identity.UserID,
		FullName:               req.FullName,
		Email:                  req.Email,
		ReferralCode:           strings.TrimSpace(req.ReferralCode),
		Wallet:                 initialWalletCredit,
		WithdrawableCommission: decimal.Zero,
	}

	// account numbers are random; regenerate on the rare collision
	var err error
	for i := 0; i < accountNumberAttempts; i++ {
		profile.AccountNumber = generateAccountNumber(req.FullName)
		err = a.accounts.Create(r.Context(), profile)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if err != nil {
		logger.Log.Error("failed to create user profile", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to create user profile")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "User profile created successfully",
		"profile": profile,
	})
}

func (a *API) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	profile, err := a.accounts.GetByUserID(r.Context(), identity.UserID)
	if err != nil {
		logger.Log.Error("failed to fetch user profile", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to fetch user profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Profile fetched successfully",
		"profile": profile,
	})
}

func (a *API) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := a.accounts.List(r.Context())
	if err != nil {
		logger.Log.Error("failed to fetch user profiles", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to fetch user profiles")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profiles)
}
