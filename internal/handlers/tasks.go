package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/asospay/rewards_platform/internal/httputil"
	"github.com/asospay/rewards_platform/internal/logger"
	"github.com/asospay/rewards_platform/internal/middleware"
	"github.com/asospay/rewards_platform/internal/models"
	"github.com/asospay/rewards_platform/internal/tasks"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type AddTaskRequest struct {
	ProductID    uint            `json:"product_id" validate:"required"`
	ProductName  string          `json:"product_name" validate:"required"`
	ProductImage string          `json:"product_image" validate:"required"`
	ProductPrice decimal.Decimal `json:"product_price"`
}

func (a *API) GetTasks(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	list, err := a.tasks.ListByUser(r.Context(), identity.UserID, tasks.DailyTaskCount)
	if err != nil {
		logger.Log.Error("failed to fetch user tasks", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if list == nil {
		list = []models.UserTask{}
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"tasks": list})
}

func (a *API) AddTask(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	var req AddTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Missing required product details")
		return
	}

	task := models.UserTask{
		UserID:       identity.UserID,
		ProductID:    req.ProductID,
		ProductName:  req.ProductName,
		ProductPrice: req.ProductPrice,
		ProductImage: req.ProductImage,
	}
	if err := a.tasks.InsertTasks(r.Context(), []models.UserTask{task}); err != nil {
		logger.Log.Error("failed to insert user task", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to insert user task")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Product added to user task list",
		"task":    task,
	})
}

func (a *API) SellAllTasks(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())

	if err := a.tasks.DeleteByUser(r.Context(), identity.UserID); err != nil {
		logger.Log.Error("failed to delete user tasks", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to delete tasks")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "All tasks sold successfully",
	})
}
