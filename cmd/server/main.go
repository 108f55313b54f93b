package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asospay/rewards_platform/configs"
	"github.com/asospay/rewards_platform/internal/auth"
	"github.com/asospay/rewards_platform/internal/handlers"
	"github.com/asospay/rewards_platform/internal/ledger"
	"github.com/asospay/rewards_platform/internal/logger"
	"github.com/asospay/rewards_platform/internal/referral"
	"github.com/asospay/rewards_platform/internal/routes"
	"github.com/asospay/rewards_platform/internal/seed"
	"github.com/asospay/rewards_platform/internal/store"
	"github.com/asospay/rewards_platform/internal/tasks"
	"github.com/asospay/rewards_platform/internal/withdrawals"
	"go.uber.org/zap"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	configs.LoadConfig()
	store.NewDB()
	store.DBMigrate()
	seed.Run()

	accounts := store.NewAccounts(store.DB)
	withdrawalStore := store.NewWithdrawals(store.DB)
	taskStore := store.NewTasks(store.DB)

	engine := ledger.NewEngine(accounts, logger.Log)
	resolver := referral.NewResolver(accounts, engine, logger.Log)
	engine.SetReferrals(resolver)
	workflow := withdrawals.NewWorkflow(withdrawalStore, accounts, engine, logger.Log)

	rotator := tasks.NewRotator(taskStore, logger.Log)
	{
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if err := rotator.Refresh(ctx); err != nil {
			logger.Log.Error("initial task load failed", zap.Error(err))
		}
		cancel()
	}
	rotator.Start()

	identity := auth.NewJWTResolver(configs.AppConfig.JWT.SECRET)
	api := handlers.NewAPI(accounts, engine, workflow, taskStore)
	router := routes.NewRoutes(identity, api)

	srv := &http.Server{
		Addr:         configs.AppConfig.Server.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Log.Info("shutting down server...")

	rotator.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", zap.Error(err))
	}

	sqlDB, err := store.DB.DB()
	if err != nil {
		logger.Log.Error("db close skipped, reason:", zap.Error(err))
	} else {
		sqlDB.Close()
		logger.Log.Info("db closed")
	}

	logger.Log.Info("server stopped")
}
