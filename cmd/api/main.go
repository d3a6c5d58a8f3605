package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	donationrepo "github.com/hk2807/sevaledger/backend/internal/donation/adapter/repo"
	donationapi "github.com/hk2807/sevaledger/backend/internal/donation/api"
	donationsvc "github.com/hk2807/sevaledger/backend/internal/donation/service"
	expenserepo "github.com/hk2807/sevaledger/backend/internal/expense/adapter/repo"
	expenseapi "github.com/hk2807/sevaledger/backend/internal/expense/api"
	expensesvc "github.com/hk2807/sevaledger/backend/internal/expense/service"
	ledgerrepo "github.com/hk2807/sevaledger/backend/internal/ledger/adapter/repo"
	ledgerapi "github.com/hk2807/sevaledger/backend/internal/ledger/api"
	ledgersvc "github.com/hk2807/sevaledger/backend/internal/ledger/service"
	"github.com/hk2807/sevaledger/backend/internal/platform/database"
	"github.com/hk2807/sevaledger/backend/internal/platform/logger"
	"github.com/hk2807/sevaledger/backend/internal/platform/server"
	reportapi "github.com/hk2807/sevaledger/backend/internal/report/api"
	reportsvc "github.com/hk2807/sevaledger/backend/internal/report/service"
)

func main() {
	// Configuration
	viper.SetConfigName("config")
	viper.AddConfigPath("configs")
	viper.AddConfigPath("../../configs")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file: %s", err)
	}

	// Infrastructure
	appLogger := logger.NewLogger(viper.GetString("server.mode"))
	db := database.NewPostgresDB(
		viper.GetString("database.dsn"),
		viper.GetInt("database.max_idle_conns"),
		viper.GetInt("database.max_open_conns"),
	)
	if err := database.Migrate(db); err != nil {
		appLogger.Fatal("Migration failed", zap.Error(err))
	}

	// Wiring
	fundRepo := ledgerrepo.NewFundRepo(db)
	txRepo := ledgerrepo.NewTransactionRepo(db)
	fundSvc := ledgersvc.NewFundService(db, fundRepo, txRepo, appLogger)
	fundHandler := ledgerapi.NewFundHandler(fundSvc)

	donationRepo := donationrepo.NewDonationRepo(db)
	donationSvc := donationsvc.NewDonationService(donationRepo, fundSvc, appLogger)
	donationHandler := donationapi.NewDonationHandler(donationSvc)

	expenseRepo := expenserepo.NewExpenseRepo(db)
	expenseSvc := expensesvc.NewExpenseService(expenseRepo, fundSvc, appLogger)
	expenseHandler := expenseapi.NewExpenseHandler(expenseSvc)

	reportSvc := reportsvc.NewReportService(fundRepo, txRepo)
	reportHandler := reportapi.NewReportHandler(reportSvc)

	srv := server.NewServer(
		appLogger,
		viper.GetString("server.port"),
		viper.GetString("server.mode"),
		fundHandler,
		donationHandler,
		expenseHandler,
		reportHandler,
	)

	// Serve until interrupted, then drain.
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Server startup failed", zap.Error(err))
		}
	case <-quit:
		appLogger.Info("Shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			appLogger.Error("Forced shutdown", zap.Error(err))
		}
	}
}
