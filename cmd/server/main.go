package main

import (
	"context"
	"encoding/base64"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"rasmal-backend/internal/config"
	"rasmal-backend/internal/db"
	"rasmal-backend/internal/handler"
	"rasmal-backend/internal/repository"
	"rasmal-backend/internal/server"
	"rasmal-backend/internal/service"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure schema", "err", err)
		os.Exit(1)
	}

	// Firebase Auth (optional)
	var firebaseAuth *auth.Client
	if cfg.FirebaseProjectID != "" {
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, firebaseOptions(cfg)...)
		if err != nil {
			logger.Error("failed to init firebase app", "err", err)
			os.Exit(1)
		}
		client, err := app.Auth(ctx)
		if err != nil {
			logger.Error("failed to init firebase auth", "err", err)
			os.Exit(1)
		}
		firebaseAuth = client
	}

	// repositories
	userRepo := repository.UserRepository{DB: pg}
	companyRepo := repository.CompanyRepository{DB: pg}
	fournisseurRepo := repository.FournisseurRepository{DB: pg}
	txRepo := repository.TransactionRepository{DB: pg}
	currencyCompanyRepo := repository.CurrencyCompanyRepository{DB: pg}
	currencyTxRepo := repository.CurrencyTransactionRepository{DB: pg}
	fundRepo := repository.FundRepository{DB: pg}
	trashRepo := repository.TrashRepository{DB: pg}
	resetRepo := repository.ResetRepository{DB: pg}

	// services
	authSvc := service.AuthService{Config: cfg, Users: userRepo, Logger: logger, FirebaseAuth: firebaseAuth}
	ledgerSvc := service.NewLedgerService(
		companyRepo, fournisseurRepo, txRepo,
		currencyCompanyRepo, currencyTxRepo,
		fundRepo, trashRepo, resetRepo,
		authSvc, logger,
	)
	exchangeSvc := service.NewExchangeService(ledgerSvc, logger)
	trashSvc := service.NewTrashService(trashRepo, ledgerSvc, exchangeSvc, logger)

	// handlers
	healthHandler := handler.HealthHandler{DB: pg}
	authHandler := handler.AuthHandler{Service: &authSvc}
	companyHandler := handler.CompanyHandler{Service: ledgerSvc}
	fournisseurHandler := handler.FournisseurHandler{Service: ledgerSvc}
	transactionHandler := handler.TransactionHandler{Service: ledgerSvc}
	currencyCompanyHandler := handler.CurrencyCompanyHandler{Service: ledgerSvc}
	currencyTransactionHandler := handler.CurrencyTransactionHandler{Service: exchangeSvc}
	fundHandler := handler.FundHandler{Service: ledgerSvc}
	trashHandler := handler.TrashHandler{Service: trashSvc}
	dashboardHandler := handler.DashboardHandler{Service: ledgerSvc}
	adminHandler := handler.AdminHandler{Service: ledgerSvc}
	homeHandler := handler.HomeHandler{}

	router := server.NewRouter(cfg, logger,
		healthHandler, authHandler,
		companyHandler, fournisseurHandler, transactionHandler,
		currencyCompanyHandler, currencyTransactionHandler,
		fundHandler, trashHandler, dashboardHandler, adminHandler,
		homeHandler,
	)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

func firebaseOptions(cfg config.Config) []option.ClientOption {
	if cfg.FirebaseCredFile == "" {
		return nil
	}

	cred := cfg.FirebaseCredFile
	// Allow inline JSON or base64-encoded JSON in env to avoid writing a file.
	if strings.HasPrefix(strings.TrimSpace(cred), "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cred))}
	}
	if decoded, err := base64.StdEncoding.DecodeString(cred); err == nil && strings.HasPrefix(strings.TrimSpace(string(decoded)), "{") {
		return []option.ClientOption{option.WithCredentialsJSON(decoded)}
	}

	return []option.ClientOption{option.WithCredentialsFile(cred)}
}
