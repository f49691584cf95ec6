package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rasmal-backend/internal/config"
	"rasmal-backend/internal/handler"
)

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config,
	logger *slog.Logger,
	health handler.HealthHandler,
	auth handler.AuthHandler,
	companies handler.CompanyHandler,
	fournisseurs handler.FournisseurHandler,
	transactions handler.TransactionHandler,
	currencyCompanies handler.CurrencyCompanyHandler,
	currencyTransactions handler.CurrencyTransactionHandler,
	fund handler.FundHandler,
	trash handler.TrashHandler,
	dashboard handler.DashboardHandler,
	admin handler.AdminHandler,
	home handler.HomeHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, 1*time.Minute))

	health.RegisterRoutes(r)
	auth.RegisterRoutes(r)
	home.RegisterRoutes(r)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware(cfg.JWTSecret))
		companies.RegisterRoutes(pr)
		fournisseurs.RegisterRoutes(pr)
		transactions.RegisterRoutes(pr)
		currencyCompanies.RegisterRoutes(pr)
		currencyTransactions.RegisterRoutes(pr)
		fund.RegisterRoutes(pr)
		trash.RegisterRoutes(pr)
		dashboard.RegisterRoutes(pr)
		admin.RegisterRoutes(pr)
	})

	return r
}
