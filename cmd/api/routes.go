package main

import (
	"log"
	"net/http"

	httphandlers "budgetix/internal/interfaces/http"
	"budgetix/internal/shared/config"
	"budgetix/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// API routes, all behind the identity middleware
	api := http.NewServeMux()
	api.HandleFunc("/api/expenses", deps.ExpenseHandler.HandleExpenses)
	api.HandleFunc("/api/expenses/{id}", deps.ExpenseHandler.HandleExpenseByID)
	api.HandleFunc("/api/budgets", deps.BudgetHandler.HandleBudgets)
	api.HandleFunc("/api/budgets/status", deps.BudgetHandler.HandleStatus)
	api.HandleFunc("/api/budgets/{id}", deps.BudgetHandler.HandleBudgetByID)
	api.HandleFunc("/api/dashboard/summary", deps.DashboardHandler.HandleSummary)
	api.HandleFunc("/api/advisor/suggestions", deps.AdvisorHandler.HandleSuggestions)
	api.HandleFunc("/api/notifications/register-device", deps.NotificationHandler.HandleRegisterDevice)
	api.HandleFunc("/api/users/me", deps.UserHandler.HandleMe)

	mux.Handle("/api/", middleware.Identity(api))

	// Apply global middleware
	handler := middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(mux))
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(middleware.Tracing(handler))
	}

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Println("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
