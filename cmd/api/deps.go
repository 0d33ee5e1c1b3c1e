package main

import (
	"context"
	"log"

	"budgetix/internal/domain/advisor"
	"budgetix/internal/domain/budget"
	"budgetix/internal/domain/expense"
	"budgetix/internal/domain/notification"
	"budgetix/internal/domain/recurring"
	"budgetix/internal/domain/report"
	"budgetix/internal/infrastructure/firebase"
	"budgetix/internal/infrastructure/llm"
	"budgetix/internal/infrastructure/postgres"
	httphandlers "budgetix/internal/interfaces/http"
	"budgetix/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	ExpenseHandler      *httphandlers.ExpenseHandler
	BudgetHandler       *httphandlers.BudgetHandler
	DashboardHandler    *httphandlers.DashboardHandler
	AdvisorHandler      *httphandlers.AdvisorHandler
	NotificationHandler *httphandlers.NotificationHandler
	UserHandler         *httphandlers.UserHandler

	// Recurring pipeline (for the scheduler job provider)
	ExpenseRepo   *postgres.ExpenseRepository
	Processor     *recurring.Processor
	BudgetService *budget.Service
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	expenseRepo := postgres.NewExpenseRepository(db)
	budgetRepo := postgres.NewBudgetRepository(db)
	reportRepo := postgres.NewReportRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Initialize the push messenger. Without Firebase credentials
	// notifications are logged and dropped.
	var messenger notification.Messenger = notification.NopMessenger{}
	if cfg.Firebase.CredentialsFile != "" {
		fcm, err := firebase.NewClient(ctx, cfg.Firebase.CredentialsFile, notificationRepo.DeactivateToken)
		if err != nil {
			log.Printf("Warning: Failed to initialize Firebase messaging: %v", err)
		} else {
			messenger = fcm
		}
	}
	notificationService := notification.NewService(notificationRepo, messenger)

	// Initialize domain services
	expenseService := expense.NewService(expenseRepo)
	budgetService := budget.NewService(budgetRepo, reportRepo, notificationService)
	reportService := report.NewService(reportRepo, expenseRepo)
	processor := recurring.NewProcessor(expenseRepo, userRepo, notificationService)

	// The advisor is optional, it needs an LLM API key. The handler answers
	// 503 when the service is absent.
	var advisorService *advisor.Service
	if cfg.LLM.APIKey != "" {
		llmClient := llm.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model)
		advisorService = advisor.NewService(reportService, budgetService, llmClient)
	} else {
		log.Println("LLM_API_KEY not set, advisor suggestions disabled")
	}

	return &Dependencies{
		DB:                  db,
		ExpenseHandler:      httphandlers.NewExpenseHandler(expenseService),
		BudgetHandler:       httphandlers.NewBudgetHandler(budgetService),
		DashboardHandler:    httphandlers.NewDashboardHandler(reportService),
		AdvisorHandler:      httphandlers.NewAdvisorHandler(advisorService),
		NotificationHandler: httphandlers.NewNotificationHandler(notificationService),
		UserHandler:         httphandlers.NewUserHandler(userRepo),
		ExpenseRepo:         expenseRepo,
		Processor:           processor,
		BudgetService:       budgetService,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
