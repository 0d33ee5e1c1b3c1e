package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"budgetix/internal/domain/budget"
	"budgetix/internal/shared/middleware"
)

const monthLayout = "2006-01"

type BudgetHandler struct {
	budgetService *budget.Service
}

func NewBudgetHandler(budgetService *budget.Service) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

type SetBudgetRequest struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// HandleBudgets handles GET (list) and POST (create or replace) on /api/budgets.
func (h *BudgetHandler) HandleBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleListBudgets(w, r, userID)
	case http.MethodPost:
		h.handleSetBudget(w, r, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleBudgetByID handles DELETE on /api/budgets/{id}.
func (h *BudgetHandler) HandleBudgetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	budgetID := r.PathValue("id")
	if budgetID == "" {
		http.Error(w, "Budget ID is required", http.StatusBadRequest)
		return
	}

	if err := h.budgetService.DeleteBudget(r.Context(), budgetID, userID); err != nil {
		switch {
		case errors.Is(err, budget.ErrBudgetNotFound):
			http.Error(w, "Budget not found", http.StatusNotFound)
		case errors.Is(err, budget.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			log.Printf("Error deleting budget %s for user %s: %v", budgetID, userID, err)
			http.Error(w, "Failed to delete budget", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// HandleStatus handles GET /api/budgets/status?month=YYYY-MM.
func (h *BudgetHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	month, err := parseMonth(r.URL.Query().Get("month"))
	if err != nil {
		http.Error(w, "month must be formatted YYYY-MM", http.StatusBadRequest)
		return
	}

	status, err := h.budgetService.Status(r.Context(), userID, month)
	if err != nil {
		log.Printf("Error computing budget status for user %s: %v", userID, err)
		http.Error(w, "Failed to compute budget status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

func (h *BudgetHandler) handleListBudgets(w http.ResponseWriter, r *http.Request, userID string) {
	budgets, err := h.budgetService.ListBudgets(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing budgets for user %s: %v", userID, err)
		http.Error(w, "Failed to list budgets", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"budgets": budgets})
}

func (h *BudgetHandler) handleSetBudget(w http.ResponseWriter, r *http.Request, userID string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req SetBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := budget.UpsertParams{
		UserID:   userID,
		Category: req.Category,
		Amount:   req.Amount,
	}

	saved, err := h.budgetService.SetBudget(r.Context(), params)
	if err != nil {
		if errors.Is(err, budget.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error saving budget for user %s: %v", userID, err)
		http.Error(w, "Failed to save budget", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(saved)
}

// parseMonth parses a YYYY-MM query value, defaulting to the current month.
func parseMonth(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(monthLayout, s)
}
