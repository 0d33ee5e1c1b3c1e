package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"budgetix/internal/domain/expense"
	"budgetix/internal/shared/middleware"
)

const maxBodySize = 1 << 20 // 1 MiB

const dateLayout = "2006-01-02"

type ExpenseHandler struct {
	expenseService *expense.Service
}

func NewExpenseHandler(expenseService *expense.Service) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// --- Request/Response types ---

type CreateExpenseRequest struct {
	Amount             decimal.Decimal `json:"amount"`
	Category           string          `json:"category"`
	Description        string          `json:"description"`
	Date               string          `json:"date"`
	PaymentMethod      string          `json:"paymentMethod"`
	Frequency          string          `json:"frequency"`
	IsRecurring        bool            `json:"isRecurring"`
	RecurringStartDate *string         `json:"recurringStartDate"`
	RecurringEndDate   *string         `json:"recurringEndDate"`
}

type UpdateExpenseRequest struct {
	Amount           *decimal.Decimal `json:"amount"`
	Category         *string          `json:"category"`
	Description      *string          `json:"description"`
	Date             *string          `json:"date"`
	PaymentMethod    *string          `json:"paymentMethod"`
	Frequency        *string          `json:"frequency"`
	RecurringEndDate *string          `json:"recurringEndDate"`
}

// --- Handlers ---

// HandleExpenses handles GET (list) and POST (create) on /api/expenses.
func (h *ExpenseHandler) HandleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListExpenses(w, r)
	case http.MethodPost:
		h.handleCreateExpense(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleExpenseByID handles GET/PUT/DELETE on /api/expenses/{id}.
func (h *ExpenseHandler) HandleExpenseByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	expenseID := r.PathValue("id")
	if expenseID == "" {
		http.Error(w, "Expense ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGetExpense(w, r, expenseID, userID)
	case http.MethodPut:
		h.handleUpdateExpense(w, r, expenseID, userID)
	case http.MethodDelete:
		h.handleDeleteExpense(w, r, expenseID, userID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ExpenseHandler) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	expenses, err := h.expenseService.ListExpenses(r.Context(), userID, limit, offset)
	if err != nil {
		log.Printf("Error listing expenses for user %s: %v", userID, err)
		http.Error(w, "Failed to list expenses", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"expenses": expenses})
}

func (h *ExpenseHandler) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		http.Error(w, "date must be formatted YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	startDate, err := parseOptionalDate(req.RecurringStartDate)
	if err != nil {
		http.Error(w, "recurringStartDate must be formatted YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	endDate, err := parseOptionalDate(req.RecurringEndDate)
	if err != nil {
		http.Error(w, "recurringEndDate must be formatted YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	params := expense.CreateParams{
		UserID:             userID,
		Amount:             req.Amount,
		Category:           req.Category,
		Description:        req.Description,
		Date:               date,
		PaymentMethod:      req.PaymentMethod,
		Frequency:          expense.Frequency(req.Frequency),
		IsRecurring:        req.IsRecurring,
		RecurringStartDate: startDate,
		RecurringEndDate:   endDate,
	}

	created, err := h.expenseService.CreateExpense(r.Context(), params)
	if err != nil {
		if errors.Is(err, expense.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error creating expense for user %s: %v", userID, err)
		http.Error(w, "Failed to create expense", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *ExpenseHandler) handleGetExpense(w http.ResponseWriter, r *http.Request, expenseID, userID string) {
	exp, err := h.expenseService.GetExpense(r.Context(), expenseID, userID)
	if err != nil {
		writeExpenseError(w, err, expenseID, userID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(exp)
}

func (h *ExpenseHandler) handleUpdateExpense(w http.ResponseWriter, r *http.Request, expenseID, userID string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var req UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	date, err := parseOptionalDate(req.Date)
	if err != nil {
		http.Error(w, "date must be formatted YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	endDate, err := parseOptionalDate(req.RecurringEndDate)
	if err != nil {
		http.Error(w, "recurringEndDate must be formatted YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	params := expense.UpdateParams{
		Amount:           req.Amount,
		Category:         req.Category,
		Description:      req.Description,
		Date:             date,
		PaymentMethod:    req.PaymentMethod,
		RecurringEndDate: endDate,
	}
	if req.Frequency != nil {
		freq := expense.Frequency(*req.Frequency)
		params.Frequency = &freq
	}

	updated, err := h.expenseService.UpdateExpense(r.Context(), expenseID, userID, params)
	if err != nil {
		if errors.Is(err, expense.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeExpenseError(w, err, expenseID, userID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *ExpenseHandler) handleDeleteExpense(w http.ResponseWriter, r *http.Request, expenseID, userID string) {
	if err := h.expenseService.DeleteExpense(r.Context(), expenseID, userID); err != nil {
		writeExpenseError(w, err, expenseID, userID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// --- Helpers ---

func writeExpenseError(w http.ResponseWriter, err error, expenseID, userID string) {
	switch {
	case errors.Is(err, expense.ErrExpenseNotFound):
		http.Error(w, "Expense not found", http.StatusNotFound)
	case errors.Is(err, expense.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		log.Printf("Error handling expense %s for user %s: %v", expenseID, userID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
