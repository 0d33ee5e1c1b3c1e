package http

import (
	"encoding/json"
	"log"
	"net/http"

	"budgetix/internal/domain/report"
	"budgetix/internal/shared/middleware"
)

type DashboardHandler struct {
	reportService *report.Service
}

func NewDashboardHandler(reportService *report.Service) *DashboardHandler {
	return &DashboardHandler{reportService: reportService}
}

// HandleSummary handles GET /api/dashboard/summary?month=YYYY-MM.
func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
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

	summary, err := h.reportService.MonthlySummary(r.Context(), userID, month)
	if err != nil {
		log.Printf("Error building monthly summary for user %s: %v", userID, err)
		http.Error(w, "Failed to build summary", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}
