package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"budgetix/internal/domain/advisor"
	"budgetix/internal/shared/middleware"
)

type AdvisorHandler struct {
	advisorService *advisor.Service
}

func NewAdvisorHandler(advisorService *advisor.Service) *AdvisorHandler {
	return &AdvisorHandler{advisorService: advisorService}
}

type SuggestionsResponse struct {
	Advice string `json:"advice"`
}

// HandleSuggestions handles GET /api/advisor/suggestions.
func (h *AdvisorHandler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if h.advisorService == nil {
		http.Error(w, "Advisor is not configured", http.StatusServiceUnavailable)
		return
	}

	advice, err := h.advisorService.Suggestions(r.Context(), userID, time.Now().UTC())
	if err != nil {
		log.Printf("Error getting advisor suggestions for user %s: %v", userID, err)
		http.Error(w, "Failed to get suggestions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SuggestionsResponse{Advice: advice})
}
