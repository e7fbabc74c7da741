package handler

import (
	"net/http"
	"strings"

	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
)

// POST /api/v1/nutrition/needs
func (h *Handler) ComputeNeeds(w http.ResponseWriter, r *http.Request) {
	var profile domain.UserProfile
	if err := decodeJSON(r, &profile); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	needs, err := h.service.ComputeNeeds(profile)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, needs)
}

// GET /api/v1/meal-plan/times?goal=&activity_level=
func (h *Handler) GetMealTimes(w http.ResponseWriter, r *http.Request) {
	goal := domain.ParseGoal(r.URL.Query().Get("goal"))
	activity := domain.ParseActivityLevel(r.URL.Query().Get("activity_level"))

	writeJSON(w, http.StatusOK, MealTimesResponse{
		Goal:          goal,
		ActivityLevel: activity,
		MealTimes:     h.service.MealTimes(goal, activity),
	})
}

// POST /api/v1/meal-plan/distribution
func (h *Handler) PlanDistribution(w http.ResponseWriter, r *http.Request) {
	var req domain.DistributionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	result, err := h.service.PlanDistribution(req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// POST /api/v1/meal-plan/generate/ai
func (h *Handler) GenerateMealPlan(w http.ResponseWriter, r *http.Request) {
	var req domain.MealPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if uid := strings.TrimSpace(r.Header.Get("X-User-ID")); uid != "" {
		req.UserID = uid
	}

	result, err := h.service.GenerateMealPlan(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
