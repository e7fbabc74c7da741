package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
)

// POST /api/v1/recommendations/ai
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	var req domain.RecommendationRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	// The gateway-authenticated user wins over the body.
	if uid := strings.TrimSpace(r.Header.Get("X-User-ID")); uid != "" {
		req.UserID = uid
	}
	if req.MaxProducts < 0 || req.MaxProducts > 50 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "max_products must be between 1 and 50")
		return
	}

	result, err := h.service.GetRecommendations(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, RecommendationResponse{
		RequestID:          result.RequestID,
		UserID:             req.UserID,
		Recommendations:    result.Recommendations,
		UserProfileSummary: result.UserProfileSummary,
		GeneratedAt:        result.GeneratedAt,
		Metadata: domain.RecommendationMeta{
			CacheHit:    result.CacheHit,
			GeneratedAt: result.GeneratedAt,
			TotalCount:  len(result.Recommendations),
		},
	})
}

// POST /api/v1/recommendations/batch
func (h *Handler) GetBatchRecommendations(w http.ResponseWriter, r *http.Request) {
	var req domain.BatchRecommendationRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	result, err := h.service.GetBatchRecommendations(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// POST /api/v1/recommendations/score
func (h *Handler) ScoreProducts(w http.ResponseWriter, r *http.Request) {
	var req domain.ScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	result, err := h.service.ScoreProducts(req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DELETE /api/v1/users/{userID}/recommendations/cache
func (h *Handler) InvalidateUserCache(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := h.service.InvalidateUser(r.Context(), userID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PUT /api/v1/users/{userID}/health-profile
func (h *Handler) UpdateHealthProfile(w http.ResponseWriter, r *http.Request) {
	var profile domain.UserProfile
	if err := decodeJSON(r, &profile); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	profile.UserID = chi.URLParam(r, "userID")

	if err := h.service.UpdateHealthProfile(r.Context(), profile); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile.Normalize())
}
