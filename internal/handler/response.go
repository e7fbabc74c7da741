package handler

import "github.com/actuallystonmai/nutrition-recommender/internal/domain"

type RecommendationResponse struct {
	RequestID          string                    `json:"request_id"`
	UserID             string                    `json:"user_id"`
	Recommendations    []domain.ScoredProduct    `json:"recommendations"`
	UserProfileSummary map[string]any            `json:"user_profile_summary"`
	GeneratedAt        string                    `json:"generated_at"`
	Metadata           domain.RecommendationMeta `json:"metadata"`
}

type MealTimesResponse struct {
	Goal          domain.Goal          `json:"goal"`
	ActivityLevel domain.ActivityLevel `json:"activity_level"`
	MealTimes     []domain.MealTime    `json:"meal_times"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
