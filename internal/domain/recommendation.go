package domain

import "errors"

var (
	ErrProfileNotFound    = errors.New("health profile not found")
	ErrBackendUnavailable = errors.New("backend api unavailable")
	ErrInvalidRequest     = errors.New("invalid request")
)

// RecommendationRequest is a profile plus the knobs of a recommendation run.
type RecommendationRequest struct {
	UserProfile
	MaxProducts       int      `json:"max_products,omitempty"`
	ExcludeProductIDs []string `json:"exclude_product_ids,omitempty"`
}

// BaseRecommendation is the rule-based result supplied by the backend.
type BaseRecommendation struct {
	Product  Product  `json:"product"`
	Score    float64  `json:"score"`
	Reasons  []string `json:"reasons"`
	Warnings []string `json:"warnings"`
}

type RecommendationMeta struct {
	CacheHit    bool   `json:"cache_hit"`
	GeneratedAt string `json:"generated_at"`
	TotalCount  int    `json:"total_count"`
}

type RecommendationResult struct {
	RequestID          string          `json:"request_id"`
	Recommendations    []ScoredProduct `json:"recommendations"`
	UserProfileSummary map[string]any  `json:"user_profile_summary"`
	GeneratedAt        string          `json:"generated_at"`
	CacheHit           bool            `json:"-"`
}

type BatchStatus string

const (
	StatusSuccess BatchStatus = "success"
	StatusFailed  BatchStatus = "failed"
)

type BatchUserResult struct {
	UserID          string          `json:"user_id"`
	Recommendations []ScoredProduct `json:"recommendations,omitempty"`
	Status          BatchStatus     `json:"status"`
	Error           string          `json:"error,omitempty"`
	Message         string          `json:"message,omitempty"`
}

type BatchSummary struct {
	SuccessCount     int   `json:"success_count"`
	FailedCount      int   `json:"failed_count"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

type BatchMeta struct {
	GeneratedAt string `json:"generated_at"`
}

type BatchResponse struct {
	TotalUsers int               `json:"total_users"`
	Results    []BatchUserResult `json:"results"`
	Summary    BatchSummary      `json:"summary"`
	Metadata   BatchMeta         `json:"metadata"`
}

type BatchRecommendationRequest struct {
	Users []RecommendationRequest `json:"users"`
}

// ScoreRequest scores a caller-supplied product pool without the backend.
type ScoreRequest struct {
	Profile     UserProfile `json:"user_profile"`
	Products    []Product   `json:"products"`
	MaxProducts int         `json:"max_products,omitempty"`
}

type ScoreResponse struct {
	Recommendations  []ScoredProduct  `json:"recommendations"`
	NutritionalNeeds NutritionalNeeds `json:"nutritional_needs"`
}
