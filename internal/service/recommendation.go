package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/actuallystonmai/nutrition-recommender/internal/cache"
	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
	"github.com/actuallystonmai/nutrition-recommender/internal/model"
	"github.com/actuallystonmai/nutrition-recommender/internal/observability"
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return min(limit, maxLimit)
}

// GetRecommendations enhances the backend's rule-based recommendations for
// one user: rescoring, reasons, confidence and dosage, best first.
func (s *Service) GetRecommendations(ctx context.Context, req domain.RecommendationRequest) (*domain.RecommendationResult, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrInvalidRequest)
	}
	limit := clampLimit(req.MaxProducts)
	req.UserProfile = s.completeProfile(ctx, req.UserProfile).Normalize()

	fingerprint := cache.Fingerprint(req, limit)
	cached, found, err := s.cache.Get(ctx, req.UserID, fingerprint)
	switch {
	case err != nil:
		observability.RecordCacheLookup("error")
		s.log.Warn("cache get failed", zap.String("user_id", req.UserID), zap.Error(err))
	case found:
		observability.RecordCacheLookup("hit")
	default:
		observability.RecordCacheLookup("miss")
	}

	if found {
		observability.RecordRecommendations(true)
		return &domain.RecommendationResult{
			RequestID:          uuid.NewString(),
			Recommendations:    cached,
			UserProfileSummary: req.Summary(),
			GeneratedAt:        s.timestamp(),
			CacheHit:           true,
		}, nil
	}

	base, err := s.backend.GetBaseRecommendations(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("fetch base recommendations for user %s: %w", req.UserID, err)
	}

	excluded := make(map[string]struct{}, len(req.ExcludeProductIDs))
	for _, id := range req.ExcludeProductIDs {
		excluded[id] = struct{}{}
	}
	kept := make([]domain.BaseRecommendation, 0, len(base))
	for _, b := range base {
		if _, skip := excluded[b.Product.ID]; !skip {
			kept = append(kept, b)
		}
	}

	recs := s.enhanceAll(kept, req.UserProfile, limit)

	if cacheErr := s.cache.Set(ctx, req.UserID, fingerprint, recs); cacheErr != nil {
		s.log.Warn("cache set failed", zap.String("user_id", req.UserID), zap.Error(cacheErr))
	}

	observability.RecordRecommendations(false)
	s.log.Info("generated recommendations",
		zap.String("user_id", req.UserID),
		zap.Int("candidates", len(kept)),
		zap.Int("returned", len(recs)),
	)

	return &domain.RecommendationResult{
		RequestID:          uuid.NewString(),
		Recommendations:    recs,
		UserProfileSummary: req.Summary(),
		GeneratedAt:        s.timestamp(),
	}, nil
}

// ScoreProducts runs the scorer over a caller-supplied pool.
func (s *Service) ScoreProducts(req domain.ScoreRequest) (*domain.ScoreResponse, error) {
	if len(req.Products) == 0 {
		return nil, fmt.Errorf("%w: products must not be empty", domain.ErrInvalidRequest)
	}
	profile := req.Profile.Normalize()

	base := make([]domain.BaseRecommendation, 0, len(req.Products))
	for _, p := range req.Products {
		base = append(base, domain.BaseRecommendation{Product: p})
	}
	return &domain.ScoreResponse{
		Recommendations:  s.enhanceAll(base, profile, clampLimit(req.MaxProducts)),
		NutritionalNeeds: s.engine.ComputeNutritionalNeeds(profile),
	}, nil
}

func (s *Service) enhanceAll(base []domain.BaseRecommendation, profile domain.UserProfile, limit int) []domain.ScoredProduct {
	// Needs depend only on the profile; compute once per request.
	needs := s.engine.ComputeNutritionalNeeds(profile)

	recs := make([]domain.ScoredProduct, 0, len(base))
	for _, b := range base {
		rec := s.enhance(b, profile, needs)
		observability.RecordProductScore(rec.Score)
		recs = append(recs, rec)
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

func (s *Service) enhance(b domain.BaseRecommendation, profile domain.UserProfile, needs domain.NutritionalNeeds) domain.ScoredProduct {
	product := b.Product.Normalize()
	score := s.engine.ScoreProduct(model.ScoreInput{
		Product:   product,
		Profile:   profile,
		BaseScore: b.Score,
		Needs:     &needs,
	})
	reasons := s.engine.GenerateReasons(product, profile, &needs, b.Reasons)

	warnings := b.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return domain.ScoredProduct{
		ProductID:  product.ID,
		Score:      score,
		Confidence: s.engine.CalculateConfidence(score, product, profile, reasons),
		Reasons:    reasons,
		Warnings:   warnings,
		Dosage:     s.engine.SuggestDosage(product, profile),
	}
}

// completeProfile fills a request that carries no body measurements from
// the stored health profile. Lookup failures leave the request as is.
func (s *Service) completeProfile(ctx context.Context, p domain.UserProfile) domain.UserProfile {
	if p.Weight > 0 || p.Height > 0 || p.Goal != "" || p.UserID == "" {
		return p
	}
	stored, err := s.profiles.GetHealthProfile(ctx, p.UserID)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			s.log.Warn("health profile lookup failed", zap.String("user_id", p.UserID), zap.Error(err))
		}
		return p
	}
	out := *stored
	out.UserID = p.UserID
	if len(p.Allergies) > 0 {
		out.Allergies = p.Allergies
	}
	return out
}
