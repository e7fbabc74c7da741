package model

import (
	"fmt"
	"strings"

	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
)

const maxReasons = 5

// GenerateReasons appends goal, activity and macro context to the base
// reasons, drops case-insensitive duplicates and keeps at most five.
func (e *Engine) GenerateReasons(product domain.Product, profile domain.UserProfile, needs *domain.NutritionalNeeds, base []string) []string {
	product = product.Normalize()
	profile = profile.Normalize()

	reasons := make([]string, 0, len(base)+6)
	reasons = append(reasons, base...)

	switch {
	case profile.Goal == domain.GoalMass && product.Type == domain.ProductProtein:
		reasons = append(reasons, "High protein content ideal for muscle growth")
	case profile.Goal == domain.GoalCut && product.Type == domain.ProductFatBurner:
		reasons = append(reasons, "Supports fat loss goals")
	case profile.Goal == domain.GoalEndurance && product.Type == domain.ProductAmino:
		reasons = append(reasons, "Supports recovery during long endurance sessions")
	}

	if profile.ActivityLevel.IsIntense() {
		switch product.Type {
		case domain.ProductCreatine:
			reasons = append(reasons, "Enhances performance for high-intensity training")
		case domain.ProductPostWorkout:
			reasons = append(reasons, "Accelerates recovery after intense workouts")
		}
	}

	if product.Macros.Protein >= highProteinServing {
		reasons = append(reasons, "Excellent protein source")
	}
	if product.Macros.Protein > 0 {
		n := e.needsFor(profile, needs)
		if pct := proteinContributionPct(product.Macros.Protein, n); pct > 0 {
			reasons = append(reasons, fmt.Sprintf("Covers %.0f%% of your daily protein needs per serving", pct))
		}
	}
	if product.Brand.Verified {
		reasons = append(reasons, "Verified brand")
	}

	return dedupeReasons(reasons, maxReasons)
}

func dedupeReasons(in []string, limit int) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, limit)
	for _, r := range in {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		key := strings.ToLower(r)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out
}
