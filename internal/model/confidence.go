package model

import (
	"math"

	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
)

const (
	maxConfidence        = 0.98
	strongTypeWeight     = 0.3
	moderateTypeWeight   = 0.2
	lowScoreThreshold    = 30.0
	lowScorePenalty      = 0.7
	perReasonBoost       = 0.02
	maxReasonBoost       = 0.06
	highProteinServing   = 20.0
	verifiedBrandBoost   = 0.03
	highProteinBoost     = 0.02
	strongAlignmentBoost = 0.08
	moderateAlignBoost   = 0.04
)

// CalculateConfidence estimates how certain a score is, in (0, 0.98].
// The cap is deliberate: a recommendation is never reported as certain.
func (e *Engine) CalculateConfidence(score float64, product domain.Product, profile domain.UserProfile, reasons []string) float64 {
	product = product.Normalize()
	profile = profile.Normalize()
	score = clamp(score, 0, 100)

	confidence := 0.5 + (score/100)*0.45

	switch w := e.typeWeightFor(product.Type, profile.Goal); {
	case w >= strongTypeWeight:
		confidence += strongAlignmentBoost
	case w >= moderateTypeWeight:
		confidence += moderateAlignBoost
	}

	confidence += math.Min(float64(len(reasons))*perReasonBoost, maxReasonBoost)

	if product.Brand.Verified {
		confidence += verifiedBrandBoost
	}
	if product.Macros.Protein >= highProteinServing {
		confidence += highProteinBoost
	}
	if score < lowScoreThreshold {
		confidence *= lowScorePenalty
	}
	return round2(math.Min(confidence, maxConfidence))
}
