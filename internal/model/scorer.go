package model

import (
	"math"

	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
)

const (
	baseWeight     = 0.6
	typeWeight     = 0.15
	macroWeight    = 0.2
	typeScale      = 20.0
	macroCap       = 20.0
	brandBonusCap  = 5.0
	defaultTypeW   = 0.1
	unknownTypeW   = 0.05
	cutFatLimitG   = 10.0
	cutFatPenalty  = 3.0
	balanceBonus   = 3.0
	bestBandPoints = 15.0
)

type ScoreInput struct {
	Product   domain.Product
	Profile   domain.UserProfile
	BaseScore float64
	// Needs are computed from Profile when nil.
	Needs *domain.NutritionalNeeds
}

// Breakdown keeps every component of a product score for explanations.
type Breakdown struct {
	Base          float64 `json:"base"`
	TypeAlignment float64 `json:"type_alignment"`
	Macro         float64 `json:"macro"`
	AgeGender     float64 `json:"age_gender"`
	Activity      float64 `json:"activity"`
	Brand         float64 `json:"brand"`
	Total         float64 `json:"total"`
}

// ScoreProduct returns the 0-100 suitability of a product for the profile.
func (e *Engine) ScoreProduct(in ScoreInput) float64 {
	return e.ScoreBreakdown(in).Total
}

func (e *Engine) ScoreBreakdown(in ScoreInput) Breakdown {
	product := in.Product.Normalize()
	profile := in.Profile.Normalize()
	needs := e.needsFor(profile, in.Needs)

	b := Breakdown{
		Base:          in.BaseScore,
		TypeAlignment: e.typeAlignment(product.Type, profile.Goal) * e.tables.activityMultiplier(profile.ActivityLevel),
		Macro:         macroAlignment(product.Macros, profile.Goal, needs),
		AgeGender:     ageGenderAdjustment(product, profile),
		Activity:      activityAdjustment(product.Type, profile.ActivityLevel),
		Brand:         brandBonus(product.Brand),
	}
	total := baseWeight*b.Base + typeWeight*b.TypeAlignment + macroWeight*b.Macro +
		b.AgeGender + b.Activity + b.Brand
	b.Total = round2(clamp(total, 0, 100))
	return b
}

func (e *Engine) needsFor(profile domain.UserProfile, needs *domain.NutritionalNeeds) domain.NutritionalNeeds {
	if needs != nil {
		return *needs
	}
	return e.ComputeNutritionalNeeds(profile)
}

// typeWeightFor is the raw goal weight of a product type.
func (e *Engine) typeWeightFor(t domain.ProductType, g domain.Goal) float64 {
	weights := e.tables.goalWeights(g)
	if t == domain.ProductOther {
		if w, ok := weights["general"]; ok {
			return w
		}
		return unknownTypeW
	}
	if w, ok := weights[string(t)]; ok {
		return w
	}
	return defaultTypeW
}

// typeAlignment scales the goal weight to 0-20 points.
func (e *Engine) typeAlignment(t domain.ProductType, g domain.Goal) float64 {
	return e.typeWeightFor(t, g) * typeScale
}

func macroAlignment(m domain.Macros, goal domain.Goal, needs domain.NutritionalNeeds) float64 {
	if m.Empty() {
		return 0
	}
	score := proteinContributionPoints(proteinContributionPct(m.Protein, needs))
	score += calorieBandPoints(m, goal)

	proteinKcal := m.Protein * kcalPerGramProtein
	carbKcal := m.Carbs * kcalPerGramCarbs
	if total := proteinKcal + carbKcal; total > 0 {
		if ratio := proteinKcal / total; ratio >= 0.3 && ratio <= 0.7 {
			score += balanceBonus
		}
	}
	if goal == domain.GoalCut && m.Fats > cutFatLimitG {
		score -= cutFatPenalty
	}
	return clamp(score, 0, macroCap)
}

// proteinContributionPct is the share of daily protein one serving covers.
func proteinContributionPct(protein float64, needs domain.NutritionalNeeds) float64 {
	if needs.ProteinG <= 0 {
		return 0
	}
	return protein / needs.ProteinG * 100
}

func proteinContributionPoints(pct float64) float64 {
	switch {
	case pct >= 10 && pct <= 25:
		return bestBandPoints
	case pct > 25 && pct <= 40:
		return 12
	case pct >= 5 && pct < 10:
		return 8
	}
	// Outside the bands the score decays away from a 20% contribution.
	return 6 * math.Exp(-math.Abs(pct-20)/20)
}

func calorieBandPoints(m domain.Macros, goal domain.Goal) float64 {
	c := m.Calories
	switch goal {
	case domain.GoalMass:
		switch {
		case c >= 150 && c <= 400:
			return 5
		case c > 400:
			return 3
		case c >= 50:
			return 2
		}
	case domain.GoalCut:
		switch {
		case c <= 150:
			return 5
		case c <= 250:
			return 2
		}
	case domain.GoalEndurance:
		if c >= 100 && c <= 300 {
			if m.Carbs >= 20 {
				return 5
			}
			return 2
		}
	default:
		if c >= 100 && c <= 350 {
			return 2
		}
	}
	return 0
}

func ageGenderAdjustment(p domain.Product, profile domain.UserProfile) float64 {
	score := 0.0
	if profile.Age > 40 {
		if p.Type == domain.ProductVitamin || p.Type == domain.ProductAmino {
			score += 3
		}
		if p.IsJointSupport() {
			score += 5
		}
	}
	if profile.Age > 0 && profile.Age < 25 {
		if p.Type == domain.ProductPreWorkout || p.Type == domain.ProductCreatine {
			score += 2
		}
	}
	if profile.Gender == domain.GenderFemale && p.Type == domain.ProductVitamin {
		score += 2
	}
	return score
}

func activityAdjustment(t domain.ProductType, a domain.ActivityLevel) float64 {
	switch {
	case a.IsIntense():
		switch t {
		case domain.ProductPostWorkout, domain.ProductAmino, domain.ProductProtein:
			return 5
		case domain.ProductCreatine:
			return 4
		}
	case a == domain.ActivityLow:
		if t == domain.ProductVitamin || t == domain.ProductProtein {
			return 3
		}
	}
	return 0
}

func brandBonus(b domain.Brand) float64 {
	bonus := 0.0
	if b.Verified {
		bonus += 3
	}
	if b.Premium {
		bonus += 2
	}
	return math.Min(bonus, brandBonusCap)
}
