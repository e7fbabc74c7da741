package model

import (
	"math"

	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
)

// ComputeNutritionalNeeds derives daily calorie and macro targets with the
// Mifflin-St Jeor equation. Unknown enums fall back to moderate activity,
// maintain goal and the non-male BMR offset; no input is rejected.
func (e *Engine) ComputeNutritionalNeeds(profile domain.UserProfile) domain.NutritionalNeeds {
	p := profile.Normalize()
	weight := math.Max(p.Weight, 0)
	height := math.Max(p.Height, 0)

	bmr := 10*weight + 6.25*height - 5*float64(p.Age)
	if p.Gender == domain.GenderMale {
		bmr += 5
	} else {
		bmr -= 161
	}

	tdee := bmr * e.tables.activityFactor(p.ActivityLevel)
	calories := math.Max(tdee*lookupGoal(e.tables.GoalCalorieMultipliers, p.Goal), 0)

	protein := weight * lookupGoal(e.tables.ProteinPerKg, p.Goal)
	fats := calories * lookupGoal(e.tables.FatFraction, p.Goal) / kcalPerGramFat

	remaining := calories - protein*kcalPerGramProtein - fats*kcalPerGramFat
	needs := domain.NutritionalNeeds{
		Calories: calories,
		ProteinG: protein,
		FatsG:    fats,
		CarbsG:   remaining / kcalPerGramCarbs,
	}
	if needs.CarbsG < 0 {
		needs.CarbsG = 0
		needs.CarbsClamped = true
	}
	return needs
}
