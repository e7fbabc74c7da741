package model

import (
	"math"
	"sort"
	"strings"

	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
)

const (
	DefaultCuisineRatio = 0.6
	DefaultMaxRepeats   = 1

	caloriePoints     = 10.0
	proteinTightBand  = 0.2
	proteinLooseBand  = 0.4
	goalBonus         = 5.0
	cuisineBonus      = 3.0
	cutCalorieCeiling = 0.9
	massCalorieFloor  = 1.1
)

// FilterMealsByPreferences drops meals whose ingredients or allergens match
// any allergy or excluded ingredient, compared case-insensitively as
// substrings in either direction. If nothing would survive, the unfiltered
// pool is returned so a plan can still be built.
func (e *Engine) FilterMealsByPreferences(meals []domain.MealCandidate, prefs domain.MealPreferences, exclude []string) []domain.MealCandidate {
	terms := exclusionTerms(prefs.Allergies, prefs.ExcludeIngredients, exclude)
	if len(terms) == 0 {
		return meals
	}

	kept := make([]domain.MealCandidate, 0, len(meals))
	for _, m := range meals {
		if !mealMatchesAny(m, terms) {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return meals
	}
	return kept
}

func exclusionTerms(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var terms []string
	for _, list := range lists {
		for _, s := range list {
			s = strings.ToLower(strings.TrimSpace(s))
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			terms = append(terms, s)
		}
	}
	return terms
}

func mealMatchesAny(m domain.MealCandidate, terms []string) bool {
	names := make([]string, 0, len(m.Ingredients)+len(m.Allergens))
	for _, ing := range m.Ingredients {
		names = append(names, ing.Name)
	}
	for _, a := range m.Allergens {
		names = append(names, a.Name)
	}
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		for _, term := range terms {
			if strings.Contains(name, term) || strings.Contains(term, name) {
				return true
			}
		}
	}
	return false
}

// IsPreferredCuisine matches a meal by name keyword or cuisine tag.
func (e *Engine) IsPreferredCuisine(m domain.MealCandidate) bool {
	name := strings.ToLower(m.NameKey)
	for _, kw := range e.tables.CuisineKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return e.hasPreferredCuisineTag(m)
}

// hasPreferredCuisineTag checks the cuisine_type tag only.
func (e *Engine) hasPreferredCuisineTag(m domain.MealCandidate) bool {
	cuisine := strings.ToLower(m.CuisineType)
	for _, tag := range e.tables.CuisineTags {
		if strings.Contains(cuisine, tag) {
			return true
		}
	}
	return false
}

// PrioritizeCuisine puts up to round(len*ratio) preferred-cuisine meals
// first and fills the remainder with other meals, keeping input order
// within each group.
func (e *Engine) PrioritizeCuisine(meals []domain.MealCandidate, ratio float64) []domain.MealCandidate {
	if len(meals) == 0 {
		return meals
	}
	if ratio < 0 || ratio > 1 || math.IsNaN(ratio) {
		ratio = DefaultCuisineRatio
	}

	var preferred, other []domain.MealCandidate
	for _, m := range meals {
		if e.IsPreferredCuisine(m) {
			preferred = append(preferred, m)
		} else {
			other = append(other, m)
		}
	}

	take := min(int(math.Round(float64(len(meals))*ratio)), len(preferred))
	result := make([]domain.MealCandidate, 0, len(meals))
	result = append(result, preferred[:take]...)
	rest := min(len(meals)-len(result), len(other))
	result = append(result, other[:rest]...)

	if len(result) == 0 {
		return meals
	}
	return result
}

// EnsureMealDiversity reorders the pool so meals already selected fewer than
// maxRepeats times come first. Nothing is dropped.
func (e *Engine) EnsureMealDiversity(selected, pool []domain.MealCandidate, maxRepeats int) []domain.MealCandidate {
	if maxRepeats <= 0 {
		maxRepeats = DefaultMaxRepeats
	}
	counts := make(map[string]int, len(selected))
	for _, m := range selected {
		counts[m.ID]++
	}

	under := make([]domain.MealCandidate, 0, len(pool))
	var over []domain.MealCandidate
	for _, m := range pool {
		if counts[m.ID] < maxRepeats {
			under = append(under, m)
		} else {
			over = append(over, m)
		}
	}
	return append(under, over...)
}

// ScoreAndRankMeals scores each candidate against a slot's calorie and
// protein target and sorts descending. Ties keep pool order. mealType is
// carried for callers; scoring is the same for every slot.
func (e *Engine) ScoreAndRankMeals(pool []domain.MealCandidate, targetCalories, targetProtein float64, mealType domain.MealType, goal domain.Goal) []domain.RankedMeal {
	goal = domain.ParseGoal(string(goal))
	ranked := make([]domain.RankedMeal, 0, len(pool))
	for _, m := range pool {
		ranked = append(ranked, domain.RankedMeal{
			Meal:  m,
			Score: round2(e.mealScore(m, targetCalories, targetProtein, goal)),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func (e *Engine) mealScore(m domain.MealCandidate, targetCalories, targetProtein float64, goal domain.Goal) float64 {
	calories := m.TotalMacros.Calories
	score := 0.0

	if targetCalories > 0 {
		score += math.Max(0, caloriePoints*(1-math.Abs(calories-targetCalories)/targetCalories))
	}
	if targetProtein > 0 {
		deviation := math.Abs(m.TotalMacros.Protein/targetProtein - 1)
		switch {
		case deviation <= proteinTightBand:
			score += 10
		case deviation <= proteinLooseBand:
			score += 5
		}
	}
	if targetCalories > 0 {
		switch goal {
		case domain.GoalCut:
			if calories < targetCalories*cutCalorieCeiling {
				score += goalBonus
			}
		case domain.GoalMass:
			if calories > targetCalories*massCalorieFloor {
				score += goalBonus
			}
		}
	}
	if e.hasPreferredCuisineTag(m) {
		score += cuisineBonus
	}
	return score
}

// SelectOptimalMeals filters the pool, pushes overused meals back when
// earlier selections exist, then ranks against the slot target. The caller
// takes the head of the result.
func (e *Engine) SelectOptimalMeals(
	pool []domain.MealCandidate,
	targetCalories, targetProtein float64,
	mealType domain.MealType,
	goal domain.Goal,
	prefs domain.MealPreferences,
	exclude []string,
	selected []domain.MealCandidate,
) []domain.RankedMeal {
	candidates := e.FilterMealsByPreferences(pool, prefs, exclude)
	if len(selected) > 0 {
		candidates = e.EnsureMealDiversity(selected, candidates, DefaultMaxRepeats)
	}
	return e.ScoreAndRankMeals(candidates, targetCalories, targetProtein, mealType, goal)
}

// PickMeal returns the best ranked meal still under maxRepeats selections,
// or the overall best when every candidate has hit the limit.
func PickMeal(ranked []domain.RankedMeal, selected []domain.MealCandidate, maxRepeats int) (domain.MealCandidate, bool) {
	if len(ranked) == 0 {
		return domain.MealCandidate{}, false
	}
	if maxRepeats <= 0 {
		maxRepeats = DefaultMaxRepeats
	}
	counts := make(map[string]int, len(selected))
	for _, m := range selected {
		counts[m.ID]++
	}
	for _, r := range ranked {
		if counts[r.Meal.ID] < maxRepeats {
			return r.Meal, true
		}
	}
	return ranked[0].Meal, true
}
