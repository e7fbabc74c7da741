package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
)

func meal(id string, calories, protein float64, ingredients ...string) domain.MealCandidate {
	m := domain.MealCandidate{
		ID:          id,
		NameKey:     id,
		TotalMacros: domain.MealMacros{Calories: calories, Protein: protein},
	}
	for _, name := range ingredients {
		m.Ingredients = append(m.Ingredients, domain.Ingredient{Name: name})
	}
	return m
}

func ids(meals []domain.MealCandidate) []string {
	out := make([]string, 0, len(meals))
	for _, m := range meals {
		out = append(out, m.ID)
	}
	return out
}

func TestFilterMealsByPreferencesRemovesAllergens(t *testing.T) {
	e := NewDefaultEngine()
	meals := []domain.MealCandidate{
		{
			ID:          "1",
			Ingredients: []domain.Ingredient{{Name: "peanut"}},
			Allergens:   []domain.Allergen{{Name: "peanut"}},
		},
		{
			ID:          "2",
			Ingredients: []domain.Ingredient{{Name: "fish"}},
		},
	}

	got := e.FilterMealsByPreferences(meals, domain.MealPreferences{Allergies: []string{"peanut"}}, nil)

	assert.Equal(t, []string{"2"}, ids(got))
}

func TestFilterMealsByPreferencesMatchesBothDirections(t *testing.T) {
	e := NewDefaultEngine()
	meals := []domain.MealCandidate{
		meal("a", 500, 30, "Roasted Peanuts"),
		meal("b", 500, 30, "milk"),
		meal("c", 500, 30, "rice"),
	}

	got := e.FilterMealsByPreferences(meals,
		domain.MealPreferences{ExcludeIngredients: []string{"PEANUT"}},
		[]string{"whole milk"},
	)

	assert.Equal(t, []string{"c"}, ids(got))
}

func TestFilterMealsByPreferencesFailsOpen(t *testing.T) {
	e := NewDefaultEngine()
	meals := []domain.MealCandidate{meal("a", 500, 30, "peanut"), meal("b", 400, 20, "peanut butter")}

	got := e.FilterMealsByPreferences(meals, domain.MealPreferences{Allergies: []string{"peanut"}}, nil)

	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestEnsureMealDiversity(t *testing.T) {
	e := NewDefaultEngine()
	selected := []domain.MealCandidate{{ID: "meal-1"}, {ID: "meal-1"}}
	pool := []domain.MealCandidate{{ID: "meal-1"}, {ID: "meal-2"}, {ID: "meal-3"}}

	got := e.EnsureMealDiversity(selected, pool, 1)

	assert.Equal(t, []string{"meal-2", "meal-3", "meal-1"}, ids(got))
	assert.Equal(t, []string{"meal-1", "meal-2", "meal-3"}, ids(pool), "input pool must not be reordered")
}

func TestPrioritizeCuisine(t *testing.T) {
	e := NewDefaultEngine()
	pool := []domain.MealCandidate{
		{ID: "pasta", NameKey: "pasta_carbonara"},
		{ID: "cevapi", NameKey: "cevapi_with_kajmak"},
		{ID: "salad", NameKey: "greek_salad"},
		{ID: "sarma", NameKey: "sarma"},
		{ID: "stew", NameKey: "bean_stew", CuisineType: "Balkan"},
	}

	got := e.PrioritizeCuisine(pool, 0.6)

	// round(5*0.6) = 3 preferred first, then the rest.
	assert.Equal(t, []string{"cevapi", "sarma", "stew", "pasta", "salad"}, ids(got))
}

func TestPrioritizeCuisineCapsPreferredShare(t *testing.T) {
	e := NewDefaultEngine()
	pool := []domain.MealCandidate{
		{ID: "1", NameKey: "burek"},
		{ID: "2", NameKey: "pljeskavica"},
		{ID: "3", NameKey: "musaka"},
		{ID: "4", NameKey: "omelette"},
	}

	got := e.PrioritizeCuisine(pool, 0.5)

	assert.Equal(t, []string{"1", "2", "4"}, ids(got))

	// Out-of-range ratios fall back to 0.6: round(4*0.6) = 2 preferred.
	assert.Equal(t, []string{"1", "2", "4"}, ids(e.PrioritizeCuisine(pool, 7)))
	assert.Len(t, e.PrioritizeCuisine(pool, -1), 3)
}

func TestPrioritizeCuisineEmpty(t *testing.T) {
	e := NewDefaultEngine()
	assert.Empty(t, e.PrioritizeCuisine(nil, 0.6))
}

func TestScoreAndRankMeals(t *testing.T) {
	e := NewDefaultEngine()
	pool := []domain.MealCandidate{
		{ID: "1", NameKey: "cevapi", CuisineType: "serbian", TotalMacros: domain.MealMacros{Calories: 600, Protein: 40}},
		{ID: "2", NameKey: "pasta", TotalMacros: domain.MealMacros{Calories: 900, Protein: 15}},
		{ID: "3", NameKey: "fish", TotalMacros: domain.MealMacros{Calories: 540, Protein: 30}},
	}

	ranked := e.ScoreAndRankMeals(pool, 600, 40, domain.MealLunch, domain.GoalMaintain)

	require.Len(t, ranked, 3)
	assert.Equal(t, "1", ranked[0].Meal.ID)
	assert.InDelta(t, 23, ranked[0].Score, 1e-9)
	assert.Equal(t, "3", ranked[1].Meal.ID)
	assert.InDelta(t, 14, ranked[1].Score, 1e-9)
	assert.Equal(t, "2", ranked[2].Meal.ID)
	assert.InDelta(t, 5, ranked[2].Score, 1e-9)
}

func TestScoreAndRankMealsCuisineBonusNeedsTag(t *testing.T) {
	e := NewDefaultEngine()
	untagged := domain.MealCandidate{ID: "name-only", NameKey: "sarma", TotalMacros: domain.MealMacros{Calories: 600}}
	tagged := domain.MealCandidate{ID: "tagged", NameKey: "stew", CuisineType: "Balkan", TotalMacros: domain.MealMacros{Calories: 600}}

	ranked := e.ScoreAndRankMeals([]domain.MealCandidate{untagged, tagged}, 600, 0, domain.MealLunch, domain.GoalMaintain)

	require.Len(t, ranked, 2)
	assert.Equal(t, "tagged", ranked[0].Meal.ID)
	assert.InDelta(t, 13, ranked[0].Score, 1e-9)
	assert.InDelta(t, 10, ranked[1].Score, 1e-9)
	assert.True(t, e.IsPreferredCuisine(untagged))
}

func TestScoreAndRankMealsGoalBonus(t *testing.T) {
	e := NewDefaultEngine()
	light := meal("light", 500, 0)
	heavy := meal("heavy", 700, 0)

	cut := e.ScoreAndRankMeals([]domain.MealCandidate{heavy, light}, 600, 0, domain.MealDinner, domain.GoalCut)
	assert.Equal(t, "light", cut[0].Meal.ID)

	mass := e.ScoreAndRankMeals([]domain.MealCandidate{light, heavy}, 600, 0, domain.MealDinner, domain.GoalMass)
	assert.Equal(t, "heavy", mass[0].Meal.ID)
}

func TestScoreAndRankMealsKeepsPoolOrderOnTies(t *testing.T) {
	e := NewDefaultEngine()
	pool := []domain.MealCandidate{meal("x", 500, 30), meal("y", 500, 30), meal("z", 500, 30)}

	ranked := e.ScoreAndRankMeals(pool, 500, 30, domain.MealBreakfast, domain.GoalMaintain)

	got := make([]string, 0, len(ranked))
	for _, r := range ranked {
		got = append(got, r.Meal.ID)
	}
	assert.Equal(t, []string{"x", "y", "z"}, got)
}

func TestSelectOptimalMeals(t *testing.T) {
	e := NewDefaultEngine()
	pool := []domain.MealCandidate{
		meal("peanut-bowl", 600, 40, "peanut"),
		meal("chicken", 580, 38, "chicken"),
		meal("oats", 300, 10, "oats"),
	}

	ranked := e.SelectOptimalMeals(pool, 600, 40, domain.MealLunch, domain.GoalMaintain,
		domain.MealPreferences{Allergies: []string{"peanut"}}, nil, nil)

	require.Len(t, ranked, 2)
	assert.Equal(t, "chicken", ranked[0].Meal.ID)
}

func TestPickMeal(t *testing.T) {
	ranked := []domain.RankedMeal{
		{Meal: domain.MealCandidate{ID: "a"}, Score: 20},
		{Meal: domain.MealCandidate{ID: "b"}, Score: 15},
	}

	m, ok := PickMeal(ranked, nil, 1)
	require.True(t, ok)
	assert.Equal(t, "a", m.ID)

	m, _ = PickMeal(ranked, []domain.MealCandidate{{ID: "a"}}, 1)
	assert.Equal(t, "b", m.ID)

	m, _ = PickMeal(ranked, []domain.MealCandidate{{ID: "a"}, {ID: "b"}}, 1)
	assert.Equal(t, "a", m.ID, "falls back to the best meal once everything repeats")

	_, ok = PickMeal(nil, nil, 1)
	assert.False(t, ok)
}
