package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
)

func candidate(id, nameKey string, calories, protein float64, ingredients ...string) domain.MealCandidate {
	m := domain.MealCandidate{
		ID:          id,
		NameKey:     nameKey,
		TotalMacros: domain.MealMacros{Calories: calories, Protein: protein},
	}
	for _, ing := range ingredients {
		m.Ingredients = append(m.Ingredients, domain.Ingredient{Name: ing})
	}
	return m
}

func basePlan() domain.BaseMealPlan {
	return domain.BaseMealPlan{
		ID: "plan-1",
		Meals: []domain.MealPlanSlot{
			{MealType: domain.MealBreakfast},
			{MealType: domain.MealLunch},
			{MealType: domain.MealDinner},
		},
		Candidates: []domain.MealCandidate{
			candidate("m-peanut", "peanut_bowl", 600, 40, "peanut", "oats"),
			candidate("m-proja", "proja", 500, 25, "cornmeal"),
			candidate("m-cevapi", "cevapi", 700, 45, "beef"),
			candidate("m-salad", "salad", 400, 20, "lettuce"),
		},
	}
}

func TestGenerateMealPlan(t *testing.T) {
	f := newFixture()
	f.backend.plan = basePlan()
	f.profiles.profiles["user-1"] = domain.UserProfile{
		UserID: "user-1", Goal: domain.GoalMaintain, ActivityLevel: domain.ActivityModerate,
		Age: 30, Gender: domain.GenderFemale, Weight: 65, Height: 170,
		Allergies: []string{"peanut"},
	}

	plan, err := f.svc.GenerateMealPlan(context.Background(), domain.MealPlanRequest{
		UserID:         "user-1",
		Date:           "2026-10-18",
		TargetCalories: 2000,
		TargetProtein:  150,
		CuisineTypes:   []string{"Serbian"},
	})

	require.NoError(t, err)
	assert.Equal(t, "plan-1", plan.MealPlanID)
	assert.Equal(t, "2026-10-18", plan.Date)
	require.Len(t, plan.Meals, 3)

	seen := map[string]bool{}
	for _, slot := range plan.Meals {
		require.NotNil(t, slot.AssignedMeal, "slot %s", slot.Slot)
		assert.NotEqual(t, "m-peanut", slot.AssignedMeal.ID)
		assert.False(t, seen[slot.AssignedMeal.ID], "meal %s repeated", slot.AssignedMeal.ID)
		seen[slot.AssignedMeal.ID] = true
	}

	assert.Equal(t, "breakfast", plan.Meals[0].Slot)
	assert.Equal(t, "08:00", plan.Meals[0].ScheduledTime)
	assert.Equal(t, "13:30", plan.Meals[1].ScheduledTime)
	assert.Equal(t, "19:30", plan.Meals[2].ScheduledTime)
	assert.InDelta(t, 500, plan.Meals[0].TargetCalories, 1e-9)
	assert.InDelta(t, 37.5, plan.Meals[0].TargetProtein, 1e-9)

	assert.Equal(t, "1.1", plan.Optimization.AlgorithmVersion)
	assert.True(t, plan.Optimization.AllergiesChecked)
	assert.True(t, plan.Optimization.CuisinePrioritized)
	assert.InDelta(t, 2000, plan.Optimization.MealDistribution.Total(), 1e-6)
	assert.Equal(t, []string{"peanut"}, plan.PreferencesApplied.Allergies)
	assert.Equal(t, 2000.0, plan.TotalCalories)
	assert.Equal(t, "2026-10-17T09:00:00Z", plan.GeneratedAt)

	require.Len(t, f.backend.planReqs, 1)
	assert.Equal(t, "user-1", f.backend.planReqs[0].UserID)
}

func TestGenerateMealPlanBuildsSlotsWhenBaseHasNone(t *testing.T) {
	f := newFixture()
	base := basePlan()
	base.ID = ""
	base.Meals = nil
	f.backend.plan = base

	plan, err := f.svc.GenerateMealPlan(context.Background(), domain.MealPlanRequest{
		UserID:             "user-2",
		TargetCalories:     3000,
		TargetProtein:      180,
		Preferences:        &domain.MealPreferences{Goal: domain.GoalMass},
		ExcludeIngredients: []string{"Beef"},
		MealTimes:          map[string]string{"lunch": "12:15", "dinner": "late"},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, plan.MealPlanID)
	assert.Equal(t, "2026-10-17", plan.Date)
	require.Len(t, plan.Meals, 6)

	total := 0.0
	for _, slot := range plan.Meals {
		total += slot.TargetCalories
		require.NotNil(t, slot.AssignedMeal)
		assert.NotEqual(t, "m-cevapi", slot.AssignedMeal.ID)
		if slot.Slot == "lunch" {
			assert.Equal(t, "12:15", slot.ScheduledTime)
		}
		if slot.Slot == "dinner" {
			assert.Equal(t, "19:30", slot.ScheduledTime)
		}
	}
	assert.InDelta(t, 3000, total, 1e-6)
	assert.Equal(t, domain.GoalMass, plan.PreferencesApplied.Goal)
	assert.True(t, plan.Optimization.AllergiesChecked)
	assert.False(t, plan.Optimization.CuisinePrioritized)
}

func TestGenerateMealPlanUsesProfileTargets(t *testing.T) {
	f := newFixture()
	f.backend.plan = basePlan()
	f.profiles.profiles["user-1"] = massRequest("user-1").UserProfile

	plan, err := f.svc.GenerateMealPlan(context.Background(), domain.MealPlanRequest{UserID: "user-1"})

	require.NoError(t, err)
	assert.InDelta(t, 3550.9125, plan.TotalCalories, 1e-6)
	assert.Equal(t, domain.GoalMass, plan.PreferencesApplied.Goal)
}

func TestGenerateMealPlanProfileStoreFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.backend.plan = basePlan()
	f.profiles.err = errors.New("connection refused")

	plan, err := f.svc.GenerateMealPlan(context.Background(), domain.MealPlanRequest{UserID: "u", TargetCalories: 1800})

	require.NoError(t, err)
	assert.Len(t, plan.Meals, 3)
	assert.False(t, plan.Optimization.AllergiesChecked)
}

func TestGenerateMealPlanErrors(t *testing.T) {
	f := newFixture()
	f.backend.plan = basePlan()
	ctx := context.Background()

	_, err := f.svc.GenerateMealPlan(ctx, domain.MealPlanRequest{TargetCalories: 2000})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = f.svc.GenerateMealPlan(ctx, domain.MealPlanRequest{UserID: "u", Date: "18/10/2026", TargetCalories: 2000})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = f.svc.GenerateMealPlan(ctx, domain.MealPlanRequest{UserID: "u"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest, "no targets and no stored profile")

	f.backend.planErr = fmt.Errorf("%w: 502", domain.ErrBackendUnavailable)
	_, err = f.svc.GenerateMealPlan(ctx, domain.MealPlanRequest{UserID: "u", TargetCalories: 2000})
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestMergePreferences(t *testing.T) {
	profile := &domain.UserProfile{Goal: domain.GoalCut, ActivityLevel: domain.ActivityHigh, Allergies: []string{"Milk", "eggs"}}
	req := &domain.MealPreferences{Goal: domain.GoalMass, Allergies: []string{"milk"}}

	got := mergePreferences(req, profile)

	assert.Equal(t, domain.GoalMass, got.Goal)
	assert.Equal(t, domain.ActivityHigh, got.ActivityLevel)
	assert.Equal(t, []string{"milk", "eggs"}, got.Allergies)
	assert.Equal(t, []string{"milk"}, req.Allergies)

	assert.Equal(t, domain.MealPreferences{}, mergePreferences(nil, nil))
}
