package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
)

func TestDistributeMealCaloriesMass(t *testing.T) {
	e := NewDefaultEngine()

	b := e.DistributeMealCalories(2000, domain.GoalMass, domain.ActivityModerate)

	assert.InDelta(t, 500, b.Breakfast, 1e-9)
	assert.InDelta(t, 700, b.Lunch, 1e-9)
	assert.InDelta(t, 500, b.Dinner, 1e-9)
	assert.InDelta(t, 300, b.Snacks, 1e-9)
}

func TestDistributeMealCaloriesHighActivityShiftsToLunch(t *testing.T) {
	e := NewDefaultEngine()

	calm := e.DistributeMealCalories(2000, domain.GoalMaintain, domain.ActivityModerate)
	busy := e.DistributeMealCalories(2000, domain.GoalMaintain, domain.ActivityVeryHigh)

	assert.Greater(t, busy.Lunch, calm.Lunch)
	assert.Less(t, busy.Snacks, calm.Snacks)
	assert.InDelta(t, 2000*0.385/1.02, busy.Lunch, 1e-9)
}

func TestDistributeMealCaloriesSumsToTotal(t *testing.T) {
	e := NewDefaultEngine()
	goals := []domain.Goal{domain.GoalMass, domain.GoalCut, domain.GoalMaintain, domain.GoalEndurance, "unknown"}
	levels := []domain.ActivityLevel{domain.ActivityLow, domain.ActivityModerate, domain.ActivityHigh, domain.ActivityVeryHigh}

	for _, g := range goals {
		for _, a := range levels {
			for _, total := range []float64{1, 1234.56, 2500, 4999.99} {
				b := e.DistributeMealCalories(total, g, a)
				require.InDelta(t, total, b.Total(), 1e-6, "goal=%s activity=%s", g, a)
			}
		}
	}
}

func TestDistributeMealCaloriesIsIdempotent(t *testing.T) {
	e := NewDefaultEngine()

	first := e.DistributeMealCalories(2400, domain.GoalEndurance, domain.ActivityHigh)
	for range 5 {
		assert.Equal(t, first, e.DistributeMealCalories(2400, domain.GoalEndurance, domain.ActivityHigh))
	}
	assert.Equal(t, DefaultTables().MealRatios, e.tables.MealRatios)
}

func TestDistributeMealCaloriesZeroTotal(t *testing.T) {
	e := NewDefaultEngine()
	assert.Equal(t, domain.MealBudget{}, e.DistributeMealCalories(0, domain.GoalCut, domain.ActivityLow))
}

func TestMacroDistribution(t *testing.T) {
	e := NewDefaultEngine()
	needs := domain.NutritionalNeeds{Calories: 2000, ProteinG: 150, CarbsG: 200, FatsG: 70}

	lunch := e.MacroDistribution(700, needs, domain.MealLunch, domain.GoalMaintain)
	assert.InDelta(t, 150*0.35*1.15, lunch.Protein, 1e-9)
	assert.InDelta(t, 200*0.35*1.05, lunch.Carbs, 1e-9)

	snackMass := e.MacroDistribution(300, needs, domain.MealSnacks, domain.GoalMass)
	snackCut := e.MacroDistribution(300, needs, domain.MealSnacks, domain.GoalCut)
	assert.Greater(t, snackMass.Protein, snackCut.Protein)

	fallback := e.MacroDistribution(500, domain.NutritionalNeeds{ProteinG: 100}, domain.MealDinner, domain.GoalMaintain)
	assert.InDelta(t, 25, fallback.Protein, 1e-9)
}

func TestGetMealTimes(t *testing.T) {
	e := NewDefaultEngine()

	maintain := e.GetMealTimes(domain.GoalMaintain, domain.ActivityModerate)
	assert.Equal(t, []domain.MealTime{
		{Slot: "breakfast", Time: "08:00"},
		{Slot: "snack1", Time: "11:00"},
		{Slot: "lunch", Time: "13:30"},
		{Slot: "snack2", Time: "17:00"},
		{Slot: "dinner", Time: "19:30"},
	}, maintain)

	mass := e.GetMealTimes(domain.GoalMass, domain.ActivityHigh)
	require.Len(t, mass, 6)
	assert.Equal(t, domain.MealTime{Slot: "snack3", Time: "21:30"}, mass[5])

	cut := e.GetMealTimes(domain.GoalCut, domain.ActivityLow)
	require.Len(t, cut, 5)
	assert.Equal(t, domain.MealTime{Slot: "dinner", Time: "19:00"}, cut[4])

	// The shared schedule is untouched by the cut adjustment.
	assert.Equal(t, "19:30", e.GetMealTimes(domain.GoalMaintain, "")[4].Time)
}

func TestPlanDay(t *testing.T) {
	e := NewDefaultEngine()

	slots := e.PlanDay(3000, 180, domain.GoalMass, domain.ActivityModerate)

	require.Len(t, slots, 6)
	totalCalories, totalProtein := 0.0, 0.0
	for _, s := range slots {
		totalCalories += s.TargetCalories
		totalProtein += s.TargetProtein
		assert.NotEmpty(t, s.ScheduledTime)
	}
	assert.InDelta(t, 3000, totalCalories, 1e-6)
	assert.InDelta(t, 180, totalProtein, 1e-6)

	assert.Equal(t, domain.MealSnacks, slots[1].MealType)
	assert.InDelta(t, 150, slots[1].TargetCalories, 1e-9)
	assert.Equal(t, domain.MealLunch, slots[2].MealType)
}

func TestPlanDayKeepsBudgetWhenScheduleDropsSlots(t *testing.T) {
	tables := DefaultTables()
	tables.MealTimes = []domain.MealTime{{Slot: "lunch", Time: "12:00"}, {Slot: "dinner", Time: "18:00"}}
	e := NewEngine(tables)

	slots := e.PlanDay(2000, 100, domain.GoalMaintain, domain.ActivityModerate)

	total := 0.0
	for _, s := range slots {
		total += s.TargetCalories
	}
	assert.InDelta(t, 2000, total, 1e-6)
	assert.Len(t, slots, 4)
}
