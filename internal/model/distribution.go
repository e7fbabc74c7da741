package model

import (
	"strings"

	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
)

const (
	intenseLunchFactor  = 1.1
	intenseSnacksFactor = 0.9
	fallbackMealRatio   = 0.25
)

// DistributeMealCalories splits a day's calories across meal types. High
// activity shifts share from snacks to lunch; the adjusted ratios are
// renormalised so the budget always sums to totalCalories.
func (e *Engine) DistributeMealCalories(totalCalories float64, goal domain.Goal, activity domain.ActivityLevel) domain.MealBudget {
	// mealRatios returns a value copy; the shared table is never touched.
	r := e.tables.mealRatios(domain.ParseGoal(string(goal)))
	if domain.ParseActivityLevel(string(activity)).IsIntense() {
		r.Lunch *= intenseLunchFactor
		r.Snacks *= intenseSnacksFactor
	}

	sum := r.sum()
	if sum <= 0 || totalCalories <= 0 {
		return domain.MealBudget{}
	}
	b := domain.MealBudget{
		Breakfast: totalCalories * r.Breakfast / sum,
		Lunch:     totalCalories * r.Lunch / sum,
		Dinner:    totalCalories * r.Dinner / sum,
	}
	// Snacks take the remainder so rounding never leaks out of the total.
	b.Snacks = totalCalories - b.Breakfast - b.Lunch - b.Dinner
	return b
}

// MacroDistribution derives protein, carb and fat targets for one meal from
// the day's totals, weighting by the meal's role in the day.
func (e *Engine) MacroDistribution(mealCalories float64, needs domain.NutritionalNeeds, mealType domain.MealType, goal domain.Goal) domain.MacroTargets {
	ratio := fallbackMealRatio
	if needs.Calories > 0 {
		ratio = mealCalories / needs.Calories
	}

	var p, c, f float64
	switch mealType {
	case domain.MealBreakfast:
		p, c, f = 0.9, 1.1, 1.0
	case domain.MealLunch:
		p, c, f = 1.15, 1.05, 0.95
	case domain.MealDinner:
		p, c, f = 1.0, 0.85, 1.1
	default:
		p, c, f = 0.9, 1.0, 0.9
		if domain.ParseGoal(string(goal)) == domain.GoalMass {
			p = 1.1
		}
	}
	return domain.MacroTargets{
		Protein: needs.ProteinG * ratio * p,
		Carbs:   needs.CarbsG * ratio * c,
		Fats:    needs.FatsG * ratio * f,
	}
}

// GetMealTimes returns the day's schedule in time order. Mass adds a late
// snack; cut moves dinner earlier. The schedule does not vary with activity.
func (e *Engine) GetMealTimes(goal domain.Goal, _ domain.ActivityLevel) []domain.MealTime {
	bySlot := make(map[string]string, len(e.tables.MealTimes)+1)
	for _, mt := range e.tables.MealTimes {
		bySlot[mt.Slot] = mt.Time
	}

	switch domain.ParseGoal(string(goal)) {
	case domain.GoalMass:
		bySlot["snack3"] = "21:30"
	case domain.GoalCut:
		bySlot["dinner"] = "19:00"
	}
	return sortedMealTimes(bySlot)
}

// SlotMealType maps a schedule slot name onto its meal type.
func SlotMealType(slot string) domain.MealType {
	s := strings.ToLower(slot)
	switch {
	case strings.HasPrefix(s, "snack"):
		return domain.MealSnacks
	case s == string(domain.MealBreakfast), s == string(domain.MealLunch), s == string(domain.MealDinner):
		return domain.MealType(s)
	}
	return domain.MealSnacks
}

// PlanDay lays out the day's slots with calorie and protein targets. The
// snack budget is split evenly across snack slots, and slot calories sum to
// totalCalories.
func (e *Engine) PlanDay(totalCalories, totalProtein float64, goal domain.Goal, activity domain.ActivityLevel) []domain.MealPlanSlot {
	budget := e.DistributeMealCalories(totalCalories, goal, activity)
	times := e.GetMealTimes(goal, activity)

	snackSlots := 0
	for _, mt := range times {
		if SlotMealType(mt.Slot) == domain.MealSnacks {
			snackSlots++
		}
	}

	slots := make([]domain.MealPlanSlot, 0, len(times)+4)
	covered := make(map[domain.MealType]bool, 4)
	for _, mt := range times {
		mealType := SlotMealType(mt.Slot)
		covered[mealType] = true
		calories, _ := budget.For(mealType)
		if mealType == domain.MealSnacks && snackSlots > 0 {
			calories /= float64(snackSlots)
		}
		protein := 0.0
		if totalCalories > 0 {
			protein = totalProtein * calories / totalCalories
		}
		slots = append(slots, domain.MealPlanSlot{
			Slot:           mt.Slot,
			MealType:       mealType,
			TargetCalories: calories,
			TargetProtein:  protein,
			ScheduledTime:  mt.Time,
		})
	}

	// A schedule override may drop a meal type; its budget still needs a slot.
	for _, mealType := range []domain.MealType{domain.MealBreakfast, domain.MealLunch, domain.MealDinner, domain.MealSnacks} {
		calories, _ := budget.For(mealType)
		if covered[mealType] || calories <= 0 {
			continue
		}
		protein := 0.0
		if totalCalories > 0 {
			protein = totalProtein * calories / totalCalories
		}
		slots = append(slots, domain.MealPlanSlot{
			Slot:           string(mealType),
			MealType:       mealType,
			TargetCalories: calories,
			TargetProtein:  protein,
		})
	}
	return slots
}
