package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
	"github.com/actuallystonmai/nutrition-recommender/internal/model"
	"github.com/actuallystonmai/nutrition-recommender/internal/observability"
)

const (
	algorithmVersion     = "1.1"
	preferredCuisineType = "serbian"
	dateLayout           = "2006-01-02"
)

// GenerateMealPlan turns the backend's base plan into an optimised one:
// allergy filtering, cuisine prioritisation, per-slot selection without
// repeats, and the goal's meal schedule.
func (s *Service) GenerateMealPlan(ctx context.Context, req domain.MealPlanRequest) (resp *domain.MealPlanResponse, err error) {
	defer func() { observability.RecordMealPlan(err) }()

	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrInvalidRequest)
	}
	if req.Date == "" {
		req.Date = s.now().UTC().Format(dateLayout)
	} else if _, perr := time.Parse(dateLayout, req.Date); perr != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidRequest)
	}

	profile, base, err := s.loadMealPlanInputs(ctx, req)
	if err != nil {
		return nil, err
	}

	prefs := mergePreferences(req.Preferences, profile)
	goal := domain.ParseGoal(string(prefs.Goal))
	activity := domain.ParseActivityLevel(string(prefs.ActivityLevel))
	prefs.Goal, prefs.ActivityLevel = goal, activity

	targets := domain.MealMacros{
		Calories: req.TargetCalories,
		Protein:  req.TargetProtein,
		Carbs:    req.TargetCarbs,
		Fats:     req.TargetFats,
	}
	if profile != nil {
		targets = fillTargets(targets, s.engine.ComputeNutritionalNeeds(*profile))
	}
	if targets.Calories <= 0 {
		return nil, fmt.Errorf("%w: target_calories must be positive", domain.ErrInvalidRequest)
	}

	distribution := s.engine.DistributeMealCalories(targets.Calories, goal, activity)
	schedule := s.schedule(goal, activity, req.MealTimes)

	pool := base.Candidates
	if len(pool) == 0 {
		pool = assignedMeals(base.Meals)
	}
	pool = s.engine.FilterMealsByPreferences(pool, prefs, req.ExcludeIngredients)
	cuisinePrioritized := wantsCuisine(req.CuisineTypes, preferredCuisineType)
	if cuisinePrioritized {
		pool = s.engine.PrioritizeCuisine(pool, model.DefaultCuisineRatio)
	}

	slots := base.Meals
	if len(slots) == 0 {
		slots = s.engine.PlanDay(targets.Calories, targets.Protein, goal, activity)
	}
	meals := s.fillSlots(slots, pool, distribution, targets, goal, prefs, req.ExcludeIngredients, schedule)

	planID := base.ID
	if planID == "" {
		planID = uuid.NewString()
	}
	resp = &domain.MealPlanResponse{
		MealPlanID:         planID,
		Date:               req.Date,
		Meals:              meals,
		TotalCalories:      firstPositive(base.TotalCalories, targets.Calories),
		TotalProtein:       firstPositive(base.TotalProtein, targets.Protein),
		TotalCarbs:         firstPositive(base.TotalCarbs, targets.Carbs),
		TotalFats:          firstPositive(base.TotalFats, targets.Fats),
		GeneratedAt:        s.timestamp(),
		PreferencesApplied: prefs,
		Optimization: domain.MealPlanOptimization{
			MealDistribution:   distribution,
			AlgorithmVersion:   algorithmVersion,
			Enhanced:           true,
			DiversityOptimized: true,
			AllergiesChecked:   len(req.ExcludeIngredients) > 0 || len(prefs.Allergies) > 0,
			CuisinePrioritized: cuisinePrioritized,
		},
	}

	s.log.Info("generated meal plan",
		zap.String("user_id", req.UserID),
		zap.String("meal_plan_id", planID),
		zap.Int("slots", len(meals)),
		zap.Int("pool", len(pool)),
	)
	return resp, nil
}

// loadMealPlanInputs fetches the stored profile and the base plan
// concurrently. A missing or unreadable profile is not an error.
func (s *Service) loadMealPlanInputs(ctx context.Context, req domain.MealPlanRequest) (*domain.UserProfile, domain.BaseMealPlan, error) {
	var (
		profile *domain.UserProfile
		base    domain.BaseMealPlan
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profiles.GetHealthProfile(gctx, req.UserID)
		switch {
		case err == nil:
			profile = p
		case errors.Is(err, domain.ErrProfileNotFound):
		default:
			s.log.Warn("health profile lookup failed", zap.String("user_id", req.UserID), zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		b, err := s.backend.GenerateBaseMealPlan(gctx, req)
		if err != nil {
			return fmt.Errorf("fetch base meal plan for user %s: %w", req.UserID, err)
		}
		base = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, domain.BaseMealPlan{}, err
	}
	return profile, base, nil
}

func (s *Service) fillSlots(
	slots []domain.MealPlanSlot,
	pool []domain.MealCandidate,
	distribution domain.MealBudget,
	targets domain.MealMacros,
	goal domain.Goal,
	prefs domain.MealPreferences,
	exclude []string,
	schedule map[string]string,
) []domain.MealPlanSlot {
	perType := make(map[domain.MealType]int)
	for i := range slots {
		perType[slotType(slots[i])]++
	}

	out := make([]domain.MealPlanSlot, 0, len(slots))
	var selected []domain.MealCandidate
	for _, slot := range slots {
		mealType := slotType(slot)
		slot.MealType = mealType
		if slot.Slot == "" {
			slot.Slot = string(mealType)
		}

		calories, ok := distribution.For(mealType)
		if !ok {
			calories = targets.Calories * 0.25
		}
		calories /= float64(perType[mealType])
		slot.TargetCalories = calories
		slot.TargetProtein = targets.Protein * calories / targets.Calories

		ranked := s.engine.SelectOptimalMeals(pool, calories, slot.TargetProtein, mealType, goal, prefs, exclude, selected)
		if m, found := model.PickMeal(ranked, selected, model.DefaultMaxRepeats); found {
			slot.AssignedMeal = &m
			selected = append(selected, m)
		} else {
			slot.AssignedMeal = nil
		}

		if t, ok := schedule[slot.Slot]; ok {
			slot.ScheduledTime = t
		} else if t, ok := schedule[string(mealType)]; ok {
			slot.ScheduledTime = t
		}
		out = append(out, slot)
	}
	return out
}

// schedule maps slot names to HH:MM, request overrides winning.
func (s *Service) schedule(goal domain.Goal, activity domain.ActivityLevel, overrides map[string]string) map[string]string {
	out := make(map[string]string)
	for _, mt := range s.engine.GetMealTimes(goal, activity) {
		out[mt.Slot] = mt.Time
	}
	for slot, clock := range overrides {
		if _, err := time.Parse("15:04", clock); err == nil {
			out[strings.ToLower(strings.TrimSpace(slot))] = clock
		}
	}
	return out
}

func slotType(slot domain.MealPlanSlot) domain.MealType {
	switch slot.MealType {
	case domain.MealBreakfast, domain.MealLunch, domain.MealDinner, domain.MealSnacks:
		return slot.MealType
	case "snack":
		return domain.MealSnacks
	}
	return model.SlotMealType(slot.Slot)
}

func assignedMeals(slots []domain.MealPlanSlot) []domain.MealCandidate {
	var out []domain.MealCandidate
	seen := make(map[string]struct{})
	for _, s := range slots {
		if s.AssignedMeal == nil {
			continue
		}
		if _, ok := seen[s.AssignedMeal.ID]; ok {
			continue
		}
		seen[s.AssignedMeal.ID] = struct{}{}
		out = append(out, *s.AssignedMeal)
	}
	return out
}

// mergePreferences layers request preferences over the stored profile.
// Allergies are the union of both.
func mergePreferences(req *domain.MealPreferences, profile *domain.UserProfile) domain.MealPreferences {
	var prefs domain.MealPreferences
	if req != nil {
		prefs = *req
		prefs.Allergies = append([]string(nil), req.Allergies...)
	}
	if profile == nil {
		return prefs
	}
	if prefs.Goal == "" {
		prefs.Goal = profile.Goal
	}
	if prefs.ActivityLevel == "" {
		prefs.ActivityLevel = profile.ActivityLevel
	}
	have := make(map[string]struct{}, len(prefs.Allergies))
	for _, a := range prefs.Allergies {
		have[strings.ToLower(a)] = struct{}{}
	}
	for _, a := range profile.Allergies {
		if _, ok := have[strings.ToLower(a)]; !ok {
			prefs.Allergies = append(prefs.Allergies, a)
		}
	}
	return prefs
}

func fillTargets(t domain.MealMacros, needs domain.NutritionalNeeds) domain.MealMacros {
	t.Calories = firstPositive(t.Calories, needs.Calories)
	t.Protein = firstPositive(t.Protein, needs.ProteinG)
	t.Carbs = firstPositive(t.Carbs, needs.CarbsG)
	t.Fats = firstPositive(t.Fats, needs.FatsG)
	return t
}

func wantsCuisine(types []string, want string) bool {
	for _, c := range types {
		if strings.EqualFold(strings.TrimSpace(c), want) {
			return true
		}
	}
	return false
}

func firstPositive(vals ...float64) float64 {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
