package domain

type MealPlanRequest struct {
	UserID             string            `json:"user_id"`
	Date               string            `json:"date"`
	TargetCalories     float64           `json:"target_calories"`
	TargetProtein      float64           `json:"target_protein"`
	TargetCarbs        float64           `json:"target_carbs"`
	TargetFats         float64           `json:"target_fats"`
	Preferences        *MealPreferences  `json:"preferences,omitempty"`
	CuisineTypes       []string          `json:"cuisine_types,omitempty"`
	ExcludeIngredients []string          `json:"exclude_ingredients,omitempty"`
	MealTimes          map[string]string `json:"meal_times,omitempty"`
}

// BaseMealPlan is the plan skeleton and candidate pool returned by the backend.
type BaseMealPlan struct {
	ID            string          `json:"id"`
	Meals         []MealPlanSlot  `json:"meals"`
	Candidates    []MealCandidate `json:"candidates"`
	TotalCalories float64         `json:"total_calories"`
	TotalProtein  float64         `json:"total_protein"`
	TotalCarbs    float64         `json:"total_carbs"`
	TotalFats     float64         `json:"total_fats"`
}

type MealPlanOptimization struct {
	MealDistribution   MealBudget `json:"meal_distribution"`
	AlgorithmVersion   string     `json:"algorithm_version"`
	Enhanced           bool       `json:"enhanced"`
	DiversityOptimized bool       `json:"diversity_optimized"`
	AllergiesChecked   bool       `json:"allergies_checked"`
	CuisinePrioritized bool       `json:"cuisine_prioritized"`
}

type MealPlanResponse struct {
	MealPlanID         string               `json:"meal_plan_id"`
	Date               string               `json:"date"`
	Meals              []MealPlanSlot       `json:"meals"`
	TotalCalories      float64              `json:"total_calories"`
	TotalProtein       float64              `json:"total_protein"`
	TotalCarbs         float64              `json:"total_carbs"`
	TotalFats          float64              `json:"total_fats"`
	GeneratedAt        string               `json:"generated_at"`
	PreferencesApplied MealPreferences      `json:"preferences_applied"`
	Optimization       MealPlanOptimization `json:"optimization"`
}

type DistributionRequest struct {
	TotalCalories float64       `json:"total_calories"`
	TotalProtein  float64       `json:"total_protein,omitempty"`
	Goal          Goal          `json:"goal"`
	ActivityLevel ActivityLevel `json:"activity_level"`
}

type DistributionResponse struct {
	Distribution MealBudget     `json:"distribution"`
	MealTimes    []MealTime     `json:"meal_times"`
	Slots        []MealPlanSlot `json:"slots"`
}
