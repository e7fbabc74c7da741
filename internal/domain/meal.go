package domain

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnacks    MealType = "snacks"
)

type Ingredient struct {
	Name string `json:"name"`
}

type Allergen struct {
	Name string `json:"name"`
}

type MealMacros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

type MealCandidate struct {
	ID          string       `json:"id"`
	NameKey     string       `json:"name_key"`
	CuisineType string       `json:"cuisine_type"`
	Ingredients []Ingredient `json:"ingredients"`
	Allergens   []Allergen   `json:"allergens"`
	TotalMacros MealMacros   `json:"total_macros"`
}

// MealPreferences are the user-declared constraints applied to a meal pool.
type MealPreferences struct {
	Goal               Goal          `json:"goal,omitempty"`
	ActivityLevel      ActivityLevel `json:"activity_level,omitempty"`
	Allergies          []string      `json:"allergies,omitempty"`
	ExcludeIngredients []string      `json:"exclude_ingredients,omitempty"`
}

// MealBudget is a day's calorie budget split by meal type.
type MealBudget struct {
	Breakfast float64 `json:"breakfast"`
	Lunch     float64 `json:"lunch"`
	Dinner    float64 `json:"dinner"`
	Snacks    float64 `json:"snacks"`
}

func (b MealBudget) For(t MealType) (float64, bool) {
	switch t {
	case MealBreakfast:
		return b.Breakfast, true
	case MealLunch:
		return b.Lunch, true
	case MealDinner:
		return b.Dinner, true
	case MealSnacks:
		return b.Snacks, true
	}
	return 0, false
}

func (b MealBudget) Total() float64 {
	return b.Breakfast + b.Lunch + b.Dinner + b.Snacks
}

// MealTime is a named slot on the daily schedule, formatted HH:MM.
type MealTime struct {
	Slot string `json:"slot"`
	Time string `json:"time"`
}

type MacroTargets struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

type MealPlanSlot struct {
	Slot           string         `json:"slot"`
	MealType       MealType       `json:"meal_type"`
	TargetCalories float64        `json:"target_calories"`
	TargetProtein  float64        `json:"target_protein"`
	ScheduledTime  string         `json:"scheduled_time"`
	AssignedMeal   *MealCandidate `json:"meal,omitempty"`
}

type RankedMeal struct {
	Meal  MealCandidate `json:"meal"`
	Score float64       `json:"score"`
}
