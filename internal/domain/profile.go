package domain

import "strings"

type Goal string

const (
	GoalMass      Goal = "mass"
	GoalCut       Goal = "cut"
	GoalMaintain  Goal = "maintain"
	GoalEndurance Goal = "endurance"
)

// ParseGoal maps free-form input onto a known goal. Unknown values become maintain.
func ParseGoal(s string) Goal {
	switch g := Goal(strings.ToLower(strings.TrimSpace(s))); g {
	case GoalMass, GoalCut, GoalMaintain, GoalEndurance:
		return g
	}
	return GoalMaintain
}

type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "low"
	ActivityModerate ActivityLevel = "moderate"
	ActivityHigh     ActivityLevel = "high"
	ActivityVeryHigh ActivityLevel = "very_high"
)

// ParseActivityLevel maps free-form input onto a known level. Unknown values become moderate.
func ParseActivityLevel(s string) ActivityLevel {
	switch a := ActivityLevel(strings.ToLower(strings.TrimSpace(s))); a {
	case ActivityLow, ActivityModerate, ActivityHigh, ActivityVeryHigh:
		return a
	}
	return ActivityModerate
}

// IsIntense reports whether the level gets the high-activity adjustments.
func (a ActivityLevel) IsIntense() bool {
	return a == ActivityHigh || a == ActivityVeryHigh
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func ParseGender(s string) Gender {
	switch g := Gender(strings.ToLower(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale:
		return g
	}
	return GenderOther
}

type UserProfile struct {
	UserID        string        `json:"user_id,omitempty"`
	Goal          Goal          `json:"goal"`
	ActivityLevel ActivityLevel `json:"activity_level"`
	Age           int           `json:"age"`
	Gender        Gender        `json:"gender"`
	Weight        float64       `json:"weight"`
	Height        float64       `json:"height"`
	Diseases      []string      `json:"diseases,omitempty"`
	Medications   []string      `json:"medications,omitempty"`
	Allergies     []string      `json:"allergies,omitempty"`
}

// Normalize returns a copy with every enum resolved to a known value.
// Numeric fields are left as supplied.
func (p UserProfile) Normalize() UserProfile {
	out := p
	out.Goal = ParseGoal(string(p.Goal))
	out.ActivityLevel = ParseActivityLevel(string(p.ActivityLevel))
	out.Gender = ParseGender(string(p.Gender))
	out.Diseases = cleanStrings(p.Diseases)
	out.Medications = cleanStrings(p.Medications)
	out.Allergies = cleanStrings(p.Allergies)
	return out
}

// Summary is the subset of the profile echoed back in responses.
func (p UserProfile) Summary() map[string]any {
	return map[string]any{
		"goal":           p.Goal,
		"activity_level": p.ActivityLevel,
		"age":            p.Age,
		"gender":         p.Gender,
	}
}

type NutritionalNeeds struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatsG    float64 `json:"fats_g"`
	// CarbsClamped is set when protein and fat targets exceeded the calorie budget.
	CarbsClamped bool `json:"carbs_clamped,omitempty"`
}

func cleanStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
