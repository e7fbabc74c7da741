package model

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
	"gopkg.in/yaml.v3"
)

// MealRatios is the share of daily calories per meal type.
type MealRatios struct {
	Breakfast float64 `yaml:"breakfast"`
	Lunch     float64 `yaml:"lunch"`
	Dinner    float64 `yaml:"dinner"`
	Snacks    float64 `yaml:"snacks"`
}

func (r MealRatios) sum() float64 {
	return r.Breakfast + r.Lunch + r.Dinner + r.Snacks
}

// Tables holds every tunable constant of the engine. Values are never
// mutated after construction; per-call adjustments work on copies.
type Tables struct {
	GoalWeights            map[domain.Goal]map[string]float64
	ActivityMultipliers    map[domain.ActivityLevel]float64
	ActivityFactors        map[domain.ActivityLevel]float64
	GoalCalorieMultipliers map[domain.Goal]float64
	ProteinPerKg           map[domain.Goal]float64
	FatFraction            map[domain.Goal]float64
	MealRatios             map[domain.Goal]MealRatios
	MealTimes              []domain.MealTime
	CuisineKeywords        []string
	CuisineTags            []string
}

// DefaultTables builds a fresh copy of the built-in constants.
func DefaultTables() Tables {
	return Tables{
		GoalWeights: map[domain.Goal]map[string]float64{
			domain.GoalMass: {
				"protein":     0.4,
				"calories":    0.3,
				"creatine":    0.2,
				"pre_workout": 0.1,
			},
			domain.GoalCut: {
				"protein":      0.35,
				"fat_burner":   0.3,
				"low_calories": 0.25,
				"vitamin":      0.1,
			},
			domain.GoalMaintain: {
				"protein":  0.3,
				"balanced": 0.3,
				"vitamin":  0.2,
				"general":  0.2,
			},
			domain.GoalEndurance: {
				"amino":     0.3,
				"carbs":     0.25,
				"hydration": 0.25,
				"protein":   0.2,
			},
		},
		ActivityMultipliers: map[domain.ActivityLevel]float64{
			domain.ActivityLow:      0.8,
			domain.ActivityModerate: 1.0,
			domain.ActivityHigh:     1.2,
			domain.ActivityVeryHigh: 1.4,
		},
		ActivityFactors: map[domain.ActivityLevel]float64{
			domain.ActivityLow:      1.2,
			domain.ActivityModerate: 1.55,
			domain.ActivityHigh:     1.725,
			domain.ActivityVeryHigh: 1.9,
		},
		GoalCalorieMultipliers: map[domain.Goal]float64{
			domain.GoalMass:      1.15,
			domain.GoalCut:       0.80,
			domain.GoalEndurance: 1.05,
			domain.GoalMaintain:  1.0,
		},
		ProteinPerKg: map[domain.Goal]float64{
			domain.GoalMass:      2.2,
			domain.GoalCut:       2.5,
			domain.GoalEndurance: 1.8,
			domain.GoalMaintain:  2.0,
		},
		FatFraction: map[domain.Goal]float64{
			domain.GoalMass:      0.25,
			domain.GoalCut:       0.20,
			domain.GoalEndurance: 0.30,
			domain.GoalMaintain:  0.25,
		},
		MealRatios: map[domain.Goal]MealRatios{
			domain.GoalMass:      {Breakfast: 0.25, Lunch: 0.35, Dinner: 0.25, Snacks: 0.15},
			domain.GoalCut:       {Breakfast: 0.30, Lunch: 0.35, Dinner: 0.25, Snacks: 0.10},
			domain.GoalMaintain:  {Breakfast: 0.25, Lunch: 0.35, Dinner: 0.25, Snacks: 0.15},
			domain.GoalEndurance: {Breakfast: 0.20, Lunch: 0.30, Dinner: 0.25, Snacks: 0.25},
		},
		MealTimes: []domain.MealTime{
			{Slot: "breakfast", Time: "08:00"},
			{Slot: "snack1", Time: "11:00"},
			{Slot: "lunch", Time: "13:30"},
			{Slot: "snack2", Time: "17:00"},
			{Slot: "dinner", Time: "19:30"},
		},
		CuisineKeywords: []string{
			"cevap", "pljeskavica", "burek", "sarma",
			"musaka", "prebranac", "ajvar", "kajmak",
			"gibanica", "proja", "riblja", "pasulj",
		},
		CuisineTags: []string{"serbian", "balkan"},
	}
}

func (t Tables) goalWeights(g domain.Goal) map[string]float64 {
	if w, ok := t.GoalWeights[g]; ok {
		return w
	}
	return t.GoalWeights[domain.GoalMaintain]
}

func (t Tables) activityMultiplier(a domain.ActivityLevel) float64 {
	if m, ok := t.ActivityMultipliers[a]; ok {
		return m
	}
	return 1.0
}

func (t Tables) activityFactor(a domain.ActivityLevel) float64 {
	if f, ok := t.ActivityFactors[a]; ok {
		return f
	}
	return t.ActivityFactors[domain.ActivityModerate]
}

func lookupGoal(m map[domain.Goal]float64, g domain.Goal) float64 {
	if v, ok := m[g]; ok {
		return v
	}
	return m[domain.GoalMaintain]
}

func (t Tables) mealRatios(g domain.Goal) MealRatios {
	if r, ok := t.MealRatios[g]; ok {
		return r
	}
	return t.MealRatios[domain.GoalMaintain]
}

// tablesFile is the on-disk override format. JSON files parse too.
type tablesFile struct {
	GoalWeights            map[string]map[string]float64 `yaml:"goal_weights"`
	ActivityMultipliers    map[string]float64            `yaml:"activity_multipliers"`
	ActivityFactors        map[string]float64            `yaml:"activity_factors"`
	GoalCalorieMultipliers map[string]float64            `yaml:"goal_calorie_multipliers"`
	ProteinPerKg           map[string]float64            `yaml:"protein_per_kg"`
	FatFraction            map[string]float64            `yaml:"fat_fraction"`
	MealRatios             map[string]MealRatios         `yaml:"meal_ratios"`
	MealTimes              map[string]string             `yaml:"meal_times"`
	CuisineKeywords        []string                      `yaml:"preferred_cuisine_keywords"`
	CuisineTags            []string                      `yaml:"preferred_cuisine_tags"`
}

// LoadTables reads an override file on top of the defaults. An empty path
// yields the defaults. On any read or parse failure the defaults are
// returned together with the error so the caller can log it.
func LoadTables(path string) (Tables, error) {
	if path == "" {
		return DefaultTables(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return DefaultTables(), fmt.Errorf("read model tables %s: %w", path, err)
	}
	return ParseTables(raw)
}

// ParseTables merges a YAML or JSON document onto the defaults. Entries with
// unknown keys or out-of-range values are skipped.
func ParseTables(raw []byte) (Tables, error) {
	t := DefaultTables()
	var f tablesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return t, fmt.Errorf("parse model tables: %w", err)
	}

	for name, weights := range f.GoalWeights {
		g, ok := knownGoal(name)
		if !ok || len(weights) == 0 {
			continue
		}
		clean := make(map[string]float64, len(weights))
		for k, v := range weights {
			if v >= 0 {
				clean[strings.ToLower(k)] = v
			}
		}
		t.GoalWeights[g] = clean
	}
	mergeActivity(t.ActivityMultipliers, f.ActivityMultipliers)
	mergeActivity(t.ActivityFactors, f.ActivityFactors)
	mergeGoal(t.GoalCalorieMultipliers, f.GoalCalorieMultipliers, 0)
	mergeGoal(t.ProteinPerKg, f.ProteinPerKg, 0)
	mergeGoal(t.FatFraction, f.FatFraction, 1)

	for name, r := range f.MealRatios {
		g, ok := knownGoal(name)
		if !ok || r.Breakfast < 0 || r.Lunch < 0 || r.Dinner < 0 || r.Snacks < 0 || r.sum() <= 0 {
			continue
		}
		t.MealRatios[g] = r
	}

	if len(f.MealTimes) > 0 {
		t.MealTimes = mergeMealTimes(t.MealTimes, f.MealTimes)
	}
	if kw := lowerAll(f.CuisineKeywords); len(kw) > 0 {
		t.CuisineKeywords = kw
	}
	if tags := lowerAll(f.CuisineTags); len(tags) > 0 {
		t.CuisineTags = tags
	}
	return t, nil
}

func knownGoal(name string) (domain.Goal, bool) {
	g := domain.Goal(strings.ToLower(strings.TrimSpace(name)))
	switch g {
	case domain.GoalMass, domain.GoalCut, domain.GoalMaintain, domain.GoalEndurance:
		return g, true
	}
	return "", false
}

func knownActivity(name string) (domain.ActivityLevel, bool) {
	a := domain.ActivityLevel(strings.ToLower(strings.TrimSpace(name)))
	switch a {
	case domain.ActivityLow, domain.ActivityModerate, domain.ActivityHigh, domain.ActivityVeryHigh:
		return a, true
	}
	return "", false
}

func mergeActivity(dst map[domain.ActivityLevel]float64, src map[string]float64) {
	for name, v := range src {
		a, ok := knownActivity(name)
		if !ok || v <= 0 {
			continue
		}
		dst[a] = v
	}
}

// mergeGoal copies positive values; a non-zero upper also bounds them.
func mergeGoal(dst map[domain.Goal]float64, src map[string]float64, upper float64) {
	for name, v := range src {
		g, ok := knownGoal(name)
		if !ok || v <= 0 || (upper > 0 && v > upper) {
			continue
		}
		dst[g] = v
	}
}

func mergeMealTimes(base []domain.MealTime, override map[string]string) []domain.MealTime {
	bySlot := make(map[string]string, len(base)+len(override))
	for _, mt := range base {
		bySlot[mt.Slot] = mt.Time
	}
	for slot, clock := range override {
		if _, err := time.Parse("15:04", clock); err != nil {
			continue
		}
		bySlot[strings.ToLower(strings.TrimSpace(slot))] = clock
	}
	return sortedMealTimes(bySlot)
}

func sortedMealTimes(bySlot map[string]string) []domain.MealTime {
	out := make([]domain.MealTime, 0, len(bySlot))
	for slot, clock := range bySlot {
		out = append(out, domain.MealTime{Slot: slot, Time: clock})
	}
	// HH:MM sorts lexically; slot name breaks ties.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].Slot < out[j].Slot
	})
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
