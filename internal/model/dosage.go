package model

import (
	"math"

	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
)

const (
	dosageProteinPerKg    = 2.0
	dosageMealsPerDay     = 3.0
	defaultServingProtein = 20.0
	creatineGramsPerDay   = 5.0
	intenseServingFactor  = 1.2
)

// SuggestDosage builds the usage recommendation for a product type.
func (e *Engine) SuggestDosage(product domain.Product, profile domain.UserProfile) domain.Dosage {
	product = product.Normalize()
	profile = profile.Normalize()

	d := domain.Dosage{
		Frequency: "daily",
		Timing:    "with a meal",
		Notes:     []string{},
	}

	switch product.Type {
	case domain.ProductProtein:
		serving := product.Macros.Protein
		if serving <= 0 {
			serving = defaultServingProtein
		}
		daily := math.Max(profile.Weight, 0) * dosageProteinPerKg
		d.ServingsPerDay = max(1, int(math.Ceil(daily/(serving*dosageMealsPerDay))))
		d.Timing = "post_workout and between meals"
	case domain.ProductCreatine:
		d.GramsPerDay = creatineGramsPerDay
		d.Timing = "post_workout or before bed"
		d.Notes = append(d.Notes, "Start with 3-5g daily")
	case domain.ProductPreWorkout:
		d.ServingsPerDay = 1
		d.Timing = "30 minutes before workout"
		d.Notes = append(d.Notes, "Use only on training days")
	case domain.ProductPostWorkout:
		d.ServingsPerDay = 1
		d.Timing = "immediately after workout"
	}

	if profile.ActivityLevel.IsIntense() && d.ServingsPerDay > 0 {
		d.ServingsPerDay = int(float64(d.ServingsPerDay) * intenseServingFactor)
	}
	return d
}
