package seeds

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const defaultProfiles = 20

func Setup(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) error {
	rng := rand.New(rand.NewSource(42))

	// Truncate existing data before insert
	log.Info("[seed] truncating existing data")
	if _, err := pool.Exec(ctx, `TRUNCATE health_profiles`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	log.Info("[seed] inserting health profiles", zap.Int("count", defaultProfiles))
	if err := seedHealthProfiles(ctx, pool, rng, defaultProfiles); err != nil {
		return fmt.Errorf("seed health profiles: %w", err)
	}

	log.Info("[seed] seeding complete")
	return nil
}

func seedHealthProfiles(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, n int) error {
	goals := []string{"mass", "cut", "maintain", "endurance"}
	goalWeights := []float64{0.3, 0.3, 0.25, 0.15}
	activities := []string{"low", "moderate", "high", "very_high"}
	activityWeights := []float64{0.2, 0.4, 0.3, 0.1}
	genders := []string{"male", "female"}

	diseases := []string{"diabetes", "hypertension", "heart_disease", "kidney_disease", "high_cholesterol"}
	medications := []string{"metformin", "lisinopril", "atorvastatin", "warfarin"}
	allergies := []string{"peanuts", "milk", "gluten", "eggs", "soy", "shellfish"}

	rows := []string{}
	args := []any{}

	for i := range n {
		gender := genders[rng.Intn(len(genders))]
		age := rng.Intn(48) + 18

		height := 160 + rng.Float64()*30
		if gender == "female" {
			height -= 10
		}
		// BMI between 19 and 30
		bmi := 19 + rng.Float64()*11
		weight := bmi * math.Pow(height/100, 2)

		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10))
		args = append(args,
			fmt.Sprintf("user-%03d", i+1),
			weightedChoice(rng, goals, goalWeights),
			weightedChoice(rng, activities, activityWeights),
			age,
			gender,
			round1(weight),
			round1(height),
			sample(rng, diseases, 0.15),
			sample(rng, medications, 0.1),
			sample(rng, allergies, 0.12),
		)
	}

	if len(rows) == 0 {
		return nil
	}

	query := "INSERT INTO health_profiles (user_id, goal, activity_level, age, gender, weight_kg, height_cm, diseases, medications, allergies) VALUES " +
		strings.Join(rows, ", ")

	_, err := pool.Exec(ctx, query, args...)
	return err
}

// sample keeps each item independently with probability p.
func sample(rng *rand.Rand, items []string, p float64) []string {
	out := []string{}
	for _, item := range items {
		if rng.Float64() < p {
			out = append(out, item)
		}
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func weightedChoice(rng *rand.Rand, choices []string, weights []float64) string {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r <= cumulative {
			return choices[i]
		}
	}
	return choices[len(choices)-1]
}
