package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
)

// Get stored health profile for a user
func (r *Repository) GetHealthProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	p := &domain.UserProfile{UserID: userID}
	var goal, activity, gender string

	err := r.pool.QueryRow(ctx,
		`SELECT goal, activity_level, age, gender, weight_kg, height_cm, diseases, medications, allergies
		 FROM health_profiles WHERE user_id = $1`,
		userID,
	).Scan(&goal, &activity, &p.Age, &gender, &p.Weight, &p.Height, &p.Diseases, &p.Medications, &p.Allergies)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("query health profile user=%s: %w", userID, err)
	}

	p.Goal = domain.Goal(goal)
	p.ActivityLevel = domain.ActivityLevel(activity)
	p.Gender = domain.Gender(gender)
	normalized := p.Normalize()
	return &normalized, nil
}

// Insert or replace a user's health profile
func (r *Repository) UpsertHealthProfile(ctx context.Context, p domain.UserProfile) error {
	p = p.Normalize()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO health_profiles
			(user_id, goal, activity_level, age, gender, weight_kg, height_cm, diseases, medications, allergies, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET
			goal = EXCLUDED.goal,
			activity_level = EXCLUDED.activity_level,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			weight_kg = EXCLUDED.weight_kg,
			height_cm = EXCLUDED.height_cm,
			diseases = EXCLUDED.diseases,
			medications = EXCLUDED.medications,
			allergies = EXCLUDED.allergies,
			updated_at = NOW()`,
		p.UserID, string(p.Goal), string(p.ActivityLevel), p.Age, string(p.Gender), p.Weight, p.Height,
		nonNil(p.Diseases), nonNil(p.Medications), nonNil(p.Allergies),
	)
	if err != nil {
		return fmt.Errorf("upsert health profile user=%s: %w", p.UserID, err)
	}
	return nil
}

// Count stored profiles
func (r *Repository) CountHealthProfiles(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM health_profiles`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count health profiles: %w", err)
	}
	return total, nil
}

// text[] columns are NOT NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
