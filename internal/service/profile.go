package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
)

// ComputeNeeds returns daily targets for a profile. Body measurements must
// be supplied; nothing is defaulted.
func (s *Service) ComputeNeeds(profile domain.UserProfile) (domain.NutritionalNeeds, error) {
	if profile.Weight <= 0 || profile.Height <= 0 || profile.Age <= 0 {
		return domain.NutritionalNeeds{}, fmt.Errorf("%w: weight, height and age must be positive", domain.ErrInvalidRequest)
	}
	return s.engine.ComputeNutritionalNeeds(profile.Normalize()), nil
}

// PlanDistribution splits a calorie total across meals and the day's slots.
func (s *Service) PlanDistribution(req domain.DistributionRequest) (*domain.DistributionResponse, error) {
	if req.TotalCalories <= 0 {
		return nil, fmt.Errorf("%w: total_calories must be positive", domain.ErrInvalidRequest)
	}
	goal := domain.ParseGoal(string(req.Goal))
	activity := domain.ParseActivityLevel(string(req.ActivityLevel))
	return &domain.DistributionResponse{
		Distribution: s.engine.DistributeMealCalories(req.TotalCalories, goal, activity),
		MealTimes:    s.engine.GetMealTimes(goal, activity),
		Slots:        s.engine.PlanDay(req.TotalCalories, req.TotalProtein, goal, activity),
	}, nil
}

func (s *Service) MealTimes(goal domain.Goal, activity domain.ActivityLevel) []domain.MealTime {
	return s.engine.GetMealTimes(goal, activity)
}

// UpdateHealthProfile stores the profile and drops the user's cached
// recommendations.
func (s *Service) UpdateHealthProfile(ctx context.Context, profile domain.UserProfile) error {
	profile.UserID = strings.TrimSpace(profile.UserID)
	if profile.UserID == "" {
		return fmt.Errorf("%w: user_id is required", domain.ErrInvalidRequest)
	}
	if profile.Weight < 0 || profile.Height < 0 || profile.Age < 0 {
		return fmt.Errorf("%w: measurements must not be negative", domain.ErrInvalidRequest)
	}
	if err := s.profiles.UpsertHealthProfile(ctx, profile); err != nil {
		return err
	}
	if err := s.cache.ClearUserCache(ctx, profile.UserID); err != nil {
		s.log.Warn("cache invalidation failed", zap.String("user_id", profile.UserID), zap.Error(err))
	}
	return nil
}

func (s *Service) InvalidateUser(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user_id is required", domain.ErrInvalidRequest)
	}
	if err := s.cache.ClearUserCache(ctx, userID); err != nil {
		return fmt.Errorf("clear cache for user %s: %w", userID, err)
	}
	return nil
}
