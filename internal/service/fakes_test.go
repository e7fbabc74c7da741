package service

import (
	"context"
	"sync"
	"time"

	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
	"github.com/actuallystonmai/nutrition-recommender/internal/model"
)

type fakeBackend struct {
	mu       sync.Mutex
	recs     map[string][]domain.BaseRecommendation
	recErr   map[string]error
	plan     domain.BaseMealPlan
	planErr  error
	recCalls int
	planReqs []domain.MealPlanRequest
}

func (f *fakeBackend) GetBaseRecommendations(_ context.Context, userID string) ([]domain.BaseRecommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recCalls++
	if err := f.recErr[userID]; err != nil {
		return nil, err
	}
	return f.recs[userID], nil
}

func (f *fakeBackend) GenerateBaseMealPlan(_ context.Context, req domain.MealPlanRequest) (domain.BaseMealPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.planReqs = append(f.planReqs, req)
	return f.plan, f.planErr
}

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]domain.UserProfile
	err      error
	upserts  []domain.UserProfile
}

func (f *fakeProfiles) GetHealthProfile(_ context.Context, userID string) (*domain.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) UpsertHealthProfile(_ context.Context, p domain.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, p)
	return f.err
}

type cacheKey struct {
	user string
	fp   uint64
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[cacheKey][]domain.ScoredProduct
	getErr  error
	cleared []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[cacheKey][]domain.ScoredProduct)}
}

func (f *fakeCache) Get(_ context.Context, userID string, fp uint64) ([]domain.ScoredProduct, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	recs, ok := f.entries[cacheKey{userID, fp}]
	return recs, ok, nil
}

func (f *fakeCache) Set(_ context.Context, userID string, fp uint64, recs []domain.ScoredProduct) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[cacheKey{userID, fp}] = recs
	return nil
}

func (f *fakeCache) ClearUserCache(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, userID)
	for k := range f.entries {
		if k.user == userID {
			delete(f.entries, k)
		}
	}
	return nil
}

type fixture struct {
	svc      *Service
	backend  *fakeBackend
	profiles *fakeProfiles
	cache    *fakeCache
}

func newFixture() *fixture {
	f := &fixture{
		backend:  &fakeBackend{recs: map[string][]domain.BaseRecommendation{}, recErr: map[string]error{}},
		profiles: &fakeProfiles{profiles: map[string]domain.UserProfile{}},
		cache:    newFakeCache(),
	}
	f.svc = NewService(f.backend, f.profiles, f.cache, model.NewDefaultEngine(), WithBatchConcurrency(3))
	f.svc.now = func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC) }
	return f
}

func baseRecs() []domain.BaseRecommendation {
	return []domain.BaseRecommendation{
		{
			Product: domain.Product{
				ID: "prod-2", Name: "Creatine Monohydrate", Type: domain.ProductCreatine,
				Brand: domain.Brand{Name: "CrestBrand", Verified: true},
			},
			Score:   65,
			Reasons: []string{"Proven effectiveness for strength"},
		},
		{
			Product: domain.Product{
				ID: "prod-1", Name: "High Protein Powder", Type: domain.ProductProtein,
				Brand:  domain.Brand{Name: "TrustBrand", Verified: true},
				Macros: domain.Macros{Protein: 25, Carbs: 3, Fats: 2, Calories: 120},
			},
			Score:    75,
			Reasons:  []string{"High protein content", "Good for muscle gain"},
			Warnings: []string{"Contains milk"},
		},
		{
			Product: domain.Product{ID: "prod-3", Name: "Fat Burner X", Type: domain.ProductFatBurner},
			Score:   40,
		},
	}
}

func massRequest(userID string) domain.RecommendationRequest {
	return domain.RecommendationRequest{
		UserProfile: domain.UserProfile{
			UserID: userID, Goal: domain.GoalMass, ActivityLevel: domain.ActivityHigh,
			Age: 28, Gender: domain.GenderMale, Weight: 80, Height: 180,
		},
	}
}
