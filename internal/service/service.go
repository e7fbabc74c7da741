package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
	"github.com/actuallystonmai/nutrition-recommender/internal/logger"
	"github.com/actuallystonmai/nutrition-recommender/internal/model"
)

const (
	defaultLimit            = 10
	maxLimit                = 50
	defaultBatchConcurrency = 10
	maxBatchUsers           = 100
)

// Backend is the main application API.
type Backend interface {
	GetBaseRecommendations(ctx context.Context, userID string) ([]domain.BaseRecommendation, error)
	GenerateBaseMealPlan(ctx context.Context, req domain.MealPlanRequest) (domain.BaseMealPlan, error)
}

// ProfileStore holds users' health profiles.
type ProfileStore interface {
	GetHealthProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpsertHealthProfile(ctx context.Context, p domain.UserProfile) error
}

// RecommendationCache stores enhanced recommendations per user and request
// fingerprint.
type RecommendationCache interface {
	Get(ctx context.Context, userID string, fingerprint uint64) ([]domain.ScoredProduct, bool, error)
	Set(ctx context.Context, userID string, fingerprint uint64, recs []domain.ScoredProduct) error
	ClearUserCache(ctx context.Context, userID string) error
}

type Service struct {
	backend          Backend
	profiles         ProfileStore
	cache            RecommendationCache
	engine           *model.Engine
	log              *zap.Logger
	batchConcurrency int
	now              func() time.Time
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = logger.OrNop(l) }
}

// WithBatchConcurrency bounds the batch worker pool.
func WithBatchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchConcurrency = n
		}
	}
}

func NewService(backend Backend, profiles ProfileStore, cache RecommendationCache, engine *model.Engine, opts ...Option) *Service {
	s := &Service{
		backend:          backend,
		profiles:         profiles,
		cache:            cache,
		engine:           engine,
		log:              zap.NewNop(),
		batchConcurrency: defaultBatchConcurrency,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}
