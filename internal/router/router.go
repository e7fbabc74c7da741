package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/actuallystonmai/nutrition-recommender/internal/handler"
)

const defaultTimeout = 60 * time.Second

func Setup(h *handler.Handler, checks map[string]handler.Check, timeout time.Duration) http.Handler {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	// Routes
	r.Get("/health", handler.Health(checks))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/recommendations/ai", h.GetRecommendations)
		r.Post("/recommendations/batch", h.GetBatchRecommendations)
		r.Post("/recommendations/score", h.ScoreProducts)

		r.Put("/users/{userID}/health-profile", h.UpdateHealthProfile)
		r.Delete("/users/{userID}/recommendations/cache", h.InvalidateUserCache)

		r.Post("/nutrition/needs", h.ComputeNeeds)

		r.Get("/meal-plan/times", h.GetMealTimes)
		r.Post("/meal-plan/distribution", h.PlanDistribution)
		r.Post("/meal-plan/generate/ai", h.GenerateMealPlan)
	})

	return r
}
