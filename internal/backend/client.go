// Package backend talks to the main application API that owns products,
// meals and rule-based recommendations.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
	"github.com/actuallystonmai/nutrition-recommender/internal/logger"
	"github.com/actuallystonmai/nutrition-recommender/internal/observability"
)

const (
	defaultInitialInterval = 500 * time.Millisecond
	maxErrorBody           = 512
)

type Client struct {
	baseURL         string
	http            *http.Client
	attempts        int
	initialInterval time.Duration
	log             *zap.Logger
}

// NewClient builds a client. attempts is the total number of tries per
// call; values below 1 mean a single try.
func NewClient(baseURL string, timeout time.Duration, attempts int, log *zap.Logger) *Client {
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		http:            &http.Client{Timeout: timeout},
		attempts:        attempts,
		initialInterval: defaultInitialInterval,
		log:             logger.OrNop(log),
	}
}

// envelope is the backend's standard response wrapper.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error,omitempty"`
}

// GetBaseRecommendations fetches the rule-based recommendations for a user.
func (c *Client) GetBaseRecommendations(ctx context.Context, userID string) ([]domain.BaseRecommendation, error) {
	started := time.Now()
	var env envelope[[]domain.BaseRecommendation]
	err := c.do(ctx, http.MethodGet, "/api/v1/recommendations", userID, nil, &env)
	observability.RecordBackendCall("base_recommendations", started, err)
	if err != nil {
		return nil, fmt.Errorf("get base recommendations: %w", err)
	}
	return env.Data, nil
}

type mealPlanPreferences struct {
	CuisineTypes       []string          `json:"cuisine_types"`
	ExcludeIngredients []string          `json:"exclude_ingredients"`
	MealTimes          map[string]string `json:"meal_times"`
}

type mealPlanBody struct {
	Date        string              `json:"date"`
	Preferences mealPlanPreferences `json:"preferences"`
}

// GenerateBaseMealPlan asks the backend for a plan skeleton and its meal pool.
func (c *Client) GenerateBaseMealPlan(ctx context.Context, req domain.MealPlanRequest) (domain.BaseMealPlan, error) {
	started := time.Now()
	body := mealPlanBody{
		Date: req.Date,
		Preferences: mealPlanPreferences{
			CuisineTypes:       req.CuisineTypes,
			ExcludeIngredients: req.ExcludeIngredients,
			MealTimes:          req.MealTimes,
		},
	}
	var env envelope[domain.BaseMealPlan]
	err := c.do(ctx, http.MethodPost, "/api/v1/meal-plan/generate", req.UserID, body, &env)
	observability.RecordBackendCall("base_meal_plan", started, err)
	if err != nil {
		return domain.BaseMealPlan{}, fmt.Errorf("generate base meal plan: %w", err)
	}
	return env.Data, nil
}

// do sends one request with retries. Transport errors and 5xx responses are
// retried with exponential backoff; 4xx responses fail immediately.
func (c *Client) do(ctx context.Context, method, path, userID string, in, out any) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: encode request: %v", domain.ErrInvalidRequest, err)
		}
		payload = b
	}

	url := c.baseURL + path
	op := func() error {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if userID != "" {
			req.Header.Set("X-User-ID", userID)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			statusErr := fmt.Errorf("backend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(statusErr)
			}
			return statusErr
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.initialInterval
	eb.Multiplier = 2
	eb.RandomizationFactor = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(c.attempts-1)), ctx)

	notify := func(err error, wait time.Duration) {
		c.log.Warn("backend request failed, retrying",
			zap.String("method", method),
			zap.String("url", url),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrBackendUnavailable, method, path, err)
	}
	return nil
}
