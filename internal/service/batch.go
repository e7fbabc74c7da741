package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
)

// GetBatchRecommendations runs GetRecommendations for every user through a
// bounded worker pool. One user's failure never fails the batch.
func (s *Service) GetBatchRecommendations(ctx context.Context, req domain.BatchRecommendationRequest) (*domain.BatchResponse, error) {
	if len(req.Users) == 0 {
		return nil, fmt.Errorf("%w: users must not be empty", domain.ErrInvalidRequest)
	}
	if len(req.Users) > maxBatchUsers {
		return nil, fmt.Errorf("%w: at most %d users per batch", domain.ErrInvalidRequest, maxBatchUsers)
	}
	start := time.Now()

	results := make([]domain.BatchUserResult, len(req.Users))
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.batchConcurrency) // semaphore

	for i, userReq := range req.Users {
		wg.Add(1)
		go func(idx int, r domain.RecommendationRequest) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			results[idx] = s.processUserForBatch(ctx, r)
		}(i, userReq)
	}
	wg.Wait()

	successCount := 0
	failedCount := 0
	for _, r := range results {
		if r.Status == domain.StatusSuccess {
			successCount++
		} else {
			failedCount++
		}
	}

	return &domain.BatchResponse{
		TotalUsers: len(req.Users),
		Results:    results,
		Summary: domain.BatchSummary{
			SuccessCount:     successCount,
			FailedCount:      failedCount,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		},
		Metadata: domain.BatchMeta{
			GeneratedAt: s.timestamp(),
		},
	}, nil
}

// Generates recommendations for a single user, capturing errors.
func (s *Service) processUserForBatch(ctx context.Context, req domain.RecommendationRequest) domain.BatchUserResult {
	result, err := s.GetRecommendations(ctx, req)
	if err != nil {
		s.log.Warn("batch: user failed", zap.String("user_id", req.UserID), zap.Error(err))
		code, msg := categorizeError(err)
		return domain.BatchUserResult{
			UserID:  req.UserID,
			Status:  domain.StatusFailed,
			Error:   code,
			Message: msg,
		}
	}

	return domain.BatchUserResult{
		UserID:          req.UserID,
		Recommendations: result.Recommendations,
		Status:          domain.StatusSuccess,
	}
}

// Handle response error
func categorizeError(err error) (string, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid_request", err.Error()
	case errors.Is(err, domain.ErrProfileNotFound):
		return "profile_not_found", "health profile not found"
	case errors.Is(err, domain.ErrBackendUnavailable):
		return "backend_unavailable", "backend api is temporarily unavailable"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "request_timeout", "request timed out"
	}
	return "internal_error", "an unexpected error occurred"
}
