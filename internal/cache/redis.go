package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"

	"github.com/actuallystonmai/nutrition-recommender/internal/domain"
)

const defaultTTL = 10 * time.Minute

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func buildKey(userID string, fingerprint uint64) string {
	return fmt.Sprintf("rec:user:%s:req:%016x", userID, fingerprint)
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// userPattern matches every cached request of one user. Glob characters in
// the id are escaped so they only match themselves.
func userPattern(userID string) string {
	return fmt.Sprintf("rec:user:%s:req:*", globEscaper.Replace(userID))
}

// Fingerprint hashes everything that changes the outcome of a
// recommendation request. Exclusion order does not matter.
func Fingerprint(req domain.RecommendationRequest, limit int) uint64 {
	p := req.UserProfile.Normalize()
	exclude := append([]string(nil), req.ExcludeProductIDs...)
	sort.Strings(exclude)

	h := xxhash.New()
	fmt.Fprintf(h, "%s|%s|%d|%s|%.3f|%.3f|%d|", p.Goal, p.ActivityLevel, p.Age, p.Gender, p.Weight, p.Height, limit)
	_, _ = h.WriteString(strings.Join(exclude, ","))
	return h.Sum64()
}

// Get recommendations from cache
func (c *Cache) Get(ctx context.Context, userID string, fingerprint uint64) ([]domain.ScoredProduct, bool, error) {
	key := buildKey(userID, fingerprint)
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get recommendations from cache: %w", err)
	}

	var recs []domain.ScoredProduct
	if err := json.Unmarshal([]byte(val), &recs); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal recommendations %s: %w", key, err)
	}
	return recs, true, nil
}

// Store recommendations in cache
func (c *Cache) Set(ctx context.Context, userID string, fingerprint uint64, recs []domain.ScoredProduct) error {
	key := buildKey(userID, fingerprint)
	val, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set recommendations in cache: %w", err)
	}
	return nil
}

// Clear user cache: used when the health profile changes
func (c *Cache) ClearUserCache(ctx context.Context, userID string) error {
	iter := c.client.Scan(ctx, 0, userPattern(userID), 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Noop satisfies the same contract without storing anything. Used when no
// Redis is configured.
type Noop struct{}

func (Noop) Get(context.Context, string, uint64) ([]domain.ScoredProduct, bool, error) {
	return nil, false, nil
}

func (Noop) Set(context.Context, string, uint64, []domain.ScoredProduct) error { return nil }

func (Noop) ClearUserCache(context.Context, string) error { return nil }

func (Noop) Ping(context.Context) error { return nil }
