package cache

import (
	"context"
	"errors"
	"fmt"
	"market-route-service/internal/platform/obs"
	"market-route-service/internal/ports"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultDistanceTTL is how long a road distance stays cached in Redis.
const DefaultDistanceTTL = 24 * time.Hour

// RedisDistanceCache stores origin->destination road distances as Redis
// strings of the form "<meters>:<seconds>" with a TTL.
type RedisDistanceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDistanceCache(rdb *redis.Client, ttl time.Duration) *RedisDistanceCache {
	if ttl <= 0 {
		ttl = DefaultDistanceTTL
	}
	return &RedisDistanceCache{rdb: rdb, ttl: ttl}
}

func distanceKey(origin, destination string) string {
	return "dist:" + origin + "|" + destination
}

// Fetch cached distances for one origin and multiple destinations.
func (c *RedisDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.redis.GetMany")(&err)

	if c.rdb == nil {
		return nil, errors.New("distance cache: redis client is nil")
	}
	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	keys := make([]string, 0, len(uniq))
	for _, d := range uniq {
		keys = append(keys, distanceKey(origin, d))
	}

	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get distance cache: mget: %w", err)
	}

	out := make(map[string]ports.DistanceResult, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		r, err := decodeDistance(s)
		if err != nil {
			return nil, fmt.Errorf("get distance cache: key %q: %w", keys[i], err)
		}
		out[uniq[i]] = r
	}

	return out, nil
}

// Store many cached distance results for a single origin.
func (c *RedisDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) error {
	if c.rdb == nil {
		return errors.New("distance cache: redis client is nil")
	}
	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	pipe := c.rdb.TxPipeline()
	for dest, r := range results {
		if strings.TrimSpace(dest) == "" {
			return fmt.Errorf("insert distance cache: empty destination key")
		}
		pipe.Set(ctx, distanceKey(origin, dest), encodeDistance(r), c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert distance cache: exec pipeline: %w", err)
	}
	return nil
}

func encodeDistance(r ports.DistanceResult) string {
	return strconv.Itoa(r.DistanceMeters) + ":" + strconv.Itoa(r.DurationSeconds)
}

func decodeDistance(s string) (ports.DistanceResult, error) {
	m, sec, ok := strings.Cut(s, ":")
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("malformed value %q", s)
	}
	meters, err := strconv.Atoi(m)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("parse meters: %w", err)
	}
	seconds, err := strconv.Atoi(sec)
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("parse seconds: %w", err)
	}
	return ports.DistanceResult{DistanceMeters: meters, DurationSeconds: seconds}, nil
}

func uniqueKeys(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
