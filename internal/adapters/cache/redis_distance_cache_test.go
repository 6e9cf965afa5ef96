package cache

import (
	"context"
	"market-route-service/internal/ports"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*RedisDistanceCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisDistanceCache(rdb, time.Hour), mr
}

func TestRedisDistanceCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	err := c.PutMany(ctx, "22.57260,88.36390", map[string]ports.DistanceResult{
		"22.59580,88.26360": {DistanceMeters: 16250, DurationSeconds: 1800},
		"22.72120,88.48260": {DistanceMeters: 30100, DurationSeconds: 2500},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := c.GetMany(ctx, "22.57260,88.36390", []string{"22.59580,88.26360", "22.59580,88.26360", "0.00000,0.00000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1: %+v", len(got), got)
	}
	if r := got["22.59580,88.26360"]; r.DistanceMeters != 16250 || r.DurationSeconds != 1800 {
		t.Fatalf("entry = %+v", r)
	}

	if ttl := mr.TTL("dist:22.57260,88.36390|22.59580,88.26360"); ttl != time.Hour {
		t.Fatalf("ttl = %v, want 1h", ttl)
	}

	mr.FastForward(2 * time.Hour)
	got, err = c.GetMany(ctx, "22.57260,88.36390", []string{"22.59580,88.26360"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expired entries returned: %+v", got)
	}
}

func TestRedisDistanceCacheMalformedValue(t *testing.T) {
	c, mr := newTestCache(t)

	if err := mr.Set("dist:o|d", "not-a-distance"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := c.GetMany(context.Background(), "o", []string{"d"}); err == nil {
		t.Fatalf("expected error for malformed cached value")
	}
}

func TestRedisDistanceCacheRejectsEmptyOrigin(t *testing.T) {
	c, _ := newTestCache(t)

	if _, err := c.GetMany(context.Background(), "", []string{"d"}); err == nil {
		t.Fatalf("expected error for empty origin")
	}
	if err := c.PutMany(context.Background(), "", map[string]ports.DistanceResult{"d": {}}); err == nil {
		t.Fatalf("expected error for empty origin")
	}
}
