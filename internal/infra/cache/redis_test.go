package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"github.com/boddenberg/pocket-insights-go/internal/infra/cache"
	"github.com/boddenberg/pocket-insights-go/internal/port"
)

type cachedSummary struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
}

var _ port.Cache[cachedSummary] = (*cache.Redis[cachedSummary])(nil)

func newRedis(t *testing.T, ttl time.Duration) (*cache.Redis[cachedSummary], *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.NewRedis[cachedSummary](context.Background(), "redis://"+mr.Addr(), "analysis:", ttl, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to connect to miniredis: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedis_RoundTrip(t *testing.T) {
	c, mr := newRedis(t, time.Minute)

	c.Set("pocket-1", cachedSummary{Income: 100, Expense: 40})

	got, ok := c.Get("pocket-1")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if got != (cachedSummary{Income: 100, Expense: 40}) {
		t.Errorf("unexpected value %+v", got)
	}
	if !mr.Exists("analysis:pocket-1") {
		t.Error("expected key to be stored with the prefix")
	}
}

func TestRedis_TTL(t *testing.T) {
	c, mr := newRedis(t, time.Minute)

	c.Set("pocket-1", cachedSummary{Income: 1})
	mr.FastForward(2 * time.Minute)

	if _, ok := c.Get("pocket-1"); ok {
		t.Fatal("expected entry to be expired")
	}
}

func TestRedis_NonPositiveTTLDisablesCaching(t *testing.T) {
	c, mr := newRedis(t, 0)

	c.Set("pocket-1", cachedSummary{Income: 1})

	if mr.Exists("analysis:pocket-1") {
		t.Error("expected no key to be written without a TTL")
	}
	if _, ok := c.Get("pocket-1"); ok {
		t.Error("expected cache miss")
	}
}

func TestRedis_Delete(t *testing.T) {
	c, _ := newRedis(t, time.Minute)

	c.Set("pocket-1", cachedSummary{Income: 1})
	c.Delete("pocket-1")

	if _, ok := c.Get("pocket-1"); ok {
		t.Fatal("expected key to be deleted")
	}
}

func TestRedis_CorruptPayloadIsMiss(t *testing.T) {
	c, mr := newRedis(t, time.Minute)

	if err := mr.Set("analysis:pocket-1", "{not json"); err != nil {
		t.Fatalf("failed to seed raw payload: %v", err)
	}

	if _, ok := c.Get("pocket-1"); ok {
		t.Fatal("expected undecodable payload to be a miss")
	}
}

func TestRedis_OutageIsMiss(t *testing.T) {
	c, mr := newRedis(t, time.Minute)

	c.Set("pocket-1", cachedSummary{Income: 1})
	mr.Close()

	if _, ok := c.Get("pocket-1"); ok {
		t.Fatal("expected miss while redis is down")
	}
	c.Set("pocket-2", cachedSummary{})
}

func TestNewRedis_BadURL(t *testing.T) {
	if _, err := cache.NewRedis[int](context.Background(), "not-a-url", "", time.Minute, zap.NewNop()); err == nil {
		t.Fatal("expected error for malformed URL")
	}
}
