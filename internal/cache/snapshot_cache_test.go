package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dyike/NamaaGo/internal/logger"
	"github.com/dyike/NamaaGo/internal/models"
)

func countingFetch(calls *atomic.Int32) FetchFunc {
	return func(ctx context.Context, userID string) (*models.DashboardData, error) {
		n := calls.Add(1)
		return &models.DashboardData{TotalBalance: decimal.NewFromInt(int64(n))}, nil
	}
}

func TestGetServesWithinTTL(t *testing.T) {
	var calls atomic.Int32
	c := NewSnapshotCache(time.Minute, true, logger.Discard())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	first, err := c.Get(context.Background(), "42", countingFetch(&calls))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, err := c.Get(context.Background(), "42", countingFetch(&calls))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if calls.Load() != 1 || first != second {
		t.Fatalf("expected one fetch within ttl, got %d", calls.Load())
	}

	now = now.Add(2 * time.Minute)
	if _, err := c.Get(context.Background(), "42", countingFetch(&calls)); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected refetch after ttl, got %d calls", calls.Load())
	}
}

func TestRefreshAlwaysFetches(t *testing.T) {
	var calls atomic.Int32
	c := NewSnapshotCache(time.Hour, true, logger.Discard())

	for i := 0; i < 2; i++ {
		if _, err := c.Refresh(context.Background(), "42", countingFetch(&calls)); err != nil {
			t.Fatalf("Refresh: %v", err)
		}
	}
	if calls.Load() != 2 {
		t.Fatalf("expected two fetches, got %d", calls.Load())
	}

	got, _ := c.Get(context.Background(), "42", countingFetch(&calls))
	if !got.TotalBalance.Equal(decimal.NewFromInt(2)) || calls.Load() != 2 {
		t.Fatalf("expected Get to serve the refreshed entry")
	}
}

func TestDisabledCacheAlwaysFetches(t *testing.T) {
	var calls atomic.Int32
	c := NewSnapshotCache(time.Hour, false, logger.Discard())
	c.Get(context.Background(), "42", countingFetch(&calls))
	c.Get(context.Background(), "42", countingFetch(&calls))
	if calls.Load() != 2 {
		t.Fatalf("expected two fetches with cache disabled, got %d", calls.Load())
	}
}

func TestErrorsAreNotCached(t *testing.T) {
	c := NewSnapshotCache(time.Hour, true, logger.Discard())
	boom := errors.New("boom")
	_, err := c.Get(context.Background(), "42", func(ctx context.Context, userID string) (*models.DashboardData, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var calls atomic.Int32
	if _, err := c.Get(context.Background(), "42", countingFetch(&calls)); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected fetch after failed attempt")
	}
}

func TestInvalidate(t *testing.T) {
	var calls atomic.Int32
	c := NewSnapshotCache(time.Hour, true, logger.Discard())
	c.Get(context.Background(), "42", countingFetch(&calls))
	c.Invalidate("42")
	c.Get(context.Background(), "42", countingFetch(&calls))
	c.Purge()
	c.Get(context.Background(), "42", countingFetch(&calls))
	if calls.Load() != 3 {
		t.Fatalf("expected 3 fetches, got %d", calls.Load())
	}
}

func TestInvalidateDuringFetchDropsResult(t *testing.T) {
	tests := []struct {
		name  string
		clear func(c *SnapshotCache)
	}{
		{"invalidate", func(c *SnapshotCache) { c.Invalidate("42") }},
		{"purge", func(c *SnapshotCache) { c.Purge() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewSnapshotCache(time.Hour, true, logger.Discard())
			started := make(chan struct{})
			release := make(chan struct{})
			slow := func(ctx context.Context, userID string) (*models.DashboardData, error) {
				close(started)
				<-release
				return &models.DashboardData{}, nil
			}

			done := make(chan error, 1)
			go func() {
				_, err := c.Get(context.Background(), "42", slow)
				done <- err
			}()
			<-started
			tt.clear(c)
			close(release)
			if err := <-done; err != nil {
				t.Fatalf("Get: %v", err)
			}

			var calls atomic.Int32
			if _, err := c.Get(context.Background(), "42", countingFetch(&calls)); err != nil {
				t.Fatalf("Get: %v", err)
			}
			if calls.Load() != 1 {
				t.Fatalf("expected snapshot from before %s not cached", tt.name)
			}
		})
	}
}
