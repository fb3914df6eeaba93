package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alex-user-go/voyage/internal/travel"
)

func newResult(lowest int) *travel.ResultSet {
	return &travel.ResultSet{PriceStats: travel.PriceStats{Lowest: lowest}}
}

func TestCache_Key(t *testing.T) {
	departure := time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  travel.SearchRequest
		want string
	}{
		{
			name: "basic key",
			req: travel.SearchRequest{
				Origin:        "Hyderabad",
				Destination:   "Bangalore",
				DepartureDate: &departure,
				Mode:          travel.Flight,
				Preference:    travel.PreferCheapest,
			},
			want: "flight:hyderabad:bangalore:2026-12-01:cheapest",
		},
		{
			name: "names normalized",
			req: travel.SearchRequest{
				Origin:        "  MUMBAI ",
				Destination:   "goa",
				DepartureDate: &departure,
				Mode:          travel.Bus,
				Preference:    travel.PreferNone,
			},
			want: "bus:mumbai:goa:2026-12-01:none",
		},
		{
			name: "zero values",
			req:  travel.SearchRequest{Mode: travel.Train},
			want: "train::::",
		},
	}

	cache := NewCache(time.Minute)
	defer cache.Close()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cache.Key(tt.req)
			if got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCache_GetOrFetch(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(c *Cache)
		key        string
		fetchFunc  func() (*travel.ResultSet, error)
		wantResult *travel.ResultSet
		wantHit    bool
		wantErr    bool
	}{
		{
			name:  "cache miss - successful fetch",
			setup: func(c *Cache) {},
			key:   "test-key",
			fetchFunc: func() (*travel.ResultSet, error) {
				return newResult(5), nil
			},
			wantResult: newResult(5),
			wantHit:    false,
			wantErr:    false,
		},
		{
			name: "cache hit - returns cached value",
			setup: func(c *Cache) {
				c.mu.Lock()
				c.results["cached-key"] = stored{
					rs:      newResult(10),
					expires: time.Now().Add(time.Minute),
				}
				c.mu.Unlock()
			},
			key: "cached-key",
			fetchFunc: func() (*travel.ResultSet, error) {
				t.Error("fetch should not be called for cached entry")
				return nil, nil
			},
			wantResult: newResult(10),
			wantHit:    true,
			wantErr:    false,
		},
		{
			name:  "fetch error - not cached",
			setup: func(c *Cache) {},
			key:   "error-key",
			fetchFunc: func() (*travel.ResultSet, error) {
				return nil, errors.New("fetch failed")
			},
			wantResult: nil,
			wantHit:    false,
			wantErr:    true,
		},
		{
			name:  "fetch returns nil result - not cached",
			setup: func(c *Cache) {},
			key:   "nil-key",
			fetchFunc: func() (*travel.ResultSet, error) {
				return nil, nil
			},
			wantResult: nil,
			wantHit:    false,
			wantErr:    false,
		},
		{
			name: "expired entry - refetches",
			setup: func(c *Cache) {
				c.mu.Lock()
				c.results["expired-key"] = stored{
					rs:      newResult(1),
					expires: time.Now().Add(-time.Minute),
				}
				c.mu.Unlock()
			},
			key: "expired-key",
			fetchFunc: func() (*travel.ResultSet, error) {
				return newResult(99), nil
			},
			wantResult: newResult(99),
			wantHit:    false,
			wantErr:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewCache(time.Minute)
			defer cache.Close()

			tt.setup(cache)

			got, hit, err := cache.GetOrFetch(context.Background(), tt.key, tt.fetchFunc)

			if (err != nil) != tt.wantErr {
				t.Errorf("GetOrFetch() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if hit != tt.wantHit {
				t.Errorf("GetOrFetch() hit = %v, want %v", hit, tt.wantHit)
			}

			if tt.wantResult == nil && got != nil {
				t.Errorf("GetOrFetch() = %v, want nil", got)
			} else if tt.wantResult != nil {
				if got == nil {
					t.Errorf("GetOrFetch() = nil, want %v", tt.wantResult)
				} else if got.PriceStats.Lowest != tt.wantResult.PriceStats.Lowest {
					t.Errorf("GetOrFetch() lowest = %d, want %d", got.PriceStats.Lowest, tt.wantResult.PriceStats.Lowest)
				}
			}
		})
	}
}

func TestCache_GetOrFetch_ContextCancellation(t *testing.T) {
	cache := NewCache(time.Minute)
	defer cache.Close()

	ctx, cancel := context.WithCancel(context.Background())

	fetchStarted := make(chan struct{})
	fetchDone := make(chan struct{})

	// Start a slow fetch
	go func() {
		_, _, _ = cache.GetOrFetch(context.Background(), "slow-key", func() (*travel.ResultSet, error) {
			close(fetchStarted)
			<-fetchDone
			return newResult(1), nil
		})
	}()

	<-fetchStarted

	// Cancel context before fetch completes
	cancel()

	// Try to get the same key with cancelled context
	_, _, err := cache.GetOrFetch(ctx, "slow-key", func() (*travel.ResultSet, error) {
		t.Error("fetch should not be called - should wait for the running fetch")
		return nil, nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	close(fetchDone)
}

func TestCache_GetOrFetch_Singleflight(t *testing.T) {
	cache := NewCache(time.Minute)
	defer cache.Close()

	var fetchCount atomic.Int32
	fetchStarted := make(chan struct{})
	fetchContinue := make(chan struct{})

	var wg sync.WaitGroup
	const numGoroutines = 10

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, _, err := cache.GetOrFetch(context.Background(), "shared-key", func() (*travel.ResultSet, error) {
				if fetchCount.Add(1) == 1 {
					close(fetchStarted)
					<-fetchContinue
				}
				return newResult(42), nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if result == nil || result.PriceStats.Lowest != 42 {
				t.Errorf("unexpected result: %v", result)
			}
		}()
	}

	<-fetchStarted
	close(fetchContinue)
	wg.Wait()

	if count := fetchCount.Load(); count != 1 {
		t.Errorf("fetch called %d times, expected 1 (singleflight)", count)
	}
}

func TestCache_Invalidate(t *testing.T) {
	tests := []struct {
		name       string
		setupKeys  []string
		invalidate string
		wantKeys   []string
	}{
		{
			name:       "invalidate existing key",
			setupKeys:  []string{"a", "b", "c"},
			invalidate: "b",
			wantKeys:   []string{"a", "c"},
		},
		{
			name:       "invalidate non-existing key",
			setupKeys:  []string{"a", "b"},
			invalidate: "x",
			wantKeys:   []string{"a", "b"},
		},
		{
			name:       "invalidate from empty cache",
			setupKeys:  []string{},
			invalidate: "a",
			wantKeys:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewCache(time.Minute)
			defer cache.Close()

			for _, key := range tt.setupKeys {
				cache.mu.Lock()
				cache.results[key] = stored{
					rs:      newResult(0),
					expires: time.Now().Add(time.Minute),
				}
				cache.mu.Unlock()
			}

			cache.Invalidate(tt.invalidate)

			cache.mu.Lock()
			defer cache.mu.Unlock()

			if len(cache.results) != len(tt.wantKeys) {
				t.Errorf("cache has %d entries, want %d", len(cache.results), len(tt.wantKeys))
			}

			for _, key := range tt.wantKeys {
				if _, ok := cache.results[key]; !ok {
					t.Errorf("expected key %q to exist", key)
				}
			}
		})
	}
}

func TestCache_NilResultNotCached(t *testing.T) {
	cache := NewCache(time.Minute)
	defer cache.Close()

	callCount := 0

	// First call - returns nil
	result, hit, err := cache.GetOrFetch(context.Background(), "nil-key", func() (*travel.ResultSet, error) {
		callCount++
		return nil, nil
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result, got %v", result)
	}
	if hit {
		t.Error("expected cache miss, got hit")
	}

	// Second call - should fetch again (nil not cached)
	result, hit, err = cache.GetOrFetch(context.Background(), "nil-key", func() (*travel.ResultSet, error) {
		callCount++
		return newResult(1), nil
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result == nil || result.PriceStats.Lowest != 1 {
		t.Errorf("unexpected result: %v", result)
	}
	if hit {
		t.Error("expected cache miss, got hit")
	}

	if callCount != 2 {
		t.Errorf("fetch called %d times, expected 2", callCount)
	}
}

func TestCache_ErrorNotCached(t *testing.T) {
	cache := NewCache(time.Minute)
	defer cache.Close()

	fetchErr := errors.New("temporary error")
	callCount := 0

	// First call - returns error
	_, hit, err := cache.GetOrFetch(context.Background(), "error-key", func() (*travel.ResultSet, error) {
		callCount++
		return nil, fetchErr
	})
	if err != fetchErr {
		t.Errorf("expected fetchErr, got %v", err)
	}
	if hit {
		t.Error("expected cache miss on error, got hit")
	}

	// Second call - should fetch again (error not cached)
	result, hit, err := cache.GetOrFetch(context.Background(), "error-key", func() (*travel.ResultSet, error) {
		callCount++
		return newResult(1), nil
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result == nil || result.PriceStats.Lowest != 1 {
		t.Errorf("unexpected result: %v", result)
	}
	if hit {
		t.Error("expected cache miss, got hit")
	}

	if callCount != 2 {
		t.Errorf("fetch called %d times, expected 2", callCount)
	}
}

func TestCache_SweepRemovesExpired(t *testing.T) {
	cache := NewCache(20 * time.Millisecond)
	defer cache.Close()

	_, _, err := cache.GetOrFetch(context.Background(), "k", func() (*travel.ResultSet, error) {
		return newResult(1), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		cache.mu.Lock()
		n := len(cache.results)
		cache.mu.Unlock()
		if n == 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("expired result set still stored after %v", 2*time.Second)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
