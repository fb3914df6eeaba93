// Package cache holds generated result sets keyed by search.
//
// Options are random on every generation, so without the cache two identical
// searches a second apart would show different fares, times and
// recommendations. A result set is stored under
// mode:origin:destination:date:preference and served unchanged to every
// repeat of that search until the TTL lapses. A search sent with refresh=true
// drops its entry first and so always gets a fresh set, which then replaces
// the old one.
//
// Identical searches that arrive while a generation is running wait for it
// and share its result instead of starting their own. Failed generations are
// never stored.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/alex-user-go/voyage/internal/travel"
)

// maxSweepInterval bounds how long an expired result set stays in memory.
const maxSweepInterval = time.Minute

// Cache is an in-memory result set store with a fixed TTL. It is safe for
// concurrent use. Call Close to stop its sweeper.
type Cache struct {
	mu      sync.Mutex
	results map[string]stored
	pending map[string]*call
	ttl     time.Duration
	stop    chan struct{}
}

type stored struct {
	rs      *travel.ResultSet
	expires time.Time
}

// call is a generation in progress. done is closed once rs and err are set.
type call struct {
	done chan struct{}
	rs   *travel.ResultSet
	err  error
}

// NewCache returns a Cache that keeps each result set for ttl.
func NewCache(ttl time.Duration) *Cache {
	c := &Cache{
		results: make(map[string]stored),
		pending: make(map[string]*call),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	go c.sweep(min(ttl, maxSweepInterval))
	return c
}

// Close stops the background sweeper. Lookups keep working afterwards.
func (c *Cache) Close() {
	close(c.stop)
}

// Key identifies a search. City names are compared case-insensitively and
// the return date is ignored, so a round trip and its one-way leg share
// outbound options.
func (c *Cache) Key(req travel.SearchRequest) string {
	date := ""
	if req.DepartureDate != nil {
		date = req.DepartureDate.Format(travel.DateLayout)
	}
	return strings.Join([]string{
		string(req.Mode),
		normalizeCity(req.Origin),
		normalizeCity(req.Destination),
		date,
		string(req.Preference),
	}, ":")
}

func normalizeCity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// GetOrFetch returns the live result set for key, or runs fetch to produce
// one. The bool reports whether the result came from the store.
//
// Only one fetch per key runs at a time; callers that find one running block
// until it finishes or ctx is done. A waiter whose ctx ends gets the context
// cause while the fetch carries on for the others.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch func() (*travel.ResultSet, error)) (*travel.ResultSet, bool, error) {
	c.mu.Lock()
	if s, ok := c.results[key]; ok && time.Now().Before(s.expires) {
		c.mu.Unlock()
		return s.rs, true, nil
	}
	if running, ok := c.pending[key]; ok {
		c.mu.Unlock()
		return running.wait(ctx)
	}
	cl := &call{done: make(chan struct{})}
	c.pending[key] = cl
	c.mu.Unlock()

	cl.rs, cl.err = fetch()

	c.mu.Lock()
	if cl.err == nil && cl.rs != nil {
		c.results[key] = stored{rs: cl.rs, expires: time.Now().Add(c.ttl)}
	}
	delete(c.pending, key)
	c.mu.Unlock()
	close(cl.done)

	return cl.rs, false, cl.err
}

func (cl *call) wait(ctx context.Context) (*travel.ResultSet, bool, error) {
	select {
	case <-cl.done:
		return cl.rs, false, cl.err
	case <-ctx.Done():
		return nil, false, context.Cause(ctx)
	}
}

// Invalidate forgets the result set stored under key, if any. A fetch already
// running for key is not affected.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.results, key)
	c.mu.Unlock()
}

func (c *Cache) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			c.mu.Lock()
			for key, s := range c.results {
				if now.After(s.expires) {
					delete(c.results, key)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}
