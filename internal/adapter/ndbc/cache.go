package ndbc

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lydonmn/surf-vista/internal/domain"
	"github.com/lydonmn/surf-vista/internal/observability"
)

// CachedSource wraps a Source with a TTL cache over the whole realtime2 file.
// NDBC publishes new rows roughly twice an hour, so every stage and intraday
// refresh inside one TTL window shares a single upstream fetch.
type CachedSource struct {
	inner   Source
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics

	mu        sync.Mutex
	cached    []domain.Observation
	fetchedAt time.Time
}

// NewCachedSource creates a cache decorator around a buoy source.
func NewCachedSource(inner Source, ttl time.Duration, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		ttl:     ttl,
		clock:   clockwork.NewRealClock(),
		metrics: metrics,
	}
}

// SetClock swaps the cache's time source. Test hook.
func (c *CachedSource) SetClock(clock clockwork.Clock) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock = clock
}

// Recent returns the cached observation set when fresh, fetching otherwise.
// Errors are never cached; the next call retries the upstream.
func (c *CachedSource) Recent(ctx context.Context) ([]domain.Observation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && c.clock.Since(c.fetchedAt) < c.ttl {
		c.metrics.BuoyCache.WithLabelValues("hit").Inc()
		return copyObservations(c.cached), nil
	}

	observations, err := c.inner.Recent(ctx)
	if err != nil {
		return nil, err
	}
	c.metrics.BuoyCache.WithLabelValues("miss").Inc()
	c.cached = observations
	c.fetchedAt = c.clock.Now()
	return copyObservations(observations), nil
}

// Latest returns the newest observation, served from cache when fresh.
func (c *CachedSource) Latest(ctx context.Context) (domain.Observation, error) {
	observations, err := c.Recent(ctx)
	if err != nil {
		return domain.Observation{}, err
	}
	return observations[0], nil
}

// copyObservations guards the cache against caller mutation of the slice.
func copyObservations(observations []domain.Observation) []domain.Observation {
	out := make([]domain.Observation, len(observations))
	copy(out, observations)
	return out
}
