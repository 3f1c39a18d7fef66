// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/qdash/backend-advisor/pkg/defaults"
	"github.com/qdash/backend-advisor/pkg/recommender"
)

// CacheOption configures a CachedSource.
type CacheOption func(*CachedSource)

// WithTTL sets how long a fetched catalog is served before refetching.
// Non-positive values are ignored.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *CachedSource) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCacheClock overrides the clock used for expiry.
func WithCacheClock(now func() time.Time) CacheOption {
	return func(c *CachedSource) {
		if now != nil {
			c.now = now
		}
	}
}

// CachedSource wraps a Source with a TTL cache. Concurrent misses share a
// single upstream fetch, and when a refresh fails the last good catalog keeps
// being served.
type CachedSource struct {
	source Source
	ttl    time.Duration
	now    func() time.Time
	group  singleflight.Group

	mu        sync.RWMutex
	backends  []recommender.BackendDescriptor
	fetchedAt time.Time
	loaded    bool
}

// NewCachedSource wraps source. The default TTL is defaults.CatalogCacheTTL.
func NewCachedSource(source Source, opts ...CacheOption) *CachedSource {
	c := &CachedSource{
		source: source,
		ttl:    defaults.CatalogCacheTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements Source.
func (c *CachedSource) Name() string { return c.source.Name() }

// Backends implements Source.
func (c *CachedSource) Backends(ctx context.Context) ([]recommender.BackendDescriptor, error) {
	c.mu.RLock()
	fresh := c.loaded && c.now().Sub(c.fetchedAt) < c.ttl
	cached := c.backends
	c.mu.RUnlock()

	if fresh {
		catalogCacheRequests.WithLabelValues("hit").Inc()
		slog.Debug("catalog cache hit", "source", c.Name())
		return slices.Clone(cached), nil
	}

	catalogCacheRequests.WithLabelValues("miss").Inc()
	backends, err := c.fetch(ctx)
	if err == nil {
		return backends, nil
	}

	c.mu.RLock()
	stale, loaded := c.backends, c.loaded
	c.mu.RUnlock()
	if !loaded || ctx.Err() != nil {
		return nil, err
	}
	catalogCacheRequests.WithLabelValues("stale").Inc()
	slog.Warn("catalog refresh failed, serving stale catalog",
		"source", c.Name(),
		"error", err)
	return slices.Clone(stale), nil
}

// Refresh fetches the catalog regardless of its age. On failure the previous
// catalog stays cached and the error is returned.
func (c *CachedSource) Refresh(ctx context.Context) error {
	_, err := c.fetch(ctx)
	return err
}

// Ready reports whether a catalog has been loaded at least once.
func (c *CachedSource) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// LastRefresh returns when the cached catalog was fetched, or the zero time.
func (c *CachedSource) LastRefresh() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}

func (c *CachedSource) fetch(ctx context.Context) ([]recommender.BackendDescriptor, error) {
	ch := c.group.DoChan(c.Name(), func() (any, error) {
		// a caller going away must not abort the fetch others are waiting on
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaults.SourceFetchTimeout)
		defer cancel()

		start := time.Now()
		backends, err := c.source.Backends(fetchCtx)
		catalogFetchDuration.WithLabelValues(c.Name()).Observe(time.Since(start).Seconds())
		if err != nil {
			catalogFetchErrors.WithLabelValues(c.Name()).Inc()
			return nil, err
		}

		c.mu.Lock()
		c.backends = backends
		c.fetchedAt = c.now()
		c.loaded = true
		c.mu.Unlock()

		catalogBackends.WithLabelValues(c.Name()).Set(float64(len(backends)))
		slog.Debug("catalog refreshed", "source", c.Name(), "backends", len(backends))
		return backends, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if res.Err != nil {
		return nil, res.Err
	}

	backends, _ := res.Val.([]recommender.BackendDescriptor)
	return slices.Clone(backends), nil
}
