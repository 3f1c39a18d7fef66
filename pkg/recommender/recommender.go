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

package recommender

import (
	"math/rand/v2"
	"sync"
	"time"
)

// RandSource supplies uniformly distributed values in [0, 1) for estimate jitter.
type RandSource interface {
	Float64() float64
}

// FixedRand is a RandSource that always returns the same value.
// FixedRand(0.5) produces no jitter.
type FixedRand float64

// Float64 implements RandSource.
func (f FixedRand) Float64() float64 {
	return float64(f)
}

// lockedRand makes a *rand.Rand safe for concurrent callers.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func newLockedRand(seed uint64) *lockedRand {
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Option is a functional option for configuring Recommender instances.
type Option func(*Recommender)

// WithProfiles sets the performance profile table.
func WithProfiles(t *ProfileTable) Option {
	return func(r *Recommender) {
		if t != nil {
			r.profiles = t
		}
	}
}

// WithRandSource sets the random source used for jitter.
func WithRandSource(src RandSource) Option {
	return func(r *Recommender) {
		if src != nil {
			r.rand = src
		}
	}
}

// WithSeed seeds the default random source so runs are reproducible.
func WithSeed(seed int64) Option {
	return func(r *Recommender) {
		r.rand = newLockedRand(uint64(seed))
	}
}

// WithoutJitter disables the random perturbation of estimates.
func WithoutJitter() Option {
	return func(r *Recommender) {
		r.rand = FixedRand(0.5)
	}
}

// WithClock sets the clock used for the time-of-day wait adjustment.
func WithClock(now func() time.Time) Option {
	return func(r *Recommender) {
		if now != nil {
			r.now = now
		}
	}
}

// Recommender predicts backend behaviour and ranks backends for a job.
// It is immutable after New and safe for concurrent use.
type Recommender struct {
	profiles *ProfileTable
	rand     RandSource
	now      func() time.Time
}

// New creates a Recommender with the embedded profile table, a time-seeded
// random source and the wall clock.
func New(opts ...Option) *Recommender {
	r := &Recommender{
		profiles: DefaultProfiles(),
		rand:     newLockedRand(uint64(time.Now().UnixNano())),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Profiles returns the profile table in use.
func (r *Recommender) Profiles() *ProfileTable {
	return r.profiles
}

// jitter returns a multiplier uniformly distributed in [1-spread, 1+spread).
func (r *Recommender) jitter(spread float64) float64 {
	u := r.rand.Float64()
	if u < 0 {
		u = 0
	} else if u > 1 {
		u = 1
	}
	return 1 + (2*u-1)*spread
}
