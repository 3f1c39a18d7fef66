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
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/qdash/backend-advisor/pkg/defaults"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (c *countingRefresher) Name() string { return "counting" }

func (c *countingRefresher) Refresh(_ context.Context) error {
	c.calls.Add(1)
	return c.err
}

func TestNewRefresher(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		want     string
		wantErr  bool
	}{
		{name: "default", schedule: "", want: defaults.CatalogRefreshSchedule},
		{name: "descriptor", schedule: "@every 5m", want: "@every 5m"},
		{name: "standard", schedule: "*/2 * * * *", want: "*/2 * * * *"},
		{name: "invalid", schedule: "every now and then", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRefresher(&countingRefresher{}, tt.schedule)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Schedule())
		})
	}
}

func TestRefresherStartRefreshesImmediately(t *testing.T) {
	src := &countingRefresher{}
	r, err := NewRefresher(src, "@every 1h")
	require.NoError(t, err)

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	assert.Equal(t, int32(1), src.calls.Load())
}

func TestRefresherStartReportsError(t *testing.T) {
	src := &countingRefresher{err: fmt.Errorf("unreachable")}
	r, err := NewRefresher(src, "@every 1h")
	require.NoError(t, err)

	err = r.Start(context.Background())
	require.Error(t, err)
	r.Stop()
}

func TestRefresherRunsOnSchedule(t *testing.T) {
	src := &countingRefresher{}
	r, err := NewRefresher(src, "@every 1s")
	require.NoError(t, err)

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	require.Eventually(t, func() bool { return src.calls.Load() >= 2 }, 3*time.Second, 50*time.Millisecond)
}

func TestRefresherWithCachedSource(t *testing.T) {
	src := newFakeSource("fake", "ibm_kyiv")
	cache := NewCachedSource(src, WithTTL(time.Hour))

	r, err := NewRefresher(cache, "@every 1h")
	require.NoError(t, err)
	require.NoError(t, r.Start(context.Background()))
	r.Stop()

	assert.True(t, cache.Ready())
	_, err = cache.Backends(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.calls.Load())
}
