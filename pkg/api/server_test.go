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

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qdash/backend-advisor/pkg/defaults"
	"github.com/qdash/backend-advisor/pkg/errors"
	"github.com/qdash/backend-advisor/pkg/server"
)

const testCatalog = `backends:
  - name: ibm_brisbane
    num_qubits: 127
    operational: true
    pending_jobs: 12
  - name: ibm_nairobi
    num_qubits: 7
    status: online
    queue_length: 0
`

// TestConstants verifies package constants are properly defined
func TestConstants(t *testing.T) {
	if name != "qadvisord" {
		t.Errorf("name = %q, want %q", name, "qadvisord")
	}
	if versionDefault != "dev" {
		t.Errorf("versionDefault = %q, want %q", versionDefault, "dev")
	}
	if version == "" || commit == "" || date == "" {
		t.Error("build variables should not be empty")
	}
}

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		wantErr  bool
		sources  []string
		ttl      time.Duration
		schedule string
		seed     *int64
		noJitter bool
	}{
		{
			name:     "defaults",
			env:      map[string]string{EnvSources: "catalog.yaml"},
			sources:  []string{"catalog.yaml"},
			ttl:      defaults.CatalogCacheTTL,
			schedule: defaults.CatalogRefreshSchedule,
		},
		{
			name: "all set",
			env: map[string]string{
				EnvSources:         " a.yaml, ,https://example.com/b.json,cm://ns/c ",
				EnvCacheTTL:        "2m",
				EnvRefreshSchedule: "*/5 * * * *",
				EnvSeed:            "42",
				EnvDisableJitter:   "true",
			},
			sources:  []string{"a.yaml", "https://example.com/b.json", "cm://ns/c"},
			ttl:      2 * time.Minute,
			schedule: "*/5 * * * *",
			seed:     func() *int64 { v := int64(42); return &v }(),
			noJitter: true,
		},
		{
			name:     "ttl in seconds",
			env:      map[string]string{EnvSources: "a.yaml", EnvCacheTTL: "90"},
			sources:  []string{"a.yaml"},
			ttl:      90 * time.Second,
			schedule: defaults.CatalogRefreshSchedule,
		},
		{name: "no sources", env: map[string]string{}, wantErr: true},
		{name: "bad ttl", env: map[string]string{EnvSources: "a", EnvCacheTTL: "soon"}, wantErr: true},
		{name: "zero ttl", env: map[string]string{EnvSources: "a", EnvCacheTTL: "0s"}, wantErr: true},
		{name: "bad seed", env: map[string]string{EnvSources: "a", EnvSeed: "x"}, wantErr: true},
		{name: "bad jitter flag", env: map[string]string{EnvSources: "a", EnvDisableJitter: "maybe"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseConfig(env(tt.env))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.sources, cfg.Sources)
			assert.Equal(t, tt.ttl, cfg.CacheTTL)
			assert.Equal(t, tt.schedule, cfg.RefreshSchedule)
			assert.Equal(t, tt.seed, cfg.Seed)
			assert.Equal(t, tt.noJitter, cfg.DisableJitter)
		})
	}
}

func TestEngineOptions(t *testing.T) {
	seed := int64(7)
	if got := len(engineOptions(&Config{})); got != 0 {
		t.Errorf("engineOptions(empty) = %d options, want 0", got)
	}
	if got := len(engineOptions(&Config{Seed: &seed, DisableJitter: true})); got != 2 {
		t.Errorf("engineOptions(seed, no jitter) = %d options, want 2", got)
	}
}

func writeCatalog(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "backends.yaml")
	require.NoError(t, os.WriteFile(p, []byte(testCatalog), 0o600))
	return p
}

func TestNewApp(t *testing.T) {
	t.Run("invalid schedule", func(t *testing.T) {
		_, err := newApp(&Config{Sources: []string{writeCatalog(t)}, RefreshSchedule: "never"})
		assert.Error(t, err)
	})

	t.Run("unsupported source", func(t *testing.T) {
		_, err := newApp(&Config{Sources: []string{"ftp://example.com/x"}})
		assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
	})

	t.Run("routes", func(t *testing.T) {
		a, err := newApp(&Config{Sources: []string{writeCatalog(t)}, CacheTTL: time.Minute})
		require.NoError(t, err)

		routes := a.builder.Routes()
		for _, p := range []string{"/v1/recommendations", "/v1/predictions", "/v1/backends", "/v1/profiles"} {
			if routes[p] == nil {
				t.Errorf("missing route %s", p)
			}
		}
	})
}

func TestServerWiring(t *testing.T) {
	a, err := newApp(&Config{
		Sources:       []string{writeCatalog(t)},
		CacheTTL:      time.Minute,
		DisableJitter: true,
	})
	require.NoError(t, err)

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(a.builder.Routes()),
		server.WithReadinessCheck(a.cache.Ready),
	)
	s.SetReady(true)
	h := s.Handler()

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	// catalog not loaded yet
	assert.Equal(t, http.StatusServiceUnavailable, get("/ready").Code)

	require.NoError(t, a.cache.Refresh(context.Background()))
	assert.Equal(t, http.StatusOK, get("/ready").Code)

	w := get("/v1/backends")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ibm_brisbane")
	assert.Contains(t, w.Body.String(), "ibm_nairobi")

	w = get("/v1/recommendations?algorithm=fastest_queue&top_k=1")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	if !strings.Contains(body, "ibm_nairobi") || strings.Contains(body, "ibm_brisbane") {
		t.Errorf("fastest_queue top_k=1 should return only ibm_nairobi, got %s", body)
	}
}
