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
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/qdash/backend-advisor/pkg/defaults"
	"github.com/qdash/backend-advisor/pkg/errors"
)

// Environment variables read by LoadConfig.
const (
	EnvSources         = "QADVISOR_SOURCES"
	EnvCacheTTL        = "QADVISOR_CACHE_TTL"
	EnvRefreshSchedule = "QADVISOR_REFRESH_SCHEDULE"
	EnvSeed            = "QADVISOR_SEED"
	EnvDisableJitter   = "QADVISOR_DISABLE_JITTER"
)

// Config holds the qadvisord settings that are not owned by pkg/server.
type Config struct {
	// Sources are catalog URIs (file path, http(s):// or cm://namespace/name).
	Sources []string

	// CacheTTL is how long a fetched catalog is served before refetching.
	CacheTTL time.Duration

	// RefreshSchedule is the cron schedule for background catalog refresh.
	RefreshSchedule string

	// Seed makes engine jitter reproducible when set.
	Seed *int64

	// DisableJitter turns off estimate jitter on predicted wait and runtime.
	DisableJitter bool
}

// LoadConfig reads Config from the environment, loading a .env file from
// the working directory first when one exists.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	return parseConfig(os.Getenv)
}

func parseConfig(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Sources:         splitList(getenv(EnvSources)),
		CacheTTL:        defaults.CatalogCacheTTL,
		RefreshSchedule: defaults.CatalogRefreshSchedule,
	}

	if v := strings.TrimSpace(getenv(EnvCacheTTL)); v != "" {
		d, err := parseDuration(v)
		if err != nil || d <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidRequest,
				"invalid "+EnvCacheTTL+": "+v)
		}
		cfg.CacheTTL = d
	}

	if v := strings.TrimSpace(getenv(EnvRefreshSchedule)); v != "" {
		cfg.RefreshSchedule = v
	}

	if v := strings.TrimSpace(getenv(EnvSeed)); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid "+EnvSeed, err)
		}
		cfg.Seed = &seed
	}

	if v := strings.TrimSpace(getenv(EnvDisableJitter)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid "+EnvDisableJitter, err)
		}
		cfg.DisableJitter = b
	}

	if len(cfg.Sources) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			EnvSources+" must list at least one catalog source")
	}

	return cfg, nil
}

// parseDuration accepts Go durations ("90s", "2m") and bare seconds ("90").
func parseDuration(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
