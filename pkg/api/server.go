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
	"log/slog"

	"github.com/qdash/backend-advisor/pkg/backend"
	"github.com/qdash/backend-advisor/pkg/logging"
	"github.com/qdash/backend-advisor/pkg/recommendation"
	"github.com/qdash/backend-advisor/pkg/recommender"
	"github.com/qdash/backend-advisor/pkg/server"
)

const (
	name           = "qadvisord"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/qdash/backend-advisor/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve starts the API server and blocks until shutdown.
func Serve() error {
	ctx := context.Background()

	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	cfg, err := LoadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		slog.Error("failed to set up catalog", "error", err)
		return err
	}

	// a failed first refresh leaves the server unready until the catalog loads
	if err := a.refresher.Start(ctx); err != nil {
		slog.Warn("initial catalog refresh failed", "source", a.cache.Name(), "error", err)
	}
	defer a.refresher.Stop()

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(a.builder.Routes()),
		server.WithReadinessCheck(a.cache.Ready),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

// app is the catalog and engine wiring behind the HTTP routes.
type app struct {
	cache     *backend.CachedSource
	refresher *backend.Refresher
	builder   *recommendation.Builder
}

func newApp(cfg *Config) (*app, error) {
	src, err := backend.NewSources(cfg.Sources)
	if err != nil {
		return nil, err
	}

	cache := backend.NewCachedSource(src, backend.WithTTL(cfg.CacheTTL))

	refresher, err := backend.NewRefresher(cache, cfg.RefreshSchedule)
	if err != nil {
		return nil, err
	}

	b := recommendation.NewBuilder(
		recommendation.WithSource(cache),
		recommendation.WithRecommender(recommender.New(engineOptions(cfg)...)),
		recommendation.WithVersion(version),
	)

	slog.Debug("catalog configured",
		"source", cache.Name(),
		"ttl", cfg.CacheTTL.String(),
		"schedule", refresher.Schedule())

	return &app{cache: cache, refresher: refresher, builder: b}, nil
}

func engineOptions(cfg *Config) []recommender.Option {
	var opts []recommender.Option
	if cfg.Seed != nil {
		opts = append(opts, recommender.WithSeed(*cfg.Seed))
	}
	if cfg.DisableJitter {
		opts = append(opts, recommender.WithoutJitter())
	}
	return opts
}
