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
	stderrors "errors"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/qdash/backend-advisor/pkg/errors"
	"github.com/qdash/backend-advisor/pkg/recommender"
)

// MultiSource fetches several sources concurrently and merges their catalogs.
// Backends are deduplicated by case-insensitive name; the first source listed
// wins. A failing source is logged and skipped unless every source fails.
type MultiSource struct {
	sources []Source
}

// NewMultiSource combines sources in priority order.
func NewMultiSource(sources ...Source) *MultiSource {
	return &MultiSource{sources: sources}
}

// Name implements Source.
func (m *MultiSource) Name() string {
	names := make([]string, 0, len(m.sources))
	for _, s := range m.sources {
		names = append(names, s.Name())
	}
	return strings.Join(names, ",")
}

// Backends implements Source.
func (m *MultiSource) Backends(ctx context.Context) ([]recommender.BackendDescriptor, error) {
	results := make([][]recommender.BackendDescriptor, len(m.sources))
	failures := make([]error, len(m.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range m.sources {
		g.Go(func() error {
			backends, err := src.Backends(gctx)
			if err != nil {
				// partial failures are tolerated, collected for the all-failed case
				failures[i] = err
				return nil
			}
			results[i] = backends
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	seen := make(map[string]bool)
	merged := make([]recommender.BackendDescriptor, 0)
	for i, backends := range results {
		if failures[i] != nil {
			slog.Warn("catalog source failed",
				"source", m.sources[i].Name(),
				"error", failures[i])
			errs = append(errs, failures[i])
			continue
		}
		for _, b := range backends {
			key := strings.ToLower(b.Name)
			if key != "" && seen[key] {
				slog.Debug("duplicate backend ignored",
					"backend", b.Name,
					"source", m.sources[i].Name())
				continue
			}
			seen[key] = true
			merged = append(merged, b)
		}
	}

	if len(m.sources) > 0 && len(errs) == len(m.sources) {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "all catalog sources failed", stderrors.Join(errs...))
	}
	return merged, nil
}
