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

package recommendation

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/qdash/backend-advisor/pkg/backend"
	"github.com/qdash/backend-advisor/pkg/defaults"
	"github.com/qdash/backend-advisor/pkg/errors"
	"github.com/qdash/backend-advisor/pkg/header"
	"github.com/qdash/backend-advisor/pkg/recommender"
)

// Builder turns request parameters and the current backend catalog into
// recommendation, prediction and catalog documents. It backs both the HTTP
// handlers and the CLI.
type Builder struct {
	source   backend.Source
	engine   *recommender.Recommender
	version  string
	cacheTTL time.Duration
}

// Option is a functional option for configuring Builder instances.
type Option func(*Builder)

// WithSource sets the backend catalog source.
func WithSource(s backend.Source) Option {
	return func(b *Builder) {
		b.source = s
	}
}

// WithRecommender sets the engine used for scoring and prediction.
func WithRecommender(r *recommender.Recommender) Option {
	return func(b *Builder) {
		if r != nil {
			b.engine = r
		}
	}
}

// WithVersion sets the version stamped into response metadata.
func WithVersion(version string) Option {
	return func(b *Builder) {
		b.version = version
	}
}

// WithCacheTTL sets the Cache-Control max-age of HTTP responses. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(b *Builder) {
		b.cacheTTL = ttl
	}
}

// NewBuilder creates a Builder. Without a source the catalog is empty.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		cacheTTL: defaults.ResponseCacheTTL,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.source == nil {
		b.source = backend.NewStaticSource("empty", nil)
	}
	if b.engine == nil {
		b.engine = recommender.New()
	}
	return b
}

// Recommend ranks the current catalog for p.
func (b *Builder) Recommend(ctx context.Context, p Params) (*RecommendationsResponse, error) {
	p = p.Normalize()
	backends, err := b.backends(ctx)
	if err != nil {
		return nil, err
	}

	resp := &RecommendationsResponse{
		Recommendations: b.engine.Recommend(backends, p.Job(), p.TopK, p.IncludeInactive),
		Params:          p,
	}
	resp.Init(header.KindBackendRecommendation, b.version)
	resp.Metadata["source"] = b.source.Name()
	resp.Metadata["backends"] = strconv.Itoa(len(backends))
	return resp, nil
}

// Predict returns raw predictions and fleet statistics for p.
func (b *Builder) Predict(ctx context.Context, p Params) (*PredictionsResponse, error) {
	p = p.Normalize()
	backends, err := b.backends(ctx)
	if err != nil {
		return nil, err
	}

	preds := b.engine.Predictions(backends, p.Job())
	resp := &PredictionsResponse{
		Predictions: preds,
		Summary:     recommender.Summarize(preds),
		Params:      p,
	}
	resp.Init(header.KindBackendPredictions, b.version)
	resp.Metadata["source"] = b.source.Name()
	return resp, nil
}

// Catalog returns the current backend catalog.
func (b *Builder) Catalog(ctx context.Context) (*backend.Catalog, error) {
	backends, err := b.backends(ctx)
	if err != nil {
		return nil, err
	}
	c := backend.NewCatalog(backends, b.version)
	c.Metadata["source"] = b.source.Name()
	return c, nil
}

// Profiles returns the engine's performance profile table.
func (b *Builder) Profiles() *ProfilesResponse {
	return NewProfilesResponse(b.engine.Profiles(), b.version)
}

func (b *Builder) backends(ctx context.Context) ([]recommender.BackendDescriptor, error) {
	backends, err := b.source.Backends(ctx)
	if err != nil {
		slog.Error("failed to load backend catalog", "source", b.source.Name(), "error", err)
		var se *errors.StructuredError
		switch {
		case stderrors.As(err, &se):
			return nil, err
		case stderrors.Is(err, context.DeadlineExceeded):
			return nil, errors.Wrap(errors.ErrCodeTimeout, "timed out loading backend catalog", err)
		default:
			return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to load backend catalog", err)
		}
	}
	return backends, nil
}
