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
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/qdash/backend-advisor/pkg/defaults"
	"github.com/qdash/backend-advisor/pkg/errors"
	"github.com/qdash/backend-advisor/pkg/serializer"
	"github.com/qdash/backend-advisor/pkg/server"
)

// Routes returns the API handlers keyed by path, for server.WithHandler.
func (b *Builder) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/recommendations": b.HandleRecommendations,
		"/v1/predictions":     b.HandlePredictions,
		"/v1/backends":        b.HandleBackends,
		"/v1/profiles":        b.HandleProfiles,
	}
}

// HandleRecommendations serves GET (query parameters) and POST (JSON body)
// /v1/recommendations.
func (b *Builder) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	p, ok := b.parse(w, r, http.MethodGet, http.MethodPost)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.RecommendHandlerTimeout)
	defer cancel()

	resp, err := b.Recommend(ctx, p)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to build recommendations", nil)
		return
	}
	b.respond(w, r, resp)
}

// HandlePredictions serves GET and POST /v1/predictions.
func (b *Builder) HandlePredictions(w http.ResponseWriter, r *http.Request) {
	p, ok := b.parse(w, r, http.MethodGet, http.MethodPost)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.RecommendHandlerTimeout)
	defer cancel()

	resp, err := b.Predict(ctx, p)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to build predictions", nil)
		return
	}
	b.respond(w, r, resp)
}

// HandleBackends serves GET /v1/backends with the current catalog.
func (b *Builder) HandleBackends(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.RecommendHandlerTimeout)
	defer cancel()

	catalog, err := b.Catalog(ctx)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to load backend catalog", nil)
		return
	}
	b.respond(w, r, catalog)
}

// HandleProfiles serves GET /v1/profiles with the performance profile table.
func (b *Builder) HandleProfiles(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	b.respond(w, r, b.Profiles())
}

func (b *Builder) parse(w http.ResponseWriter, r *http.Request, methods ...string) (Params, bool) {
	if !allowMethods(w, r, methods...) {
		return Params{}, false
	}
	p, err := ParseRequest(r)
	if err != nil {
		server.WriteError(w, r, http.StatusBadRequest, errors.ErrCodeInvalidRequest,
			"Invalid request body", false, map[string]any{"error": err.Error()})
		return Params{}, false
	}
	return p, true
}

func (b *Builder) respond(w http.ResponseWriter, r *http.Request, v any) {
	if b.cacheTTL > 0 && r.Method == http.MethodGet {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(b.cacheTTL.Seconds())))
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}
	serializer.Respond(w, r, http.StatusOK, v)
}

func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	if slices.Contains(methods, r.Method) {
		return true
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	server.WriteError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{"method": r.Method})
	return false
}
