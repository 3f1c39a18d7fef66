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

// Package backend loads quantum backend catalogs for the recommender.
//
// A catalog is a JSON or YAML document holding backend descriptors, either as a
// bare list or under a "backends" key next to the usual kind, apiVersion and
// metadata header. Descriptors are decoded leniently: numbers may be strings,
// status may be given as a boolean or a status word, and a field that cannot be
// decoded leaves that one descriptor malformed instead of failing the document.
//
// # Sources
//
// NewSource picks an implementation from a URI:
//
//	backends.yaml, file:///etc/qadvisor/backends.json   local file
//	https://example.com/backends.json                    HTTP(S) download
//	cm://quantum/backends                                Kubernetes ConfigMap
//
// NewSources merges several URIs with MultiSource. CachedSource adds a TTL cache
// that collapses concurrent fetches and keeps serving the last good catalog when
// a refresh fails. Refresher refreshes a CachedSource on a cron schedule.
//
//	src, err := backend.NewSources([]string{"backends.yaml", "https://example.com/live.json"})
//	if err != nil {
//	    return err
//	}
//	cached := backend.NewCachedSource(src, backend.WithTTL(time.Minute))
//	backends, err := cached.Backends(ctx)
package backend
