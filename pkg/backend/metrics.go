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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	catalogCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qadvisor_catalog_cache_requests_total",
			Help: "Catalog cache lookups by result (hit, miss, stale)",
		},
		[]string{"result"},
	)

	catalogFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qadvisor_catalog_fetch_duration_seconds",
			Help:    "Time spent fetching a backend catalog from its source",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	catalogFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qadvisor_catalog_fetch_errors_total",
			Help: "Failed catalog fetches by source",
		},
		[]string{"source"},
	)

	catalogBackends = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "qadvisor_catalog_backends",
			Help: "Number of backends in the last successfully fetched catalog",
		},
		[]string{"source"},
	)
)
