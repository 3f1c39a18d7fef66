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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	evaluationScored   = "scored"
	evaluationExcluded = "excluded"
	evaluationFallback = "fallback"
)

var (
	recommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qadvisor_recommend_duration_seconds",
			Help:    "Time taken to rank a backend list",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	evaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qadvisor_backend_evaluations_total",
			Help: "Total number of backend evaluations by result",
		},
		[]string{"result"},
	)

	recommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qadvisor_recommendations_total",
			Help: "Total number of rankings produced per policy",
		},
		[]string{"algorithm"},
	)
)
