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

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qadvisor_http_requests_total",
			Help: "Advisor API requests by method, route pattern and status",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qadvisor_http_request_duration_seconds",
			Help:    "Advisor API latency by method and route pattern",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "qadvisor_http_requests_in_flight",
			Help: "Advisor API requests currently being served",
		},
	)

	errorResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qadvisor_http_error_responses_total",
			Help: "Structured error responses by error code",
		},
		[]string{"code"},
	)

	notReadyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qadvisor_not_ready_total",
			Help: "Readiness probes answered not ready, by reason",
		},
		[]string{"reason"},
	)

	rateLimitRejects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "qadvisor_rate_limit_rejects_total",
			Help: "Requests rejected by the token bucket",
		},
	)

	panicRecoveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "qadvisor_panic_recoveries_total",
			Help: "Handler panics turned into INTERNAL errors",
		},
	)
)

// metricsMiddleware records RED metrics per route pattern. Requests that match
// no registered pattern share the "unmatched" label so stray paths cannot grow
// the label set.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := newResponseWriter(w)
		next.ServeHTTP(wrapped, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.Status())).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	}
}
