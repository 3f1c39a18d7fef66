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

// Package server provides the HTTP server behind qadvisord.
//
// The server mounts caller-supplied API handlers behind a middleware chain and
// adds the system endpoints itself:
//
//	GET /          service name, version, readiness and routes
//	GET /health    liveness probe
//	GET /ready     readiness probe, optionally gated by WithReadinessCheck
//	GET /metrics   Prometheus exposition
//
// # Usage
//
//	s := server.New(
//	    server.WithName("qadvisord"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/recommendations": builder.HandleRecommendations,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// Run blocks until SIGINT, SIGTERM or context cancellation and then drains
// in-flight requests for up to ShutdownTimeout.
//
// # Middleware
//
// API handlers run inside, from outermost: Prometheus RED metrics, API version
// negotiation (Accept: application/vnd.qdash.qadvisor.v1+json), request IDs
// (X-Request-Id, UUID), panic recovery, token bucket rate limiting
// (golang.org/x/time/rate) and debug request logging.
//
// # Errors
//
// Every error is written as an ErrorResponse:
//
//	{
//	  "code": "RATE_LIMIT_EXCEEDED",
//	  "message": "Rate limit exceeded",
//	  "details": {"limit": 100, "burst": 200},
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2025-01-01T12:00:00Z",
//	  "retryable": true
//	}
//
// WriteErrorFromErr derives status, code and retryability from a
// pkg/errors.StructuredError anywhere in the error chain.
//
// # Configuration
//
// NewConfig reads PORT and SHUTDOWN_TIMEOUT_SECONDS from the environment; other
// timeouts come from pkg/defaults.
//
// # Metrics
//
//   - qadvisor_http_requests_total{method,path,status}
//   - qadvisor_http_request_duration_seconds{method,path}
//   - qadvisor_http_requests_in_flight
//   - qadvisor_rate_limit_rejects_total
//   - qadvisor_panic_recoveries_total
package server
