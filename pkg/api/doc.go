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

// Package api wires the qadvisord HTTP server.
//
// It loads catalog configuration from the environment, builds a cached
// multi-source backend catalog with a cron-driven refresher, and hands the
// recommendation routes to pkg/server, which owns middleware, health,
// readiness and metrics.
//
// # Endpoints
//
//   - GET|POST /v1/recommendations - ranked backends for a job
//   - GET|POST /v1/predictions     - per-backend predictions with a fleet summary
//   - GET /v1/backends             - the decoded catalog
//   - GET /v1/profiles             - the performance profile table
//   - GET /health, /ready, /metrics
//
// # Configuration
//
//   - QADVISOR_SOURCES: comma separated catalog URIs (required)
//   - QADVISOR_CACHE_TTL: catalog cache TTL, "90s" or "90" (default 60s)
//   - QADVISOR_REFRESH_SCHEDULE: cron schedule (default "@every 30s")
//   - QADVISOR_SEED: seed for reproducible wait jitter
//   - QADVISOR_DISABLE_JITTER: true to disable wait jitter
//   - PORT, SHUTDOWN_TIMEOUT_SECONDS, LOG_LEVEL
//
// A .env file in the working directory is loaded first when present.
//
// Example:
//
//	QADVISOR_SOURCES=./backends.yaml,cm://quantum/backends qadvisord
//	curl 'http://localhost:8080/v1/recommendations?algorithm=fastest_queue&top_k=3'
package api
