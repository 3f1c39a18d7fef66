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

// Package recommendation serves backend recommendations and predictions over
// HTTP and builds the same documents for the CLI.
//
// Requests carry algorithm, job_complexity, top_k, min_qubits,
// max_wait_seconds, include_inactive and shots, as query parameters or as a
// JSON object in a POST body. Malformed or out-of-range values fall back to
// their defaults instead of failing the request; only a POST body that is not
// a JSON object is rejected. Every response echoes the normalized parameters.
//
//	GET  /v1/recommendations?algorithm=highest_qubits&min_qubits=100&top_k=3
//	POST /v1/predictions     {"job_complexity": "high"}
//	GET  /v1/backends
//	GET  /v1/profiles
//
// Responses are JSON unless the Accept header asks for YAML.
package recommendation
