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

// Package recommender predicts how quantum backends will handle a job and ranks them.
//
// # Overview
//
// The recommender takes a snapshot of backend descriptors (qubit count, pending jobs,
// operational status, optional service tier) together with a job request (complexity,
// shots, qubit requirement, wait budget, scoring policy) and produces:
//
//   - Per-backend predictions: runtime, queue wait and throughput
//   - A ranked list of backends scored under the selected policy
//
// It performs no I/O and keeps no state between calls. Callers supply the backend
// list every time; caching of that list belongs to pkg/backend.
//
// # Usage
//
//	r := recommender.New()
//
//	job := recommender.JobRequest{
//	    Complexity: recommender.ComplexityHigh,
//	    MinQubits:  27,
//	    Policy:     recommender.PolicyBalanced,
//	}
//
//	recs := r.Recommend(backends, job, 5, false)
//	for _, rec := range recs {
//	    fmt.Printf("%s %.3f %s\n", rec.Name, rec.Score, rec.Explanation)
//	}
//
// # Predictions
//
// Runtime combines a per-backend base time from the profile table with a qubit scaling
// factor and a complexity multiplier (low 0.6, medium 1.0, high 2.2), plus compilation and
// execution overhead. Wait time divides the pending queue by the backend's parallel
// capacity and adjusts for queue efficiency, tier priority and time of day. Throughput is
// the number of jobs per hour the backend can clear at the given complexity.
//
// Runtime and wait estimates carry a small random jitter (±10% and ±15%). The random
// source is injected with WithRandSource, WithSeed or WithoutJitter so tests can pin it.
//
// # Scoring Policies
//
//   - auto: queue-weighted, or qubit-weighted when the job needs 64+ qubits
//   - balanced: 0.5 queue, 0.3 operational, 0.2 qubits
//   - fastest_queue, low_latency: 0.8 queue, 0.2 operational
//   - highest_qubits: 0.1 queue, 0.2 operational, 0.7 qubits
//
// A backend with fewer qubits than MinQubits gets a qubit score of 0 and is left out of
// rankings. A backend whose predicted wait exceeds MaxWaitSeconds has its score halved.
//
// # Error Handling
//
// Nothing in this package returns an error to the caller. Unknown policies and
// complexities fall back to their defaults, and a malformed descriptor is scored with
// the fallback constants so the rest of the list is still ranked.
//
// # Observability
//
// The recommender exports Prometheus metrics:
//   - qadvisor_recommend_duration_seconds: Time to rank a backend list
//   - qadvisor_backend_evaluations_total: Backends scored, excluded or given fallback scores
//   - qadvisor_recommendations_total: Rankings produced per policy
package recommender
