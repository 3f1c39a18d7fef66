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
	"fmt"
	"log/slog"
	"math"
)

const (
	// FallbackWaitSeconds is the predicted wait reported for a backend that could not be evaluated.
	FallbackWaitSeconds = 3600.0

	// FallbackRuntimeSeconds is the predicted runtime reported for a backend that could not be evaluated.
	FallbackRuntimeSeconds = 30.0

	waitPenaltyFactor = 0.5
)

// evaluation is everything computed for one backend under one job.
type evaluation struct {
	score     float64
	breakdown ScoreBreakdown
	runtime   float64
	tier      Tier
}

// Score computes the composite desirability of a backend for the job and the
// breakdown behind it. The score is always within [0, 1].
//
// A backend below the job's MinQubits gets a qubit score of 0; its queue and
// operational terms still count. Recommend leaves such backends out entirely.
func (r *Recommender) Score(b BackendDescriptor, job JobRequest) (float64, ScoreBreakdown) {
	ev := r.evaluate(b, job.Normalize())
	return ev.score, ev.breakdown
}

// evaluate expects a normalized job. It never panics; a malformed descriptor or a
// failure while computing yields the fallback evaluation.
func (r *Recommender) evaluate(b BackendDescriptor, job JobRequest) (ev evaluation) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Warn("backend evaluation failed, using fallback scores",
				"backend", b.Name, "panic", fmt.Sprint(rec))
			ev = fallbackEvaluation(job)
		}
	}()

	if err := b.Validate(); err != nil {
		slog.Warn("malformed backend descriptor, using fallback scores",
			"backend", b.Name, "error", err)
		return fallbackEvaluation(job)
	}

	w := weightsFor(job)
	bd := ScoreBreakdown{
		QueueScore:            queueScore(b.PendingJobs),
		QubitScore:            qubitScore(b.NumQubits, job.MinQubits),
		PredictedWaitSeconds:  r.PredictWait(b, job.Complexity),
		ThroughputJobsPerHour: r.EstimateThroughput(b, job.Complexity),
		Weights:               w,
	}
	if b.Operational {
		bd.OperationalScore = 1
	}

	score := w.Queue*bd.QueueScore + w.Operational*bd.OperationalScore + w.Qubits*bd.QubitScore
	if job.MaxWaitSeconds != nil && bd.PredictedWaitSeconds > *job.MaxWaitSeconds {
		score *= waitPenaltyFactor
		bd.WaitPenalty = true
	}
	if math.IsNaN(score) {
		panic("score is NaN")
	}

	evaluationsTotal.WithLabelValues(evaluationScored).Inc()
	return evaluation{
		score:     clamp(score, 0, 1),
		breakdown: bd,
		runtime:   r.PredictRuntime(b, job.Complexity),
		tier:      r.profiles.resolve(b).tier,
	}
}

func fallbackEvaluation(job JobRequest) evaluation {
	evaluationsTotal.WithLabelValues(evaluationFallback).Inc()
	return evaluation{
		breakdown: ScoreBreakdown{
			PredictedWaitSeconds: FallbackWaitSeconds,
			Weights:              weightsFor(job),
			Fallback:             true,
		},
		runtime: FallbackRuntimeSeconds,
	}
}

// weightsFor returns the weight triple of the job's policy.
func weightsFor(job JobRequest) Weights {
	switch job.Policy {
	case PolicyFastestQueue, PolicyLowLatency:
		return Weights{Queue: 0.8, Operational: 0.2, Qubits: 0.0}
	case PolicyHighestQubits:
		return Weights{Queue: 0.1, Operational: 0.2, Qubits: 0.7}
	case PolicyAuto:
		if job.MinQubits >= qubitRequirementThreshold {
			return Weights{Queue: 0.2, Operational: 0.2, Qubits: 0.6}
		}
		return Weights{Queue: 0.6, Operational: 0.3, Qubits: 0.1}
	default:
		return Weights{Queue: 0.5, Operational: 0.3, Qubits: 0.2}
	}
}

// queueScore is strictly decreasing in the number of pending jobs and never reaches 0.
func queueScore(pending int) float64 {
	return 1 / (1 + float64(max(pending, 0)))
}

func qubitScore(qubits, minQubits int) float64 {
	if minQubits <= 0 {
		return math.Min(1, float64(qubits)/referenceQubits)
	}
	if qubits < minQubits {
		return 0
	}
	surplus := float64(qubits-minQubits) / float64(minQubits)
	return clamp(0.5+0.5*surplus, 0.1, 1.0)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
