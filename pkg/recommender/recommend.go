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
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Recommend ranks backends for the job and returns at most topK entries.
//
// Non-operational backends are skipped unless includeInactive is set, and backends
// with fewer qubits than job.MinQubits are never returned. Entries are ordered by
// score (descending), then predicted wait, pending jobs and name (ascending).
// A topK of zero or less returns DefaultTopK entries.
func (r *Recommender) Recommend(backends []BackendDescriptor, job JobRequest, topK int, includeInactive bool) []Recommendation {
	start := time.Now()
	defer func() {
		recommendDuration.Observe(time.Since(start).Seconds())
	}()

	job = job.Normalize()
	if topK <= 0 {
		topK = DefaultTopK
	}

	recs := make([]Recommendation, 0, len(backends))
	for _, b := range backends {
		if !b.Operational && !includeInactive {
			evaluationsTotal.WithLabelValues(evaluationExcluded).Inc()
			continue
		}
		if !job.meetsQubitRequirement(b) {
			evaluationsTotal.WithLabelValues(evaluationExcluded).Inc()
			continue
		}

		ev := r.evaluate(b, job)
		recs = append(recs, Recommendation{
			Name:                    b.Name,
			Score:                   ev.score,
			Operational:             b.Operational,
			PendingJobs:             b.PendingJobs,
			NumQubits:               b.NumQubits,
			Tier:                    ev.tier,
			PredictedRuntimeSeconds: ev.runtime,
			PredictedWaitSeconds:    ev.breakdown.PredictedWaitSeconds,
			ThroughputJobsPerHour:   ev.breakdown.ThroughputJobsPerHour,
			Algorithm:               job.Policy,
			ScoreBreakdown:          ev.breakdown,
			Explanation:             explain(b, job, ev),
		})
	}

	sortRecommendations(recs)
	if len(recs) > topK {
		recs = recs[:topK]
	}

	recommendationsTotal.WithLabelValues(job.Policy.String()).Inc()
	slog.Debug("ranked backends",
		"algorithm", job.Policy, "candidates", len(backends), "returned", len(recs))

	return recs
}

func sortRecommendations(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.PredictedWaitSeconds != b.PredictedWaitSeconds {
			return a.PredictedWaitSeconds < b.PredictedWaitSeconds
		}
		if a.PendingJobs != b.PendingJobs {
			return a.PendingJobs < b.PendingJobs
		}
		return a.Name < b.Name
	})
}

// Predictions returns raw estimates for every backend that satisfies job.MinQubits,
// in input order. Inactive backends are included.
func (r *Recommender) Predictions(backends []BackendDescriptor, job JobRequest) []Prediction {
	job = job.Normalize()

	preds := make([]Prediction, 0, len(backends))
	for _, b := range backends {
		if !job.meetsQubitRequirement(b) {
			continue
		}
		preds = append(preds, r.predict(b, job.Complexity))
	}
	return preds
}

func (r *Recommender) predict(b BackendDescriptor, c Complexity) (p Prediction) {
	p = Prediction{
		Name:        b.Name,
		NumQubits:   b.NumQubits,
		PendingJobs: b.PendingJobs,
		Operational: b.Operational,
		Tier:        b.Tier,
		Complexity:  c,
	}
	setFallback := func() {
		p.PredictedRuntimeSeconds = FallbackRuntimeSeconds
		p.PredictedWaitSeconds = FallbackWaitSeconds
		p.ThroughputJobsPerHour = 0
		p.Fallback = true
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Warn("backend prediction failed, using fallback estimates",
				"backend", b.Name, "panic", fmt.Sprint(rec))
			setFallback()
		}
	}()

	if err := b.Validate(); err != nil {
		slog.Warn("malformed backend descriptor, using fallback estimates",
			"backend", b.Name, "error", err)
		setFallback()
		return p
	}

	p.Tier = r.profiles.resolve(b).tier
	p.PredictedRuntimeSeconds = r.PredictRuntime(b, c)
	p.PredictedWaitSeconds = r.PredictWait(b, c)
	p.ThroughputJobsPerHour = r.EstimateThroughput(b, c)
	return p
}

// PolicyLabel returns the display name of a policy, e.g. "Fastest Queue".
func PolicyLabel(p Policy) string {
	// Casers keep internal state, so one is made per call.
	return cases.Title(language.English).String(strings.ReplaceAll(p.String(), "_", " "))
}

func explain(b BackendDescriptor, job JobRequest, ev evaluation) string {
	label := PolicyLabel(job.Policy)
	bd := ev.breakdown
	if bd.Fallback {
		return fmt.Sprintf("%s policy: descriptor could not be evaluated, fallback scores applied", label)
	}

	type factor struct {
		name          string
		weight, value float64
	}
	factors := []factor{
		{"queue length", bd.Weights.Queue, bd.QueueScore},
		{"operational status", bd.Weights.Operational, bd.OperationalScore},
		{"qubit capacity", bd.Weights.Qubits, bd.QubitScore},
	}
	top := factors[0]
	for _, f := range factors[1:] {
		if f.weight*f.value > top.weight*top.value {
			top = f
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s policy: %s dominates (%.2f x %.2f); %d qubits, %d pending jobs, est. wait %s",
		label, top.name, top.weight, top.value, b.NumQubits, b.PendingJobs, formatSeconds(bd.PredictedWaitSeconds))
	if !b.Operational {
		sb.WriteString("; backend is not operational")
	}
	if bd.WaitPenalty {
		fmt.Fprintf(&sb, "; exceeds wait budget of %s, score halved", formatSeconds(*job.MaxWaitSeconds))
	}
	return sb.String()
}

func formatSeconds(s float64) string {
	return time.Duration(s * float64(time.Second)).Round(time.Second).String()
}
