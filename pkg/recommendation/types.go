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

package recommendation

import (
	"strconv"

	"github.com/qdash/backend-advisor/pkg/header"
	"github.com/qdash/backend-advisor/pkg/recommender"
)

// RecommendationsResponse is the ranked backend list for a request.
type RecommendationsResponse struct {
	header.Header `json:",inline" yaml:",inline"`

	Recommendations []recommender.Recommendation `json:"recommendations" yaml:"recommendations"`
	Params          Params                       `json:"params" yaml:"params"`
}

// TableHeader implements serializer.Tabular.
func (r *RecommendationsResponse) TableHeader() []string {
	return []string{"RANK", "NAME", "SCORE", "QUBITS", "PENDING", "EST. WAIT", "JOBS/H", "EXPLANATION"}
}

// TableRows implements serializer.Tabular.
func (r *RecommendationsResponse) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Recommendations))
	for i, rec := range r.Recommendations {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			rec.Name,
			strconv.FormatFloat(rec.Score, 'f', 3, 64),
			strconv.Itoa(rec.NumQubits),
			strconv.Itoa(rec.PendingJobs),
			seconds(rec.PredictedWaitSeconds),
			strconv.FormatFloat(rec.ThroughputJobsPerHour, 'f', 1, 64),
			rec.Explanation,
		})
	}
	return rows
}

// PredictionsResponse holds raw predictions for every backend that meets the
// qubit requirement, in catalog order, with fleet statistics.
type PredictionsResponse struct {
	header.Header `json:",inline" yaml:",inline"`

	Predictions []recommender.Prediction `json:"predictions" yaml:"predictions"`
	Summary     recommender.Summary      `json:"summary" yaml:"summary"`
	Params      Params                   `json:"params" yaml:"params"`
}

// TableHeader implements serializer.Tabular.
func (r *PredictionsResponse) TableHeader() []string {
	return []string{"NAME", "QUBITS", "PENDING", "OPERATIONAL", "RUNTIME", "EST. WAIT", "JOBS/H"}
}

// TableRows implements serializer.Tabular.
func (r *PredictionsResponse) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Predictions))
	for _, p := range r.Predictions {
		rows = append(rows, []string{
			p.Name,
			strconv.Itoa(p.NumQubits),
			strconv.Itoa(p.PendingJobs),
			strconv.FormatBool(p.Operational),
			seconds(p.PredictedRuntimeSeconds),
			seconds(p.PredictedWaitSeconds),
			strconv.FormatFloat(p.ThroughputJobsPerHour, 'f', 1, 64),
		})
	}
	return rows
}

// ProfilesResponse exposes the performance profile table.
type ProfilesResponse struct {
	header.Header `json:",inline" yaml:",inline"`

	Fallback recommender.Profile                         `json:"fallback" yaml:"fallback"`
	Tiers    map[recommender.Tier]recommender.TierConfig `json:"tiers" yaml:"tiers"`
	Backends []recommender.Profile                       `json:"backends" yaml:"backends"`
}

// NewProfilesResponse wraps a profile table.
func NewProfilesResponse(t *recommender.ProfileTable, version string) *ProfilesResponse {
	resp := &ProfilesResponse{
		Fallback: t.Fallback,
		Tiers:    t.Tiers,
		Backends: t.Backends,
	}
	resp.Init(header.KindProfileTable, version)
	return resp
}

// TableHeader implements serializer.Tabular.
func (r *ProfilesResponse) TableHeader() []string {
	return []string{"NAME", "BASE", "SCALING", "TIER", "PARALLEL", "EFFICIENCY"}
}

// TableRows implements serializer.Tabular. The fallback profile is listed last.
func (r *ProfilesResponse) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Backends)+1)
	for _, p := range r.Backends {
		rows = append(rows, r.row(p.Name, p))
	}
	return append(rows, r.row("(fallback)", r.Fallback))
}

func (r *ProfilesResponse) row(name string, p recommender.Profile) []string {
	tc := r.Tiers[p.Tier]
	parallel, efficiency := tc.ParallelJobs, tc.QueueEfficiency
	if p.ParallelJobs > 0 {
		parallel = p.ParallelJobs
	}
	if p.QueueEfficiency > 0 {
		efficiency = p.QueueEfficiency
	}
	return []string{
		name,
		seconds(p.BaseSeconds),
		strconv.FormatFloat(p.QubitScaling, 'f', 2, 64),
		p.Tier.String(),
		strconv.Itoa(parallel),
		strconv.FormatFloat(efficiency, 'f', 2, 64),
	}
}

func seconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 1, 64) + "s"
}
