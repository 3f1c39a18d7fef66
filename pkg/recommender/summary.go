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
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary describes the fleet-wide distribution of predictions.
// Fallback predictions are counted but excluded from the statistics.
type Summary struct {
	Count                     int     `json:"count" yaml:"count"`
	Operational               int     `json:"operational" yaml:"operational"`
	Fallback                  int     `json:"fallback" yaml:"fallback"`
	MeanWaitSeconds           float64 `json:"mean_wait_seconds" yaml:"mean_wait_seconds"`
	MedianWaitSeconds         float64 `json:"median_wait_seconds" yaml:"median_wait_seconds"`
	P90WaitSeconds            float64 `json:"p90_wait_seconds" yaml:"p90_wait_seconds"`
	MeanRuntimeSeconds        float64 `json:"mean_runtime_seconds" yaml:"mean_runtime_seconds"`
	MeanThroughputJobsPerHour float64 `json:"mean_throughput_jobs_per_hour" yaml:"mean_throughput_jobs_per_hour"`
	StdDevThroughput          float64 `json:"stddev_throughput" yaml:"stddev_throughput"`
}

// Summarize computes summary statistics over predictions.
func Summarize(preds []Prediction) Summary {
	s := Summary{Count: len(preds)}

	waits := make([]float64, 0, len(preds))
	runtimes := make([]float64, 0, len(preds))
	throughputs := make([]float64, 0, len(preds))
	for _, p := range preds {
		if p.Operational {
			s.Operational++
		}
		if p.Fallback {
			s.Fallback++
			continue
		}
		waits = append(waits, p.PredictedWaitSeconds)
		runtimes = append(runtimes, p.PredictedRuntimeSeconds)
		throughputs = append(throughputs, p.ThroughputJobsPerHour)
	}
	if len(waits) == 0 {
		return s
	}

	sort.Float64s(waits)
	s.MeanWaitSeconds = stat.Mean(waits, nil)
	s.MedianWaitSeconds = stat.Quantile(0.5, stat.Empirical, waits, nil)
	s.P90WaitSeconds = stat.Quantile(0.9, stat.Empirical, waits, nil)
	s.MeanRuntimeSeconds = stat.Mean(runtimes, nil)
	s.MeanThroughputJobsPerHour = stat.Mean(throughputs, nil)
	if len(throughputs) > 1 {
		s.StdDevThroughput = stat.StdDev(throughputs, nil)
	}
	return s
}
