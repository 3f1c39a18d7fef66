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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, Summary{}, Summarize(nil))
	})

	t.Run("single prediction has no spread", func(t *testing.T) {
		s := Summarize([]Prediction{{Name: "a", PredictedWaitSeconds: 10, ThroughputJobsPerHour: 5, Operational: true}})
		assert.Equal(t, 1, s.Count)
		assert.Equal(t, 10.0, s.MedianWaitSeconds)
		assert.Equal(t, 0.0, s.StdDevThroughput)
	})

	t.Run("statistics skip fallback entries", func(t *testing.T) {
		preds := []Prediction{
			{Name: "a", PredictedWaitSeconds: 40, PredictedRuntimeSeconds: 10, ThroughputJobsPerHour: 10, Operational: true},
			{Name: "b", PredictedWaitSeconds: 10, PredictedRuntimeSeconds: 20, ThroughputJobsPerHour: 30, Operational: true},
			{Name: "c", PredictedWaitSeconds: 20, PredictedRuntimeSeconds: 30, ThroughputJobsPerHour: 20},
			{Name: "d", PredictedWaitSeconds: 30, PredictedRuntimeSeconds: 40, ThroughputJobsPerHour: 40, Operational: true},
			{Name: "broken", PredictedWaitSeconds: FallbackWaitSeconds, Fallback: true, Operational: true},
		}
		s := Summarize(preds)
		assert.Equal(t, 5, s.Count)
		assert.Equal(t, 4, s.Operational)
		assert.Equal(t, 1, s.Fallback)
		assert.InDelta(t, 25.0, s.MeanWaitSeconds, 1e-9)
		assert.Equal(t, 20.0, s.MedianWaitSeconds)
		assert.Equal(t, 40.0, s.P90WaitSeconds)
		assert.InDelta(t, 25.0, s.MeanRuntimeSeconds, 1e-9)
		assert.InDelta(t, 25.0, s.MeanThroughputJobsPerHour, 1e-9)
		assert.InDelta(t, 12.9099, s.StdDevThroughput, 1e-4)
	})

	t.Run("input is not reordered", func(t *testing.T) {
		preds := []Prediction{{Name: "a", PredictedWaitSeconds: 3}, {Name: "b", PredictedWaitSeconds: 1}}
		Summarize(preds)
		assert.Equal(t, "a", preds[0].Name)
	})
}
