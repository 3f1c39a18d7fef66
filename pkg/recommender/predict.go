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
	"math"
)

const (
	// referenceQubits is the capacity of a "large" device used to normalise qubit counts.
	referenceQubits = 127.0

	minRuntimeSeconds   = 2.0
	compileBaseSeconds  = 2.0
	executeBaseSeconds  = 1.0
	runtimeJitterSpread = 0.10
	waitJitterSpread    = 0.15
)

// PredictRuntime estimates the execution time of a single job in seconds.
// The result is never below 2 seconds.
func (r *Recommender) PredictRuntime(b BackendDescriptor, c Complexity) float64 {
	perf := r.profiles.resolve(b)
	base := baseRuntime(perf, b.NumQubits, c.orDefault())
	return math.Max(minRuntimeSeconds, base*r.jitter(runtimeJitterSpread))
}

// PredictWait estimates how long a new job waits in the queue before it starts.
func (r *Recommender) PredictWait(b BackendDescriptor, c Complexity) float64 {
	if b.PendingJobs <= 0 {
		return 0
	}
	perf := r.profiles.resolve(b)
	perJob := baseRuntime(perf, b.NumQubits, c.orDefault())

	wait := float64(b.PendingJobs) / float64(perf.parallelJobs) * perJob
	wait /= perf.queueEfficiency
	wait *= perf.priorityFactor
	wait *= timeOfDayFactor(r.now().Hour())
	wait *= r.jitter(waitJitterSpread)
	return math.Max(0, wait)
}

// EstimateThroughput estimates how many jobs of the given complexity the backend
// clears per hour.
func (r *Recommender) EstimateThroughput(b BackendDescriptor, c Complexity) float64 {
	c = c.orDefault()
	perf := r.profiles.resolve(b)
	perJob := baseRuntime(perf, b.NumQubits, c)
	return 3600 / perJob * float64(perf.parallelJobs) * perf.queueEfficiency * c.throughputFactor()
}

// baseRuntime is the runtime estimate before jitter.
func baseRuntime(perf performance, qubits int, c Complexity) float64 {
	q := float64(max(qubits, 0))
	mult := c.runtimeMultiplier()

	core := perf.baseSeconds * (1 + perf.qubitScaling*q/referenceQubits) * mult
	compile := compileBaseSeconds * (1 + 0.1*math.Log2(1+q)) * math.Sqrt(mult)
	execute := executeBaseSeconds * (1 + 0.05*math.Log2(1+q))
	return math.Max(minRuntimeSeconds, core+compile+execute)
}

// timeOfDayFactor models daily usage: busy business hours, a lighter evening
// and a quiet night.
func timeOfDayFactor(hour int) float64 {
	switch {
	case hour >= 9 && hour <= 17:
		return 1.2
	case hour >= 18 && hour <= 22:
		return 1.1
	default:
		return 0.8
	}
}
