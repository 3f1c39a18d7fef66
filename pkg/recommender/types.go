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
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	// DefaultShots is the shot count assumed when a request omits it.
	DefaultShots = 1024

	// DefaultTopK is the number of recommendations returned when top_k is not positive.
	DefaultTopK = 5

	// qubitRequirementThreshold switches the auto policy to qubit-weighted scoring.
	qubitRequirementThreshold = 64
)

// ErrMalformedDescriptor is returned by BackendDescriptor.Validate.
var ErrMalformedDescriptor = errors.New("malformed backend descriptor")

// Tier represents the service class of a backend.
type Tier string

// Tier constants.
const (
	TierFree      Tier = "free"
	TierPaid      Tier = "paid"
	TierPremium   Tier = "premium"
	TierSimulator Tier = "simulator"
)

// String returns the string representation of the tier.
func (t Tier) String() string {
	return string(t)
}

// IsValid reports whether the tier is one of the known service classes.
func (t Tier) IsValid() bool {
	switch t {
	case TierFree, TierPaid, TierPremium, TierSimulator:
		return true
	default:
		return false
	}
}

// ParseTier parses a tier name. An empty string yields an empty tier and no error.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if t == "" || t.IsValid() {
		return t, nil
	}
	return "", fmt.Errorf("invalid tier: %s", s)
}

// SupportedTiers returns all supported tiers.
func SupportedTiers() []string {
	return []string{string(TierFree), string(TierPaid), string(TierPremium), string(TierSimulator)}
}

// Complexity is the qualitative algorithm complexity of a job.
type Complexity string

// Complexity constants.
const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// String returns the string representation of the complexity.
func (c Complexity) String() string {
	return string(c)
}

// IsValid reports whether the complexity is known.
func (c Complexity) IsValid() bool {
	switch c {
	case ComplexityLow, ComplexityMedium, ComplexityHigh:
		return true
	default:
		return false
	}
}

// ParseComplexity parses a complexity name. Unknown values return ComplexityMedium
// together with an error the caller may log or ignore.
func ParseComplexity(s string) (Complexity, error) {
	c := Complexity(strings.ToLower(strings.TrimSpace(s)))
	if c == "" {
		return ComplexityMedium, nil
	}
	if !c.IsValid() {
		return ComplexityMedium, fmt.Errorf("invalid complexity: %s", s)
	}
	return c, nil
}

// SupportedComplexities returns all supported complexities.
func SupportedComplexities() []string {
	return []string{string(ComplexityLow), string(ComplexityMedium), string(ComplexityHigh)}
}

// runtimeMultiplier scales execution time. High is deliberately non-linear.
func (c Complexity) runtimeMultiplier() float64 {
	switch c {
	case ComplexityLow:
		return 0.6
	case ComplexityHigh:
		return 2.2
	default:
		return 1.0
	}
}

// throughputFactor is the share of nominal throughput achievable at this complexity.
func (c Complexity) throughputFactor() float64 {
	switch c {
	case ComplexityLow:
		return 1.0
	case ComplexityHigh:
		return 0.6
	default:
		return 0.8
	}
}

func (c Complexity) orDefault() Complexity {
	parsed, _ := ParseComplexity(string(c))
	return parsed
}

// Policy names the weighting scheme that defines the "best" backend.
type Policy string

// Policy constants.
const (
	PolicyAuto          Policy = "auto"
	PolicyBalanced      Policy = "balanced"
	PolicyFastestQueue  Policy = "fastest_queue"
	PolicyLowLatency    Policy = "low_latency"
	PolicyHighestQubits Policy = "highest_qubits"
)

// String returns the string representation of the policy.
func (p Policy) String() string {
	return string(p)
}

// IsValid reports whether the policy is known.
func (p Policy) IsValid() bool {
	switch p {
	case PolicyAuto, PolicyBalanced, PolicyFastestQueue, PolicyLowLatency, PolicyHighestQubits:
		return true
	default:
		return false
	}
}

// ParsePolicy parses a policy name. Unknown values return PolicyAuto together with
// an error the caller may log or ignore.
func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return PolicyAuto, nil
	}
	if !p.IsValid() {
		return PolicyAuto, fmt.Errorf("invalid algorithm: %s", s)
	}
	return p, nil
}

// SupportedPolicies returns all supported policies.
func SupportedPolicies() []string {
	return []string{
		string(PolicyAuto),
		string(PolicyBalanced),
		string(PolicyFastestQueue),
		string(PolicyLowLatency),
		string(PolicyHighestQubits),
	}
}

// BackendDescriptor describes one physical or simulated backend at a point in time.
type BackendDescriptor struct {
	Name        string `json:"name" yaml:"name"`
	NumQubits   int    `json:"num_qubits" yaml:"num_qubits"`
	Operational bool   `json:"operational" yaml:"operational"`
	PendingJobs int    `json:"pending_jobs" yaml:"pending_jobs"`

	// Tier overrides the tier from the profile table when set.
	Tier Tier `json:"tier,omitempty" yaml:"tier,omitempty"`
}

// Validate checks the descriptor invariants.
func (b BackendDescriptor) Validate() error {
	switch {
	case strings.TrimSpace(b.Name) == "":
		return fmt.Errorf("%w: name is empty", ErrMalformedDescriptor)
	case b.NumQubits < 1:
		return fmt.Errorf("%w: %s: num_qubits must be >= 1, got %d", ErrMalformedDescriptor, b.Name, b.NumQubits)
	case b.PendingJobs < 0:
		return fmt.Errorf("%w: %s: pending_jobs must be >= 0, got %d", ErrMalformedDescriptor, b.Name, b.PendingJobs)
	case b.Tier != "" && !b.Tier.IsValid():
		return fmt.Errorf("%w: %s: unknown tier %q", ErrMalformedDescriptor, b.Name, b.Tier)
	}
	return nil
}

// JobRequest carries the characteristics of the job being placed.
type JobRequest struct {
	Complexity Complexity `json:"job_complexity" yaml:"job_complexity"`
	Shots      int        `json:"shots" yaml:"shots"`

	// MinQubits is a hard requirement; 0 means no requirement.
	MinQubits int `json:"min_qubits" yaml:"min_qubits"`

	// MaxWaitSeconds is a soft budget; nil means no budget and 0 means no queueing.
	MaxWaitSeconds *float64 `json:"max_wait_seconds" yaml:"max_wait_seconds"`

	Policy Policy `json:"algorithm" yaml:"algorithm"`
}

// Normalize returns a copy of the request with every default applied.
func (j JobRequest) Normalize() JobRequest {
	out := j
	out.Complexity = j.Complexity.orDefault()
	if !j.Policy.IsValid() {
		out.Policy = PolicyAuto
	}
	if j.Shots <= 0 {
		out.Shots = DefaultShots
	}
	if j.MinQubits < 0 {
		out.MinQubits = 0
	}
	if j.MaxWaitSeconds != nil {
		v := *j.MaxWaitSeconds
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			out.MaxWaitSeconds = nil
		} else {
			out.MaxWaitSeconds = &v
		}
	}
	return out
}

func (j JobRequest) meetsQubitRequirement(b BackendDescriptor) bool {
	return j.MinQubits <= 0 || b.NumQubits >= j.MinQubits
}

// Weights are the per-component weights of a scoring policy.
type Weights struct {
	Queue       float64 `json:"queue" yaml:"queue"`
	Operational float64 `json:"operational" yaml:"operational"`
	Qubits      float64 `json:"qubits" yaml:"qubits"`
}

// ScoreBreakdown exposes the sub-scores and weights behind a score.
type ScoreBreakdown struct {
	QueueScore            float64 `json:"queue_score" yaml:"queue_score"`
	OperationalScore      float64 `json:"operational_score" yaml:"operational_score"`
	QubitScore            float64 `json:"qubit_score" yaml:"qubit_score"`
	PredictedWaitSeconds  float64 `json:"predicted_wait_seconds" yaml:"predicted_wait_seconds"`
	ThroughputJobsPerHour float64 `json:"throughput_jobs_per_hour" yaml:"throughput_jobs_per_hour"`
	Weights               Weights `json:"weights" yaml:"weights"`

	// WaitPenalty is set when the predicted wait exceeded MaxWaitSeconds.
	WaitPenalty bool `json:"wait_penalty,omitempty" yaml:"wait_penalty,omitempty"`

	// Fallback is set when the descriptor could not be evaluated.
	Fallback bool `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// Prediction holds the raw estimates for one backend.
type Prediction struct {
	Name                    string     `json:"name" yaml:"name"`
	NumQubits               int        `json:"num_qubits" yaml:"num_qubits"`
	PendingJobs             int        `json:"pending_jobs" yaml:"pending_jobs"`
	Operational             bool       `json:"operational" yaml:"operational"`
	Tier                    Tier       `json:"tier" yaml:"tier"`
	Complexity              Complexity `json:"job_complexity" yaml:"job_complexity"`
	PredictedRuntimeSeconds float64    `json:"predicted_runtime_seconds" yaml:"predicted_runtime_seconds"`
	PredictedWaitSeconds    float64    `json:"predicted_wait_seconds" yaml:"predicted_wait_seconds"`
	ThroughputJobsPerHour   float64    `json:"throughput_jobs_per_hour" yaml:"throughput_jobs_per_hour"`
	Fallback                bool       `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// Recommendation is one ranked entry.
type Recommendation struct {
	Name                    string         `json:"name" yaml:"name"`
	Score                   float64        `json:"score" yaml:"score"`
	Operational             bool           `json:"operational" yaml:"operational"`
	PendingJobs             int            `json:"pending_jobs" yaml:"pending_jobs"`
	NumQubits               int            `json:"num_qubits" yaml:"num_qubits"`
	Tier                    Tier           `json:"tier,omitempty" yaml:"tier,omitempty"`
	PredictedRuntimeSeconds float64        `json:"predicted_runtime_seconds" yaml:"predicted_runtime_seconds"`
	PredictedWaitSeconds    float64        `json:"predicted_wait_seconds" yaml:"predicted_wait_seconds"`
	ThroughputJobsPerHour   float64        `json:"throughput_jobs_per_hour" yaml:"throughput_jobs_per_hour"`
	Algorithm               Policy         `json:"algorithm" yaml:"algorithm"`
	ScoreBreakdown          ScoreBreakdown `json:"score_breakdown" yaml:"score_breakdown"`
	Explanation             string         `json:"explanation" yaml:"explanation"`
}
