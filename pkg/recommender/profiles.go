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
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/profiles.yaml
var profilesData []byte

// DefaultProfiles returns the embedded profile table. The table is parsed once.
var DefaultProfiles = sync.OnceValue(func() *ProfileTable {
	t, err := LoadProfiles(profilesData)
	if err != nil {
		panic(fmt.Sprintf("embedded profile table is invalid: %v", err))
	}
	return t
})

// Profile holds the performance characteristics of one backend.
type Profile struct {
	Name         string  `json:"name,omitempty" yaml:"name,omitempty"`
	BaseSeconds  float64 `json:"base_seconds" yaml:"base_seconds"`
	QubitScaling float64 `json:"qubit_scaling" yaml:"qubit_scaling"`
	Tier         Tier    `json:"tier" yaml:"tier"`

	// ParallelJobs and QueueEfficiency override the tier values when positive.
	ParallelJobs    int     `json:"parallel_jobs,omitempty" yaml:"parallel_jobs,omitempty"`
	QueueEfficiency float64 `json:"queue_efficiency,omitempty" yaml:"queue_efficiency,omitempty"`
}

// TierConfig holds queueing assumptions shared by every backend of a tier.
type TierConfig struct {
	ParallelJobs    int     `json:"parallel_jobs" yaml:"parallel_jobs"`
	QueueEfficiency float64 `json:"queue_efficiency" yaml:"queue_efficiency"`
	PriorityFactor  float64 `json:"priority_factor" yaml:"priority_factor"`
}

// ProfileTable is the lookup table used by the predictors.
type ProfileTable struct {
	Fallback Profile             `json:"fallback" yaml:"fallback"`
	Tiers    map[Tier]TierConfig `json:"tiers" yaml:"tiers"`
	Backends []Profile           `json:"backends" yaml:"backends"`

	index map[string]int
}

// LoadProfiles parses and validates a YAML profile table.
func LoadProfiles(data []byte) (*ProfileTable, error) {
	var t ProfileTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse profile table: %w", err)
	}
	if err := t.init(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *ProfileTable) init() error {
	if t.Fallback.BaseSeconds <= 0 {
		return fmt.Errorf("fallback profile must have a positive base_seconds")
	}
	if t.Fallback.Tier == "" {
		t.Fallback.Tier = TierFree
	}
	for tier, cfg := range t.Tiers {
		if !tier.IsValid() {
			return fmt.Errorf("unknown tier %q in profile table", tier)
		}
		if cfg.ParallelJobs < 1 || cfg.QueueEfficiency <= 0 || cfg.QueueEfficiency > 1 || cfg.PriorityFactor <= 0 {
			return fmt.Errorf("tier %s has invalid queue settings", tier)
		}
	}
	t.index = make(map[string]int, len(t.Backends))
	for i, p := range t.Backends {
		key := strings.ToLower(strings.TrimSpace(p.Name))
		switch {
		case key == "":
			return fmt.Errorf("profile %d has no name", i)
		case p.BaseSeconds <= 0:
			return fmt.Errorf("profile %s must have a positive base_seconds", p.Name)
		case p.Tier != "" && !p.Tier.IsValid():
			return fmt.Errorf("profile %s has unknown tier %q", p.Name, p.Tier)
		case p.QueueEfficiency > 1:
			return fmt.Errorf("profile %s has queue_efficiency above 1", p.Name)
		}
		if _, dup := t.index[key]; dup {
			return fmt.Errorf("duplicate profile %s", p.Name)
		}
		t.index[key] = i
	}
	return nil
}

// Lookup returns the profile for the backend name, matched case-insensitively.
func (t *ProfileTable) Lookup(name string) (Profile, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if t.index == nil {
		for _, p := range t.Backends {
			if strings.EqualFold(p.Name, key) {
				return p, true
			}
		}
		return t.Fallback, false
	}
	i, ok := t.index[key]
	if !ok {
		return t.Fallback, false
	}
	return t.Backends[i], true
}

// Names returns the profiled backend names in sorted order.
func (t *ProfileTable) Names() []string {
	names := make([]string, 0, len(t.Backends))
	for _, p := range t.Backends {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

var builtinTiers = map[Tier]TierConfig{
	TierFree:      {ParallelJobs: 1, QueueEfficiency: 0.85, PriorityFactor: 1.0},
	TierPaid:      {ParallelJobs: 2, QueueEfficiency: 0.90, PriorityFactor: 0.8},
	TierPremium:   {ParallelJobs: 3, QueueEfficiency: 0.95, PriorityFactor: 0.6},
	TierSimulator: {ParallelJobs: 10, QueueEfficiency: 0.95, PriorityFactor: 1.0},
}

func (t *ProfileTable) tierConfig(tier Tier) TierConfig {
	if cfg, ok := t.Tiers[tier]; ok {
		return cfg
	}
	if cfg, ok := builtinTiers[tier]; ok {
		return cfg
	}
	return builtinTiers[TierFree]
}

// performance is a profile merged with its tier settings and the descriptor's overrides.
type performance struct {
	baseSeconds     float64
	qubitScaling    float64
	tier            Tier
	parallelJobs    int
	queueEfficiency float64
	priorityFactor  float64
}

func (t *ProfileTable) resolve(b BackendDescriptor) performance {
	p, _ := t.Lookup(b.Name)

	tier := p.Tier
	if b.Tier.IsValid() {
		tier = b.Tier
	}
	if !tier.IsValid() {
		tier = TierFree
	}
	cfg := t.tierConfig(tier)

	perf := performance{
		baseSeconds:     p.BaseSeconds,
		qubitScaling:    p.QubitScaling,
		tier:            tier,
		parallelJobs:    cfg.ParallelJobs,
		queueEfficiency: cfg.QueueEfficiency,
		priorityFactor:  cfg.PriorityFactor,
	}
	if p.ParallelJobs > 0 {
		perf.parallelJobs = p.ParallelJobs
	}
	if p.QueueEfficiency > 0 {
		perf.queueEfficiency = p.QueueEfficiency
	}
	return perf
}
