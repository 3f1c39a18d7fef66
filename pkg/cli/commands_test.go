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

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const testCatalog = `backends:
  - name: ibm_brisbane
    num_qubits: 127
    operational: true
    pending_jobs: 40
  - name: ibm_nairobi
    num_qubits: 7
    operational: true
    pending_jobs: 0
  - name: ibm_kyiv
    num_qubits: 127
    status: online
    queue_length: 2
  - name: ibm_osaka
    num_qubits: 127
    operational: false
    pending_jobs: 0
`

func writeCatalog(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "backends.yaml")
	require.NoError(t, os.WriteFile(p, []byte(testCatalog), 0o600))
	return p
}

func hasName(flag cli.Flag, name string) bool {
	for _, n := range flag.Names() {
		if n == name {
			return true
		}
	}
	return false
}

func TestCommandStructure(t *testing.T) {
	tests := []struct {
		cmd   *cli.Command
		name  string
		flags []string
	}{
		{
			cmd:  recommendCmd(),
			name: "recommend",
			flags: []string{"source", "algorithm", "top-k", "include-inactive", "complexity",
				"min-qubits", "max-wait", "shots", "seed", "no-jitter", "output", "format", "kubeconfig"},
		},
		{
			cmd:  predictCmd(),
			name: "predict",
			flags: []string{"source", "complexity", "min-qubits", "max-wait", "shots",
				"seed", "no-jitter", "output", "format", "kubeconfig"},
		},
		{cmd: backendsCmd(), name: "backends", flags: []string{"source", "output", "format", "kubeconfig"}},
		{cmd: profilesCmd(), name: "profiles", flags: []string{"output", "format"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cmd.Name != tt.name {
				t.Errorf("Name = %v, want %v", tt.cmd.Name, tt.name)
			}
			if tt.cmd.Usage == "" {
				t.Error("Usage should not be empty")
			}
			if tt.cmd.Description == "" {
				t.Error("Description should not be empty")
			}
			if tt.cmd.Action == nil {
				t.Error("Action should not be nil")
			}
			for _, flagName := range tt.flags {
				found := false
				for _, flag := range tt.cmd.Flags {
					if hasName(flag, flagName) {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("required flag %q not found", flagName)
				}
			}
		})
	}
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"recommend", "predict", "backends", "profiles"}, names)
}

func TestCommandLister(t *testing.T) {
	commandLister(context.Background(), nil)

	var buf bytes.Buffer
	root := &cli.Command{
		Name:   "root",
		Writer: &buf,
		Commands: []*cli.Command{
			{Name: "visible1", Hidden: false},
			{Name: "hidden", Hidden: true},
			{Name: "visible2", Hidden: false},
		},
	}
	commandLister(context.Background(), root)

	assert.Equal(t, "visible1\nvisible2\n", buf.String())
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	return newRootCmd().Run(context.Background(), append([]string{name}, args...))
}

func TestRecommendCmd(t *testing.T) {
	catalog := writeCatalog(t)
	out := filepath.Join(t.TempDir(), "rec.json")

	require.NoError(t, run(t, "recommend",
		"--source", catalog,
		"--algorithm", "fastest_queue",
		"--top-k", "2",
		"--no-jitter",
		"--output", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var doc struct {
		Kind            string `json:"kind"`
		Recommendations []struct {
			Name string `json:"name"`
		} `json:"recommendations"`
		Params struct {
			TopK int `json:"top_k"`
		} `json:"params"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "BackendRecommendation", doc.Kind)
	assert.Equal(t, 2, doc.Params.TopK)
	require.Len(t, doc.Recommendations, 2)
	assert.Equal(t, "ibm_nairobi", doc.Recommendations[0].Name)
	assert.Equal(t, "ibm_kyiv", doc.Recommendations[1].Name)
}

func TestPredictCmd(t *testing.T) {
	catalog := writeCatalog(t)
	out := filepath.Join(t.TempDir(), "pred.yaml")

	require.NoError(t, run(t, "predict",
		"--source", catalog,
		"--min-qubits", "100",
		"--no-jitter",
		"--format", "yaml",
		"--output", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var doc struct {
		Kind        string `yaml:"kind"`
		Predictions []struct {
			Name string `yaml:"name"`
		} `yaml:"predictions"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))

	assert.Equal(t, "BackendPredictions", doc.Kind)
	var names []string
	for _, p := range doc.Predictions {
		names = append(names, p.Name)
	}
	// catalog order, inactive included, small device excluded
	assert.Equal(t, []string{"ibm_brisbane", "ibm_kyiv", "ibm_osaka"}, names)
}

func TestBackendsCmd(t *testing.T) {
	catalog := writeCatalog(t)
	out := filepath.Join(t.TempDir(), "backends.txt")

	require.NoError(t, run(t, "backends", "--source", catalog, "--format", "table", "--output", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	table := string(data)
	assert.Contains(t, table, "NAME")
	for _, n := range []string{"ibm_brisbane", "ibm_nairobi", "ibm_kyiv", "ibm_osaka"} {
		assert.Contains(t, table, n)
	}
}

func TestProfilesCmd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "profiles.yaml")

	require.NoError(t, run(t, "profiles", "--format", "yaml", "--output", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "kind: ProfileTable"), string(data))
}

func TestMalformedConfigMapOutputWritesNothing(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	for _, out := range []string{"cm://quantum", "cm://quantum/", "cm:///profiles"} {
		err := run(t, "profiles", "--output", out)
		require.Error(t, err, out)
		assert.Contains(t, err.Error(), "ConfigMap URI", out)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing source", args: []string{"recommend"}},
		{name: "unsupported source scheme", args: []string{"backends", "--source", "ftp://example.com/b.yaml"}},
		{name: "missing catalog file", args: []string{"predict", "--source", "does-not-exist.yaml"}},
		{name: "invalid algorithm", args: []string{"recommend", "--source", "x.yaml", "--algorithm", "nope"}},
		{name: "invalid format", args: []string{"profiles", "--format", "xml"}},
		{name: "malformed configmap output", args: []string{"profiles", "--output", "cm://quantum"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}
