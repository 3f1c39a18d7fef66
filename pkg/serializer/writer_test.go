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

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type testBackend struct {
	Name   string `json:"name" yaml:"name"`
	Qubits int    `json:"num_qubits" yaml:"num_qubits"`
}

type testTable struct {
	rows [][]string
}

func (t testTable) TableHeader() []string { return []string{"NAME", "QUBITS"} }
func (t testTable) TableRows() [][]string { return t.rows }

func TestWriterSerialize(t *testing.T) {
	data := []testBackend{
		{Name: "ibm_kyiv", Qubits: 127},
		{Name: "ibm_lagos", Qubits: 7},
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewWriter(FormatJSON, &buf).Serialize(context.Background(), data); err != nil {
			t.Fatalf("Serialize failed: %v", err)
		}
		var got []testBackend
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(got) != 2 || got[0] != data[0] {
			t.Errorf("unexpected data: %+v", got)
		}
		if !strings.Contains(buf.String(), "\n  ") {
			t.Error("expected indented JSON")
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewWriter(FormatYAML, &buf).Serialize(context.Background(), data); err != nil {
			t.Fatalf("Serialize failed: %v", err)
		}
		var got []testBackend
		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid YAML: %v", err)
		}
		if len(got) != 2 || got[1] != data[1] {
			t.Errorf("unexpected data: %+v", got)
		}
	})

	t.Run("flattened table uses json names", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewWriter(FormatTable, &buf).Serialize(context.Background(), data); err != nil {
			t.Fatalf("Serialize failed: %v", err)
		}
		out := buf.String()
		for _, want := range []string{"FIELD", "VALUE", "[0].name", "[1].num_qubits", "ibm_lagos"} {
			if !strings.Contains(out, want) {
				t.Errorf("table output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("tabular value", func(t *testing.T) {
		var buf bytes.Buffer
		v := testTable{rows: [][]string{{"ibm_kyiv", "127"}}}
		if err := NewWriter(FormatTable, &buf).Serialize(context.Background(), v); err != nil {
			t.Fatalf("Serialize failed: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), buf.String())
		}
		if !strings.HasPrefix(lines[0], "NAME") || !strings.HasPrefix(lines[1], "ibm_kyiv") {
			t.Errorf("unexpected table:\n%s", buf.String())
		}
	})

	t.Run("empty table", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewWriter(FormatTable, &buf).Serialize(context.Background(), struct{}{}); err != nil {
			t.Fatalf("Serialize failed: %v", err)
		}
		if buf.String() != "<empty>\n" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("unknown format falls back to json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewWriter("xml", &buf).Serialize(context.Background(), data[0]); err != nil {
			t.Fatalf("Serialize failed: %v", err)
		}
		var got testBackend
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("expected JSON fallback: %v", err)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{"yml", FormatYAML, false},
		{" table ", FormatTable, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewFileWriterOrStdout(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.yaml")
		w := NewFileWriterOrStdout(FormatYAML, path)
		if err := w.Serialize(context.Background(), testBackend{Name: "a", Qubits: 1}); err != nil {
			t.Fatalf("Serialize failed: %v", err)
		}
		c, ok := w.(Closer)
		if !ok {
			t.Fatal("file writer should implement Closer")
		}
		if err := c.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if err := c.Close(); err != nil {
			t.Fatalf("second Close failed: %v", err)
		}

		got, err := FromFile[testBackend](path)
		if err != nil {
			t.Fatalf("FromFile failed: %v", err)
		}
		if got.Name != "a" || got.Qubits != 1 {
			t.Errorf("unexpected round trip: %+v", got)
		}
	})

	t.Run("stdout", func(t *testing.T) {
		w, ok := NewFileWriterOrStdout(FormatJSON, "  ").(*Writer)
		if !ok || w.output != os.Stdout {
			t.Error("expected stdout writer for empty path")
		}
	})

	t.Run("configmap", func(t *testing.T) {
		if _, ok := NewFileWriterOrStdout(FormatJSON, "cm://quantum/advice").(*ConfigMapWriter); !ok {
			t.Error("expected ConfigMapWriter for cm:// URI")
		}
		if _, ok := NewFileWriterOrStdout(FormatJSON, "cm://quantum").(*Writer); !ok {
			t.Error("expected stdout fallback for invalid cm:// URI")
		}
	})

	t.Run("uncreatable file falls back to stdout", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "dir", "out.json")
		if _, ok := NewFileWriterOrStdout(FormatJSON, path).(*Writer); !ok {
			t.Error("expected stdout fallback")
		}
	})
}
