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

package backend

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/qdash/backend-advisor/pkg/header"
	"github.com/qdash/backend-advisor/pkg/recommender"
	"github.com/qdash/backend-advisor/pkg/serializer"
)

// Field aliases accepted in catalog documents, most specific first.
var (
	nameKeys    = []string{"name", "backend_name"}
	qubitKeys   = []string{"num_qubits", "n_qubits", "qubits"}
	pendingKeys = []string{"pending_jobs", "queue_length"}
)

// Catalog is the document form of a backend list.
type Catalog struct {
	header.Header `json:",inline" yaml:",inline"`

	Backends []recommender.BackendDescriptor `json:"backends" yaml:"backends"`
}

// NewCatalog wraps backends in a BackendCatalog document.
func NewCatalog(backends []recommender.BackendDescriptor, version string) *Catalog {
	c := &Catalog{Backends: backends}
	c.Init(header.KindBackendCatalog, version)
	return c
}

// TableHeader implements serializer.Tabular.
func (c *Catalog) TableHeader() []string {
	return []string{"NAME", "QUBITS", "PENDING", "OPERATIONAL", "TIER"}
}

// TableRows implements serializer.Tabular.
func (c *Catalog) TableRows() [][]string {
	rows := make([][]string, 0, len(c.Backends))
	for _, b := range c.Backends {
		tier := b.Tier.String()
		if tier == "" {
			tier = "-"
		}
		rows = append(rows, []string{
			b.Name,
			strconv.Itoa(b.NumQubits),
			strconv.Itoa(b.PendingJobs),
			strconv.FormatBool(b.Operational),
			tier,
		})
	}
	return rows
}

// DecodeCatalog decodes a catalog document. The document is either a bare list of
// backend objects or an object with a "backends" list. An empty format is sniffed.
//
// Individual entries are decoded leniently with FromMap; an entry with unusable
// fields is kept as a malformed descriptor and logged, so the recommender can give
// it fallback scores. Only a document that is not a list of objects is an error.
func DecodeCatalog(data []byte, format serializer.Format) ([]recommender.BackendDescriptor, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []recommender.BackendDescriptor{}, nil
	}

	var raw any
	if err := serializer.Unmarshal(format, data, &raw); err != nil {
		return nil, err
	}

	var items []any
	switch doc := raw.(type) {
	case nil:
		return []recommender.BackendDescriptor{}, nil
	case []any:
		items = doc
	case map[string]any:
		list, ok := doc["backends"]
		if !ok {
			return nil, fmt.Errorf("catalog object has no backends field")
		}
		if list == nil {
			return []recommender.BackendDescriptor{}, nil
		}
		if items, ok = list.([]any); !ok {
			return nil, fmt.Errorf("catalog backends field is %T, not a list", list)
		}
	default:
		return nil, fmt.Errorf("catalog must be a list or an object, got %T", raw)
	}

	out := make([]recommender.BackendDescriptor, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			slog.Warn("catalog entry is not an object", "index", i, "type", fmt.Sprintf("%T", item))
			out = append(out, recommender.BackendDescriptor{})
			continue
		}
		b, err := FromMap(m)
		if err != nil {
			slog.Warn("catalog entry partially decoded", "index", i, "backend", b.Name, "error", err)
		}
		out = append(out, b)
	}
	return out, nil
}

// FromMap decodes one backend object. Numbers may be integers, integral floats or
// numeric strings. Operational status comes from an "operational" boolean or a
// "status" string (active, online, operational, available). "queue_length" is
// accepted for pending jobs.
//
// A missing operational status defaults to not operational; the descriptor stays
// valid and the returned error notes the assumption. Other fields that cannot be
// decoded leave the descriptor failing Validate, and the returned error lists them.
func FromMap(m map[string]any) (recommender.BackendDescriptor, error) {
	var b recommender.BackendDescriptor
	var errs []error

	if v, key, ok := lookup(m, nameKeys); ok {
		s, isString := v.(string)
		if !isString || strings.TrimSpace(s) == "" {
			errs = append(errs, fmt.Errorf("%s: expected a non-empty string", key))
		}
		b.Name = strings.TrimSpace(s)
	} else {
		errs = append(errs, errors.New("name: missing"))
	}

	if v, key, ok := lookup(m, qubitKeys); ok {
		n, valid := toInt(v)
		if !valid {
			errs = append(errs, fmt.Errorf("%s: %v is not an integer", key, v))
			n = 0
		}
		b.NumQubits = n
	} else {
		errs = append(errs, errors.New("num_qubits: missing"))
	}

	if v, key, ok := lookup(m, pendingKeys); ok {
		n, valid := toInt(v)
		if !valid {
			errs = append(errs, fmt.Errorf("%s: %v is not an integer", key, v))
			n = -1
		}
		b.PendingJobs = n
	}

	switch {
	case m["operational"] != nil:
		op, valid := toBool(m["operational"])
		if !valid {
			errs = append(errs, fmt.Errorf("operational: %v is not a boolean", m["operational"]))
		}
		b.Operational = op
	case m["status"] != nil:
		s, _ := m["status"].(string)
		b.Operational = statusOperational(s)
	default:
		errs = append(errs, errors.New("operational: missing, assuming not operational"))
	}

	if v, ok := m["tier"]; ok && v != nil {
		s := fmt.Sprint(v)
		t, err := recommender.ParseTier(s)
		if err != nil {
			errs = append(errs, err)
			t = recommender.Tier(s)
		}
		b.Tier = t
	}

	return b, errors.Join(errs...)
}

func lookup(m map[string]any, keys []string) (any, string, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, k, true
		}
	}
	return nil, "", false
}

func toInt(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		if n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		if statusOperational(b) {
			return true, true
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return parsed, err == nil
	default:
		n, ok := toInt(v)
		return n != 0, ok && (n == 0 || n == 1)
	}
}

func statusOperational(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active", "online", "operational", "available":
		return true
	default:
		return false
	}
}
