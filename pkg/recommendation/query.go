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
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"k8s.io/utils/ptr"

	"github.com/qdash/backend-advisor/pkg/recommender"
)

// Request field names, shared by query parameters and JSON bodies.
const (
	ParamAlgorithm       = "algorithm"
	ParamComplexity      = "job_complexity"
	ParamTopK            = "top_k"
	ParamMinQubits       = "min_qubits"
	ParamMaxWaitSeconds  = "max_wait_seconds"
	ParamIncludeInactive = "include_inactive"
	ParamShots           = "shots"
)

// maxBodyBytes bounds POST bodies; requests are a handful of scalar fields.
const maxBodyBytes = 64 << 10

// Params is a recommendation or prediction request. It is echoed back in
// responses after Normalize.
type Params struct {
	Algorithm       recommender.Policy     `json:"algorithm" yaml:"algorithm"`
	Complexity      recommender.Complexity `json:"job_complexity" yaml:"job_complexity"`
	TopK            int                    `json:"top_k" yaml:"top_k"`
	MinQubits       int                    `json:"min_qubits" yaml:"min_qubits"`
	MaxWaitSeconds  *float64               `json:"max_wait_seconds,omitempty" yaml:"max_wait_seconds,omitempty"`
	IncludeInactive bool                   `json:"include_inactive" yaml:"include_inactive"`
	Shots           int                    `json:"shots" yaml:"shots"`
}

// DefaultParams returns the parameters used for fields a request leaves out.
func DefaultParams() Params {
	return Params{
		Algorithm:  recommender.PolicyAuto,
		Complexity: recommender.ComplexityMedium,
		TopK:       recommender.DefaultTopK,
		Shots:      recommender.DefaultShots,
	}
}

// Job returns the normalized engine request.
func (p Params) Job() recommender.JobRequest {
	return recommender.JobRequest{
		Complexity:     p.Complexity,
		Shots:          p.Shots,
		MinQubits:      p.MinQubits,
		MaxWaitSeconds: p.MaxWaitSeconds,
		Policy:         p.Algorithm,
	}.Normalize()
}

// Normalize applies defaults to out-of-range values.
func (p Params) Normalize() Params {
	job := p.Job()
	out := Params{
		Algorithm:       job.Policy,
		Complexity:      job.Complexity,
		TopK:            p.TopK,
		MinQubits:       job.MinQubits,
		MaxWaitSeconds:  job.MaxWaitSeconds,
		IncludeInactive: p.IncludeInactive,
		Shots:           job.Shots,
	}
	if out.TopK <= 0 {
		out.TopK = recommender.DefaultTopK
	}
	return out
}

// ParseQuery reads parameters from URL query values. Malformed values are
// ignored and leave the default in place.
func ParseQuery(values url.Values) Params {
	p := DefaultParams()
	for _, key := range []string{
		ParamAlgorithm, ParamComplexity, ParamTopK, ParamMinQubits,
		ParamMaxWaitSeconds, ParamIncludeInactive, ParamShots,
	} {
		if values.Has(key) {
			p.set(key, values.Get(key))
		}
	}
	return p.Normalize()
}

// ParseBody reads parameters from a JSON object. An empty body yields the
// defaults; a body that is not a JSON object is an error. Individual malformed
// fields are ignored.
func ParseBody(body io.Reader) (Params, error) {
	return parseBodyOver(DefaultParams(), body)
}

// ParseRequest reads parameters from the query string and, for POST, from the
// JSON body, which takes precedence.
func ParseRequest(r *http.Request) (Params, error) {
	p := ParseQuery(r.URL.Query())
	if r.Method != http.MethodPost || r.Body == nil {
		return p, nil
	}
	return parseBodyOver(p, io.LimitReader(r.Body, maxBodyBytes))
}

func parseBodyOver(p Params, body io.Reader) (Params, error) {
	var fields map[string]any
	if err := json.NewDecoder(body).Decode(&fields); err != nil {
		if err == io.EOF {
			return p.Normalize(), nil
		}
		return p, fmt.Errorf("request body must be a JSON object: %w", err)
	}
	for key, v := range fields {
		p.set(key, v)
	}
	return p.Normalize(), nil
}

// set applies one raw value. v is a string from a query or a decoded JSON value.
func (p *Params) set(key string, v any) {
	ok := true
	switch key {
	case ParamAlgorithm:
		s, isString := v.(string)
		if !isString {
			ok = false
			break
		}
		p.Algorithm, _ = recommender.ParsePolicy(s)
	case ParamComplexity:
		s, isString := v.(string)
		if !isString {
			ok = false
			break
		}
		p.Complexity, _ = recommender.ParseComplexity(s)
	case ParamTopK:
		var n int
		if n, ok = intValue(v); ok {
			p.TopK = n
		}
	case ParamMinQubits:
		var n int
		if n, ok = intValue(v); ok {
			p.MinQubits = n
		}
	case ParamShots:
		var n int
		if n, ok = intValue(v); ok {
			p.Shots = n
		}
	case ParamMaxWaitSeconds:
		if v == nil {
			p.MaxWaitSeconds = nil
			break
		}
		var f float64
		if f, ok = floatValue(v); ok {
			p.MaxWaitSeconds = ptr.To(f)
		}
	case ParamIncludeInactive:
		var b bool
		if b, ok = boolValue(v); ok {
			p.IncludeInactive = b
		}
	default:
		return
	}
	if !ok {
		slog.Debug("ignoring malformed request field", "field", key, "value", v)
	}
}

func floatValue(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
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
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func intValue(v any) (int, bool) {
	f, ok := floatValue(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func boolValue(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case float64:
		return b != 0, b == 0 || b == 1
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "1", "t", "true", "yes", "on":
			return true, true
		case "0", "f", "false", "no", "off", "":
			return false, true
		}
	}
	return false, false
}
