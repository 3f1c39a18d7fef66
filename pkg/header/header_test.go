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

package header

import (
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	h := New(
		WithKind(KindBackendCatalog),
		WithMetadata("source", "file://catalog.yaml"),
	)

	if h.Kind != KindBackendCatalog {
		t.Errorf("kind = %s, want %s", h.Kind, KindBackendCatalog)
	}
	if h.APIVersion != APIVersion {
		t.Errorf("apiVersion = %s, want %s", h.APIVersion, APIVersion)
	}
	if got := h.GetMetadata()["source"]; got != "file://catalog.yaml" {
		t.Errorf("metadata source = %q", got)
	}

	h = New(WithAPIVersion("v0"))
	if h.APIVersion != "v0" {
		t.Errorf("apiVersion override ignored: %s", h.APIVersion)
	}
}

func TestWithMetadataOnEmptyHeader(t *testing.T) {
	var h Header
	WithMetadata("k", "v")(&h)
	if h.Metadata["k"] != "v" {
		t.Error("expected metadata map to be initialized")
	}
}

func TestInit(t *testing.T) {
	var h Header
	h.Init(KindBackendPredictions, "v1.2.3")

	if h.GetKind() != KindBackendPredictions {
		t.Errorf("kind = %s", h.GetKind())
	}
	if h.Metadata["version"] != "v1.2.3" {
		t.Errorf("version = %q", h.Metadata["version"])
	}
	if _, err := time.Parse(time.RFC3339, h.Metadata["timestamp"]); err != nil {
		t.Errorf("timestamp not RFC3339: %v", err)
	}

	h.Init(KindBackendRecommendation, "")
	if _, ok := h.Metadata["version"]; ok {
		t.Error("empty version should not be recorded")
	}
}

func TestKindIsValid(t *testing.T) {
	for _, k := range []Kind{KindBackendCatalog, KindBackendRecommendation, KindBackendPredictions, KindProfileTable} {
		if !k.IsValid() {
			t.Errorf("%s should be valid", k)
		}
	}
	if Kind("Snapshot").IsValid() {
		t.Error("Snapshot should not be valid")
	}
}
