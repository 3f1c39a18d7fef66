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

// Package header provides the common header carried by advisor documents.
//
// Catalogs, recommendation responses, prediction responses and the profile table
// all embed a Header so they serialize with the same Kubernetes-style fields:
//
//	kind: BackendRecommendation
//	apiVersion: qadvisor.qdash.io/v1
//	metadata:
//	  timestamp: "2025-12-30T10:30:00Z"
//	  version: v0.4.0
//
// # Usage
//
//	var resp Response
//	resp.Init(header.KindBackendRecommendation, version)
//
// or with options:
//
//	h := header.New(
//	    header.WithKind(header.KindBackendCatalog),
//	    header.WithMetadata("source", "cm://quantum/backends"),
//	)
//
// # Timestamps
//
// Timestamps use RFC3339 in UTC. Consumers should check Kind before decoding the
// rest of a document; catalog readers accept documents without a header too.
package header
