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

// Package client builds the Kubernetes client used for ConfigMap catalog sources
// and ConfigMap output.
//
// GetKubeClient returns a process-wide client created once with sync.Once.
// Configuration is discovered from, in order:
//   - KUBECONFIG
//   - ~/.kube/config
//   - the in-cluster service account
//
// BuildKubeClient creates a dedicated client for an explicit kubeconfig path.
//
// Components that talk to the API server take a Factory rather than a client,
// so tests can pass StaticFactory(fake.NewClientset(...)):
//
//	src := backend.NewConfigMapSource("quantum", "backends",
//	    serializer.WithKubeClientFactory(client.StaticFactory(fakeClient)))
package client
