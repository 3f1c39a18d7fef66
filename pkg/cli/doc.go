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

// Package cli implements the qadvisor command-line interface.
//
// # Commands
//
// recommend - Rank backends for a job:
//
//	qadvisor recommend --source backends.yaml --algorithm fastest_queue --top-k 3
//
// predict - Per-backend wait, runtime and throughput with a fleet summary:
//
//	qadvisor predict --source backends.yaml --complexity high --format table
//
// backends - Print the decoded, merged catalog:
//
//	qadvisor backends -s backends.yaml -s cm://quantum/backends
//
// profiles - Print the performance profile table:
//
//	qadvisor profiles --format yaml
//
// # Sources
//
// --source accepts local files (.yaml, .yml, .json), http(s):// URLs and
// cm://namespace/name ConfigMap URIs, and may be repeated. QADVISOR_SOURCES
// provides a comma separated default.
//
// # Output
//
//	--output, -o   File path or cm://namespace/name (default: stdout)
//	--format, -t   json, yaml or table (default: json)
//
// # Environment Variables
//
//	LOG_LEVEL                 debug, info, warn, error
//	QADVISOR_SOURCES          default --source list
//	QADVISOR_OUTPUT           default --output
//	QADVISOR_FORMAT           default --format
//	QADVISOR_SEED             default --seed
//	QADVISOR_DISABLE_JITTER   default --no-jitter
//	KUBECONFIG                kubeconfig for cm:// sources and output
//
// A .env file in the working directory is loaded before flags are parsed.
package cli
