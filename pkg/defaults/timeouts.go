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

package defaults

import "time"

// Catalog timeouts and intervals for backend catalog sources.
const (
	// SourceFetchTimeout bounds a single catalog fetch from a file, URL or ConfigMap.
	SourceFetchTimeout = 15 * time.Second

	// CatalogCacheTTL is how long a fetched catalog is served before it is refreshed.
	CatalogCacheTTL = 60 * time.Second

	// CatalogRefreshSchedule is the cron schedule for background catalog refresh.
	CatalogRefreshSchedule = "@every 30s"
)

// Handler timeouts for HTTP request processing.
const (
	// RecommendHandlerTimeout is the timeout for recommendation and prediction requests.
	RecommendHandlerTimeout = 20 * time.Second

	// ResponseCacheTTL is the Cache-Control max-age for recommendation responses.
	// Kept short because queue lengths move quickly.
	ResponseCacheTTL = 15 * time.Second
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// HTTP client timeouts for outbound requests.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second

	// HTTPExpectContinueTimeout is the timeout for Expect: 100-continue.
	HTTPExpectContinueTimeout = 1 * time.Second

	// HTTPMaxResponseBytes caps the size of a downloaded catalog.
	HTTPMaxResponseBytes = 8 << 20
)

// ConfigMap timeouts for Kubernetes ConfigMap operations.
const (
	// ConfigMapReadTimeout is the timeout for reading catalogs from ConfigMaps.
	ConfigMapReadTimeout = 10 * time.Second

	// ConfigMapWriteTimeout is the timeout for writing results to ConfigMaps.
	ConfigMapWriteTimeout = 30 * time.Second
)

// CLI timeouts for command-line operations.
const (
	// CLICommandTimeout bounds a single CLI command including catalog fetches.
	CLICommandTimeout = 2 * time.Minute
)
