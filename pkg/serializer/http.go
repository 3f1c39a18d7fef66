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
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/qdash/backend-advisor/pkg/defaults"
)

// RespondJSON writes data as JSON with the given status code. The body is encoded
// before any header is written so an encoding failure becomes a clean 500.
func RespondJSON(w http.ResponseWriter, statusCode int, data any) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		slog.Error("json encoding failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	write(w, statusCode, "application/json", buf.Bytes())
}

// Respond writes data as YAML when the request's Accept header asks for it and as
// JSON otherwise.
func Respond(w http.ResponseWriter, r *http.Request, statusCode int, data any) {
	if FormatFromContentType(r.Header.Get("Accept")) != FormatYAML {
		RespondJSON(w, statusCode, data)
		return
	}
	content, err := Marshal(FormatYAML, data)
	if err != nil {
		slog.Error("yaml encoding failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	write(w, statusCode, "application/yaml", content)
}

func write(w http.ResponseWriter, statusCode int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		// Connection is broken, log but can't recover
		slog.Warn("response write failed", "error", err)
	}
}

// HttpReaderUserAgent is sent with every catalog download.
const HttpReaderUserAgent = "qadvisor/1.0"

// HttpReaderOption configures an HttpReader.
type HttpReaderOption func(*HttpReader)

// HttpReader downloads documents over HTTP(S).
type HttpReader struct {
	userAgent string
	maxBytes  int64
	headers   map[string]string
	client    *http.Client
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) HttpReaderOption {
	return func(r *HttpReader) {
		if ua != "" {
			r.userAgent = ua
		}
	}
}

// WithTotalTimeout sets the overall request timeout.
func WithTotalTimeout(d time.Duration) HttpReaderOption {
	return func(r *HttpReader) {
		if d > 0 {
			r.client.Timeout = d
		}
	}
}

// WithMaxBytes caps the size of a response body.
func WithMaxBytes(n int64) HttpReaderOption {
	return func(r *HttpReader) {
		if n > 0 {
			r.maxBytes = n
		}
	}
}

// WithHeader adds a request header, e.g. an Authorization bearer token.
func WithHeader(key, value string) HttpReaderOption {
	return func(r *HttpReader) {
		r.headers[key] = value
	}
}

// WithClient replaces the HTTP client, e.g. with an httptest server's client.
func WithClient(c *http.Client) HttpReaderOption {
	return func(r *HttpReader) {
		if c != nil {
			r.client = c
		}
	}
}

// NewHttpReader creates an HttpReader with pooled connections, TLS 1.2+ and the
// timeouts from pkg/defaults.
func NewHttpReader(opts ...HttpReaderOption) *HttpReader {
	r := &HttpReader{
		userAgent: HttpReaderUserAgent,
		maxBytes:  defaults.HTTPMaxResponseBytes,
		headers:   make(map[string]string),
		client: &http.Client{
			Timeout:   defaults.HTTPClientTimeout,
			Transport: newDefaultHTTPTransport(),
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func newDefaultHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		DialContext: (&net.Dialer{
			Timeout:   defaults.HTTPConnectTimeout,
			KeepAlive: defaults.HTTPKeepAlive,
		}).DialContext,
		TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
		ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
		ExpectContinueTimeout: defaults.HTTPExpectContinueTimeout,
		IdleConnTimeout:       defaults.HTTPIdleConnTimeout,
		ForceAttemptHTTP2:     true,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
}

// ReadWithContext fetches url and returns the body together with the format
// implied by the Content-Type header or the URL path ("" when neither says).
func (r *HttpReader) ReadWithContext(ctx context.Context, url string) ([]byte, Format, error) {
	if url == "" {
		return nil, "", fmt.Errorf("url is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request for url %s: %w", url, err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("http request failed for url %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to fetch %s: status %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	if int64(len(data)) > r.maxBytes {
		return nil, "", fmt.Errorf("response from %s exceeds %d bytes", url, r.maxBytes)
	}

	format := FormatFromContentType(resp.Header.Get("Content-Type"))
	if format == "" {
		format = FormatFromPath(strings.TrimSpace(req.URL.Path))
	}
	return data, format, nil
}
