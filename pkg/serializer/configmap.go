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
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/qdash/backend-advisor/pkg/defaults"
	"github.com/qdash/backend-advisor/pkg/header"
	"github.com/qdash/backend-advisor/pkg/k8s/client"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	accorev1 "k8s.io/client-go/applyconfigurations/core/v1"
)

const (
	// ConfigMapURIScheme prefixes ConfigMap locations: cm://namespace/name.
	ConfigMapURIScheme = "cm://"

	// ConfigMapDataPrefix is the base name of the data key holding the document,
	// e.g. "advisor.yaml".
	ConfigMapDataPrefix = "advisor"

	fieldManager = "qadvisor"
)

// ParseConfigMapURI splits cm://namespace/name into its parts.
func ParseConfigMapURI(uri string) (namespace, name string, err error) {
	if !strings.HasPrefix(uri, ConfigMapURIScheme) {
		return "", "", fmt.Errorf("invalid ConfigMap URI: must start with %s", ConfigMapURIScheme)
	}

	ns, n, ok := strings.Cut(strings.TrimPrefix(uri, ConfigMapURIScheme), "/")
	if !ok {
		return "", "", fmt.Errorf("invalid ConfigMap URI format: expected %snamespace/name, got %s", ConfigMapURIScheme, uri)
	}
	namespace, name = strings.TrimSpace(ns), strings.TrimSpace(n)
	if namespace == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI: namespace cannot be empty")
	}
	if name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid ConfigMap URI: bad name %q", n)
	}
	return namespace, name, nil
}

// ConfigMapOption configures ConfigMap readers and writers.
type ConfigMapOption func(*configMapOptions)

type configMapOptions struct {
	factory client.Factory
}

// WithKubeClientFactory sets how the Kubernetes client is obtained.
func WithKubeClientFactory(f client.Factory) ConfigMapOption {
	return func(o *configMapOptions) {
		if f != nil {
			o.factory = f
		}
	}
}

func newConfigMapOptions(opts []ConfigMapOption) configMapOptions {
	o := configMapOptions{factory: client.DefaultFactory}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ConfigMapWriter writes serialized documents to a ConfigMap with server-side
// apply, creating it if needed.
type ConfigMapWriter struct {
	namespace string
	name      string
	format    Format
	opts      configMapOptions
}

// NewConfigMapWriter creates a ConfigMapWriter for namespace/name.
func NewConfigMapWriter(namespace, name string, format Format, opts ...ConfigMapOption) *ConfigMapWriter {
	return &ConfigMapWriter{
		namespace: namespace,
		name:      name,
		format:    normalizeFormat(format),
		opts:      newConfigMapOptions(opts),
	}
}

// Serialize stores v under "advisor.<ext>" along with its format and timestamp.
// Values carrying a header label the ConfigMap with their kind and version.
func (w *ConfigMapWriter) Serialize(ctx context.Context, v any) error {
	writeCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapWriteTimeout)
	defer cancel()

	content, err := Marshal(w.format, v)
	if err != nil {
		return fmt.Errorf("failed to serialize for ConfigMap: %w", err)
	}

	kind, version := "unknown", "unknown"
	timestamp := time.Now().UTC().Format(time.RFC3339)
	if h, ok := v.(interface {
		GetKind() header.Kind
		GetMetadata() map[string]string
	}); ok {
		if k := h.GetKind(); k != "" {
			kind = k.String()
		}
		md := h.GetMetadata()
		if md["version"] != "" {
			version = md["version"]
		}
		if md["timestamp"] != "" {
			timestamp = md["timestamp"]
		}
	}

	c, err := w.opts.factory()
	if err != nil {
		return fmt.Errorf("failed to get kubernetes client: %w", err)
	}

	cm := accorev1.ConfigMap(w.name, w.namespace).
		WithLabels(map[string]string{
			"app.kubernetes.io/name":      "qadvisor",
			"app.kubernetes.io/component": kind,
			"app.kubernetes.io/version":   version,
		}).
		WithData(map[string]string{
			dataKey(w.format): string(content),
			"format":          string(w.format),
			"timestamp":       timestamp,
		})

	slog.Info("applying ConfigMap", "namespace", w.namespace, "name", w.name, "format", w.format, "kind", kind)

	_, err = c.CoreV1().ConfigMaps(w.namespace).Apply(writeCtx, cm, metav1.ApplyOptions{
		FieldManager: fieldManager,
		Force:        true,
	})
	if err != nil {
		return fmt.Errorf("failed to apply ConfigMap %s/%s: %w", w.namespace, w.name, err)
	}
	return nil
}

// Close is a no-op; ConfigMapWriter holds no resources.
func (w *ConfigMapWriter) Close() error {
	return nil
}

func dataKey(format Format) string {
	if format == FormatTable {
		return ConfigMapDataPrefix + ".txt"
	}
	return ConfigMapDataPrefix + "." + string(format)
}

// ReadConfigMap returns the first present data key among keys, its content and the
// format implied by the key's extension.
func ReadConfigMap(ctx context.Context, namespace, name string, keys []string, opts ...ConfigMapOption) (string, Format, error) {
	o := newConfigMapOptions(opts)

	readCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapReadTimeout)
	defer cancel()

	c, err := o.factory()
	if err != nil {
		return "", "", fmt.Errorf("failed to get kubernetes client: %w", err)
	}

	cm, err := c.CoreV1().ConfigMaps(namespace).Get(readCtx, name, metav1.GetOptions{})
	if err != nil {
		return "", "", fmt.Errorf("failed to get ConfigMap %s/%s: %w", namespace, name, err)
	}

	for _, key := range keys {
		if content, ok := cm.Data[key]; ok {
			slog.Debug("read ConfigMap", "namespace", namespace, "name", name, "key", key, "size", len(content))
			return content, FormatFromPath(key), nil
		}
	}
	return "", "", fmt.Errorf("ConfigMap %s/%s has none of the keys %s", namespace, name, strings.Join(keys, ", "))
}
