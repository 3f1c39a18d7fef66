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
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/qdash/backend-advisor/pkg/defaults"
	"github.com/qdash/backend-advisor/pkg/errors"
	"github.com/qdash/backend-advisor/pkg/k8s/client"
	"github.com/qdash/backend-advisor/pkg/recommender"
	"github.com/qdash/backend-advisor/pkg/serializer"
)

// ConfigMapKeys are the data keys a ConfigMap catalog is read from, in order.
var ConfigMapKeys = []string{"backends.yaml", "backends.yml", "backends.json"}

// Source supplies the current list of backends.
type Source interface {
	// Name identifies the source in logs, metrics and errors.
	Name() string

	// Backends fetches the catalog. Implementations must be safe for concurrent use.
	Backends(ctx context.Context) ([]recommender.BackendDescriptor, error)
}

// StaticSource serves a fixed list.
type StaticSource struct {
	name     string
	backends []recommender.BackendDescriptor
}

// NewStaticSource returns a Source that always yields backends.
func NewStaticSource(name string, backends []recommender.BackendDescriptor) *StaticSource {
	return &StaticSource{name: name, backends: slices.Clone(backends)}
}

// Name implements Source.
func (s *StaticSource) Name() string { return s.name }

// Backends implements Source.
func (s *StaticSource) Backends(_ context.Context) ([]recommender.BackendDescriptor, error) {
	return slices.Clone(s.backends), nil
}

// FileSource reads a local JSON or YAML catalog on every call.
type FileSource struct {
	path string
}

// NewFileSource returns a Source for the catalog file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name implements Source.
func (s *FileSource) Name() string { return s.path }

// Backends implements Source.
func (s *FileSource) Backends(_ context.Context) ([]recommender.BackendDescriptor, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		code := errors.ErrCodeUnavailable
		if os.IsNotExist(err) {
			code = errors.ErrCodeNotFound
		}
		return nil, errors.WrapWithContext(code, "failed to read catalog file", err,
			map[string]any{"source": s.path})
	}
	return decode(s.Name(), data, serializer.FormatFromPath(s.path))
}

// HTTPSource downloads a catalog over HTTP(S) on every call.
type HTTPSource struct {
	url    string
	reader *serializer.HttpReader
}

// NewHTTPSource returns a Source for the catalog at url. A nil reader uses the
// default HttpReader.
func NewHTTPSource(url string, reader *serializer.HttpReader) *HTTPSource {
	if reader == nil {
		reader = serializer.NewHttpReader()
	}
	return &HTTPSource{url: url, reader: reader}
}

// Name implements Source.
func (s *HTTPSource) Name() string { return s.url }

// Backends implements Source.
func (s *HTTPSource) Backends(ctx context.Context) ([]recommender.BackendDescriptor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.SourceFetchTimeout)
	defer cancel()

	data, format, err := s.reader.ReadWithContext(ctx, s.url)
	if err != nil {
		code := errors.ErrCodeUnavailable
		if ctx.Err() != nil {
			code = errors.ErrCodeTimeout
		}
		return nil, errors.WrapWithContext(code, "failed to download catalog", err,
			map[string]any{"source": s.url})
	}
	return decode(s.Name(), data, format)
}

// ConfigMapSource reads a catalog from a Kubernetes ConfigMap on every call.
type ConfigMapSource struct {
	namespace string
	name      string
	opts      []serializer.ConfigMapOption
}

// NewConfigMapSource returns a Source for the ConfigMap namespace/name.
func NewConfigMapSource(namespace, name string, opts ...serializer.ConfigMapOption) *ConfigMapSource {
	return &ConfigMapSource{namespace: namespace, name: name, opts: opts}
}

// Name implements Source.
func (s *ConfigMapSource) Name() string {
	return serializer.ConfigMapURIScheme + s.namespace + "/" + s.name
}

// Backends implements Source.
func (s *ConfigMapSource) Backends(ctx context.Context) ([]recommender.BackendDescriptor, error) {
	content, format, err := serializer.ReadConfigMap(ctx, s.namespace, s.name, ConfigMapKeys, s.opts...)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeUnavailable, "failed to read catalog ConfigMap", err,
			map[string]any{"source": s.Name()})
	}
	return decode(s.Name(), []byte(content), format)
}

func decode(source string, data []byte, format serializer.Format) ([]recommender.BackendDescriptor, error) {
	backends, err := DecodeCatalog(data, format)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeMalformedCatalog, "failed to decode catalog", err,
			map[string]any{"source": source})
	}
	return backends, nil
}

// SourceOption configures sources created by NewSource.
type SourceOption func(*sourceOptions)

type sourceOptions struct {
	httpReader  *serializer.HttpReader
	kubeFactory client.Factory
}

// WithHTTPReader sets the reader used for http(s) sources.
func WithHTTPReader(r *serializer.HttpReader) SourceOption {
	return func(o *sourceOptions) {
		o.httpReader = r
	}
}

// WithKubeClientFactory sets how ConfigMap sources obtain a Kubernetes client.
func WithKubeClientFactory(f client.Factory) SourceOption {
	return func(o *sourceOptions) {
		o.kubeFactory = f
	}
}

// NewSource creates a Source from a URI:
//   - http:// or https:// URL
//   - cm://namespace/name ConfigMap
//   - local file path, optionally prefixed with file://
func NewSource(uri string, opts ...SourceOption) (Source, error) {
	var o sourceOptions
	for _, opt := range opts {
		opt(&o)
	}

	uri = strings.TrimSpace(uri)
	switch {
	case uri == "":
		return nil, errors.New(errors.ErrCodeInvalidRequest, "catalog source is empty")
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return NewHTTPSource(uri, o.httpReader), nil
	case strings.HasPrefix(uri, serializer.ConfigMapURIScheme):
		ns, name, err := serializer.ParseConfigMapURI(uri)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid catalog source", err)
		}
		var cmOpts []serializer.ConfigMapOption
		if o.kubeFactory != nil {
			cmOpts = append(cmOpts, serializer.WithKubeClientFactory(o.kubeFactory))
		}
		return NewConfigMapSource(ns, name, cmOpts...), nil
	case strings.Contains(uri, "://") && !strings.HasPrefix(uri, "file://"):
		return nil, errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("unsupported catalog source scheme: %s", uri))
	default:
		return NewFileSource(strings.TrimPrefix(uri, "file://")), nil
	}
}

// NewSources creates one Source per URI and combines them. A single URI yields
// that source directly.
func NewSources(uris []string, opts ...SourceOption) (Source, error) {
	sources := make([]Source, 0, len(uris))
	for _, uri := range uris {
		if strings.TrimSpace(uri) == "" {
			continue
		}
		src, err := NewSource(uri, opts...)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	switch len(sources) {
	case 0:
		return nil, errors.New(errors.ErrCodeInvalidRequest, "no catalog sources configured")
	case 1:
		return sources[0], nil
	default:
		return NewMultiSource(sources...), nil
	}
}
