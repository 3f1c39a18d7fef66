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
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/qdash/backend-advisor/pkg/errors"
	"github.com/qdash/backend-advisor/pkg/k8s/client"
	"github.com/qdash/backend-advisor/pkg/recommender"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestNewSource(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		wantType any
		wantName string
		wantErr  bool
	}{
		{name: "file", uri: "testdata/catalog.yaml", wantType: &FileSource{}, wantName: "testdata/catalog.yaml"},
		{name: "file scheme", uri: "file:///tmp/backends.json", wantType: &FileSource{}, wantName: "/tmp/backends.json"},
		{name: "https", uri: "https://example.com/backends.json", wantType: &HTTPSource{}, wantName: "https://example.com/backends.json"},
		{name: "configmap", uri: "cm://quantum/backends", wantType: &ConfigMapSource{}, wantName: "cm://quantum/backends"},
		{name: "configmap missing name", uri: "cm://quantum", wantErr: true},
		{name: "unsupported scheme", uri: "s3://bucket/backends.json", wantErr: true},
		{name: "empty", uri: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewSource(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, src)
			assert.Equal(t, tt.wantName, src.Name())
		})
	}
}

func TestNewSources(t *testing.T) {
	src, err := NewSources([]string{"testdata/catalog.yaml"})
	require.NoError(t, err)
	assert.IsType(t, &FileSource{}, src)

	src, err = NewSources([]string{"testdata/catalog.yaml", "", "testdata/catalog.json"})
	require.NoError(t, err)
	assert.IsType(t, &MultiSource{}, src)
	assert.Equal(t, "testdata/catalog.yaml,testdata/catalog.json", src.Name())

	_, err = NewSources(nil)
	require.Error(t, err)

	_, err = NewSources([]string{"ftp://nope"})
	require.Error(t, err)
}

func TestFileSource(t *testing.T) {
	ctx := context.Background()

	got, err := NewFileSource("testdata/catalog.yaml").Backends(ctx)
	require.NoError(t, err)
	assert.Equal(t, []recommender.BackendDescriptor{
		{Name: "ibm_brisbane", NumQubits: 127, Operational: true, PendingJobs: 12},
		{Name: "ibm_kyoto", NumQubits: 127, Operational: true, PendingJobs: 3, Tier: recommender.TierPaid},
		{Name: "ibmq_qasm_simulator", NumQubits: 32, PendingJobs: 0, Tier: recommender.TierSimulator},
	}, got)

	got, err = NewFileSource("testdata/catalog.json").Backends(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ibm_sherbrooke", got[0].Name)
	assert.Equal(t, 7, got[1].PendingJobs)

	_, err = NewFileSource(filepath.Join(t.TempDir(), "missing.yaml")).Backends(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestFileSourceMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, writeFile(path, `{"backends": 3}`))

	_, err := NewFileSource(path).Backends(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMalformedCatalog))
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/backends.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"backends":[{"name":"ibm_kyiv","num_qubits":127,"status":"active","pending_jobs":5}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	got, err := NewHTTPSource(srv.URL+"/backends.json", nil).Backends(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []recommender.BackendDescriptor{
		{Name: "ibm_kyiv", NumQubits: 127, Operational: true, PendingJobs: 5},
	}, got)

	_, err = NewHTTPSource(srv.URL+"/missing.json", nil).Backends(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnavailable))
}

func TestConfigMapSource(t *testing.T) {
	fc := fake.NewClientset(&corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "backends", Namespace: "quantum"},
		Data: map[string]string{
			"backends.yaml": "- name: ibm_torino\n  num_qubits: 133\n  operational: true\n  pending_jobs: 1\n",
		},
	})

	src, err := NewSource("cm://quantum/backends", WithKubeClientFactory(client.StaticFactory(fc)))
	require.NoError(t, err)

	got, err := src.Backends(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []recommender.BackendDescriptor{
		{Name: "ibm_torino", NumQubits: 133, Operational: true, PendingJobs: 1},
	}, got)

	missing, err := NewSource("cm://quantum/other", WithKubeClientFactory(client.StaticFactory(fc)))
	require.NoError(t, err)
	_, err = missing.Backends(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnavailable))
}

func TestStaticSourceCopies(t *testing.T) {
	in := []recommender.BackendDescriptor{{Name: "a", NumQubits: 5, Operational: true}}
	src := NewStaticSource("static", in)
	in[0].Name = "changed"

	got, err := src.Backends(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", got[0].Name)

	got[0].Name = "mutated"
	again, _ := src.Backends(context.Background())
	assert.Equal(t, "a", again[0].Name)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}
