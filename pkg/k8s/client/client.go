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

package client

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// Interface is kubernetes.Interface, so fake clientsets satisfy it in tests.
type Interface = kubernetes.Interface

// Factory returns a Kubernetes client. ConfigMap sources and writers accept one
// so tests can supply a fake clientset.
type Factory func() (Interface, error)

const (
	userAgent = "qadvisor"

	// Catalog reads are small and infrequent, so modest limits are enough.
	clientQPS   = 10
	clientBurst = 20
)

var (
	clientOnce   sync.Once
	cachedClient *kubernetes.Clientset
	cachedConfig *rest.Config
	clientErr    error
)

// GetKubeClient returns the process-wide client, building it on first call from
// KUBECONFIG, ~/.kube/config or the in-cluster service account.
func GetKubeClient() (Interface, *rest.Config, error) {
	clientOnce.Do(func() {
		cachedClient, cachedConfig, clientErr = BuildKubeClient("")
	})
	if clientErr != nil {
		return nil, nil, clientErr
	}
	return cachedClient, cachedConfig, nil
}

// DefaultFactory is a Factory backed by GetKubeClient.
func DefaultFactory() (Interface, error) {
	c, _, err := GetKubeClient()
	return c, err
}

// FactoryFor returns a Factory that builds a dedicated client from kubeconfig,
// or DefaultFactory when kubeconfig is empty.
func FactoryFor(kubeconfig string) Factory {
	if kubeconfig == "" {
		return DefaultFactory
	}
	return func() (Interface, error) {
		c, _, err := BuildKubeClient(kubeconfig)
		return c, err
	}
}

// StaticFactory returns a Factory that always yields c.
func StaticFactory(c Interface) Factory {
	return func() (Interface, error) {
		return c, nil
	}
}

// BuildKubeClient creates a new client, bypassing the shared instance.
// An empty kubeconfig triggers discovery: KUBECONFIG, then ~/.kube/config,
// then in-cluster configuration.
func BuildKubeClient(kubeconfig string) (*kubernetes.Clientset, *rest.Config, error) {
	config, err := restConfig(resolveKubeconfig(kubeconfig))
	if err != nil {
		return nil, nil, err
	}

	config.UserAgent = userAgent
	config.QPS = clientQPS
	config.Burst = clientBurst

	c, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	return c, config, nil
}

// resolveKubeconfig returns the kubeconfig path to use, or "" for in-cluster.
func resolveKubeconfig(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(clientcmd.RecommendedConfigPathEnvVar); env != "" {
		return env
	}
	home := filepath.Join(homedir.HomeDir(), clientcmd.RecommendedHomeDir, clientcmd.RecommendedFileName)
	if _, err := os.Stat(home); err == nil {
		return home
	}
	return ""
}

func restConfig(kubeconfig string) (*rest.Config, error) {
	if kubeconfig == "" {
		config, err := rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to get in-cluster config: %w", err)
		}
		return config, nil
	}
	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build kube config from %s: %w", kubeconfig, err)
	}
	return config, nil
}
