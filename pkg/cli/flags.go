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

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"
	"k8s.io/utils/ptr"

	"github.com/qdash/backend-advisor/pkg/backend"
	"github.com/qdash/backend-advisor/pkg/k8s/client"
	"github.com/qdash/backend-advisor/pkg/recommendation"
	"github.com/qdash/backend-advisor/pkg/recommender"
	"github.com/qdash/backend-advisor/pkg/serializer"
)

// Shared flags are constructed per command.

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output destination: file path, cm://namespace/name, or stdout when empty",
		Sources: cli.EnvVars("QADVISOR_OUTPUT"),
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatJSON),
		Usage:   fmt.Sprintf("Output format (supported values: %s)", strings.Join(serializer.SupportedFormats(), ", ")),
		Sources: cli.EnvVars("QADVISOR_FORMAT"),
	}
}

func kubeconfigFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "kubeconfig",
		Usage:   "Path to kubeconfig for cm:// sources and output (default: KUBECONFIG, ~/.kube/config, in-cluster)",
		Sources: cli.EnvVars("KUBECONFIG"),
	}
}

func sourceFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:     "source",
		Aliases:  []string{"s"},
		Usage:    "Backend catalog: file path, http(s):// URL or cm://namespace/name (repeatable)",
		Sources:  cli.EnvVars("QADVISOR_SOURCES"),
		Required: true,
	}
}

// jobFlags are shared by recommend and predict.
func jobFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "complexity",
			Value: recommender.ComplexityMedium.String(),
			Usage: fmt.Sprintf("Job complexity (supported values: %s)",
				strings.Join(recommender.SupportedComplexities(), ", ")),
		},
		&cli.IntFlag{
			Name:  "min-qubits",
			Usage: "Minimum number of qubits the job needs",
		},
		&cli.FloatFlag{
			Name:  "max-wait",
			Usage: "Maximum acceptable queue wait in seconds",
		},
		&cli.IntFlag{
			Name:  "shots",
			Value: recommender.DefaultShots,
			Usage: "Number of shots",
		},
		&cli.Int64Flag{
			Name:    "seed",
			Usage:   "Seed for reproducible estimate jitter",
			Sources: cli.EnvVars("QADVISOR_SEED"),
		},
		&cli.BoolFlag{
			Name:    "no-jitter",
			Usage:   "Disable random estimate jitter",
			Sources: cli.EnvVars("QADVISOR_DISABLE_JITTER"),
		},
	}
}

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", f)
	}
	return f, nil
}

// paramsFromCmd builds request parameters from flags. Unlike the HTTP API,
// invalid enum values are rejected.
func paramsFromCmd(cmd *cli.Command) (recommendation.Params, error) {
	p := recommendation.DefaultParams()

	if s := cmd.String("algorithm"); s != "" {
		policy, err := recommender.ParsePolicy(s)
		if err != nil {
			return p, fmt.Errorf("algorithm: %q, supported values: %v", s, recommender.SupportedPolicies())
		}
		p.Algorithm = policy
	}
	if s := cmd.String("complexity"); s != "" {
		c, err := recommender.ParseComplexity(s)
		if err != nil {
			return p, fmt.Errorf("complexity: %q, supported values: %v", s, recommender.SupportedComplexities())
		}
		p.Complexity = c
	}

	if cmd.IsSet("top-k") {
		p.TopK = cmd.Int("top-k")
	}
	if cmd.IsSet("min-qubits") {
		p.MinQubits = cmd.Int("min-qubits")
	}
	if cmd.IsSet("max-wait") {
		p.MaxWaitSeconds = ptr.To(cmd.Float("max-wait"))
	}
	if cmd.IsSet("shots") {
		p.Shots = cmd.Int("shots")
	}
	p.IncludeInactive = cmd.Bool("include-inactive")

	return p.Normalize(), nil
}

func engineOptions(cmd *cli.Command) []recommender.Option {
	var opts []recommender.Option
	if cmd.IsSet("seed") {
		opts = append(opts, recommender.WithSeed(cmd.Int64("seed")))
	}
	if cmd.Bool("no-jitter") {
		opts = append(opts, recommender.WithoutJitter())
	}
	return opts
}

func kubeFactory(cmd *cli.Command) client.Factory {
	return client.FactoryFor(cmd.String("kubeconfig"))
}

// newBuilder creates a recommendation builder over the --source catalogs.
func newBuilder(cmd *cli.Command) (*recommendation.Builder, error) {
	src, err := backend.NewSources(cmd.StringSlice("source"),
		backend.WithKubeClientFactory(kubeFactory(cmd)))
	if err != nil {
		return nil, err
	}

	return recommendation.NewBuilder(
		recommendation.WithSource(src),
		recommendation.WithRecommender(recommender.New(engineOptions(cmd)...)),
		recommendation.WithVersion(version),
	), nil
}

// writeOutput serializes v to --output in --format.
func writeOutput(ctx context.Context, cmd *cli.Command, v any) error {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	ser, err := newSerializer(cmd, format)
	if err != nil {
		return err
	}
	defer func() {
		if closer, ok := ser.(serializer.Closer); ok {
			if err := closer.Close(); err != nil {
				slog.Warn("failed to close serializer", "error", err)
			}
		}
	}()

	return ser.Serialize(ctx, v)
}

func newSerializer(cmd *cli.Command, format serializer.Format) (serializer.Serializer, error) {
	out := strings.TrimSpace(cmd.String("output"))
	if strings.HasPrefix(out, serializer.ConfigMapURIScheme) {
		namespace, cmName, err := serializer.ParseConfigMapURI(out)
		if err != nil {
			return nil, fmt.Errorf("invalid --output: %w", err)
		}
		return serializer.NewConfigMapWriter(namespace, cmName, format,
			serializer.WithKubeClientFactory(kubeFactory(cmd))), nil
	}
	return serializer.NewFileWriterOrStdout(format, out), nil
}
