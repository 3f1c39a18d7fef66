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
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/qdash/backend-advisor/pkg/defaults"
	"github.com/qdash/backend-advisor/pkg/recommender"
)

func recommendCmd() *cli.Command {
	flags := []cli.Flag{
		sourceFlag(),
		&cli.StringFlag{
			Name:    "algorithm",
			Aliases: []string{"a"},
			Value:   recommender.PolicyAuto.String(),
			Usage: fmt.Sprintf("Ranking policy (supported values: %s)",
				strings.Join(recommender.SupportedPolicies(), ", ")),
		},
		&cli.IntFlag{
			Name:  "top-k",
			Value: recommender.DefaultTopK,
			Usage: "Number of recommendations to return",
		},
		&cli.BoolFlag{
			Name:  "include-inactive",
			Usage: "Rank backends that are not operational",
		},
	}
	flags = append(flags, jobFlags()...)
	flags = append(flags, outputFlag(), formatFlag(), kubeconfigFlag())

	return &cli.Command{
		Name:                  "recommend",
		Aliases:               []string{"rec"},
		EnableShellCompletion: true,
		Usage:                 "Rank backends for a job",
		Description: `Rank the backends in one or more catalogs for a job.

Policies:
  auto            queue-weighted, or qubit-weighted for large --min-qubits
  balanced        moderate weight on queue, operational state and qubits
  fastest_queue   weighs queue depth most
  low_latency     same weights as fastest_queue
  highest_qubits  weighs qubit headroom most

Examples:
  qadvisor recommend --source backends.yaml --algorithm fastest_queue --top-k 3
  qadvisor recommend -s https://example.com/backends.json -s cm://quantum/backends \
    --min-qubits 100 --max-wait 600 --format table`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, cancel := context.WithTimeout(ctx, defaults.CLICommandTimeout)
			defer cancel()

			p, err := paramsFromCmd(cmd)
			if err != nil {
				return fmt.Errorf("error parsing recommendation input parameter: %w", err)
			}

			b, err := newBuilder(cmd)
			if err != nil {
				return err
			}

			resp, err := b.Recommend(ctx, p)
			if err != nil {
				return fmt.Errorf("error building recommendations: %w", err)
			}

			return writeOutput(ctx, cmd, resp)
		},
	}
}

func predictCmd() *cli.Command {
	flags := []cli.Flag{sourceFlag()}
	flags = append(flags, jobFlags()...)
	flags = append(flags, outputFlag(), formatFlag(), kubeconfigFlag())

	return &cli.Command{
		Name:                  "predict",
		EnableShellCompletion: true,
		Usage:                 "Predict wait, runtime and throughput for every backend",
		Description: `Predict queue wait, runtime and throughput for each backend with at
least --min-qubits qubits, in catalog order, with a fleet summary.
Inactive backends are included.

Example:
  qadvisor predict --source backends.yaml --complexity high --format table`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, cancel := context.WithTimeout(ctx, defaults.CLICommandTimeout)
			defer cancel()

			p, err := paramsFromCmd(cmd)
			if err != nil {
				return fmt.Errorf("error parsing prediction input parameter: %w", err)
			}

			b, err := newBuilder(cmd)
			if err != nil {
				return err
			}

			resp, err := b.Predict(ctx, p)
			if err != nil {
				return fmt.Errorf("error building predictions: %w", err)
			}

			return writeOutput(ctx, cmd, resp)
		},
	}
}
