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

	"github.com/urfave/cli/v3"

	"github.com/qdash/backend-advisor/pkg/defaults"
	"github.com/qdash/backend-advisor/pkg/recommendation"
)

func backendsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "backends",
		EnableShellCompletion: true,
		Usage:                 "Print the decoded backend catalog",
		Description: `Fetch and decode the backend catalogs given by --source and print the
merged result. Entries that could not be fully decoded are kept and
logged with the offending fields.

Example:
  qadvisor backends --source backends.yaml --format table`,
		Flags: []cli.Flag{
			sourceFlag(),
			outputFlag(),
			formatFlag(),
			kubeconfigFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, cancel := context.WithTimeout(ctx, defaults.CLICommandTimeout)
			defer cancel()

			b, err := newBuilder(cmd)
			if err != nil {
				return err
			}

			catalog, err := b.Catalog(ctx)
			if err != nil {
				return fmt.Errorf("error loading backend catalog: %w", err)
			}

			return writeOutput(ctx, cmd, catalog)
		},
	}
}

func profilesCmd() *cli.Command {
	return &cli.Command{
		Name:                  "profiles",
		EnableShellCompletion: true,
		Usage:                 "Print the backend performance profile table",
		Description: `Print the per-backend and per-tier performance profiles used to predict
runtime and throughput, followed by the fallback profile.

Example:
  qadvisor profiles --format yaml`,
		Flags: []cli.Flag{
			outputFlag(),
			formatFlag(),
			kubeconfigFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			b := recommendation.NewBuilder(recommendation.WithVersion(version))
			return writeOutput(ctx, cmd, b.Profiles())
		},
	}
}
