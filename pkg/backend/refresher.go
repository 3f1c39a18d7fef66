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
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/qdash/backend-advisor/pkg/defaults"
	"github.com/qdash/backend-advisor/pkg/logging"
)

// Refreshable is a source that can be refreshed ahead of expiry.
type Refreshable interface {
	Name() string
	Refresh(ctx context.Context) error
}

// Refresher refreshes a source on a cron schedule so requests rarely wait on
// an upstream fetch. Runs that overlap a still-running refresh are skipped.
type Refresher struct {
	source   Refreshable
	schedule string
	cron     *cron.Cron

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewRefresher validates schedule and returns a stopped Refresher. An empty
// schedule uses defaults.CatalogRefreshSchedule.
func NewRefresher(source Refreshable, schedule string) (*Refresher, error) {
	if schedule == "" {
		schedule = defaults.CatalogRefreshSchedule
	}

	logger := cron.PrintfLogger(logging.NewLogLogger(slog.LevelDebug, false))
	r := &Refresher{
		source:   source,
		schedule: schedule,
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
	}

	if _, err := r.cron.AddFunc(schedule, r.run); err != nil {
		return nil, err
	}
	return r, nil
}

// Schedule returns the cron expression in use.
func (r *Refresher) Schedule() string { return r.schedule }

// Start performs one refresh synchronously and then starts the schedule.
// The initial refresh error is returned but does not prevent scheduling.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.mu.Unlock()

	err := r.refresh()
	r.cron.Start()
	slog.Info("catalog refresher started",
		"source", r.source.Name(),
		"schedule", r.schedule)
	return err
}

// Stop halts the schedule and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()

	<-r.cron.Stop().Done()
	slog.Info("catalog refresher stopped", "source", r.source.Name())
}

func (r *Refresher) run() {
	_ = r.refresh()
}

func (r *Refresher) refresh() error {
	r.mu.Lock()
	ctx := r.ctx
	r.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := r.source.Refresh(ctx); err != nil {
		slog.Error("catalog refresh failed",
			"source", r.source.Name(),
			"error", err)
		return err
	}
	slog.Debug("catalog refresh completed", "source", r.source.Name())
	return nil
}
