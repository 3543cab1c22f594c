// Copyright (c) 2026 Melodia. All rights reserved.

// Package jobs runs the background maintenance schedule of the API process.
//
// # Architecture
//
// The scheduler owns a single cron runner. Jobs are plain methods calling
// into domain services; they never talk to storage directly.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// TokenSweeper is the slice of the auth service the scheduler needs.
type TokenSweeper interface {
	CleanupExpiredTokens(context context.Context)
}

// Scheduler triggers periodic maintenance work on a cron cadence.
type Scheduler struct {
	cron    *cron.Cron
	sweeper TokenSweeper
	logger  *slog.Logger
}

// NewScheduler constructs a stopped [Scheduler]; call [Scheduler.Start] to
// begin ticking.
func NewScheduler(sweeper TokenSweeper, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		sweeper: sweeper,
		logger:  logger,
	}
}

// Start registers the jobs and begins the cron loop.
//
// # Schedule
//   - 03:00 daily: sweep expired and used tokens from all token tables.
func (scheduler *Scheduler) Start() error {
	if _, err := scheduler.cron.AddFunc("0 3 * * *", scheduler.runTokenCleanup); err != nil {
		return err
	}

	scheduler.cron.Start()
	scheduler.logger.Info("maintenance scheduler started")
	return nil
}

// Stop halts the cron loop and waits up to five seconds for a running job to
// finish.
func (scheduler *Scheduler) Stop() {
	stopContext := scheduler.cron.Stop()

	select {
	case <-stopContext.Done():
	case <-time.After(5 * time.Second):
		scheduler.logger.Warn("maintenance job did not finish before shutdown deadline")
	}
}

func (scheduler *Scheduler) runTokenCleanup() {
	runContext, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	started := time.Now()
	scheduler.sweeper.CleanupExpiredTokens(runContext)
	scheduler.logger.Info("token cleanup finished",
		slog.Duration("elapsed", time.Since(started)),
	)
}
